// Package strata implements a concurrent associative container keyed by
// arbitrary hashable values.
//
// The map is built on a layered bucket geometry: instead of a power-of-two
// array that gets rehashed on growth, the table is a sequence of
// disjointly-sized strata (see prime_32.go / prime_64.go for the fixed prime
// table that pins their sizes). Growing the table appends a new stratum;
// existing entries never move.
//
// Each bucket ("slot") is guarded independently by a slotLock, a single
// atomic word that packs an occupancy flag, a writer-held flag, and a live
// reader count (see lock.go). Table-wide size accounting avoids a shared hot
// counter by lending each in-flight Write or Delete call its own shard of a
// distributed counter, coordinated by a manager that recomputes growth
// thresholds and supports an exact, barrier-synchronized read on demand (see
// counter.go).
//
// strata.Table is safe for concurrent use by multiple goroutines. It does
// not support iteration, ordered traversal, persistence, or shrinking.
package strata
