package strata

import "sync/atomic"

// loadShardWord loads a shard's value/threshold word, using sync/atomic
// unless atomicLevel opts out of it.
//
//go:nosplit
func loadShardWord(addr *int64) int64 {
	if atomicLevel >= 1 {
		return *addr
	}
	return atomic.LoadInt64(addr)
}

// storeShardWord stores a shard's value/threshold word, using sync/atomic
// unless atomicLevel opts out of it.
//
//go:nosplit
func storeShardWord(addr *int64, val int64) {
	if atomicLevel >= 2 {
		*addr = val
	} else {
		atomic.StoreInt64(addr, val)
	}
}
