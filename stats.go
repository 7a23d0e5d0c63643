package strata

import (
	"fmt"
	"strings"

	"github.com/sugawarayuuta/sonnet"
)

// TableStats reports diagnostic statistics for a Table.
//
// Warning: this is a diagnostic-only type; its shape may change even
// between minor releases.
type TableStats struct {
	// Strata is the number of allocated strata (layers).
	Strata int
	// Capacity is the total slot count across every allocated stratum.
	Capacity uint64
	// Size is the exact entry count, from Table.Size.
	Size uint64
	// OccupiedSlots is the number of slots with at least one entry
	// (a main pair, possibly plus collisions).
	OccupiedSlots uint64
	// EmptySlots is Capacity - OccupiedSlots.
	EmptySlots uint64
	// CollisionEntries is the number of entries stored in a slot's
	// collision list rather than as its main pair.
	CollisionEntries uint64
	// MaxChainLen is the longest collision list observed on any slot.
	MaxChainLen int
	// TotalGrowths is the number of times the table appended a stratum.
	TotalGrowths uint32
}

// Stats walks every allocated stratum and slot to compute a TableStats
// snapshot. It is thread-safe but O(N); use it for diagnostics, not on a
// hot path.
func (t *Table[K, V]) Stats() *TableStats {
	l := t.strata.Load()
	strataSlice := *l

	stats := &TableStats{
		Strata:       len(strataSlice),
		Capacity:     primes[len(strataSlice)-1],
		Size:         t.Size(),
		TotalGrowths: t.totalGrowths.Load(),
	}

	for _, stratum := range strataSlice {
		for i := range stratum {
			s := &stratum[i]
			rg := s.lock.rLock()
			if rg.Occupied() {
				stats.OccupiedSlots++
				chainLen := len(s.collisions)
				stats.CollisionEntries += uint64(chainLen)
				if chainLen > stats.MaxChainLen {
					stats.MaxChainLen = chainLen
				}
			}
			rg.Unlock()
		}
	}
	stats.EmptySlots = stats.Capacity - stats.OccupiedSlots

	return stats
}

// String implements fmt.Stringer.
func (s *TableStats) String() string {
	var sb strings.Builder
	sb.WriteString("TableStats{\n")
	fmt.Fprintf(&sb, "Strata:           %d\n", s.Strata)
	fmt.Fprintf(&sb, "Capacity:         %d\n", s.Capacity)
	fmt.Fprintf(&sb, "Size:             %d\n", s.Size)
	fmt.Fprintf(&sb, "OccupiedSlots:    %d\n", s.OccupiedSlots)
	fmt.Fprintf(&sb, "EmptySlots:       %d\n", s.EmptySlots)
	fmt.Fprintf(&sb, "CollisionEntries: %d\n", s.CollisionEntries)
	fmt.Fprintf(&sb, "MaxChainLen:      %d\n", s.MaxChainLen)
	fmt.Fprintf(&sb, "TotalGrowths:     %d\n", s.TotalGrowths)
	sb.WriteString("}\n")
	return sb.String()
}

// String implements fmt.Stringer for Table itself. Table has no
// enumeration API, so it renders its Stats instead.
func (t *Table[K, V]) String() string {
	return t.Stats().String()
}

// MarshalJSON serializes a Table's Stats snapshot, using
// github.com/sugawarayuuta/sonnet as a drop-in, faster replacement for
// encoding/json. Table has no direct map-literal analogue to marshal, so
// it marshals its Stats instead.
func (t *Table[K, V]) MarshalJSON() ([]byte, error) {
	return sonnet.Marshal(t.Stats())
}
