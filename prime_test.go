package strata

import "testing"

func TestPrimeAt_NegativeIsZero(t *testing.T) {
	if got := primeAt(-1); got != 0 {
		t.Errorf("primeAt(-1) = %d, want 0", got)
	}
}

func TestPrimeAt_MatchesTable(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := primeAt(i); got != primes[i] {
			t.Errorf("primeAt(%d) = %d, want %d", i, got, primes[i])
		}
	}
}

func TestRawHash_WithinBounds(t *testing.T) {
	for layer := 0; layer < 5; layer++ {
		for _, h := range []uint64{0, 1, 12345, ^uint64(0)} {
			raw := rawHash(h, layer)
			if raw >= primes[layer] {
				t.Errorf("rawHash(%d, %d) = %d, out of bounds [0, %d)", h, layer, raw, primes[layer])
			}
		}
	}
}

func TestLayerAndSlot_CoversEveryLayerBoundary(t *testing.T) {
	for layer := 0; layer < 6; layer++ {
		lo := primeAt(layer - 1)
		hi := primes[layer]

		gotLayer, gotSlot := layerAndSlot(lo)
		if gotLayer != layer || gotSlot != 0 {
			t.Errorf("layerAndSlot(%d) = (%d, %d), want (%d, 0)", lo, gotLayer, gotSlot, layer)
		}

		gotLayer, gotSlot = layerAndSlot(hi - 1)
		if gotLayer != layer || gotSlot != hi-1-lo {
			t.Errorf("layerAndSlot(%d) = (%d, %d), want (%d, %d)", hi-1, gotLayer, gotSlot, layer, hi-1-lo)
		}
	}
}

func TestLayerAndSlot_ReconstructsRawHash(t *testing.T) {
	for _, raw := range []uint64{0, 1, 100, 2632, 2633, 6732, 6733, 14928, 500000} {
		layer, slot := layerAndSlot(raw)
		if got := primeAt(layer-1) + slot; got != raw {
			t.Errorf("layerAndSlot(%d) = (%d, %d), primeAt(layer-1)+slot = %d, want %d", raw, layer, slot, got, raw)
		}
	}
}
