package strata

import "math/bits"

// maxLayerCount bounds how many strata a table may ever grow to; it is
// simply the length of the fixed prime table for the running architecture.
var maxLayerCount = len(primes)

// lowestNextPower is 2^lowestExponent, i.e. one more than nextPowers[-1]
// would be if the table had a stratum -1.
var lowestNextPower = uint64(1) << lowestExponent

// primeAt returns primes[i], with the convention primes[-1] == 0 so stratum
// 0's length is primes[0]-0 and slot indices never need a branch for the
// first stratum.
func primeAt(i int) uint64 {
	if i < 0 {
		return 0
	}
	return primes[i]
}

// rawHash folds a key's hash into [0, primes[lastLayer)), a dense index
// into the virtual concatenation of every stratum up to and including
// lastLayer.
func rawHash(h uint64, lastLayer int) uint64 {
	return (h & nextPowers[lastLayer]) % primes[lastLayer]
}

// layerAndSlot locates the (layer, slot) a raw hash belongs in, using
// bits.Len64 to find the position of the highest set bit.
func layerAndSlot(raw uint64) (layer int, slot uint64) {
	adjusted := raw
	if raw < lowestNextPower {
		adjusted += lowestNextPower
	}
	layer = bits.Len64(adjusted) - 1 - int(lowestExponent)
	if raw >= primes[layer] {
		layer++
	}
	slot = raw - primeAt(layer-1)
	return layer, slot
}
