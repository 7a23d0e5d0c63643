//go:build !(amd64 || arm64 || ppc64 || ppc64le || mips64 || mips64le || riscv64 || s390x || wasm)

package strata

// lowestExponent and the prime/power tables below fix the bucket geometry
// for 32-bit architectures; changing them changes where every existing key
// lives.
const lowestExponent = 9

// primes is the fixed prime table P, 32-bit variant. See prime_64.go for
// the field-by-field description; the values differ but the invariants
// (NP[i] < P[i+1] < NP[i+1], P[i+1] > P[i] + NP[i], ...) are the same.
var primes = [...]uint64{
	757, 1783, 3833, 7937,
	16141, 32537, 65327, 130873,
	261977, 524123, 1048433, 2097013,
	4194167, 8388473, 16777121, 33554341,
	67108777, 134217649, 268435399, 536870869,
	1073741789, 2147483629, 4294967291,
}

// nextPowers is the fixed power table NP, 32-bit variant.
var nextPowers = [...]uint64{
	1<<10 - 1, 1<<11 - 1, 1<<12 - 1, 1<<13 - 1,
	1<<14 - 1, 1<<15 - 1, 1<<16 - 1, 1<<17 - 1,
	1<<18 - 1, 1<<19 - 1, 1<<20 - 1, 1<<21 - 1,
	1<<22 - 1, 1<<23 - 1, 1<<24 - 1, 1<<25 - 1,
	1<<26 - 1, 1<<27 - 1, 1<<28 - 1, 1<<29 - 1,
	1<<30 - 1, 1<<31 - 1, 4294967295,
}
