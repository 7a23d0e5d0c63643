//go:build amd64 || arm64 || ppc64 || ppc64le || mips64 || mips64le || riscv64 || s390x || wasm

package strata

// lowestExponent and the prime/power tables below fix the bucket geometry
// for 64-bit architectures; changing them changes where every existing key
// lives.
const lowestExponent = 11

// primes is the fixed prime table P. primes[i] is the total slot count
// after i+1 strata have been allocated; primeAt(-1) is defined as 0 by
// convention (see primeAt below) so stratum 0 has length primes[0].
var primes = [...]uint64{
	2633, 6733, 14929, 31321, 64091,
	129643, 260723, 522883, 1047173, 2095759,
	4192919, 8387231, 16775849, 33553103, 67107569,
	134216461, 268434193, 536869651, 1073740571, 2147482417,
	4294966099, 8589933397, 17179867997, 34359737227, 68719475599,
	137438952341, 274877905823, 549755812831, 1099511626727, 2199023254517,
	4398046510073, 8796093021181, 17592186043451, 35184372087881, 70368744176729,
	140737488354413, 281474976709757, 562949953420457, 1125899906841811, 2251799813684467,
	4503599627369863, 9007199254740397,
}

// nextPowers is the fixed power table NP. nextPowers[i] is a mask of
// (i+lowestExponent+1) set bits, used to fold a raw hash into the range
// spanned by stratum i before reducing it modulo primes[i].
var nextPowers = [...]uint64{
	1<<12 - 1, 1<<13 - 1,
	1<<14 - 1, 1<<15 - 1, 1<<16 - 1, 1<<17 - 1,
	1<<18 - 1, 1<<19 - 1, 1<<20 - 1, 1<<21 - 1,
	1<<22 - 1, 1<<23 - 1, 1<<24 - 1, 1<<25 - 1,
	1<<26 - 1, 1<<27 - 1, 1<<28 - 1, 1<<29 - 1,
	1<<30 - 1, 1<<31 - 1, 1<<32 - 1, 1<<33 - 1,
	1<<34 - 1, 1<<35 - 1, 1<<36 - 1, 1<<37 - 1,
	1<<38 - 1, 1<<39 - 1, 1<<40 - 1, 1<<41 - 1,
	1<<42 - 1, 1<<43 - 1, 1<<44 - 1, 1<<45 - 1,
	1<<46 - 1, 1<<47 - 1, 1<<48 - 1, 1<<49 - 1,
	1<<50 - 1, 1<<51 - 1, 1<<52 - 1, 1<<53 - 1,
}
