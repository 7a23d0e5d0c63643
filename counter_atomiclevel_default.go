//go:build !strata_atomiclevel_1 && !strata_atomiclevel_2

package strata

// atomicLevel selects how much of the shard threshold word access goes
// through sync/atomic, via build tag (the shard value word always uses
// sync/atomic):
//   - 0: both threshold reads and writes go through sync/atomic.
//   - 1: reads are plain loads, writes are atomic.
//   - 2: neither is atomic (requires the strong memory model x86/x86-64
//     already provide for naturally aligned words).
const atomicLevel = 0
