package strata

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLinePadSize sizes the padding around a shard so adjacent shards
// never share a cache line.
const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// maxError is the minimum slack ratio the manager's threshold redistribution
// enforces, preventing thresholds from collapsing onto the current global
// and thrashing.
const maxError = 1e-5

// shard is one goroutine's private slice of a table's distributed size
// counter: a signed value and the threshold at which it reports back to the
// manager. A shard is always padded to a full cache line since contention on
// this word would otherwise defeat the point of distributing the counter.
type shard struct {
	//lint:ignore U1000 prevents false sharing between adjacent shards
	_ [cacheLinePadSize]byte

	value     int64
	threshold int64
	mgr       *manager

	//lint:ignore U1000 prevents false sharing between adjacent shards
	_ [cacheLinePadSize]byte
}

// increment adds 1 to the shard's value. If the new value crosses the
// shard's threshold, it asks the manager to recompute; either way it then
// waits out any in-flight exact-read barrier.
func (s *shard) increment() {
	if v := atomic.AddInt64(&s.value, 1); v >= loadShardWord(&s.threshold) {
		s.mgr.update()
	}
	s.mgr.waitForBarrier()
}

// decrement subtracts 1 from the shard's value. Decrements never trigger a
// manager update.
func (s *shard) decrement() {
	atomic.AddInt64(&s.value, -1)
	s.mgr.waitForBarrier()
}

// adjustThreshold atomically sets threshold := value + delta.
func (s *shard) adjustThreshold(delta int64) {
	storeShardWord(&s.threshold, atomic.LoadInt64(&s.value)+delta)
}

// snapshot returns the shard's current value.
func (s *shard) snapshot() int64 {
	return atomic.LoadInt64(&s.value)
}

// manager coordinates every shard belonging to one table instance: it
// aggregates shard values, invokes a user-supplied resize callback, and
// arbitrates a barrier-synchronized exact read.
type manager struct {
	coarseLock sync.Mutex
	shards     []*shard

	destroyedSum int64
	cb           func(global uint64) (threshold uint64)

	barrierLock sync.RWMutex
}

// defaultCallback targets the first stratum boundary. Table installs its own
// growthCallback in place of this one as soon as a manager is bound to a
// table; this default only matters for a bare manager used outside a Table.
func defaultCallback(global uint64) uint64 {
	return primes[0]
}

func newManager() *manager {
	m := &manager{}
	m.cb = defaultCallback
	return m
}

// setCallback installs a new resize callback. Not safe to call concurrently
// with register/update/global; Table calls it once at construction, before
// the table is published to other goroutines.
func (m *manager) setCallback(cb func(uint64) uint64) {
	m.cb = cb
}

// register adds a shard to the manager's shard list and immediately
// recomputes thresholds, since a higher shard count means each shard's
// slice of the slack must shrink.
func (m *manager) register(s *shard) {
	m.coarseLock.Lock()
	m.shards = append(m.shards, s)
	m.recomputeLocked()
	m.coarseLock.Unlock()
}

// deregister folds a shard's final value into destroyedSum and removes it
// from the shard list. Order within the list is irrelevant, so
// swap-with-last-and-pop is sufficient.
func (m *manager) deregister(s *shard) {
	m.coarseLock.Lock()
	m.destroyedSum += s.snapshot()
	for i, cur := range m.shards {
		if cur == s {
			last := len(m.shards) - 1
			m.shards[i] = m.shards[last]
			m.shards[last] = nil
			m.shards = m.shards[:last]
			break
		}
	}
	m.coarseLock.Unlock()
}

// update attempts to recompute thresholds. If another goroutine is already
// recomputing, update simply waits for that recompute to finish and returns
// without doing its own: only one recompute needs to run per
// threshold-crossing burst.
func (m *manager) update() {
	if m.coarseLock.TryLock() {
		m.recomputeLocked()
		m.coarseLock.Unlock()
		return
	}
	m.coarseLock.Lock()
	m.coarseLock.Unlock()
}

// recomputeLocked redistributes slack evenly across all live shards based on
// the current global sum and the callback's threshold. Must be called with
// coarseLock held.
func (m *manager) recomputeLocked() {
	global := m.sumLocked()
	threshold := m.cb(global)

	slack := int64(threshold) - int64(global)
	if minSlack := int64(float64(threshold) * maxError); minSlack > slack {
		slack = minSlack
	}

	n := int64(len(m.shards))
	if n == 0 {
		return
	}
	margin := slack / n
	for _, s := range m.shards {
		s.adjustThreshold(margin)
	}
}

// sumLocked sums every live shard's snapshot plus destroyedSum. Must be
// called with coarseLock held.
func (m *manager) sumLocked() uint64 {
	var sum int64
	for _, s := range m.shards {
		sum += s.snapshot()
	}
	sum += m.destroyedSum
	if sum < 0 {
		return 0
	}
	return uint64(sum)
}

// global returns the exact global value: the barrier lock is taken
// exclusively so every concurrent increment/decrement blocks inside
// waitForBarrier until this call completes, giving a true linearization
// point for the sum.
func (m *manager) global() uint64 {
	m.barrierLock.Lock()
	m.coarseLock.Lock()
	sum := m.sumLocked()
	m.coarseLock.Unlock()
	m.barrierLock.Unlock()
	return sum
}

// waitForBarrier is a no-op unless an exact read via global() is in flight,
// in which case it blocks until that read completes.
func (m *manager) waitForBarrier() {
	m.barrierLock.RLock()
	//lint:ignore SA2001 the empty critical section is the point: it blocks
	// only while global() holds the barrier for writing.
	m.barrierLock.RUnlock()
}

// reset restores initial state: destroyedSum is zeroed and the default
// callback reinstalled. Used when a Table instance is destroyed and its
// manager slot returned to the registry's free pool for reuse by a future
// table.
func (m *manager) reset() {
	m.coarseLock.Lock()
	m.destroyedSum = 0
	m.shards = m.shards[:0]
	m.cb = defaultCallback
	m.coarseLock.Unlock()
}
