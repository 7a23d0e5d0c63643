package strata

import (
	"sync"
	"sync/atomic"
)

// pair is one key-value entry, either a slot's main pair or one of its
// collision-list entries.
type pair[K comparable, V any] struct {
	key K
	val V
}

// slot is one hash-table bucket: a slotLock guarding a main pair and an
// unordered collision list. Entries are stored inline rather than behind
// pointers, so all access to a slot's fields must happen while holding its
// slotLock.
type slot[K comparable, V any] struct {
	lock       slotLock
	mainKey    K
	mainVal    V
	collisions []pair[K, V]
}

// layers is the append-only stratum vector: layers[i] is stratum i's slot
// array. A *layers value, once published via Table.strata, is never mutated
// in place: growth builds and publishes a new *layers instead, so any
// goroutine holding an old snapshot keeps a valid, if stale, view.
type layers[K comparable, V any] [][]slot[K, V]

// Table is a layered concurrent hash table: an append-only sequence of
// strata, each roughly double the size of the last, with lookups probing
// generations newest-first. A Table must be created with New or
// NewWithCapacity; the zero value is not usable, since it has no free
// instance id bound to a manager.
type Table[K comparable, V any] struct {
	hashFn HashFunc[K]
	cfg    config

	strata atomic.Pointer[layers[K, V]]

	mgr        *manager
	instanceID int

	// shardPool hands out shard objects to Write/Delete for the
	// duration of one call, rather than pinning one shard per goroutine
	// for its lifetime. Shards created by the pool's New func are
	// registered with the manager exactly once and never silently
	// dropped: a discarded shard's last known value would otherwise
	// vanish from the exact global sum. Pool churn only affects
	// contention, never correctness.
	shardPool sync.Pool

	totalGrowths atomic.Uint32

	destroyed atomic.Bool
}

// New creates a Table with one stratum of size primes[0] pre-allocated.
func New[K comparable, V any](hash HashFunc[K], opts ...Option) (*Table[K, V], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return newTable[K, V](hash, cfg)
}

// NewWithCapacity creates a Table and grows it until its total slot count
// is at least initial.
func NewWithCapacity[K comparable, V any](hash HashFunc[K], initial int, opts ...Option) (*Table[K, V], error) {
	opts = append([]Option{WithInitialCapacity(initial)}, opts...)
	return New[K, V](hash, opts...)
}

func newTable[K comparable, V any](hashFn HashFunc[K], cfg config) (*Table[K, V], error) {
	id, mgr, err := globalRegistry.acquire()
	if err != nil {
		return nil, err
	}

	t := &Table[K, V]{
		hashFn:     hashFn,
		cfg:        cfg,
		mgr:        mgr,
		instanceID: id,
	}
	t.shardPool.New = func() any {
		s := &shard{mgr: t.mgr}
		t.mgr.register(s)
		return s
	}

	if cfg.growthCallback != nil {
		mgr.setCallback(cfg.growthCallback)
	} else {
		mgr.setCallback(t.growthCallback)
	}

	initial := layers[K, V]{make([]slot[K, V], primes[0])}
	t.strata.Store(&initial)

	for cfg.initialCapacity > 0 && t.totalCapacity() < uint64(cfg.initialCapacity) {
		if !t.allocateLayer() {
			break
		}
	}

	return t, nil
}

// totalCapacity returns the total slot count across every allocated
// stratum, i.e. primes[lastLayer].
func (t *Table[K, V]) totalCapacity() uint64 {
	l := t.strata.Load()
	return primes[len(*l)-1]
}

// allocateLayer appends stratum lastLayer+1. It reports whether it grew the
// table (false once maxLayerCount strata already exist). Growth is
// serialized by the manager's coarse lock: allocateLayer is only ever
// called from growthCallback (invoked from manager.recomputeLocked) or from
// newTable before the table is shared with other goroutines.
func (t *Table[K, V]) allocateLayer() bool {
	old := t.strata.Load()
	lastLayer := len(*old) - 1
	if lastLayer+1 >= maxLayerCount {
		return false
	}
	next := make(layers[K, V], len(*old)+1)
	copy(next, *old)
	next[len(*old)] = make([]slot[K, V], primes[lastLayer+1]-primes[lastLayer])
	t.strata.Store(&next)
	t.totalGrowths.Add(1)
	return true
}

// growthCallback is the manager's default resize callback: it grows the
// table by one stratum whenever the exact global exceeds the current last
// stratum's boundary, then answers with that boundary as the next
// threshold target.
func (t *Table[K, V]) growthCallback(global uint64) uint64 {
	l := t.strata.Load()
	lastLayer := len(*l) - 1
	if global > primes[lastLayer] {
		if t.allocateLayer() {
			l = t.strata.Load()
			lastLayer = len(*l) - 1
		}
	}
	return primes[lastLayer]
}

func (t *Table[K, V]) localShard() *shard {
	return t.shardPool.Get().(*shard)
}

func (t *Table[K, V]) releaseShard(s *shard) {
	t.shardPool.Put(s)
}

// locate resolves (layer, slot) for hash h under generation gen, i.e. as if
// only the first gen+1 strata existed. Read/Write/Delete probe multiple
// generations because growth can move where a key's raw hash lands: an
// entry inserted under an older generation may still live at the slot that
// generation computed for it, even after later strata were added.
func locate(h uint64, gen int) (layer int, idx uint64) {
	raw := rawHash(h, gen)
	return layerAndSlot(raw)
}

// Write inserts or overwrites key's value. It never fails except by
// resource exhaustion (an allocation failure, which panics like any other
// Go allocation failure).
func (t *Table[K, V]) Write(key K, val V) {
	h := t.hashFn(key)

	for {
		l := t.strata.Load()
		strata := *l
		lastGen := len(strata) - 1

		for gen := lastGen - 1; gen >= 0; gen-- {
			layer, idx := locate(h, gen)
			s := &strata[layer][idx]
			wg := s.lock.wLock()
			if wg.Occupied {
				if s.mainKey == key {
					s.mainVal = val
					wg.Unlock()
					return
				}
				for i := range s.collisions {
					if s.collisions[i].key == key {
						s.collisions[i].val = val
						wg.Unlock()
						return
					}
				}
			}
			wg.Unlock()
		}

		layer, idx := locate(h, lastGen)
		s := &strata[layer][idx]
		wg := s.lock.wLock()

		if t.strata.Load() != l {
			// The table grew while we were probing. lastGen is no longer the
			// newest generation, so inserting a brand-new key here could
			// leave a second copy sitting at the true newest generation.
			// Retry against a fresh snapshot instead of writing.
			wg.Unlock()
			continue
		}

		switch {
		case !wg.Occupied:
			s.mainKey, s.mainVal = key, val
			wg.Occupied = true
			shard := t.localShard()
			shard.increment()
			t.releaseShard(shard)
		case s.mainKey == key:
			s.mainVal = val
		default:
			updated := false
			for i := range s.collisions {
				if s.collisions[i].key == key {
					s.collisions[i].val = val
					updated = true
					break
				}
			}
			if !updated {
				s.collisions = append(s.collisions, pair[K, V]{key, val})
				shard := t.localShard()
				shard.increment()
				t.releaseShard(shard)
			}
		}
		wg.Unlock()
		return
	}
}

// Read returns key's value, or ErrKeyNotFound (as a *KeyNotFoundError) if
// no live entry matches key in any stratum generation.
func (t *Table[K, V]) Read(key K) (V, error) {
	l := t.strata.Load()
	strata := *l
	h := t.hashFn(key)

	sawOccupied := false
	for gen := len(strata) - 1; gen >= 0; gen-- {
		layer, idx := locate(h, gen)
		s := &strata[layer][idx]
		rg := s.lock.rLock()
		if rg.Occupied() {
			sawOccupied = true
			if s.mainKey == key {
				v := s.mainVal
				rg.Unlock()
				return v, nil
			}
			for _, c := range s.collisions {
				if c.key == key {
					v := c.val
					rg.Unlock()
					return v, nil
				}
			}
		}
		rg.Unlock()
	}

	var zero V
	if sawOccupied {
		return zero, newKeyNotFoundError(NotInSlot)
	}
	return zero, newKeyNotFoundError(SlotEmpty)
}

// Delete removes key's entry if present, reporting whether it did.
func (t *Table[K, V]) Delete(key K) bool {
	l := t.strata.Load()
	strata := *l
	h := t.hashFn(key)

	for gen := len(strata) - 1; gen >= 0; gen-- {
		layer, idx := locate(h, gen)
		s := &strata[layer][idx]
		wg := s.lock.wLock()
		deleted := false
		if wg.Occupied {
			switch {
			case s.mainKey == key:
				if n := len(s.collisions); n > 0 {
					last := s.collisions[n-1]
					s.mainKey, s.mainVal = last.key, last.val
					s.collisions = s.collisions[:n-1]
				} else {
					var zeroK K
					var zeroV V
					s.mainKey, s.mainVal = zeroK, zeroV
					wg.Occupied = false
				}
				deleted = true
			default:
				for i := range s.collisions {
					if s.collisions[i].key == key {
						n := len(s.collisions)
						s.collisions[i] = s.collisions[n-1]
						s.collisions = s.collisions[:n-1]
						deleted = true
						break
					}
				}
			}
		}
		wg.Unlock()
		if deleted {
			shard := t.localShard()
			shard.decrement()
			t.releaseShard(shard)
			return true
		}
	}
	return false
}

// Size returns the exact, barrier-synchronized entry count.
func (t *Table[K, V]) Size() uint64 {
	return t.mgr.global()
}

// Destroy releases the table's instance id back to the global pool. Using
// t after Destroy is undefined behavior.
func (t *Table[K, V]) Destroy() {
	if t.destroyed.CompareAndSwap(false, true) {
		globalRegistry.release(t.instanceID)
	}
}
