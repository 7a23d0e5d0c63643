package strata

import (
	"sync"
	"testing"
)

func TestManager_RegisterAndGlobal(t *testing.T) {
	m := newManager()

	s1 := &shard{mgr: m}
	s2 := &shard{mgr: m}
	m.register(s1)
	m.register(s2)

	s1.increment()
	s1.increment()
	s2.increment()

	if got := m.global(); got != 3 {
		t.Errorf("expected global 3, got %d", got)
	}

	s1.decrement()
	if got := m.global(); got != 2 {
		t.Errorf("expected global 2 after decrement, got %d", got)
	}
}

func TestManager_DeregisterPreservesSum(t *testing.T) {
	m := newManager()

	s1 := &shard{mgr: m}
	s2 := &shard{mgr: m}
	m.register(s1)
	m.register(s2)

	for i := 0; i < 5; i++ {
		s1.increment()
	}
	for i := 0; i < 3; i++ {
		s2.increment()
	}

	m.deregister(s1)

	if got := m.global(); got != 8 {
		t.Errorf("expected global 8 after deregister, got %d", got)
	}
	if len(m.shards) != 1 {
		t.Errorf("expected 1 remaining shard, got %d", len(m.shards))
	}
}

func TestManager_ResetClearsState(t *testing.T) {
	m := newManager()
	s := &shard{mgr: m}
	m.register(s)
	s.increment()

	custom := func(uint64) uint64 { return 999 }
	m.setCallback(custom)

	m.reset()

	if len(m.shards) != 0 {
		t.Errorf("expected no shards after reset, got %d", len(m.shards))
	}
	if got := m.global(); got != 0 {
		t.Errorf("expected global 0 after reset, got %d", got)
	}
}

func TestManager_UpdateRecomputesThresholds(t *testing.T) {
	m := newManager()
	m.setCallback(func(global uint64) uint64 { return 100 })

	shards := make([]*shard, 4)
	for i := range shards {
		shards[i] = &shard{mgr: m}
		m.register(shards[i])
	}

	shards[0].increment()
	m.update()

	// global 1, target 100: slack 99 split over 4 shards gives each shard a
	// threshold 24 above its current value.
	for i, s := range shards {
		if s.snapshot() < 0 {
			t.Errorf("shard value should never be negative from increment alone")
		}
		if got := loadShardWord(&s.threshold) - s.snapshot(); got != 24 {
			t.Errorf("shard %d threshold margin = %d, want 24", i, got)
		}
	}
}

func TestManager_ConcurrentIncrementDecrement(t *testing.T) {
	m := newManager()
	m.setCallback(func(global uint64) uint64 { return 10_000 })

	const shardCount = 16
	const opsPerShard = 2000

	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{mgr: m}
		m.register(shards[i])
	}

	var wg sync.WaitGroup
	for _, s := range shards {
		wg.Add(1)
		go func(s *shard) {
			defer wg.Done()
			for i := 0; i < opsPerShard; i++ {
				s.increment()
			}
			for i := 0; i < opsPerShard/2; i++ {
				s.decrement()
			}
		}(s)
	}
	wg.Wait()

	want := uint64(shardCount * (opsPerShard - opsPerShard/2))
	if got := m.global(); got != want {
		t.Errorf("expected global %d, got %d", want, got)
	}
}

func TestManager_GlobalDuringConcurrentMutation(t *testing.T) {
	m := newManager()
	m.setCallback(func(global uint64) uint64 { return 1_000_000 })

	s := &shard{mgr: m}
	m.register(s)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.increment()
			}
		}
	}()

	for i := 0; i < 100; i++ {
		m.global()
	}
	close(stop)
	wg.Wait()
}
