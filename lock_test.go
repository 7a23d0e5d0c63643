package strata

import (
	"sync"
	"testing"
	"time"
)

func TestSlotLock_ReadLockReportsOccupancy(t *testing.T) {
	var l slotLock

	g := l.rLock()
	if g.Occupied() {
		t.Errorf("expected unoccupied, got occupied")
	}
	g.Unlock()

	wg := l.wLock()
	wg.Occupied = true
	wg.Unlock()

	g = l.rLock()
	if !g.Occupied() {
		t.Errorf("expected occupied, got unoccupied")
	}
	g.Unlock()
}

func TestSlotLock_MultipleReaders(t *testing.T) {
	var l slotLock

	g1 := l.rLock()
	g2 := l.rLock()
	g3 := l.rLock()

	if l.word&lockReaderMask != 3 {
		t.Errorf("expected reader count 3, got %d", l.word&lockReaderMask)
	}

	g1.Unlock()
	g2.Unlock()
	g3.Unlock()

	if l.word&lockReaderMask != 0 {
		t.Errorf("expected reader count 0 after unlocking, got %d", l.word&lockReaderMask)
	}
}

func TestSlotLock_WriterBlocksNewReaders(t *testing.T) {
	var l slotLock

	wg := l.wLock()

	acquired := make(chan struct{})
	go func() {
		g := l.rLock()
		g.Unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("reader acquired lock while writer held it")
	case <-time.After(20 * time.Millisecond):
	}

	wg.Occupied = true
	wg.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("reader never acquired lock after writer released it")
	}
}

func TestSlotLock_WriterWaitsForExistingReaders(t *testing.T) {
	var l slotLock

	rg := l.rLock()

	writerDone := make(chan struct{})
	go func() {
		wg := l.wLock()
		wg.Occupied = true
		wg.Unlock()
		close(writerDone)
	}()

	select {
	case <-writerDone:
		t.Fatal("writer proceeded before existing reader released")
	case <-time.After(20 * time.Millisecond):
	}

	rg.Unlock()

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("writer never proceeded after reader released")
	}
}

func TestSlotLock_ConcurrentReadersAndWriters(t *testing.T) {
	var l slotLock
	var counter int64
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				w := l.wLock()
				mu.Lock()
				counter++
				mu.Unlock()
				w.Occupied = true
				w.Unlock()

				r := l.rLock()
				_ = r.Occupied()
				r.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 8000 {
		t.Errorf("expected 8000 writes, got %d", counter)
	}
}
