package syncmap_test

import (
	"sync"
	"testing"

	"github.com/softmetz/twitchy/syncmap"
)

func TestLoadStore(t *testing.T) {
	m := syncmap.New[string, int]()
	if _, ok := m.Load("bocchi"); ok {
		t.Error("loaded a value from an empty map")
	}
	m.Store("bocchi", 1)
	v, ok := m.Load("bocchi")
	if !ok || v != 1 {
		t.Errorf("want 1, true; got %d, %t", v, ok)
	}
	if n := m.Len(); n != 1 {
		t.Errorf("want len 1, got %d", n)
	}
	m.Delete("bocchi")
	if _, ok := m.Load("bocchi"); ok {
		t.Error("loaded a deleted value")
	}
}

func TestLoadOrStore(t *testing.T) {
	m := syncmap.New[string, int]()
	v, ok := m.LoadOrStore("ryo", 2)
	if ok || v != 2 {
		t.Errorf("first LoadOrStore: want 2, false; got %d, %t", v, ok)
	}
	v, ok = m.LoadOrStore("ryo", 5)
	if !ok || v != 2 {
		t.Errorf("second LoadOrStore: want 2, true; got %d, %t", v, ok)
	}
}

func TestConcurrent(t *testing.T) {
	m := syncmap.New[int, int]()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range 100 {
				m.Store(k*8+i, k)
				m.Load(k * 8)
			}
		}()
	}
	wg.Wait()
	if n := m.Len(); n != 800 {
		t.Errorf("want 800 elements, got %d", n)
	}
}

func TestAll(t *testing.T) {
	m := syncmap.New[int, int]()
	for i := range 10 {
		m.Store(i, i)
	}
	seen := make(map[int]bool)
	for k, v := range m.All() {
		if k != v {
			t.Errorf("key %d has value %d", k, v)
		}
		seen[k] = true
	}
	if len(seen) != 10 {
		t.Errorf("iterated %d elements, want 10", len(seen))
	}
}
