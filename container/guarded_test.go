package container

import (
	"sync"
	"testing"
)

func TestGuardedKeyBagSetSemantics(t *testing.T) {
	bag := NewGuardedFactory[string, string]().NewKeyBag()

	bag.Add("a")
	bag.Add("a")
	bag.Add("b")

	if got := bag.Len(); got != 2 {
		t.Errorf("Len(): got:%d, want:2 (duplicates collapse)", got)
	}

	if !bag.Remove("a") {
		t.Error("Remove(\"a\"): got:false, want:true")
	}

	if got := bag.Len(); got != 1 {
		t.Errorf("Len() after Remove: got:%d, want:1", got)
	}
}

func TestGuardedEdgeMapConcurrentWrites(t *testing.T) {
	m := NewGuardedFactory[string, int]().NewEdgeMap()

	var wg sync.WaitGroup

	for i := 0; i < 200; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			m.Upsert(byte(i%256), i)
		}(i)
	}

	wg.Wait()

	if got := m.Len(); got == 0 {
		t.Error("Len(): got:0, want:>0")
	}
}

func TestGuardedEdgeMapRangeSnapshot(t *testing.T) {
	m := NewGuardedFactory[string, int]().NewEdgeMap()
	m.Upsert('a', 1)
	m.Upsert('b', 2)

	var wg sync.WaitGroup
	wg.Add(1)

	started := make(chan struct{})
	var once sync.Once

	go func() {
		defer wg.Done()

		// Range calls fn once per entry; signal only on the first call.
		m.Range(func(byte, int) bool {
			once.Do(func() { close(started) })
			return true
		})
	}()

	<-started
	m.Upsert('c', 3) // must not race or corrupt the in-flight Range snapshot.
	wg.Wait()
}
