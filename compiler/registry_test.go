package compiler

import (
	"sync"
	"testing"

	"github.com/nalgeon/be"
)

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Record("log", 2)
	r.Record("log", 1)

	arity, ok := r.Arity("log")
	be.True(t, ok)
	be.Equal(t, arity, 1)
	be.Equal(t, r.Len(), 1)

	_, ok = r.Arity("missing")
	be.True(t, !ok)
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Record("puts", 1)
	r.Record("$plus", 1)
	r.Record("each", 0)

	be.Equal(t, r.Names(), []string{"$plus", "each", "puts"})
	be.Equal(t, r.ToSexy().String(), "{$plus: 1, each: 0, puts: 1}")
}

func TestRegistryMerge(t *testing.T) {
	a := NewRegistry()
	a.Record("x", 1)
	a.Record("y", 2)

	b := NewRegistry()
	b.Record("y", 3)
	b.Record("z", 0)

	a.Merge(b)
	be.Equal(t, a.Snapshot(), map[string]int{"x": 1, "y": 3, "z": 0})
	be.Equal(t, b.Len(), 2)

	a.Merge(a)
	be.Equal(t, a.Len(), 3)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Record("x", 1)
	snapshot := r.Snapshot()
	snapshot["x"] = 5
	arity, _ := r.Arity("x")
	be.Equal(t, arity, 1)
}

func TestRegistryConcurrentRecord(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				r.Record(string(rune('a'+i)), j)
			}
		}()
	}
	wg.Wait()

	be.Equal(t, r.Len(), 8)
	arity, _ := r.Arity("c")
	be.Equal(t, arity, 99)
}

func TestRegistryRestore(t *testing.T) {
	r := NewRegistry()
	r.Record("x", 1)
	snap := r.Snapshot()

	r.Record("x", 2)
	r.Record("y", 0)
	r.Restore(snap)
	be.Equal(t, r.Snapshot(), map[string]int{"x": 1})

	// The snapshot is not shared with the registry.
	r.Record("z", 3)
	be.Equal(t, len(snap), 1)
}
