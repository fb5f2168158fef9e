package compiler

import (
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/strager/fastruby/sexy"
)

// Registry records the arity of every method name called by compiled code.
// A later call with a different arity overwrites the earlier one.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	arity map[string]int
}

func NewRegistry() *Registry {
	return &Registry{arity: make(map[string]int)}
}

func (r *Registry) Record(name string, arity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arity[name] = arity
}

func (r *Registry) Arity(name string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	arity, ok := r.arity[name]
	return arity, ok
}

// Names returns the recorded names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.arity))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.arity)
}

// Merge copies every entry of other into r. Entries of other win.
func (r *Registry) Merge(other *Registry) {
	if other == r {
		return
	}
	entries := other.Snapshot()
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.arity, entries)
}

// Snapshot returns a copy of the recorded entries.
func (r *Registry) Snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.arity)
}

// Restore replaces every entry with those of a snapshot.
func (r *Registry) Restore(entries map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.arity = make(map[string]int, len(entries))
	maps.Copy(r.arity, entries)
}

// ToSexy returns the registry as a map like {$plus: 1, puts: 1}, with keys
// in sorted order.
func (r *Registry) ToSexy() *sexy.Node {
	names := r.Names()
	items := make([]*sexy.Node, len(names))
	for i, name := range names {
		arity, _ := r.Arity(name)
		items[i] = sexy.NewInteger(strconv.Itoa(arity))
	}
	return sexy.NewMap(names, items)
}
