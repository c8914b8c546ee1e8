package locks

import (
	"fmt"
	"sync"
)

// Registry hands out one mutex per entity key. Mutexes are created on first
// use and kept for the lifetime of the registry; the population is bounded by
// the number of distinct items and members.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Registry) get(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

func itemKey(id uint) string   { return fmt.Sprintf("item:%d", id) }
func memberKey(id uint) string { return fmt.Sprintf("member:%d", id) }

// LockItem serializes operations on a single item. The returned function
// releases the lock.
func (r *Registry) LockItem(id uint) func() {
	m := r.get(itemKey(id))
	m.Lock()
	return m.Unlock
}

// LockMember serializes operations on a single member.
func (r *Registry) LockMember(id uint) func() {
	m := r.get(memberKey(id))
	m.Lock()
	return m.Unlock
}

// LockPair acquires the member lock and then the item lock. All callers that
// need both locks must go through here so the acquisition order is fixed.
func (r *Registry) LockPair(memberID, itemID uint) func() {
	mm := r.get(memberKey(memberID))
	im := r.get(itemKey(itemID))
	mm.Lock()
	im.Lock()
	return func() {
		im.Unlock()
		mm.Unlock()
	}
}
