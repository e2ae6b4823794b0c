package palette

import (
	"sync"
	"sync/atomic"
)

// Catalog publishes Registry snapshots and accepts late registrations,
// such as templates contributed by catalog files or scripts.
//
// Writers are serialized; each registration builds a new Registry and
// swaps it in atomically. Readers never block and always see a complete
// snapshot.
type Catalog struct {
	mu      sync.Mutex // serializes Register
	current atomic.Pointer[Registry]
	sealed  atomic.Bool
}

// NewCatalog creates a catalog starting from base. A nil base starts empty.
func NewCatalog(base *Registry) *Catalog {
	if base == nil {
		base = &Registry{index: map[string]int{}}
	}
	c := &Catalog{}
	c.current.Store(base)
	return c
}

// Snapshot returns the current registry.
func (c *Catalog) Snapshot() *Registry {
	return c.current.Load()
}

// Register validates templates against the current snapshot and publishes
// a new snapshot containing them. Either all templates are added or none.
func (c *Catalog) Register(templates ...NodeTemplate) error {
	if c.sealed.Load() {
		return ErrSealed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the lock so Seal cannot race a registration.
	if c.sealed.Load() {
		return ErrSealed
	}
	next, err := c.current.Load().Extend(templates...)
	if err != nil {
		return err
	}
	c.current.Store(next)
	return nil
}

// Seal prevents further registrations. It returns true if this call
// changed the state.
func (c *Catalog) Seal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.sealed.Swap(true)
}

// Sealed reports whether the catalog is sealed.
func (c *Catalog) Sealed() bool { return c.sealed.Load() }
