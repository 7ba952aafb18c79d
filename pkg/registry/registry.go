package registry

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/archx/pkg/errors"
)

// Ordered holds named items in the order they were first claimed
type Ordered[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New returns an empty registry
func New[T any]() *Ordered[T] {
	return &Ordered[T]{items: make(map[string]T)}
}

// Claim registers item under name unless the name is owned already.
// It returns the owner of name after the call and whether this claim
// became the owner.
func (r *Ordered[T]) Claim(name string, item T) (owner T, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, false
	}
	r.items[name] = item
	r.order = append(r.order, name)
	return item, true
}

// Register is Claim with errors: an empty name is INVALID_INPUT and a
// taken name is ALREADY_EXISTS.
func (r *Ordered[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}
	if _, won := r.Claim(name, item); !won {
		return errors.Newf(errors.ErrAlreadyExists, "%q is already registered", name).
			WithDetail("name", name)
	}
	return nil
}

// Lookup returns the item owning name
func (r *Ordered[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	return item, ok
}

// Get is Lookup returning NOT_FOUND for unknown names
func (r *Ordered[T]) Get(name string) (T, error) {
	item, ok := r.Lookup(name)
	if !ok {
		return item, errors.Newf(errors.ErrNotFound, "%q is not registered", name).
			WithDetail("name", name)
	}
	return item, nil
}

// Names lists names in claim order
func (r *Ordered[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Values lists items in claim order
func (r *Ordered[T]) Values() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// Len returns the number of names owned
func (r *Ordered[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// MustRegister registers an item and panics if registration fails.
// Use it for tables whose names are fixed at compile time.
func MustRegister[T any](reg *Ordered[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
