package adapter

import (
	"fmt"
	"sync"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// Handle is an opaque reference to an object owned by a HandleTable.
// The zero Handle is the null handle and never refers to an object.
//
// The low 32 bits hold the slot index plus one and the high 32 bits hold the
// slot generation, so a handle to a destroyed object never resolves to the
// object that later reuses its slot.
type Handle uint64

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool {
	return h == 0
}

func (h Handle) index() int {
	return int(uint32(h)) - 1
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

func makeHandle(index int, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(uint32(index+1))) //nolint:gosec
}

// String formats the handle as index:generation.
func (h Handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d:%d", h.index(), h.generation())
}

type slot[V any] struct {
	value      V
	generation uint32
	occupied   bool
	poisoned   bool
}

// HandleTable is a generation-checked slot map. It is safe for concurrent
// use; the objects it holds are not.
type HandleTable[V any] struct {
	mu    sync.Mutex
	name  string
	slots []slot[V]
	free  []int
}

// NewHandleTable creates an empty table. name appears in error messages.
func NewHandleTable[V any](name string) *HandleTable[V] {
	return &HandleTable[V]{name: name}
}

// Insert stores v and returns a new handle to it.
func (t *HandleTable[V]) Insert(v V) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[V]{generation: 1})
		idx = len(t.slots) - 1
	}

	s := &t.slots[idx]
	s.value = v
	s.occupied = true
	s.poisoned = false
	return makeHandle(idx, s.generation)
}

// lookup returns the live slot for h. The caller holds t.mu.
func (t *HandleTable[V]) lookup(op string, h Handle) (*slot[V], error) {
	if h.IsNull() {
		return nil, errors.Mark(errors.NewInvalidArgumentError(op, t.name, "handle must not be null"), errors.ErrNilHandle)
	}
	idx := h.index()
	if idx < 0 || idx >= len(t.slots) {
		return nil, errors.NewInvalidArgumentError(op, t.name, fmt.Sprintf("unknown handle %s", h))
	}
	s := &t.slots[idx]
	if !s.occupied || s.generation != h.generation() {
		return nil, errors.NewInvalidArgumentError(op, t.name, fmt.Sprintf("stale handle %s", h))
	}
	return s, nil
}

// Get returns the object for h. A poisoned handle fails with InvalidState.
func (t *HandleTable[V]) Get(op string, h Handle) (V, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero V
	s, err := t.lookup(op, h)
	if err != nil {
		return zero, err
	}
	if s.poisoned {
		return zero, errors.NewInvalidStateError(op, "poisoned",
			fmt.Sprintf("%s %s was left inconsistent by an earlier panic; destroy it", t.name, h))
	}
	return s.value, nil
}

// Remove releases h and returns the object it referred to. Poisoned handles
// can be removed.
func (t *HandleTable[V]) Remove(op string, h Handle) (V, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero V
	s, err := t.lookup(op, h)
	if err != nil {
		return zero, err
	}
	v := s.value
	s.value = zero
	s.occupied = false
	s.poisoned = false
	s.generation++
	t.free = append(t.free, h.index())
	return v, nil
}

// Poison marks h so later Get calls fail. Unknown handles are ignored.
func (t *HandleTable[V]) Poison(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, err := t.lookup("Poison", h); err == nil {
		s.poisoned = true
	}
}

// IsPoisoned reports whether h refers to a poisoned object.
func (t *HandleTable[V]) IsPoisoned(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup("IsPoisoned", h)
	return err == nil && s.poisoned
}

// Len returns the number of live handles.
func (t *HandleTable[V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots) - len(t.free)
}
