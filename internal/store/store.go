// internal/store/store.go
//
// Adept – centralized state container.
//
// Context
//   Form bindings keep every field's value, error, and touch flag in one
//   place.  A Store holds named slices, each with its own state value and a
//   reducer.  Callers never write state directly; they Dispatch an Action and
//   every registered slice gets a chance to reduce it.
//
// Workflow
//   •  Register adds a Slice and seeds its state from Initial().
//   •  Dispatch runs the reducers under one mutex, so updates are applied in
//      receipt order and never interleave.
//   •  Listeners run after the lock is released, so they may read state.
//   •  Select returns a slice's state typed by the caller.
//
// Style
//   Two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package store

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSlice is returned when a slice name is not registered.
var ErrUnknownSlice = errors.New("store: unknown slice")

// ErrDuplicateSlice is returned when Register sees a name twice.
var ErrDuplicateSlice = errors.New("store: duplicate slice")

// Action is a named state transition with an optional payload.  Type is
// conventionally "<slice>/<reducer>".
type Action struct {
	Type    string
	Payload any
}

// Slice is one independently reducible region of the store.
//
// Reduce returns the next state and true when the action belongs to the
// slice.  Reducers must not mutate the state they are handed; they return a
// new value instead.
type Slice interface {
	Name() string
	Initial() any
	Reduce(state any, action Action) (next any, handled bool)
}

// Dispatcher is the write side of a Store.
type Dispatcher interface {
	Dispatch(Action)
}

// DispatchFunc adapts a plain function to Dispatcher.
type DispatchFunc func(Action)

// Dispatch implements Dispatcher.
func (f DispatchFunc) Dispatch(a Action) { f(a) }

// Listener observes every dispatched action after reducers ran.
type Listener func(Action)

// Store owns the state of every registered slice.
type Store struct {
	mu        sync.Mutex
	slices    map[string]Slice
	order     []string
	state     map[string]any
	listeners map[int]Listener
	nextID    int
}

// New returns a Store with the given slices registered.  It panics on a
// duplicate name, mirroring a programming error at wiring time.
func New(slices ...Slice) *Store {
	s := &Store{
		slices:    make(map[string]Slice),
		state:     make(map[string]any),
		listeners: make(map[int]Listener),
	}
	for _, sl := range slices {
		if err := s.Register(sl); err != nil {
			panic(err)
		}
	}
	return s
}

// Register adds sl and seeds its state.
func (s *Store) Register(sl Slice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := sl.Name()
	if _, dup := s.slices[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateSlice, name)
	}
	s.slices[name] = sl
	s.order = append(s.order, name)
	s.state[name] = sl.Initial()
	return nil
}

// Has reports whether a slice called name is registered.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slices[name]
	return ok
}

// Dispatch applies a to every slice in registration order.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	for _, name := range s.order {
		if next, ok := s.slices[name].Reduce(s.state[name], a); ok {
			s.state[name] = next
		}
	}
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(a)
	}
}

// Get returns the raw state of the named slice.
func (s *Store) Get(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state[name]
	return v, ok
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Select returns the named slice state as T.
func Select[T any](s *Store, name string) (T, error) {
	var zero T
	v, ok := s.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownSlice, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("store: slice %s holds %T", name, v)
	}
	return t, nil
}
