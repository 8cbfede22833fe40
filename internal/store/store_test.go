// internal/store/store_test.go
//
// Unit-tests for the slice store.
//
// Run: go test ./internal/store -v

package store

import (
	"errors"
	"strings"
	"testing"
)

// counter is a tiny slice used to exercise the store.
type counter struct{ name string }

func (c counter) Name() string { return c.name }
func (c counter) Initial() any { return 0 }
func (c counter) Reduce(state any, a Action) (any, bool) {
	if !strings.HasPrefix(a.Type, c.name+"/") {
		return state, false
	}
	n := state.(int)
	switch strings.TrimPrefix(a.Type, c.name+"/") {
	case "inc":
		return n + 1, true
	case "add":
		return n + a.Payload.(int), true
	case "reset":
		return 0, true
	}
	return state, false
}

func TestDispatchRoutesBySlice(t *testing.T) {
	s := New(counter{"a"}, counter{"b"})

	s.Dispatch(Action{Type: "a/inc"})
	s.Dispatch(Action{Type: "a/add", Payload: 4})
	s.Dispatch(Action{Type: "b/inc"})
	s.Dispatch(Action{Type: "c/inc"}) // nobody handles it

	a, err := Select[int](s, "a")
	if err != nil {
		t.Fatalf("select a: %v", err)
	}
	b, _ := Select[int](s, "b")
	if a != 5 || b != 1 {
		t.Fatalf("a = %d, b = %d; want 5, 1", a, b)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := New(counter{"a"})
	err := s.Register(counter{"a"})
	if !errors.Is(err, ErrDuplicateSlice) {
		t.Fatalf("err = %v, want ErrDuplicateSlice", err)
	}
	if !s.Has("a") || s.Has("zzz") {
		t.Fatalf("Has reported wrong membership")
	}
}

func TestSelectErrors(t *testing.T) {
	s := New(counter{"a"})
	if _, err := Select[int](s, "missing"); !errors.Is(err, ErrUnknownSlice) {
		t.Fatalf("err = %v, want ErrUnknownSlice", err)
	}
	if _, err := Select[string](s, "a"); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestSubscribeSeesStateAfterReduce(t *testing.T) {
	s := New(counter{"a"})

	var seen []int
	unsub := s.Subscribe(func(a Action) {
		n, _ := Select[int](s, "a")
		seen = append(seen, n)
	})

	s.Dispatch(Action{Type: "a/inc"})
	s.Dispatch(Action{Type: "a/inc"})
	unsub()
	s.Dispatch(Action{Type: "a/inc"})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("listener saw %v, want [1 2]", seen)
	}
}

func TestDispatchFunc(t *testing.T) {
	var got Action
	var d Dispatcher = DispatchFunc(func(a Action) { got = a })
	d.Dispatch(Action{Type: "x/y", Payload: 1})
	if got.Type != "x/y" {
		t.Fatalf("got %q", got.Type)
	}
}
