package cache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLRUEvictsOldest(t *testing.T) {
	c := New[string, int](2)
	var evicted []string
	c.OnEvict = func(k string, _ int) { evicted = append(evicted, k) }

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a") // a is now MRU
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if diff := cmp.Diff([]string{"b"}, evicted); diff != "" {
		t.Errorf("evicted (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, c.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestLRUPeekKeepsOrder(t *testing.T) {
	c := New[int, string](2)
	c.Add(1, "one")
	c.Add(2, "two")
	if v, ok := c.Peek(1); !ok || v != "one" {
		t.Fatalf("Peek(1) = %q, %v", v, ok)
	}
	c.Add(3, "three")
	if _, ok := c.Peek(1); ok {
		t.Fatal("Peek must not refresh recency")
	}
}

func TestLRURemove(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 4; i++ {
		c.Add(i, i*i)
	}
	if !c.Remove(2) || c.Remove(2) {
		t.Fatal("Remove should succeed once")
	}
	n := c.RemoveFunc(func(_ int, v int) bool { return v >= 1 })
	if n != 2 || c.Len() != 1 {
		t.Fatalf("RemoveFunc removed %d, len %d", n, c.Len())
	}
}

func TestNewPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New[string, string](0)
}
