package orderedmap

import (
	"math/rand"
	"testing"
)

func init() {
	rand.Seed(1)
}

func TestEmptyMap(t *testing.T) {
	m := New[int, string]()
	if m.Len() != 0 {
		t.Fatalf("expected Len 0, got %d", m.Len())
	}
	if _, ok := m.Get(1); ok {
		t.Fatalf("expected not found in an empty map")
	}
}

func TestSetAndGet(t *testing.T) {
	m := New[int, string]()
	m.Set(10, "ten")

	v, ok := m.Get(10)
	if !ok || v != "ten" {
		t.Fatalf("got (%v,%v), want (ten,true)", v, ok)
	}
}

func TestSetOverwritesExistingKey(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "one")
	m.Set(1, "uno")

	v, ok := m.Get(1)
	if !ok || v != "uno" {
		t.Fatalf("overwrite failed, got (%v,%v)", v, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("expected Len 1, got %d", m.Len())
	}
}

func TestDelete(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "one")
	m.Set(2, "two")
	m.Delete(1)

	if _, ok := m.Get(1); ok {
		t.Fatalf("expected key 1 gone after Delete")
	}
	if v, ok := m.Get(2); !ok || v != "two" {
		t.Fatalf("Delete must not disturb other keys, got (%v,%v)", v, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("expected Len 1 after Delete, got %d", m.Len())
	}
}

func TestAllYieldsAscendingKeyOrder(t *testing.T) {
	m := New[int, int]()
	for _, k := range []int{50, 10, 30, 20, 40} {
		m.Set(k, k*k)
	}

	var got []int
	for e := range m.All() {
		got = append(got, e.Key)
		if e.Value != e.Key*e.Key {
			t.Fatalf("entry %d has value %d, want %d", e.Key, e.Value, e.Key*e.Key)
		}
	}
	want := []int{10, 20, 30, 40, 50}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAllStopsOnFalseReturn(t *testing.T) {
	m := New[int, int]()
	for i := 1; i <= 10; i++ {
		m.Set(i, i)
	}

	var seen int
	for range m.All() {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Fatalf("expected iteration to stop early at 3, saw %d", seen)
	}
}
