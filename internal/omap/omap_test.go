package omap

import "testing"

func TestOrderPreserved(t *testing.T) {
	m := New()
	m.Set("typ", "JWT")
	m.Set("alg", "HS256")
	m.Set("kid", "1")

	got, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"typ":"JWT","alg":"HS256","kid":"1"}`
	if string(got) != want {
		t.Errorf("want %s, got %s", want, string(got))
	}
}

func TestUnmarshalPreservesOrder(t *testing.T) {
	m := New()
	if err := m.UnmarshalJSON([]byte(`{"b":1,"a":2,"c":3}`)); err != nil {
		t.Fatal(err)
	}
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("unexpected key order: %v", keys)
	}
}

func TestDeleteKeepsOrder(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Errorf("unexpected key order after delete: %v", keys)
	}
}

func TestSetExistingKeyKeepsPosition(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected key order after update: %v", keys)
	}
	v, _ := m.Get("a")
	if v != 3 {
		t.Errorf("expected updated value 3, got %v", v)
	}
}
