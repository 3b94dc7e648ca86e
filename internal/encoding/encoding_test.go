package encoding

import "testing"

func TestEncode(t *testing.T) {
	act := Encode([]byte("hello, world"))

	if act != "aGVsbG8sIHdvcmxk" {
		t.Errorf("unexpected encoded string: '%s'", act)
	}
}

func TestDecode(t *testing.T) {
	act, err := Decode("aGVsbG8sIHdvcmxk")
	if err != nil {
		t.Fatal(err)
	}

	if string(act) != "hello, world" {
		t.Errorf("unexpected decoded string: '%s'", string(act))
	}
}

func TestDecode_invalidLength(t *testing.T) {
	if _, err := Decode("a"); err == nil {
		t.Error("expected an error for a length congruent to 1 mod 4")
	}
}

func TestDecode_invalidCharacter(t *testing.T) {
	if _, err := Decode("a+b/c="); err == nil {
		t.Error("expected an error for non-base64url characters")
	}
}

func TestSplitJoin(t *testing.T) {
	compact := Join("a", "b", "c")
	if compact != "a.b.c" {
		t.Errorf("unexpected joined string: '%s'", compact)
	}

	parts := Split(compact)
	if len(parts) != 3 || parts[0] != "a" || parts[1] != "b" || parts[2] != "c" {
		t.Errorf("unexpected split result: %v", parts)
	}
}
