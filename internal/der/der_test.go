package der

import (
	"math/big"
	"testing"
)

func TestBuilderReaderRoundTrip(t *testing.T) {
	b := &Builder{}
	b.AddSequence(func(seq *Builder) {
		seq.AddInt(0)
		seq.AddInteger(big.NewInt(65537))
		seq.AddOctetString([]byte("payload"))
		seq.AddOID(ObjectIdentifier{1, 2, 840, 10045, 2, 1})
		seq.AddBitString([]byte{0xff, 0x00})
	})

	r := NewReader(b.Bytes())
	top, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if top.Kind != EventSequence {
		t.Fatalf("expected a sequence, got %v", top.Kind)
	}

	inner := top.Body

	ev, err := inner.Next()
	if err != nil || ev.Kind != EventInteger || ev.Int.Int64() != 0 {
		t.Fatalf("unexpected version event: %+v, %v", ev, err)
	}

	ev, err = inner.Next()
	if err != nil || ev.Kind != EventInteger || ev.Int.Int64() != 65537 {
		t.Fatalf("unexpected integer event: %+v, %v", ev, err)
	}

	ev, err = inner.Next()
	if err != nil || ev.Kind != EventOctetString || string(ev.Bytes) != "payload" {
		t.Fatalf("unexpected octet string event: %+v, %v", ev, err)
	}

	ev, err = inner.Next()
	want := ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	if err != nil || ev.Kind != EventOID || !ev.OID.Equal(want) {
		t.Fatalf("unexpected OID event: %+v, %v", ev, err)
	}

	ev, err = inner.Next()
	if err != nil || ev.Kind != EventBitString || len(ev.Bytes) != 2 || ev.Bytes[0] != 0xff {
		t.Fatalf("unexpected bit string event: %+v, %v", ev, err)
	}

	if _, err := inner.Next(); !IsEOF(err) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestAddExplicit(t *testing.T) {
	b := &Builder{}
	b.AddExplicit(1, func(inner *Builder) {
		inner.AddBitString([]byte{0x01, 0x02})
	})

	r := NewReader(b.Bytes())
	ev, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if ev.Class != ClassContextSpecific || ev.Tag != 1 || !ev.Constructed {
		t.Fatalf("unexpected explicit tag event: %+v", ev)
	}

	sub, err := ev.Body.Next()
	if err != nil || sub.Kind != EventBitString {
		t.Fatalf("unexpected nested event: %+v, %v", sub, err)
	}
}
