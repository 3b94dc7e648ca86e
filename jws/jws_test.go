package jws_test

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jws"
)

func TestSignParseVerify_none(t *testing.T) {
	sig := jws.None()
	j, err := jws.Sign(sig, []byte("hello, world"), nil)
	if err != nil {
		t.Fatal(err)
	}

	c := j.Compact()
	if c != "eyJhbGciOiJub25lIn0.aGVsbG8sIHdvcmxk." {
		t.Error(c)
	}

	j2, err := jws.ParseCompact(nil, c)
	if err != nil {
		t.Fatal(err)
	}

	if err := j.VerifySignature(sig); err != nil {
		t.Error(err)
	}
	if err := j2.VerifySignature(sig); err != nil {
		t.Error(err)
	}
	if diff := deep.Equal(j.Payload(), j2.Payload()); diff != nil {
		t.Error(diff)
	}
}

func TestNone(t *testing.T) {
	sm := jws.None()
	if sm.Alg() != jwa.None {
		t.Error(sm.Alg())
	}

	data := []byte("hello, world")
	sig, err := sm.Sign(data)
	if err != nil {
		t.Fatal(err)
	}
	if s := rawEnc.EncodeToString(sig); s != "" {
		t.Error(s)
	}
	if err := sm.Verify(jwa.None, data, sig); err != nil {
		t.Error(err)
	}
}

func TestParseCompact_invalidSegmentCount(t *testing.T) {
	if _, err := jws.ParseCompact(nil, "a.b"); err == nil {
		t.Error("expected error for malformed compact JWS")
	}
}

func TestParseCompact_unacceptedCriticalHeader(t *testing.T) {
	h := header.New()
	h.SetCritical([]string{"custom-ext"})
	j, err := jws.Sign(jws.None(), []byte("payload"), h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jws.ParseCompact(nil, j.Compact()); err == nil {
		t.Error("expected error for unaccepted critical header")
	}
	ctx := jws.NewContext("custom-ext")
	if _, err := jws.ParseCompact(ctx, j.Compact()); err != nil {
		t.Errorf("expected context to accept custom-ext, got %s", err)
	}
}

func TestVerifySignature_rejectsTamperedPayload(t *testing.T) {
	sig := jws.HS256([]byte("secret"))
	j, err := jws.Sign(sig, []byte("hello, world"), nil)
	if err != nil {
		t.Fatal(err)
	}
	tampered, err := jws.ParseCompact(nil, j.Compact()[:len(j.Compact())-1]+"x")
	if err != nil {
		t.Fatal(err)
	}
	if err := tampered.VerifySignature(sig); err == nil {
		t.Error("expected verification failure for tampered signature")
	}
}

func TestVerifySignature_rejectsTamperedPayload_isErrInvalidSignature(t *testing.T) {
	sig := jws.HS256([]byte("secret"))
	j, err := jws.Sign(sig, []byte("hello, world"), nil)
	if err != nil {
		t.Fatal(err)
	}
	tampered, err := jws.ParseCompact(nil, j.Compact()[:len(j.Compact())-1]+"x")
	if err != nil {
		t.Fatal(err)
	}
	err = tampered.VerifySignature(sig)
	if !errors.Is(err, joseerr.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignature_algorithmMismatchIsErrInvalidKeyFormat(t *testing.T) {
	j, err := jws.Sign(jws.HS256([]byte("secret")), []byte("payload"), nil)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jws.ParseCompact(nil, j.Compact())
	if err != nil {
		t.Fatal(err)
	}
	err = parsed.VerifySignature(jws.HS384([]byte("secret")))
	if !errors.Is(err, joseerr.ErrInvalidKeyFormat) {
		t.Errorf("expected ErrInvalidKeyFormat for an algorithm mismatch, got %v", err)
	}
	if errors.Is(err, joseerr.ErrInvalidSignature) {
		t.Error("algorithm mismatch must not be reported as ErrInvalidSignature")
	}
}
