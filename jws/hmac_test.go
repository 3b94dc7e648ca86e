package jws_test

import (
	"encoding/base64"
	"testing"

	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jws"
)

var rawEnc = base64.URLEncoding.WithPadding(base64.NoPadding)

func TestHS256(t *testing.T) {
	sm := jws.HS256([]byte("secret"))
	if sm.Alg() != jwa.HS256 {
		t.Error(sm.Alg())
	}

	data := []byte("hello, world")
	sig, err := sm.Sign(data)
	if err != nil {
		t.Fatal(err)
	}
	if s := rawEnc.EncodeToString(sig); s != "cLVE7E3Y71-ng0_laMdt9fPPdbb93vE9eeJCjoda21s" {
		t.Error(s)
	}
	if err := sm.Verify(jwa.HS256, data, sig); err != nil {
		t.Error(err)
	}
}

func TestHS384(t *testing.T) {
	sm := jws.HS384([]byte("secret"))
	if sm.Alg() != jwa.HS384 {
		t.Error(sm.Alg())
	}

	data := []byte("hello, world")
	sig, err := sm.Sign(data)
	if err != nil {
		t.Fatal(err)
	}
	if s := rawEnc.EncodeToString(sig); s != "rbpnoLvkKLTH5g1uwzcxZR1RGcZPFqmf8q8JDNqkFd8lb0vwjB82gpEUASgpUUrk" {
		t.Error(s)
	}
	if err := sm.Verify(jwa.HS384, data, sig); err != nil {
		t.Error(err)
	}
}

func TestHS512(t *testing.T) {
	sm := jws.HS512([]byte("secret"))
	if sm.Alg() != jwa.HS512 {
		t.Error(sm.Alg())
	}

	data := []byte("hello, world")
	sig, err := sm.Sign(data)
	if err != nil {
		t.Fatal(err)
	}
	if s := rawEnc.EncodeToString(sig); s != "WPnGrZvqfmLl32zJvZ5NQFkr-QCo0rsJe0yfx8G6imLQLKA3UoJ1ICxj8S6yQawv8-pmeFrw70FULkz2Bome9Q" {
		t.Error(s)
	}
	if err := sm.Verify(jwa.HS512, data, sig); err != nil {
		t.Error(err)
	}
}

func TestHS_unsupportedAlgorithm(t *testing.T) {
	if _, err := jws.HS(jwa.RS256, []byte("secret")); err == nil {
		t.Error("expected error for non-HMAC algorithm")
	}
}

func TestHMAC_verifyRejectsWrongSecret(t *testing.T) {
	sm := jws.HS256([]byte("secret"))
	other := jws.HS256([]byte("different"))
	data := []byte("hello, world")
	sig, _ := other.Sign(data)
	if err := sm.Verify(jwa.HS256, data, sig); err == nil {
		t.Error("expected verification failure for wrong secret")
	}
}
