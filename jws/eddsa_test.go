package jws_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jws"
)

func TestEdDSA(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer := jws.EdDSASigner(priv)
	if signer.Alg() != jwa.EdDSA {
		t.Error(signer.Alg())
	}

	data := []byte("hello, world")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatal(err)
	}

	verifier := jws.EdDSAVerifier(pub)
	if err := verifier.Verify(jwa.EdDSA, data, sig); err != nil {
		t.Error(err)
	}
}

func TestEdDSA_rejectsTamperedData(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer := jws.EdDSASigner(priv)
	sig, _ := signer.Sign([]byte("hello, world"))

	verifier := jws.EdDSAVerifier(pub)
	if err := verifier.Verify(jwa.EdDSA, []byte("goodbye, world"), sig); err == nil {
		t.Error("expected verification failure for tampered data")
	}
}
