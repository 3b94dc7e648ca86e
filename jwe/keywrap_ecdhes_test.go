package jwe_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jwe"
)

func TestEncryptDecrypt_ecdhesDirect(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	encKW := jwe.ECDHESDirect(&priv.PublicKey, nil, nil)
	enc := jwe.A128GCM()

	msg, err := jwe.Encrypt(encKW, enc, []byte("agreed secret"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !msg.Header().Has(jwa.EphemeralPublicKeyKey) {
		t.Fatal("expected epk header parameter")
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}

	decKW := jwe.ECDHESDirectRecipient(priv)
	plaintext, err := parsed.Decrypt(decKW, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "agreed secret" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptDecrypt_ecdhesWithAESKW(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	encKW, err := jwe.ECDHESWithAESKW(jwa.ECDH_ES_A192KW, &priv.PublicKey, []byte("alice"), []byte("bob"))
	if err != nil {
		t.Fatal(err)
	}
	enc := jwe.A192CBCHS384()

	msg, err := jwe.Encrypt(encKW, enc, []byte("wrapped by agreement"), nil)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}

	decKW, err := jwe.ECDHESWithAESKWRecipient(jwa.ECDH_ES_A192KW, priv)
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := parsed.Decrypt(decKW, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "wrapped by agreement" {
		t.Errorf("got %q", plaintext)
	}
}

func TestECDHESWithAESKW_rejectsNonECDHAlgorithm(t *testing.T) {
	priv, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if _, err := jwe.ECDHESWithAESKW(jwa.A128KW, &priv.PublicKey, nil, nil); err == nil {
		t.Error("expected error for non-ECDH-ES algorithm")
	}
}
