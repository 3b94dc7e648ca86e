package jwe_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/halimath/josex/jwe"
)

func TestEncryptDecrypt_rsaOAEP256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	kw := jwe.RSAOAEP256(&priv.PublicKey)
	enc := jwe.A256GCM()

	msg, err := jwe.Encrypt(kw, enc, []byte("rsa wrapped"), nil)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}

	decKW := jwe.RSAOAEP256Recipient(priv)
	plaintext, err := parsed.Decrypt(decKW, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "rsa wrapped" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptDecrypt_rsa15(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	kw := jwe.RSA15(&priv.PublicKey)
	enc := jwe.A128CBCHS256()

	msg, err := jwe.Encrypt(kw, enc, []byte("legacy rsa"), nil)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}

	decKW := jwe.RSA15Recipient(priv)
	plaintext, err := parsed.Decrypt(decKW, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "legacy rsa" {
		t.Errorf("got %q", plaintext)
	}
}
