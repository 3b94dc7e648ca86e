package jwe_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwe"
)

func TestEncryptDecrypt_direct(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	kw := jwe.Direct(key)
	enc := jwe.A256GCM()

	msg, err := jwe.Encrypt(kw, enc, []byte("hello, world"), nil)
	if err != nil {
		t.Fatal(err)
	}

	compact := msg.Compact()
	parsed, err := jwe.ParseCompact(nil, compact)
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := parsed.Decrypt(kw, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "hello, world" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptDecrypt_aesKW(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)

	kw, err := jwe.A128KW(key)
	if err != nil {
		t.Fatal(err)
	}
	enc := jwe.A128CBCHS256()

	msg, err := jwe.Encrypt(kw, enc, []byte("the true sign"), nil)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := parsed.Decrypt(kw, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "the true sign" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptDecrypt_gcmKW(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)

	kw, err := jwe.A256GCMKW(key)
	if err != nil {
		t.Fatal(err)
	}
	enc := jwe.A256GCM()

	msg, err := jwe.Encrypt(kw, enc, []byte("payload"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !msg.Header().Has("iv") || !msg.Header().Has("tag") {
		t.Fatal("expected iv and tag header parameters for GCM key wrapping")
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := parsed.Decrypt(kw, enc)
	if err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "payload" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptDecrypt_compression(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)
	kw := jwe.Direct(key)
	enc := jwe.A128GCM()

	h := header.New()
	h.Set("zip", "DEF")

	payload := bytes.Repeat([]byte("compress me please "), 50)
	msg, err := jwe.Encrypt(kw, enc, payload, h)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := parsed.Decrypt(kw, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plaintext, payload) {
		t.Error("round-tripped plaintext does not match original")
	}
}

func TestParseCompact_invalidSegmentCount(t *testing.T) {
	if _, err := jwe.ParseCompact(nil, "a.b.c"); err == nil {
		t.Error("expected error for wrong segment count")
	}
}

func TestDecrypt_rejectsAlgorithmMismatch(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)
	kw := jwe.Direct(key)
	enc := jwe.A128GCM()

	msg, err := jwe.Encrypt(kw, enc, []byte("data"), nil)
	if err != nil {
		t.Fatal(err)
	}
	parsed, _ := jwe.ParseCompact(nil, msg.Compact())

	otherKey := make([]byte, 32)
	rand.Read(otherKey)
	wrongEnc := jwe.A256GCM()
	_, err = parsed.Decrypt(kw, wrongEnc)
	if err == nil {
		t.Fatal("expected decryption failure for mismatched enc algorithm")
	}
	if !errors.Is(err, joseerr.ErrInvalidKeyFormat) {
		t.Errorf("expected ErrInvalidKeyFormat for an alg/enc mismatch, got %v", err)
	}
	if errors.Is(err, jwe.ErrDecryptionFailed) {
		t.Error("alg/enc mismatch must not be reported as ErrDecryptionFailed")
	}
}

func TestDecrypt_tagAuthenticationFailureIsErrInvalidSignature(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)
	kw := jwe.Direct(key)
	enc := jwe.A128GCM()

	msg, err := jwe.Encrypt(kw, enc, []byte("data"), nil)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jwe.ParseCompact(nil, msg.Compact())
	if err != nil {
		t.Fatal(err)
	}

	otherKey := make([]byte, 16)
	rand.Read(otherKey)
	_, err = parsed.Decrypt(jwe.Direct(otherKey), enc)
	if err == nil {
		t.Fatal("expected decryption failure for wrong key")
	}
	if !errors.Is(err, joseerr.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for a tag authentication failure, got %v", err)
	}
}

func TestParseCompact_unacceptedCriticalHeader(t *testing.T) {
	key := make([]byte, 16)
	rand.Read(key)
	kw := jwe.Direct(key)
	enc := jwe.A128GCM()

	h := header.New()
	h.SetCritical([]string{"custom-ext"})
	msg, err := jwe.Encrypt(kw, enc, []byte("data"), h)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := jwe.ParseCompact(nil, msg.Compact()); err == nil {
		t.Error("expected rejection of unaccepted critical header")
	}
	if _, err := jwe.ParseCompact(jwe.NewContext("custom-ext"), msg.Compact()); err != nil {
		t.Errorf("expected acceptance with matching context, got %s", err)
	}
}
