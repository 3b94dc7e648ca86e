package jwe_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/halimath/josex/jwe"
)

func roundTripContentEncryption(t *testing.T, enc jwe.ContentEncryption, ivSize int) {
	t.Helper()

	cek := make([]byte, enc.KeySize())
	rand.Read(cek)
	iv := make([]byte, ivSize)
	rand.Read(iv)
	aad := []byte("protected header bytes")
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	ciphertext, tag, err := enc.Encrypt(cek, iv, aad, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	got, err := enc.Decrypt(cek, iv, aad, ciphertext, tag)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}

	tamperedTag := append([]byte{}, tag...)
	tamperedTag[0] ^= 0xff
	if _, err := enc.Decrypt(cek, iv, aad, ciphertext, tamperedTag); err == nil {
		t.Error("expected failure for tampered tag")
	}
}

func TestContentEncryption_AESGCM(t *testing.T) {
	roundTripContentEncryption(t, jwe.A128GCM(), 12)
	roundTripContentEncryption(t, jwe.A192GCM(), 12)
	roundTripContentEncryption(t, jwe.A256GCM(), 12)
}

func TestContentEncryption_AESCBCHMAC(t *testing.T) {
	roundTripContentEncryption(t, jwe.A128CBCHS256(), 16)
	roundTripContentEncryption(t, jwe.A192CBCHS384(), 16)
	roundTripContentEncryption(t, jwe.A256CBCHS512(), 16)
}
