package jwe

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/halimath/josex/jwa"
)

// gcmEncryption implements the AESxxxGCM content encryption algorithms of
// RFC 7518 section 5.3: AES in Galois/Counter Mode with a 96-bit IV and a
// 128-bit authentication tag, no separate MAC key split required by the
// CBC-HMAC family.
type gcmEncryption struct {
	alg     jwa.EncryptionAlgorithm
	keySize int
}

// A128GCM returns the AES-128-GCM content encryption algorithm.
func A128GCM() ContentEncryption { return &gcmEncryption{alg: jwa.A128GCM, keySize: 16} }

// A192GCM returns the AES-192-GCM content encryption algorithm.
func A192GCM() ContentEncryption { return &gcmEncryption{alg: jwa.A192GCM, keySize: 24} }

// A256GCM returns the AES-256-GCM content encryption algorithm.
func A256GCM() ContentEncryption { return &gcmEncryption{alg: jwa.A256GCM, keySize: 32} }

func (g *gcmEncryption) Alg() string   { return string(g.alg) }
func (g *gcmEncryption) KeySize() int  { return g.keySize }
func (g *gcmEncryption) IVSize() int   { return 12 }

func (g *gcmEncryption) gcm(cek []byte) (cipher.AEAD, error) {
	if len(cek) != g.keySize {
		return nil, fmt.Errorf("jwe: %s requires a %d byte key, got %d", g.alg, g.keySize, len(cek))
	}
	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (g *gcmEncryption) Encrypt(cek, iv, aad, plaintext []byte) ([]byte, []byte, error) {
	a, err := g.gcm(cek)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != a.NonceSize() {
		return nil, nil, fmt.Errorf("jwe: %s requires a %d byte IV, got %d", g.alg, a.NonceSize(), len(iv))
	}
	sealed := a.Seal(nil, iv, plaintext, aad)
	ciphertext := sealed[:len(sealed)-a.Overhead()]
	tag := sealed[len(sealed)-a.Overhead():]
	return ciphertext, tag, nil
}

func (g *gcmEncryption) Decrypt(cek, iv, aad, ciphertext, tag []byte) ([]byte, error) {
	a, err := g.gcm(cek)
	if err != nil {
		return nil, err
	}
	if len(iv) != a.NonceSize() {
		return nil, fmt.Errorf("jwe: %s requires a %d byte IV, got %d", g.alg, a.NonceSize(), len(iv))
	}
	sealed := append(append([]byte{}, ciphertext...), tag...)
	return a.Open(nil, iv, sealed, aad)
}
