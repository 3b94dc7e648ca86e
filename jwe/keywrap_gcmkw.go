package jwe

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwa"
)

// gcmKW implements the AxxxGCMKW key management algorithms of RFC 7518
// section 4.7: the content encryption key is wrapped with AES-GCM under a
// fixed shared symmetric key, with the wrapping IV and tag carried in the
// "iv" and "tag" header parameters.
type gcmKW struct {
	alg     jwa.KeyManagementAlgorithm
	key     []byte
	keySize int
}

// A128GCMKW returns a KeyWrapper for AES-128-GCM key wrapping.
func A128GCMKW(key []byte) (KeyWrapper, error) { return newGCMKW(jwa.A128GCMKW, key, 16) }

// A192GCMKW returns a KeyWrapper for AES-192-GCM key wrapping.
func A192GCMKW(key []byte) (KeyWrapper, error) { return newGCMKW(jwa.A192GCMKW, key, 24) }

// A256GCMKW returns a KeyWrapper for AES-256-GCM key wrapping.
func A256GCMKW(key []byte) (KeyWrapper, error) { return newGCMKW(jwa.A256GCMKW, key, 32) }

func newGCMKW(alg jwa.KeyManagementAlgorithm, key []byte, size int) (KeyWrapper, error) {
	if len(key) != size {
		return nil, fmt.Errorf("jwe: %s requires a %d byte key, got %d", alg, size, len(key))
	}
	return &gcmKW{alg: alg, key: key, keySize: size}, nil
}

func (g *gcmKW) Alg() string { return string(g.alg) }

func (g *gcmKW) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(g.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (g *gcmKW) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	a, err := g.aead()
	if err != nil {
		return nil, err
	}
	iv, err := randomBytes(a.NonceSize())
	if err != nil {
		return nil, err
	}
	sealed := a.Seal(nil, iv, cek, nil)
	encryptedKey := sealed[:len(sealed)-a.Overhead()]
	tag := sealed[len(sealed)-a.Overhead():]

	h.SetInitializationVector(iv)
	h.SetAuthenticationTag(tag)
	return encryptedKey, nil
}

func (g *gcmKW) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	iv, ivErr := h.InitializationVector()
	tag, tagErr := h.AuthenticationTag()
	if ivErr != nil || tagErr != nil || iv == nil || tag == nil {
		return nil, fmt.Errorf("jwe: %s header requires \"iv\" and \"tag\" parameters", g.alg)
	}

	a, err := g.aead()
	if err != nil {
		return nil, err
	}
	sealed := append(append([]byte{}, encryptedKey...), tag...)
	cek, err := a.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, err
	}
	if len(cek) != cekSize {
		return nil, fmt.Errorf("jwe: unwrapped key size %d does not match content encryption algorithm", len(cek))
	}
	return cek, nil
}
