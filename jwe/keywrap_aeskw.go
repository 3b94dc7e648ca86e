package jwe

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwa"
)

// aesKeyWrapDefaultIV is the 64-bit initial value specified by RFC 3394
// section 2.2.3.1.
var aesKeyWrapDefaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesKW implements the A128KW, A192KW and A256KW key management algorithms
// of RFC 7518 section 4.4, which wrap the content encryption key with the
// AES Key Wrap algorithm of RFC 3394 under a fixed shared symmetric key.
// No library in the reference corpus implements RFC 3394, so this wraps
// crypto/aes directly; see DESIGN.md.
type aesKW struct {
	alg jwa.KeyManagementAlgorithm
	key []byte
}

// A128KW returns a KeyWrapper for AES Key Wrap with a 128-bit key.
func A128KW(key []byte) (KeyWrapper, error) { return newAESKW(jwa.A128KW, key, 16) }

// A192KW returns a KeyWrapper for AES Key Wrap with a 192-bit key.
func A192KW(key []byte) (KeyWrapper, error) { return newAESKW(jwa.A192KW, key, 24) }

// A256KW returns a KeyWrapper for AES Key Wrap with a 256-bit key.
func A256KW(key []byte) (KeyWrapper, error) { return newAESKW(jwa.A256KW, key, 32) }

func newAESKW(alg jwa.KeyManagementAlgorithm, key []byte, size int) (KeyWrapper, error) {
	if len(key) != size {
		return nil, fmt.Errorf("jwe: %s requires a %d byte key, got %d", alg, size, len(key))
	}
	return &aesKW{alg: alg, key: key}, nil
}

func (a *aesKW) Alg() string { return string(a.alg) }

func (a *aesKW) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	return aesKeyWrap(a.key, cek)
}

func (a *aesKW) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	cek, err := aesKeyUnwrap(a.key, encryptedKey)
	if err != nil {
		return nil, err
	}
	if len(cek) != cekSize {
		return nil, fmt.Errorf("jwe: unwrapped key size %d does not match content encryption algorithm", len(cek))
	}
	return cek, nil
}

// aesKeyWrap implements RFC 3394 section 2.2.1. plaintext must be a
// multiple of 8 bytes.
func aesKeyWrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, fmt.Errorf("jwe: AES key wrap input must be a multiple of 8 bytes, at least 16")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(plaintext) / 8
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], plaintext[i*8:i*8+8])
	}

	var a [8]byte
	copy(a[:], aesKeyWrapDefaultIV[:])

	buf := make([]byte, 16)
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[:8], a[:])
			copy(buf[8:], r[i-1][:])
			block.Encrypt(buf, buf)

			t := uint64(n*j + i)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)
			for k := range a {
				a[k] = buf[k] ^ tBytes[k]
			}
			copy(r[i-1][:], buf[8:])
		}
	}

	out := make([]byte, 8+len(plaintext))
	copy(out[:8], a[:])
	for i := 0; i < n; i++ {
		copy(out[8+i*8:], r[i][:])
	}
	return out, nil
}

// aesKeyUnwrap implements RFC 3394 section 2.2.2.
func aesKeyUnwrap(kek, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%8 != 0 || len(ciphertext) < 24 {
		return nil, fmt.Errorf("jwe: AES key wrap ciphertext must be a multiple of 8 bytes, at least 24")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(ciphertext)/8 - 1
	var a [8]byte
	copy(a[:], ciphertext[:8])

	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], ciphertext[8+i*8:8+i*8+8])
	}

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)

			var axt [8]byte
			for k := range a {
				axt[k] = a[k] ^ tBytes[k]
			}
			copy(buf[:8], axt[:])
			copy(buf[8:], r[i-1][:])
			block.Decrypt(buf, buf)

			copy(a[:], buf[:8])
			copy(r[i-1][:], buf[8:])
		}
	}

	if subtle.ConstantTimeCompare(a[:], aesKeyWrapDefaultIV[:]) != 1 {
		return nil, fmt.Errorf("jwe: AES key unwrap integrity check failed")
	}

	out := make([]byte, n*8)
	for i := 0; i < n; i++ {
		copy(out[i*8:], r[i][:])
	}
	return out, nil
}
