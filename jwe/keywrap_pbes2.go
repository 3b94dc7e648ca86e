package jwe

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwa"
)

// pbes2 implements the PBES2-HSxxx+AyyyKW password-based key management
// algorithms of RFC 7518 section 4.8: PBKDF2 derives a key-encryption key
// from a password, salt and iteration count, which then wraps the content
// encryption key with AES Key Wrap. The salt and iteration count travel in
// the "p2s" and "p2c" header parameters.
type pbes2 struct {
	alg        jwa.KeyManagementAlgorithm
	password   []byte
	kwKeySize  int
	hf         func() hash.Hash
	iterations int
}

const defaultPBES2Iterations = 310000

// PBES2HS256A128KW returns a KeyWrapper for PBES2-HS256+A128KW using the
// given password and PBKDF2 iteration count (0 selects a safe default).
func PBES2HS256A128KW(password []byte, iterations int) KeyWrapper {
	return newPBES2(jwa.PBES2_HS256_A128KW, password, 16, sha256.New, iterations)
}

// PBES2HS384A192KW returns a KeyWrapper for PBES2-HS384+A192KW.
func PBES2HS384A192KW(password []byte, iterations int) KeyWrapper {
	return newPBES2(jwa.PBES2_HS384_A192KW, password, 24, sha512.New384, iterations)
}

// PBES2HS512A256KW returns a KeyWrapper for PBES2-HS512+A256KW.
func PBES2HS512A256KW(password []byte, iterations int) KeyWrapper {
	return newPBES2(jwa.PBES2_HS512_A256KW, password, 32, sha512.New, iterations)
}

func newPBES2(alg jwa.KeyManagementAlgorithm, password []byte, kwKeySize int, hf func() hash.Hash, iterations int) KeyWrapper {
	if iterations <= 0 {
		iterations = defaultPBES2Iterations
	}
	return &pbes2{alg: alg, password: password, kwKeySize: kwKeySize, hf: hf, iterations: iterations}
}

func (p *pbes2) Alg() string { return string(p.alg) }

// derive computes the PBES2 key-encryption key, RFC 7518 section 4.8.1.1:
// the PBKDF2 salt value is the "alg" value, a NUL byte and the random salt
// input carried in "p2s".
func (p *pbes2) derive(salt []byte) []byte {
	fullSalt := append([]byte(p.alg), 0x00)
	fullSalt = append(fullSalt, salt...)
	return pbkdf2.Key(p.password, fullSalt, p.iterations, p.kwKeySize, p.hf)
}

func (p *pbes2) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	kek := p.derive(salt)

	h.SetPBES2SaltInput(salt)
	h.SetPBES2Count(p.iterations)

	return aesKeyWrap(kek, cek)
}

func (p *pbes2) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	salt, err := h.PBES2SaltInput()
	if err != nil || salt == nil {
		return nil, fmt.Errorf("jwe: %s header requires a \"p2s\" parameter", p.alg)
	}

	iterations, ok := h.PBES2Count()
	if !ok {
		return nil, fmt.Errorf("jwe: %s header requires a \"p2c\" parameter", p.alg)
	}

	kek := (&pbes2{alg: p.alg, password: p.password, kwKeySize: p.kwKeySize, hf: p.hf, iterations: iterations}).derive(salt)

	cek, err := aesKeyUnwrap(kek, encryptedKey)
	if err != nil {
		return nil, err
	}
	if len(cek) != cekSize {
		return nil, fmt.Errorf("jwe: unwrapped key size %d does not match content encryption algorithm", len(cek))
	}
	return cek, nil
}
