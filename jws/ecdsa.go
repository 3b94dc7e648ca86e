package jws

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"math/big"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

// ecdsaSigner implements ECDSA signing with SHA-2 hashing, RFC 7518
// section 3.4. The signature is the fixed-width big-endian concatenation
// R || S, not an ASN.1 SEQUENCE.
type ecdsaSigner struct {
	alg        jwa.SignatureAlgorithm
	privateKey *ecdsa.PrivateKey
	hf         func() hash.Hash
	curveBits  int
}

func (e *ecdsaSigner) Alg() jwa.SignatureAlgorithm { return e.alg }

func (e *ecdsaSigner) Sign(data []byte) ([]byte, error) {
	h := e.hf()
	h.Write(data)
	r, s, err := ecdsa.Sign(rand.Reader, e.privateKey, h.Sum(nil))
	if err != nil {
		return nil, err
	}
	return encodeRS(r, s, e.curveBits), nil
}

func encodeRS(r, s *big.Int, curveBits int) []byte {
	size := (curveBits + 7) / 8
	out := make([]byte, 2*size)
	rBytes, sBytes := r.Bytes(), s.Bytes()
	copy(out[size-len(rBytes):size], rBytes)
	copy(out[2*size-len(sBytes):], sBytes)
	return out
}

type ecdsaVerifier struct {
	alg       jwa.SignatureAlgorithm
	publicKey *ecdsa.PublicKey
	hf        func() hash.Hash
	curveBits int
}

func (e *ecdsaVerifier) Verify(alg jwa.SignatureAlgorithm, data, signature []byte) error {
	if alg != e.alg {
		return fmt.Errorf("%w: algorithm mismatch: header says %s, key is for %s", joseerr.ErrInvalidKeyFormat, alg, e.alg)
	}
	size := (e.curveBits + 7) / 8
	if len(signature) != 2*size {
		return fmt.Errorf("invalid signature length: want %d, got %d", 2*size, len(signature))
	}
	r := new(big.Int).SetBytes(signature[:size])
	s := new(big.Int).SetBytes(signature[size:])

	h := e.hf()
	h.Write(data)
	if !ecdsa.Verify(e.publicKey, h.Sum(nil), r, s) {
		return ErrInvalidSignature
	}
	return nil
}

var ecdsaParams = map[jwa.SignatureAlgorithm]struct {
	bits int
	hf   func() hash.Hash
}{
	jwa.ES256: {256, sha256.New},
	jwa.ES384: {384, sha512.New384},
	jwa.ES512: {521, sha512.New},
}

// ESSigner creates a Signer for alg (ES256, ES384 or ES512) using
// privateKey, which must use the curve matching alg.
func ESSigner(alg jwa.SignatureAlgorithm, privateKey *ecdsa.PrivateKey) (Signer, error) {
	p, ok := ecdsaParams[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported ECDSA algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	if privateKey.Curve.Params().BitSize != p.bits {
		return nil, fmt.Errorf("jws: %s requires a curve with bit size %d, got %d", alg, p.bits, privateKey.Curve.Params().BitSize)
	}
	return &ecdsaSigner{alg: alg, privateKey: privateKey, hf: p.hf, curveBits: p.bits}, nil
}

// ESVerifier creates a Verifier for alg (ES256, ES384 or ES512) using
// publicKey, which must use the curve matching alg.
func ESVerifier(alg jwa.SignatureAlgorithm, publicKey *ecdsa.PublicKey) (Verifier, error) {
	p, ok := ecdsaParams[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported ECDSA algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	if publicKey.Curve.Params().BitSize != p.bits {
		return nil, fmt.Errorf("jws: %s requires a curve with bit size %d, got %d", alg, p.bits, publicKey.Curve.Params().BitSize)
	}
	return &ecdsaVerifier{alg: alg, publicKey: publicKey, hf: p.hf, curveBits: p.bits}, nil
}
