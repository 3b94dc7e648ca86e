package jws

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

type rsaParams struct {
	hash crypto.Hash
	hf   func() hash.Hash
}

var rsaPKCS1Params = map[jwa.SignatureAlgorithm]rsaParams{
	jwa.RS256: {crypto.SHA256, sha256.New},
	jwa.RS384: {crypto.SHA384, sha512.New384},
	jwa.RS512: {crypto.SHA512, sha512.New},
}

var rsaPSSParams = map[jwa.SignatureAlgorithm]rsaParams{
	jwa.PS256: {crypto.SHA256, sha256.New},
	jwa.PS384: {crypto.SHA384, sha512.New384},
	jwa.PS512: {crypto.SHA512, sha512.New},
}

// rsaSigner implements RSASSA-PKCS1-v1_5 (RFC 7518 section 3.3) and
// RSASSA-PSS (RFC 7518 section 3.5) signing, selected by pss.
type rsaSigner struct {
	alg        jwa.SignatureAlgorithm
	privateKey *rsa.PrivateKey
	params     rsaParams
	pss        bool
}

func (r *rsaSigner) Alg() jwa.SignatureAlgorithm { return r.alg }

func (r *rsaSigner) Sign(data []byte) ([]byte, error) {
	h := r.params.hf()
	h.Write(data)
	hashed := h.Sum(nil)
	if r.pss {
		return rsa.SignPSS(rand.Reader, r.privateKey, r.params.hash, hashed, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       r.params.hash,
		})
	}
	return rsa.SignPKCS1v15(rand.Reader, r.privateKey, r.params.hash, hashed)
}

type rsaVerifier struct {
	alg       jwa.SignatureAlgorithm
	publicKey *rsa.PublicKey
	params    rsaParams
	pss       bool
}

func (r *rsaVerifier) Verify(alg jwa.SignatureAlgorithm, data, signature []byte) error {
	if alg != r.alg {
		return fmt.Errorf("%w: algorithm mismatch: header says %s, key is for %s", joseerr.ErrInvalidKeyFormat, alg, r.alg)
	}
	h := r.params.hf()
	h.Write(data)
	hashed := h.Sum(nil)
	if r.pss {
		return rsa.VerifyPSS(r.publicKey, r.params.hash, hashed, signature, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       r.params.hash,
		})
	}
	return rsa.VerifyPKCS1v15(r.publicKey, r.params.hash, hashed, signature)
}

// RSSigner creates a Signer for RSASSA-PKCS1-v1_5 (RS256, RS384 or RS512)
// using privateKey.
func RSSigner(alg jwa.SignatureAlgorithm, privateKey *rsa.PrivateKey) (Signer, error) {
	p, ok := rsaPKCS1Params[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported RSA PKCS#1 v1.5 algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	return &rsaSigner{alg: alg, privateKey: privateKey, params: p}, nil
}

// RSVerifier creates a Verifier for RSASSA-PKCS1-v1_5 (RS256, RS384 or
// RS512) using publicKey.
func RSVerifier(alg jwa.SignatureAlgorithm, publicKey *rsa.PublicKey) (Verifier, error) {
	p, ok := rsaPKCS1Params[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported RSA PKCS#1 v1.5 algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	return &rsaVerifier{alg: alg, publicKey: publicKey, params: p}, nil
}

// PSSigner creates a Signer for RSASSA-PSS (PS256, PS384 or PS512) using
// privateKey, with a salt length equal to the hash size per RFC 7518
// section 3.5.
func PSSigner(alg jwa.SignatureAlgorithm, privateKey *rsa.PrivateKey) (Signer, error) {
	p, ok := rsaPSSParams[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported RSA PSS algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	return &rsaSigner{alg: alg, privateKey: privateKey, params: p, pss: true}, nil
}

// PSVerifier creates a Verifier for RSASSA-PSS (PS256, PS384 or PS512)
// using publicKey.
func PSVerifier(alg jwa.SignatureAlgorithm, publicKey *rsa.PublicKey) (Verifier, error) {
	p, ok := rsaPSSParams[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported RSA PSS algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
	return &rsaVerifier{alg: alg, publicKey: publicKey, params: p, pss: true}, nil
}
