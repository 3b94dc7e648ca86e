package jws

import (
	"crypto/ed25519"
	"fmt"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

// ed25519Signer implements EdDSA signing using Ed25519, RFC 8037 section
// 3.1. Ed25519 signs the message directly; no hash is pre-applied before
// ed25519.Sign, which uses PureEdDSA internally.
type ed25519Signer struct {
	privateKey ed25519.PrivateKey
}

func (e *ed25519Signer) Alg() jwa.SignatureAlgorithm { return jwa.EdDSA }

func (e *ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(e.privateKey, data), nil
}

type ed25519Verifier struct {
	publicKey ed25519.PublicKey
}

func (e *ed25519Verifier) Verify(alg jwa.SignatureAlgorithm, data, signature []byte) error {
	if alg != jwa.EdDSA {
		return fmt.Errorf("%w: algorithm mismatch: header says %s, key is for %s", joseerr.ErrInvalidKeyFormat, alg, jwa.EdDSA)
	}
	if !ed25519.Verify(e.publicKey, data, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// EdDSASigner creates a Signer using Ed25519.
func EdDSASigner(privateKey ed25519.PrivateKey) Signer {
	return &ed25519Signer{privateKey: privateKey}
}

// EdDSAVerifier creates a Verifier using Ed25519.
func EdDSAVerifier(publicKey ed25519.PublicKey) Verifier {
	return &ed25519Verifier{publicKey: publicKey}
}
