package jws

import (
	"crypto/hmac"
	"fmt"
	"hash"

	"crypto/sha256"
	"crypto/sha512"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

// hmacSignerVerifier signs and verifies using an HMAC with a pre-shared
// secret, as defined in RFC 7518 section 3.2.
type hmacSignerVerifier struct {
	h      func() hash.Hash
	secret []byte
	alg    jwa.SignatureAlgorithm
}

func (h *hmacSignerVerifier) Alg() jwa.SignatureAlgorithm {
	return h.alg
}

func (h *hmacSignerVerifier) Sign(data []byte) ([]byte, error) {
	mac := hmac.New(h.h, h.secret)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// HS creates a SignerVerifier for alg using secret. alg must be HS256,
// HS384 or HS512.
func HS(alg jwa.SignatureAlgorithm, secret []byte) (SignerVerifier, error) {
	switch alg {
	case jwa.HS256:
		return HS256(secret), nil
	case jwa.HS384:
		return HS384(secret), nil
	case jwa.HS512:
		return HS512(secret), nil
	default:
		return nil, fmt.Errorf("%w: unsupported HMAC algorithm: %s", joseerr.ErrUnsupportedAlgorithm, alg)
	}
}

// HS256 creates a SignerVerifier implementing HMAC using SHA-256.
func HS256(secret []byte) SignerVerifier {
	return SymmetricSignature(&hmacSignerVerifier{h: sha256.New, secret: secret, alg: jwa.HS256})
}

// HS384 creates a SignerVerifier implementing HMAC using SHA-384.
func HS384(secret []byte) SignerVerifier {
	return SymmetricSignature(&hmacSignerVerifier{h: sha512.New384, secret: secret, alg: jwa.HS384})
}

// HS512 creates a SignerVerifier implementing HMAC using SHA-512.
func HS512(secret []byte) SignerVerifier {
	return SymmetricSignature(&hmacSignerVerifier{h: sha512.New, secret: secret, alg: jwa.HS512})
}
