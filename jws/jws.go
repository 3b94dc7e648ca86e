// Package jws implements JSON Web Signatures as defined in RFC 7515
// (https://datatracker.ietf.org/doc/html/rfc7515). Only the compact
// serialization is supported; algorithm implementations live in this
// package's HMAC, RSA, ECDSA and EdDSA source files and are dispatched
// through the Signer and Verifier interfaces.
package jws

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/halimath/josex/internal/encoding"
	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

var (
	// ErrInvalidCompactJWS is returned when a string is not a syntactically
	// valid JWS in compact serialization.
	ErrInvalidCompactJWS = joseerr.ErrInvalidJwtFormat

	// ErrInvalidHeader is returned when a JWS header is malformed or
	// carries a "crit" parameter the active Context does not accept.
	ErrInvalidHeader = header.ErrInvalidHeader

	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = joseerr.ErrInvalidSignature
)

// Context carries the set of critical header parameter names ("crit", RFC
// 7515 section 4.1.11) this process understands and is therefore willing
// to accept in an incoming JWS. The zero value accepts no extensions,
// matching RFC 7515's default of rejecting any JWS whose protected header
// lists a "crit" parameter the verifier does not understand.
type Context struct {
	understood map[string]bool
}

// NewContext returns a Context accepting exactly the given extension
// header parameter names as critical.
func NewContext(understood ...string) *Context {
	c := &Context{understood: make(map[string]bool, len(understood))}
	for _, name := range understood {
		c.understood[name] = true
	}
	return c
}

func (c *Context) checkCritical(h *header.Header) error {
	crit, err := h.Critical()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}
	for _, name := range crit {
		if c == nil || !c.understood[name] {
			return fmt.Errorf("%w: unsupported critical header parameter %q", joseerr.ErrInvalidKeyFormat, name)
		}
	}
	return nil
}

// JWS represents a parsed or freshly signed JSON Web Signature. Once
// created it is immutable; use Sign or ParseCompact to obtain one.
type JWS struct {
	header           *header.Header
	headerEncoded    string
	payload          []byte
	payloadEncoded   string
	signature        []byte
	signatureEncoded string
}

// Header returns j's protected header.
func (j *JWS) Header() *header.Header {
	return j.header
}

// Payload returns a copy of j's payload.
func (j *JWS) Payload() []byte {
	b := make([]byte, len(j.payload))
	copy(b, j.payload)
	return b
}

// Compact renders j using compact serialization, RFC 7515 section 7.1.
func (j *JWS) Compact() string {
	return encoding.Join(j.headerEncoded, j.payloadEncoded, j.signatureEncoded)
}

// signingInput is the exact byte string the signature is computed over,
// per RFC 7515 section 5.1.
func signingInput(headerEncoded, payloadEncoded string) []byte {
	return []byte(encoding.Join(headerEncoded, payloadEncoded))
}

// VerifySignature checks j's signature using verifier. The header's "alg"
// must match verifier's algorithm.
func (j *JWS) VerifySignature(verifier Verifier) error {
	alg := jwa.SignatureAlgorithm(j.header.Algorithm())
	if err := verifier.Verify(alg, signingInput(j.headerEncoded, j.payloadEncoded), j.signature); err != nil {
		if errors.Is(err, joseerr.ErrInvalidKeyFormat) || errors.Is(err, joseerr.ErrUnsupportedAlgorithm) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return nil
}

// Sign signs payload with signer, using h as the protected header (h's
// "alg" is overwritten to match signer).
func Sign(signer Signer, payload []byte, h *header.Header) (*JWS, error) {
	if h == nil {
		h = header.New()
	}
	h.SetAlgorithm(string(signer.Alg()))

	headerJSON, err := h.MarshalJSON()
	if err != nil {
		return nil, err
	}
	headerEncoded := encoding.Encode(headerJSON)
	payloadEncoded := encoding.Encode(payload)

	signature, err := signer.Sign(signingInput(headerEncoded, payloadEncoded))
	if err != nil {
		return nil, err
	}

	return &JWS{
		header:           h,
		headerEncoded:    headerEncoded,
		payload:          payload,
		payloadEncoded:   payloadEncoded,
		signature:        signature,
		signatureEncoded: encoding.Encode(signature),
	}, nil
}

// ParseCompact parses compact into a JWS. It validates framing, decodes
// the header and payload, and checks the header's "crit" parameter
// against ctx, but does not verify the signature; call VerifySignature for
// that.
func ParseCompact(ctx *Context, compact string) (*JWS, error) {
	parts := encoding.Split(compact)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 dot-separated segments, got %d", ErrInvalidCompactJWS, len(parts))
	}

	headerJSON, err := encoding.Decode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}
	h, err := header.Parse(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}
	if err := ctx.checkCritical(h); err != nil {
		return nil, err
	}

	payload, err := encoding.Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	signature, err := encoding.Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	return &JWS{
		header:           h,
		headerEncoded:    parts[0],
		payload:          payload,
		payloadEncoded:   parts[1],
		signature:        signature,
		signatureEncoded: parts[2],
	}, nil
}

// Signer computes a signature or MAC over a byte slice.
type Signer interface {
	// Alg returns the RFC 7518 section 3.1 algorithm identifier this
	// Signer implements.
	Alg() jwa.SignatureAlgorithm

	// Sign returns the signature bytes for data.
	Sign(data []byte) ([]byte, error)
}

// Verifier checks a signature or MAC over a byte slice.
type Verifier interface {
	// Verify returns nil if signature is valid for data under alg, or a
	// non-nil error otherwise. Implementations must not modify data or
	// signature.
	Verify(alg jwa.SignatureAlgorithm, data, signature []byte) error
}

// SignerVerifier combines Signer and Verifier, as needed for symmetric
// (MAC-based) algorithms where the same secret signs and verifies.
type SignerVerifier interface {
	Signer
	Verifier
}

type symmetricSignature struct {
	Signer
}

func (s *symmetricSignature) Verify(alg jwa.SignatureAlgorithm, data, signature []byte) error {
	if alg != s.Alg() {
		return fmt.Errorf("%w: algorithm mismatch: header says %s, key is for %s", joseerr.ErrInvalidKeyFormat, alg, s.Alg())
	}
	computed, err := s.Sign(data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	if !hmac.Equal(computed, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// SymmetricSignature adapts a Signer for a symmetric algorithm into a
// SignerVerifier by verifying through recomputation and constant-time
// comparison.
func SymmetricSignature(s Signer) SignerVerifier {
	return &symmetricSignature{Signer: s}
}

type noneSigner struct{}

func (noneSigner) Alg() jwa.SignatureAlgorithm { return jwa.None }
func (noneSigner) Sign(data []byte) ([]byte, error) { return []byte{}, nil }

// None returns a SignerVerifier for the unsecured "none" algorithm, RFC
// 7515 section 8.5 / RFC 7519 section 6. It produces and accepts only the
// empty signature.
func None() SignerVerifier {
	return SymmetricSignature(noneSigner{})
}
