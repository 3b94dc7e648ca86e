package jwt

import (
	"errors"
	"fmt"

	"github.com/halimath/josex/internal/encoding"
	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jwe"
	"github.com/halimath/josex/jwk"
	"github.com/halimath/josex/jws"
)

var (
	// ErrInvalidJwtFormat is returned when a string is not a syntactically
	// valid JWT, or its header does not satisfy the constraints this
	// package imposes beyond plain JWS/JWE validity (segment count,
	// "alg"/"kid" consistency for unsecured tokens, a non-object claims
	// payload).
	ErrInvalidJwtFormat = joseerr.ErrInvalidJwtFormat

	// ErrInvalidClaim is returned by Validator.Validate when a claim fails
	// validation.
	ErrInvalidClaim = joseerr.ErrInvalidClaim

	// ErrVerificationFailed is returned when signature verification or
	// decryption fails while decoding a secured token. It is always
	// accompanied by the underlying jws/jwe error, which itself carries one
	// of this module's shared error categories.
	ErrVerificationFailed = errors.New("verification failed")
)

// Context composes a jws.Context and a jwe.Context, sharing a single
// critical-header acceptance registry across both secured token forms.
type Context struct {
	jwsCtx *jws.Context
	jweCtx *jwe.Context
}

// NewContext returns a Context accepting exactly the given extension
// header parameter names as critical, for both JWS- and JWE-secured
// tokens.
func NewContext(understood ...string) *Context {
	return &Context{
		jwsCtx: jws.NewContext(understood...),
		jweCtx: jwe.NewContext(understood...),
	}
}

func (c *Context) jws() *jws.Context {
	if c == nil {
		return nil
	}
	return c.jwsCtx
}

func (c *Context) jwe() *jwe.Context {
	if c == nil {
		return nil
	}
	return c.jweCtx
}

// EncodeUnsecured encodes payload as an unsecured JWT (RFC 7519 section
// 6): "alg" is set to "none" and the signature segment is empty.
func EncodeUnsecured(payload *Payload, h *header.Header) (string, error) {
	if h == nil {
		h = header.New()
	}
	h.SetAlgorithm(string(jwa.None))

	headerJSON, err := h.MarshalJSON()
	if err != nil {
		return "", err
	}
	payloadJSON, err := payload.MarshalJSON()
	if err != nil {
		return "", err
	}

	return encoding.Join(encoding.Encode(headerJSON), encoding.Encode(payloadJSON), ""), nil
}

// DecodeUnsecured decodes an unsecured JWT, requiring exactly three
// segments, an empty signature segment, "alg"=="none", and no "kid"
// parameter (RFC 7519 section 6.1 forbids combining "none" with key
// identification, since an unsecured token carries no verifiable binding
// to a key).
func DecodeUnsecured(compact string) (*header.Header, *Payload, error) {
	parts := encoding.Split(compact)
	if len(parts) != 3 {
		return nil, nil, fmt.Errorf("%w: expected 3 dot-separated segments, got %d", ErrInvalidJwtFormat, len(parts))
	}
	if parts[2] != "" {
		return nil, nil, fmt.Errorf("%w: unsecured token must have an empty signature segment", ErrInvalidJwtFormat)
	}

	headerJSON, err := encoding.Decode(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidJwtFormat, err)
	}
	h, err := header.Parse(headerJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidJwtFormat, err)
	}
	if h.Algorithm() != string(jwa.None) {
		return nil, nil, fmt.Errorf("%w: unsecured token must have alg=none", ErrInvalidJwtFormat)
	}
	if h.KeyID() != "" {
		return nil, nil, fmt.Errorf("%w: unsecured token must not carry a kid", ErrInvalidJwtFormat)
	}

	payloadJSON, err := encoding.Decode(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidJwtFormat, err)
	}
	payload, err := ParsePayload(payloadJSON)
	if err != nil {
		return nil, nil, err
	}

	return h, payload, nil
}

// critContainsB64 reports whether h declares "b64" as a critical
// extension, which section 3 of RFC 7797 and this package's scope
// together forbid at the JWT level: JWT always uses the standard
// (b64=true) JWS payload encoding.
func critContainsB64(h *header.Header) bool {
	crit, err := h.Critical()
	if err != nil {
		return false
	}
	for _, name := range crit {
		if name == jwa.Base64URLEncodePayloadKey {
			return true
		}
	}
	return false
}

// EncodeWithSigner signs payload as a JWS-secured JWT, setting "typ" to
// "JWT" unless h already sets it. It rejects a "crit" containing "b64".
func EncodeWithSigner(signer jws.Signer, payload *Payload, h *header.Header) (string, error) {
	if h == nil {
		h = header.New()
	}
	if critContainsB64(h) {
		return "", fmt.Errorf("%w: JWT does not support a critical \"b64\" parameter", ErrInvalidJwtFormat)
	}
	if h.Type() == "" {
		h.SetType("JWT")
	}

	payloadJSON, err := payload.MarshalJSON()
	if err != nil {
		return "", err
	}

	j, err := jws.Sign(signer, payloadJSON, h)
	if err != nil {
		return "", err
	}
	return j.Compact(), nil
}

// EncodeWithEncrypter encrypts payload as a JWE-secured JWT, setting
// "typ" to "JWT" unless h already sets it, wrapping jwe.Encrypt.
func EncodeWithEncrypter(kw jwe.KeyWrapper, enc jwe.ContentEncryption, payload *Payload, h *header.Header) (string, error) {
	if h == nil {
		h = header.New()
	}
	if h.Type() == "" {
		h.SetType("JWT")
	}

	payloadJSON, err := payload.MarshalJSON()
	if err != nil {
		return "", err
	}

	j, err := jwe.Encrypt(kw, enc, payloadJSON, h)
	if err != nil {
		return "", err
	}
	return j.Compact(), nil
}

// DecodeHeader inspects compact's segment count to determine whether it is
// a JWS- or JWE-secured token and returns its header, without verifying
// the signature or decrypting the content. jwsHeader is non-nil for a
// 3-segment (JWS) token, jweHeader for a 5-segment (JWE) token; exactly
// one is non-nil on success.
func DecodeHeader(ctx *Context, compact string) (jwsHeader, jweHeader *header.Header, err error) {
	switch len(encoding.Split(compact)) {
	case 3:
		j, err := jws.ParseCompact(ctx.jws(), compact)
		if err != nil {
			return nil, nil, err
		}
		return j.Header(), nil, nil
	case 5:
		j, err := jwe.ParseCompact(ctx.jwe(), compact)
		if err != nil {
			return nil, nil, err
		}
		return nil, j.Header(), nil
	default:
		return nil, nil, fmt.Errorf("%w: expected 3 (JWS) or 5 (JWE) dot-separated segments", ErrInvalidJwtFormat)
	}
}

// SignerSelector resolves the Verifier to use for a JWS-secured token from
// its header, e.g. by inspecting "kid" or "alg".
type SignerSelector func(h *header.Header) (jws.Verifier, error)

// EncrypterSelector resolves the KeyWrapper/ContentEncryption pair to use
// for a JWE-secured token from its header.
type EncrypterSelector func(h *header.Header) (jwe.KeyWrapper, jwe.ContentEncryption, error)

// DecodeWithSignerSelector parses a JWS-secured JWT, resolves a Verifier
// via selector, verifies the signature, and parses the payload as a
// claims set.
func DecodeWithSignerSelector(ctx *Context, compact string, selector SignerSelector) (*header.Header, *Payload, error) {
	j, err := jws.ParseCompact(ctx.jws(), compact)
	if err != nil {
		return nil, nil, err
	}

	verifier, err := selector(j.Header())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", joseerr.ErrInvalidKeyFormat, err)
	}
	if err := j.VerifySignature(verifier); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	payload, err := ParsePayload(j.Payload())
	if err != nil {
		return nil, nil, err
	}
	return j.Header(), payload, nil
}

// DecodeWithEncrypterSelector parses a JWE-secured JWT, resolves a
// KeyWrapper/ContentEncryption pair via selector, decrypts the token, and
// parses the payload as a claims set.
func DecodeWithEncrypterSelector(ctx *Context, compact string, selector EncrypterSelector) (*header.Header, *Payload, error) {
	j, err := jwe.ParseCompact(ctx.jwe(), compact)
	if err != nil {
		return nil, nil, err
	}

	kw, enc, err := selector(j.Header())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", joseerr.ErrInvalidKeyFormat, err)
	}
	plaintext, err := j.Decrypt(kw, enc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	payload, err := ParsePayload(plaintext)
	if err != nil {
		return nil, nil, err
	}
	return j.Header(), payload, nil
}

// DecodeWithSignerInJWKSet builds a SignerSelector from a JWK set: it
// looks up candidates by the header's "kid" (or considers every key, if
// absent), and uses toVerifier to turn the first key for which it does
// not return an error into a Verifier.
func DecodeWithSignerInJWKSet(ctx *Context, compact string, keys jwk.Set, toVerifier func(*jwk.JWK) (jws.Verifier, error)) (*header.Header, *Payload, error) {
	return DecodeWithSignerSelector(ctx, compact, func(h *header.Header) (jws.Verifier, error) {
		candidates := keys
		if kid := h.KeyID(); kid != "" {
			candidates = keys.All(jwk.WithID(kid))
		}
		var lastErr error
		for _, k := range candidates.Keys() {
			v, err := toVerifier(k)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("no matching key found in JWK set")
		}
		return nil, lastErr
	})
}

// DecodeWithEncrypterInJWKSet builds an EncrypterSelector from a JWK set,
// analogous to DecodeWithSignerInJWKSet.
func DecodeWithEncrypterInJWKSet(ctx *Context, compact string, keys jwk.Set, toDecrypter func(*jwk.JWK) (jwe.KeyWrapper, jwe.ContentEncryption, error)) (*header.Header, *Payload, error) {
	return DecodeWithEncrypterSelector(ctx, compact, func(h *header.Header) (jwe.KeyWrapper, jwe.ContentEncryption, error) {
		candidates := keys
		if kid := h.KeyID(); kid != "" {
			candidates = keys.All(jwk.WithID(kid))
		}
		var lastErr error
		for _, k := range candidates.Keys() {
			kw, enc, err := toDecrypter(k)
			if err == nil {
				return kw, enc, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("no matching key found in JWK set")
		}
		return nil, nil, lastErr
	})
}
