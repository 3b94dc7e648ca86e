// Package header implements the JOSE header data model shared by JWS and
// JWE: a parameter map with typed accessors for the parameters registered
// in RFC 7515 section 4 and RFC 7516 section 4, plus the "crit" extension
// mechanism both specs define identically. It has no support for
// unprotected or per-recipient headers; only the single protected header
// carried by compact serialization is modeled.
package header

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/halimath/josex/internal/encoding"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/internal/omap"
	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jwk"
)

// ErrInvalidHeader is returned when a header's JSON representation is
// malformed, or a registered parameter has the wrong JSON type. It is the
// joseerr.ErrInvalidJwtFormat sentinel under this package's own name.
var ErrInvalidHeader = joseerr.ErrInvalidJwtFormat

// Header is a JOSE header: an ordered parameter map. Field order from
// Parse is preserved through MarshalJSON, as required by the compact
// serialization's byte-for-byte signing/AAD input invariant.
type Header struct {
	raw *omap.Map
}

// New returns an empty Header.
func New() *Header {
	return &Header{raw: omap.New()}
}

// Parse decodes data as a JSON object and wraps it as a Header.
func Parse(data []byte) (*Header, error) {
	raw := omap.New()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}
	return &Header{raw: raw}, nil
}

// MarshalJSON renders the header with members in the order they were set
// or parsed.
func (h *Header) MarshalJSON() ([]byte, error) {
	return h.raw.MarshalJSON()
}

// Clone returns a header carrying the same parameters in the same order.
func (h *Header) Clone() *Header {
	return &Header{raw: h.raw.Clone()}
}

// Get returns the raw value of parameter name and whether it was present.
func (h *Header) Get(name string) (any, bool) {
	return h.raw.Get(name)
}

// Has reports whether parameter name is present.
func (h *Header) Has(name string) bool {
	return h.raw.Has(name)
}

// Set stores value under name.
func (h *Header) Set(name string, value any) {
	h.raw.Set(name, value)
}

// Keys returns the parameter names in insertion order.
func (h *Header) Keys() []string {
	return h.raw.Keys()
}

func (h *Header) getString(name string) string {
	v, ok := h.raw.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Algorithm returns the "alg" parameter, shared by JWS (SignatureAlgorithm)
// and JWE (KeyManagementAlgorithm) headers; callers cast to the type they
// expect.
func (h *Header) Algorithm() string { return h.getString(jwa.AlgorithmKey) }

// SetAlgorithm sets the "alg" parameter.
func (h *Header) SetAlgorithm(alg string) { h.Set(jwa.AlgorithmKey, alg) }

// EncryptionAlgorithm returns the JWE "enc" parameter.
func (h *Header) EncryptionAlgorithm() string { return h.getString(jwa.EncryptionAlgorithmKey) }

// SetEncryptionAlgorithm sets the JWE "enc" parameter.
func (h *Header) SetEncryptionAlgorithm(enc string) { h.Set(jwa.EncryptionAlgorithmKey, enc) }

// CompressionAlgorithm returns the JWE "zip" parameter, or "" if absent.
func (h *Header) CompressionAlgorithm() string { return h.getString(jwa.CompressionAlgorithmKey) }

// Type returns the "typ" parameter, or "" if absent.
func (h *Header) Type() string { return h.getString(jwa.TypeKey) }

// SetType sets the "typ" parameter.
func (h *Header) SetType(typ string) { h.Set(jwa.TypeKey, typ) }

// ContentType returns the "cty" parameter, or "" if absent.
func (h *Header) ContentType() string { return h.getString(jwa.ContentTypeKey) }

// SetContentType sets the "cty" parameter.
func (h *Header) SetContentType(cty string) { h.Set(jwa.ContentTypeKey, cty) }

// KeyID returns the "kid" parameter, or "" if absent.
func (h *Header) KeyID() string { return h.getString(jwa.KeyIDKey) }

// SetKeyID sets the "kid" parameter.
func (h *Header) SetKeyID(kid string) { h.Set(jwa.KeyIDKey, kid) }

// JWKSetURL returns the "jku" parameter, or "" if absent.
func (h *Header) JWKSetURL() string { return h.getString(jwa.JWKSetURLKey) }

// SetJWKSetURL sets the "jku" parameter.
func (h *Header) SetJWKSetURL(jku string) { h.Set(jwa.JWKSetURLKey, jku) }

// X509URL returns the "x5u" parameter, or "" if absent.
func (h *Header) X509URL() string { return h.getString(jwa.X509URLKey) }

// SetX509URL sets the "x5u" parameter.
func (h *Header) SetX509URL(x5u string) { h.Set(jwa.X509URLKey, x5u) }

// X509CertificateChain decodes the "x5c" parameter, per RFC 7517 section
// 4.7: each entry is standard (not URL-safe) Base64 without padding
// constraints of its own.
func (h *Header) X509CertificateChain() ([][]byte, error) {
	v, ok := h.raw.Get(jwa.X509CertificateChainKey)
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array of strings", ErrInvalidHeader, jwa.X509CertificateChainKey)
	}
	out := make([][]byte, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be an array of strings", ErrInvalidHeader, jwa.X509CertificateChainKey)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %s", ErrInvalidHeader, jwa.X509CertificateChainKey, i, err)
		}
		out[i] = b
	}
	return out, nil
}

// SetX509CertificateChain stores chain as the "x5c" parameter, encoding
// each certificate as standard Base64 per RFC 7517.
func (h *Header) SetX509CertificateChain(chain [][]byte) {
	strs := make([]any, len(chain))
	for i, c := range chain {
		strs[i] = base64.StdEncoding.EncodeToString(c)
	}
	h.Set(jwa.X509CertificateChainKey, strs)
}

func (h *Header) getThumbprint(name string) ([]byte, error) {
	s := h.getString(name)
	if s == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidHeader, name, err)
	}
	return b, nil
}

// X509CertificateSHA1Thumbprint decodes the "x5t" parameter.
func (h *Header) X509CertificateSHA1Thumbprint() ([]byte, error) {
	return h.getThumbprint(jwa.X509CertificateSHA1ThumbprintKey)
}

// SetX509CertificateSHA1Thumbprint sets the "x5t" parameter.
func (h *Header) SetX509CertificateSHA1Thumbprint(thumbprint []byte) {
	h.Set(jwa.X509CertificateSHA1ThumbprintKey, base64.RawURLEncoding.EncodeToString(thumbprint))
}

// X509CertificateSHA256Thumbprint decodes the "x5t#S256" parameter.
func (h *Header) X509CertificateSHA256Thumbprint() ([]byte, error) {
	return h.getThumbprint(jwa.X509CertificateSHA256ThumbprintKey)
}

// SetX509CertificateSHA256Thumbprint sets the "x5t#S256" parameter.
func (h *Header) SetX509CertificateSHA256Thumbprint(thumbprint []byte) {
	h.Set(jwa.X509CertificateSHA256ThumbprintKey, base64.RawURLEncoding.EncodeToString(thumbprint))
}

// JSONWebKey returns the "jwk" parameter decoded as a *jwk.JWK, or nil if
// absent.
func (h *Header) JSONWebKey() (*jwk.JWK, error) {
	v, ok := h.raw.Get(jwa.JSONWebKeyKey)
	if !ok {
		return nil, nil
	}
	if k, ok := v.(*jwk.JWK); ok {
		return k, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a JSON object", ErrInvalidHeader, jwa.JSONWebKeyKey)
	}
	return jwk.FromJSONObject(obj)
}

// SetJSONWebKey sets the "jwk" parameter, keeping k's own member order for
// re-serialization.
func (h *Header) SetJSONWebKey(k *jwk.JWK) {
	h.Set(jwa.JSONWebKeyKey, k)
}

// Critical returns the "crit" parameter's member names.
func (h *Header) Critical() ([]string, error) {
	v, ok := h.raw.Get(jwa.CriticalKey)
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array of strings", ErrInvalidHeader, jwa.CriticalKey)
	}
	out := make([]string, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be an array of strings", ErrInvalidHeader, jwa.CriticalKey)
		}
		out[i] = s
	}
	return out, nil
}

// SetCritical sets the "crit" parameter.
func (h *Header) SetCritical(names []string) {
	vals := make([]any, len(names))
	for i, n := range names {
		vals[i] = n
	}
	h.Set(jwa.CriticalKey, vals)
}

func (h *Header) getEncoded(name string) ([]byte, error) {
	s := h.getString(name)
	if s == "" {
		return nil, nil
	}
	b, err := encoding.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidHeader, name, err)
	}
	return b, nil
}

// EphemeralPublicKey returns the JWE "epk" parameter, used by the ECDH-ES
// key agreement algorithms, or nil if absent.
func (h *Header) EphemeralPublicKey() (*jwk.JWK, error) {
	v, ok := h.raw.Get(jwa.EphemeralPublicKeyKey)
	if !ok {
		return nil, nil
	}
	if k, ok := v.(*jwk.JWK); ok {
		return k, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a JSON object", ErrInvalidHeader, jwa.EphemeralPublicKeyKey)
	}
	return jwk.FromJSONObject(obj)
}

// SetEphemeralPublicKey sets the "epk" parameter.
func (h *Header) SetEphemeralPublicKey(k *jwk.JWK) { h.Set(jwa.EphemeralPublicKeyKey, k) }

// AgreementPartyUInfo decodes the ECDH-ES "apu" parameter, or returns nil
// if absent.
func (h *Header) AgreementPartyUInfo() ([]byte, error) { return h.getEncoded(jwa.AgreementPartyUInfoKey) }

// SetAgreementPartyUInfo sets the "apu" parameter.
func (h *Header) SetAgreementPartyUInfo(apu []byte) { h.Set(jwa.AgreementPartyUInfoKey, encoding.Encode(apu)) }

// AgreementPartyVInfo decodes the ECDH-ES "apv" parameter, or returns nil
// if absent.
func (h *Header) AgreementPartyVInfo() ([]byte, error) { return h.getEncoded(jwa.AgreementPartyVInfoKey) }

// SetAgreementPartyVInfo sets the "apv" parameter.
func (h *Header) SetAgreementPartyVInfo(apv []byte) { h.Set(jwa.AgreementPartyVInfoKey, encoding.Encode(apv)) }

// InitializationVector decodes the "iv" parameter used by the AxxxGCMKW key
// wrapping algorithms, or returns nil if absent.
func (h *Header) InitializationVector() ([]byte, error) { return h.getEncoded(jwa.InitializationVectorKey) }

// SetInitializationVector sets the "iv" parameter.
func (h *Header) SetInitializationVector(iv []byte) { h.Set(jwa.InitializationVectorKey, encoding.Encode(iv)) }

// AuthenticationTag decodes the "tag" parameter used by the AxxxGCMKW key
// wrapping algorithms, or returns nil if absent.
func (h *Header) AuthenticationTag() ([]byte, error) { return h.getEncoded(jwa.AuthenticationTagKey) }

// SetAuthenticationTag sets the "tag" parameter.
func (h *Header) SetAuthenticationTag(tag []byte) { h.Set(jwa.AuthenticationTagKey, encoding.Encode(tag)) }

// PBES2SaltInput decodes the PBES2 "p2s" parameter, or returns nil if
// absent.
func (h *Header) PBES2SaltInput() ([]byte, error) { return h.getEncoded(jwa.PBES2SaltInputKey) }

// SetPBES2SaltInput sets the "p2s" parameter.
func (h *Header) SetPBES2SaltInput(salt []byte) { h.Set(jwa.PBES2SaltInputKey, encoding.Encode(salt)) }

// PBES2Count returns the PBES2 "p2c" iteration count and whether it was
// present and a whole number.
func (h *Header) PBES2Count() (int, bool) {
	v, ok := h.raw.Get(jwa.PBES2CountKey)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// SetPBES2Count sets the "p2c" parameter.
func (h *Header) SetPBES2Count(count int) { h.Set(jwa.PBES2CountKey, float64(count)) }

// Base64URLEncodePayload returns the RFC 7797 "b64" parameter and whether
// it was present.
func (h *Header) Base64URLEncodePayload() (bool, bool) {
	v, ok := h.raw.Get(jwa.Base64URLEncodePayloadKey)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// SetBase64URLEncodePayload sets the "b64" parameter.
func (h *Header) SetBase64URLEncodePayload(b64 bool) { h.Set(jwa.Base64URLEncodePayloadKey, b64) }

// URL returns the "url" parameter, or "" if absent.
func (h *Header) URL() string { return h.getString(jwa.URLKey) }

// SetURL sets the "url" parameter.
func (h *Header) SetURL(url string) { h.Set(jwa.URLKey, url) }

// Nonce returns the "nonce" parameter, or "" if absent.
func (h *Header) Nonce() string { return h.getString(jwa.NonceKey) }

// SetNonce sets the "nonce" parameter.
func (h *Header) SetNonce(nonce string) { h.Set(jwa.NonceKey, nonce) }
