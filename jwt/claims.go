package jwt

import (
	"encoding/json"
	"fmt"

	"github.com/halimath/josex/internal/omap"
)

// Registered claim names, RFC 7519 section 4.1.
const (
	IssuerKey         = "iss"
	SubjectKey        = "sub"
	AudienceKey       = "aud"
	ExpirationTimeKey = "exp"
	NotBeforeKey      = "nbf"
	IssuedAtKey       = "iat"
	JWTIDKey          = "jti"
)

// Payload is a JWT claims set: an ordered parameter map, mirroring the
// jwk.JWK and header.Header data model so that re-serialization preserves
// the order claims were set or parsed in.
type Payload struct {
	raw *omap.Map
}

// NewPayload returns an empty claims set.
func NewPayload() *Payload {
	return &Payload{raw: omap.New()}
}

// ParsePayload decodes data as a JSON object and wraps it as a Payload.
// It fails with ErrInvalidJwtFormat if data is not a JSON object.
func ParsePayload(data []byte) (*Payload, error) {
	raw := omap.New()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: claims payload is not a JSON object: %s", ErrInvalidJwtFormat, err)
	}
	return &Payload{raw: raw}, nil
}

// MarshalJSON renders the claims set with members in the order they were
// set or parsed.
func (p *Payload) MarshalJSON() ([]byte, error) {
	return p.raw.MarshalJSON()
}

// Get returns the raw value of claim name and whether it was present.
func (p *Payload) Get(name string) (any, bool) {
	return p.raw.Get(name)
}

// Set stores value under claim name.
func (p *Payload) Set(name string, value any) {
	p.raw.Set(name, value)
}

// Unmarshal decodes the claims set into v, a pointer to a type
// encoding/json can populate, for callers that prefer a typed claims
// struct over the raw map accessors.
func (p *Payload) Unmarshal(v any) error {
	data, err := p.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (p *Payload) getString(name string) string {
	v, ok := p.raw.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (p *Payload) getNumber(name string) (int64, bool) {
	v, ok := p.raw.Get(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// Issuer returns the "iss" claim, or "" if absent.
func (p *Payload) Issuer() string { return p.getString(IssuerKey) }

// SetIssuer sets the "iss" claim.
func (p *Payload) SetIssuer(iss string) { p.Set(IssuerKey, iss) }

// Subject returns the "sub" claim, or "" if absent.
func (p *Payload) Subject() string { return p.getString(SubjectKey) }

// SetSubject sets the "sub" claim.
func (p *Payload) SetSubject(sub string) { p.Set(SubjectKey, sub) }

// Audience returns the "aud" claim normalized to a slice: RFC 7519
// section 4.1.3 allows it to be encoded either as a single string or an
// array of strings.
func (p *Payload) Audience() []string {
	v, ok := p.raw.Get(AudienceKey)
	if !ok {
		return nil
	}
	switch aud := v.(type) {
	case string:
		return []string{aud}
	case []any:
		out := make([]string, 0, len(aud))
		for _, e := range aud {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SetAudience sets the "aud" claim. A single value is encoded as a plain
// string; multiple values are encoded as an array.
func (p *Payload) SetAudience(audience ...string) {
	if len(audience) == 1 {
		p.Set(AudienceKey, audience[0])
		return
	}
	vals := make([]any, len(audience))
	for i, a := range audience {
		vals[i] = a
	}
	p.Set(AudienceKey, vals)
}

// ExpirationTime returns the "exp" claim and whether it was present.
func (p *Payload) ExpirationTime() (int64, bool) { return p.getNumber(ExpirationTimeKey) }

// SetExpirationTime sets the "exp" claim to a Unix timestamp in seconds.
func (p *Payload) SetExpirationTime(exp int64) { p.Set(ExpirationTimeKey, exp) }

// NotBefore returns the "nbf" claim and whether it was present.
func (p *Payload) NotBefore() (int64, bool) { return p.getNumber(NotBeforeKey) }

// SetNotBefore sets the "nbf" claim to a Unix timestamp in seconds.
func (p *Payload) SetNotBefore(nbf int64) { p.Set(NotBeforeKey, nbf) }

// IssuedAt returns the "iat" claim and whether it was present.
func (p *Payload) IssuedAt() (int64, bool) { return p.getNumber(IssuedAtKey) }

// SetIssuedAt sets the "iat" claim to a Unix timestamp in seconds.
func (p *Payload) SetIssuedAt(iat int64) { p.Set(IssuedAtKey, iat) }

// JWTID returns the "jti" claim, or "" if absent.
func (p *Payload) JWTID() string { return p.getString(JWTIDKey) }

// SetJWTID sets the "jti" claim.
func (p *Payload) SetJWTID(jti string) { p.Set(JWTIDKey, jti) }
