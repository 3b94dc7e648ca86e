package jwt

import "fmt"

// Validator checks a decoded Payload's registered and custom claims, per
// RFC 7519 section 4.1. All fields are optional; an unset field performs
// no check.
type Validator struct {
	// BaseTime is the reference Unix timestamp (seconds) "exp" and "nbf"
	// are checked against. Zero means perform no temporal checks.
	BaseTime int64

	Issuer    string
	Subject   string
	Audience  string
	JWTID     string

	// Claims asserts arbitrary additional claims by equality against
	// their raw decoded JSON value.
	Claims map[string]any

	// RequireIssuer, RequireSubject, RequireAudience and RequireJWTID
	// control whether a missing claim is itself a validation failure. A
	// non-empty Issuer, Subject, Audience or JWTID is checked whether or
	// not the claim is present, so a missing claim also fails that check.
	RequireIssuer, RequireSubject, RequireAudience, RequireJWTID bool
}

// Validate applies v's rules to payload in the order specified by RFC
// 7519: expiration, then not-before, then equality checks on the
// remaining declared fields. All failures wrap ErrInvalidClaim.
func (v *Validator) Validate(payload *Payload) error {
	if v.BaseTime != 0 {
		if exp, ok := payload.ExpirationTime(); ok && v.BaseTime >= exp {
			return fmt.Errorf("%w: token expired at %d", ErrInvalidClaim, exp)
		}
		if nbf, ok := payload.NotBefore(); ok && v.BaseTime < nbf {
			return fmt.Errorf("%w: token not valid before %d", ErrInvalidClaim, nbf)
		}
	}

	for _, r := range []struct {
		name     string
		required bool
	}{{IssuerKey, v.RequireIssuer}, {SubjectKey, v.RequireSubject}, {AudienceKey, v.RequireAudience}, {JWTIDKey, v.RequireJWTID}} {
		if _, ok := payload.Get(r.name); r.required && !ok {
			return fmt.Errorf("%w: required claim %q is missing", ErrInvalidClaim, r.name)
		}
	}

	if v.Issuer != "" {
		if iss := payload.Issuer(); iss != v.Issuer {
			return fmt.Errorf("%w: issuer %q does not match expected %q", ErrInvalidClaim, iss, v.Issuer)
		}
	}

	if v.Subject != "" {
		if sub := payload.Subject(); sub != v.Subject {
			return fmt.Errorf("%w: subject %q does not match expected %q", ErrInvalidClaim, sub, v.Subject)
		}
	}

	if v.Audience != "" {
		if !containsString(payload.Audience(), v.Audience) {
			return fmt.Errorf("%w: audience does not contain %q", ErrInvalidClaim, v.Audience)
		}
	}

	if v.JWTID != "" {
		if jti := payload.JWTID(); jti != v.JWTID {
			return fmt.Errorf("%w: jwt id %q does not match expected %q", ErrInvalidClaim, jti, v.JWTID)
		}
	}

	for name, want := range v.Claims {
		got, ok := payload.Get(name)
		if !ok || !jsonEqual(got, want) {
			return fmt.Errorf("%w: claim %q does not match expected value", ErrInvalidClaim, name)
		}
	}

	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func jsonEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
