// Package joseerr defines the sentinel errors shared across jwk, jws, jwe
// and jwt, so that a caller can classify any failure from this module with
// a single errors.Is check regardless of which layer produced it. Each
// package's own sentinels (e.g. jws.ErrInvalidSignature, jwk.ErrInvalidKey)
// alias one of these directly rather than inventing a parallel identity.
package joseerr

import "errors"

var (
	// ErrInvalidJwtFormat is returned for a malformed compact serialization:
	// the wrong number of dot-separated segments, a segment that is not
	// valid Base64URL, a header or payload that does not decode to a JSON
	// object, a registered header parameter with the wrong JSON type, or an
	// unsecured JWT ("alg"=="none") that carries a "kid".
	ErrInvalidJwtFormat = errors.New("invalid JWT format")

	// ErrInvalidKeyFormat is returned when key material cannot be used to
	// complete an operation: unusable JWK/PEM/DER data, a mismatch between
	// the header's algorithm and the handler selected for it, a selector
	// that returns no usable handler, a "crit" parameter naming something
	// unsupported, or a JWE whose "alg"/"enc" disagree with the key
	// management mode actually in use.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrInvalidSignature is returned when a JWS signature does not verify
	// or a JWE authentication tag does not authenticate.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidClaim is returned when a JWT payload fails validation.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrUnsupportedAlgorithm is returned when a header's "alg" or "enc" (or
	// an algorithm identifier passed directly to a constructor) does not
	// name an algorithm this module implements.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
