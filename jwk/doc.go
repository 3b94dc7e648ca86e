// Package jwk provides types and functions implementing JSON Web Keys and
// JWK Sets as specified in RFC 7517 (https://datatracker.ietf.org/doc/html/rfc7517)
// and the key-type-specific parameters of RFC 7518 section 6
// (https://www.rfc-editor.org/rfc/rfc7518.html#section-6).
package jwk
