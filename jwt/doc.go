// Package jwt implements JSON Web Tokens as specified in RFC 7519
// (https://datatracker.ietf.org/doc/html/rfc7519), built on top of this
// module's jws and jwe packages. Only compact serialization is supported:
// a JWT is either an unsecured, JWS-secured, or JWE-secured compact
// string, carrying a JSON claims set as its payload.
package jwt
