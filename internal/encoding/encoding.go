// Package encoding implements the Base64URL-no-padding codec and the
// dot-segment framing used by every compact JOSE serialization, as
// specified in RFC 7515 section 2
// (https://datatracker.ietf.org/doc/html/rfc7515#section-2).
package encoding

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidEncoding is returned when a string is not valid base64url
// (no padding) data.
var ErrInvalidEncoding = errors.New("invalid base64url encoding")

var enc = base64.URLEncoding.WithPadding(base64.NoPadding)

// Encode encodes data using base64url with no padding.
func Encode(data []byte) string {
	return enc.EncodeToString(data)
}

// Decode decodes a base64url (no padding) encoded string. It never tolerates
// whitespace or the padding character and rejects lengths congruent to 1 mod
// 4, both disallowed by RFC 4648 section 5.
func Decode(data string) ([]byte, error) {
	if len(data)%4 == 1 || strings.ContainsAny(data, "\r\n") {
		return nil, ErrInvalidEncoding
	}
	b, err := enc.DecodeString(data)
	if err != nil {
		return nil, errors.Join(ErrInvalidEncoding, err)
	}
	return b, nil
}

// Join concatenates the given base64url segments with the "." separator
// used by all compact JOSE serializations.
func Join(segments ...string) string {
	return strings.Join(segments, ".")
}

// Split splits a compact serialization into its dot-delimited segments. It
// performs no further validation; callers check the resulting segment count.
func Split(compact string) []string {
	return strings.Split(compact, ".")
}
