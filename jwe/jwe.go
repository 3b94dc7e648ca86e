// Package jwe implements JSON Web Encryption as defined in RFC 7516
// (https://datatracker.ietf.org/doc/html/rfc7516). Only the compact
// serialization is supported, which restricts a JWE to a single
// recipient and a single protected header; there is no unprotected or
// per-recipient header support. Key management and content encryption
// algorithms are dispatched through the KeyWrapper and ContentEncryption
// interfaces implemented in this package's other source files.
package jwe

import (
	"fmt"

	"github.com/halimath/josex/internal/encoding"
	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
)

var (
	// ErrInvalidCompactJWE is returned when a string is not a syntactically
	// valid JWE in compact serialization.
	ErrInvalidCompactJWE = joseerr.ErrInvalidJwtFormat

	// ErrInvalidHeader is returned when a JWE header is malformed, including
	// a "crit" parameter that is not an array of strings. An unsupported
	// "crit" name or an "alg"/"enc" that disagrees with the key material
	// supplied to decrypt is reported as joseerr.ErrInvalidKeyFormat.
	ErrInvalidHeader = header.ErrInvalidHeader

	// ErrDecryptionFailed is returned when key unwrapping or content
	// decryption fails, including authentication tag mismatches. Per RFC
	// 7516 section 11.5, implementations must not distinguish the many
	// possible causes of failure in any way observable to an attacker.
	ErrDecryptionFailed = joseerr.ErrInvalidSignature
)

// Context carries the set of critical header parameter names this process
// understands, mirroring jws.Context. The zero value accepts no
// extensions.
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

// JWE represents a parsed or freshly encrypted JSON Web Encryption
// message in compact form.
type JWE struct {
	header              *header.Header
	headerEncoded       string
	encryptedKey        []byte
	encryptedKeyEncoded string
	iv                  []byte
	ivEncoded           string
	ciphertext          []byte
	ciphertextEncoded   string
	tag                 []byte
	tagEncoded          string
}

// Header returns j's protected header.
func (j *JWE) Header() *header.Header {
	return j.header
}

// Compact renders j using compact serialization, RFC 7516 section 7.1.
func (j *JWE) Compact() string {
	return encoding.Join(j.headerEncoded, j.encryptedKeyEncoded, j.ivEncoded, j.ciphertextEncoded, j.tagEncoded)
}

// ContentEncryption implements a JWE content encryption algorithm ("enc"),
// as registered in RFC 7518 section 5.
type ContentEncryption interface {
	// Alg returns the algorithm identifier.
	Alg() string

	// KeySize returns the required content encryption key size in bytes.
	KeySize() int

	// Encrypt encrypts plaintext under cek and iv, authenticating aad
	// (the ASCII protected header, RFC 7516 section 5.1 step 14), and
	// returns the ciphertext and authentication tag.
	Encrypt(cek, iv, aad, plaintext []byte) (ciphertext, tag []byte, err error)

	// Decrypt reverses Encrypt, returning an error if tag does not
	// authenticate; JWE.Decrypt reports any such error as
	// ErrDecryptionFailed.
	Decrypt(cek, iv, aad, ciphertext, tag []byte) (plaintext []byte, err error)
}

// KeyWrapper implements a JWE key management algorithm ("alg"), as
// registered in RFC 7518 section 4. A single KeyWrapper value is used for
// both directions: WrapKey is called while encrypting, UnwrapKey while
// decrypting.
type KeyWrapper interface {
	// Alg returns the algorithm identifier.
	Alg() string

	// WrapKey produces the JWE Encrypted Key for cek, writing any
	// algorithm-specific parameters (e.g. "epk", "iv", "tag", "p2s",
	// "p2c") into h. For key-agreement and direct modes the returned
	// slice is empty and cek is transported purely via header parameters
	// and/or key agreement.
	WrapKey(cek []byte, h *header.Header) (encryptedKey []byte, err error)

	// UnwrapKey recovers the content encryption key of cekSize bytes from
	// encryptedKey and h.
	UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) (cek []byte, err error)
}

// cekProvider is implemented by KeyWrapper algorithms that determine the
// content encryption key themselves instead of having one generated for
// them: "dir" (the CEK is the shared key) and the ECDH-ES direct agreement
// mode (the CEK is the agreed-upon derived key). Encrypt consults it in
// preference to generating a random CEK.
type cekProvider interface {
	ProvideCEK(cekSize int, h *header.Header) (cek []byte, err error)
}

// Encrypt builds a compact JWE: it wraps a fresh content encryption key
// with kw, encrypts payload with enc, and assembles the result using h as
// the protected header (h's "alg" and "enc" are overwritten to match kw
// and enc).
func Encrypt(kw KeyWrapper, enc ContentEncryption, payload []byte, h *header.Header) (*JWE, error) {
	if h == nil {
		h = header.New()
	}
	h.SetAlgorithm(kw.Alg())
	h.SetEncryptionAlgorithm(enc.Alg())

	var cek []byte
	var err error
	if p, ok := kw.(cekProvider); ok {
		cek, err = p.ProvideCEK(enc.KeySize(), h)
	} else {
		cek, err = randomBytes(enc.KeySize())
	}
	if err != nil {
		return nil, err
	}

	encryptedKey, err := kw.WrapKey(cek, h)
	if err != nil {
		return nil, fmt.Errorf("jwe: failed to wrap content encryption key: %w", err)
	}

	headerJSON, err := h.MarshalJSON()
	if err != nil {
		return nil, err
	}
	headerEncoded := encoding.Encode(headerJSON)

	iv, err := ivForEncryption(enc)
	if err != nil {
		return nil, err
	}

	compressed, err := applyCompression(h.CompressionAlgorithm(), payload)
	if err != nil {
		return nil, err
	}

	ciphertext, tag, err := enc.Encrypt(cek, iv, []byte(headerEncoded), compressed)
	if err != nil {
		return nil, fmt.Errorf("jwe: encryption failed: %w", err)
	}

	return &JWE{
		header:              h,
		headerEncoded:       headerEncoded,
		encryptedKey:        encryptedKey,
		encryptedKeyEncoded: encoding.Encode(encryptedKey),
		iv:                  iv,
		ivEncoded:           encoding.Encode(iv),
		ciphertext:          ciphertext,
		ciphertextEncoded:   encoding.Encode(ciphertext),
		tag:                 tag,
		tagEncoded:          encoding.Encode(tag),
	}, nil
}

// ParseCompact parses compact into a JWE, validating framing and the
// header's "crit" parameter against ctx. It does not decrypt; call
// Decrypt for that.
func ParseCompact(ctx *Context, compact string) (*JWE, error) {
	parts := encoding.Split(compact)
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: expected 5 dot-separated segments, got %d", ErrInvalidCompactJWE, len(parts))
	}

	headerJSON, err := encoding.Decode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}
	h, err := header.Parse(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}
	if err := ctx.checkCritical(h); err != nil {
		return nil, err
	}

	encryptedKey, err := encoding.Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}
	iv, err := encoding.Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}
	ciphertext, err := encoding.Decode(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}
	tag, err := encoding.Decode(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWE, err)
	}

	return &JWE{
		header:              h,
		headerEncoded:       parts[0],
		encryptedKey:        encryptedKey,
		encryptedKeyEncoded: parts[1],
		iv:                  iv,
		ivEncoded:           parts[2],
		ciphertext:          ciphertext,
		ciphertextEncoded:   parts[3],
		tag:                 tag,
		tagEncoded:          parts[4],
	}, nil
}

// Decrypt unwraps j's content encryption key with kw and decrypts the
// ciphertext with enc. The header's "alg" and "enc" must match kw and enc;
// unlike a genuine decryption failure, this mismatch is a caller/key-
// selection error and is reported as such rather than folded into
// ErrDecryptionFailed.
func (j *JWE) Decrypt(kw KeyWrapper, enc ContentEncryption) ([]byte, error) {
	if j.header.Algorithm() != kw.Alg() || j.header.EncryptionAlgorithm() != enc.Alg() {
		return nil, fmt.Errorf("%w: key management or content encryption algorithm does not match header", joseerr.ErrInvalidKeyFormat)
	}

	cek, err := kw.UnwrapKey(j.encryptedKey, j.header, enc.KeySize())
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := enc.Decrypt(cek, j.iv, []byte(j.headerEncoded), j.ciphertext, j.tag)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err = reverseCompression(j.header.CompressionAlgorithm(), plaintext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
