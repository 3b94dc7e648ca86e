package jwe

import (
	"fmt"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwa"
)

// directKeyWrapper implements the "dir" key management algorithm of RFC
// 7518 section 4.5: the shared symmetric key is used directly as the
// content encryption key, with no wrapping step and an empty JWE Encrypted
// Key segment.
type directKeyWrapper struct {
	key []byte
}

// Direct returns a KeyWrapper that uses key directly as the content
// encryption key.
func Direct(key []byte) KeyWrapper {
	return &directKeyWrapper{key: key}
}

func (d *directKeyWrapper) Alg() string { return string(jwa.Direct) }

func (d *directKeyWrapper) ProvideCEK(cekSize int, h *header.Header) ([]byte, error) {
	if len(d.key) != cekSize {
		return nil, fmt.Errorf("jwe: direct key management requires the shared key to match the content encryption key size")
	}
	return d.key, nil
}

func (d *directKeyWrapper) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	return []byte{}, nil
}

func (d *directKeyWrapper) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	if len(encryptedKey) != 0 {
		return nil, fmt.Errorf("jwe: direct key management requires an empty encrypted key")
	}
	if len(d.key) != cekSize {
		return nil, fmt.Errorf("jwe: shared key size does not match content encryption algorithm")
	}
	return d.key, nil
}
