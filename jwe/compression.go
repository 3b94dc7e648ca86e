package jwe

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

// compressDEFLATE compresses plaintext with raw DEFLATE (RFC 1951), the
// sole "zip" algorithm registered by RFC 7518 section 7.3.
func compressDEFLATE(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressDEFLATE(compressed []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyCompression compresses plaintext according to zip, the "zip" header
// parameter value ("" means no compression).
func applyCompression(zip string, plaintext []byte) ([]byte, error) {
	switch zip {
	case "":
		return plaintext, nil
	case string(jwa.DEF):
		return compressDEFLATE(plaintext)
	default:
		return nil, fmt.Errorf("%w: unsupported compression algorithm %q", joseerr.ErrUnsupportedAlgorithm, zip)
	}
}

// reverseCompression decompresses plaintext according to zip, reversing
// applyCompression.
func reverseCompression(zip string, plaintext []byte) ([]byte, error) {
	switch zip {
	case "":
		return plaintext, nil
	case string(jwa.DEF):
		return decompressDEFLATE(plaintext)
	default:
		return nil, fmt.Errorf("%w: unsupported compression algorithm %q", joseerr.ErrUnsupportedAlgorithm, zip)
	}
}
