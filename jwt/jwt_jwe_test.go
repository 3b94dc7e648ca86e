package jwt_test

import (
	"crypto/rand"
	"testing"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwe"
	"github.com/halimath/josex/jwt"
)

func TestEncryptedRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	kw := jwe.Direct(key)
	enc := jwe.A256GCM()

	payload := jwt.NewPayload()
	payload.SetSubject("encrypted-user")

	compact, err := jwt.EncodeWithEncrypter(kw, enc, payload, nil)
	if err != nil {
		t.Fatal(err)
	}

	h, decoded, err := jwt.DecodeWithEncrypterSelector(nil, compact, func(h *header.Header) (jwe.KeyWrapper, jwe.ContentEncryption, error) {
		return kw, enc, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.Type() != "JWT" {
		t.Errorf("expected typ=JWT, got %q", h.Type())
	}
	if decoded.Subject() != "encrypted-user" {
		t.Errorf("got subject %q", decoded.Subject())
	}
}
