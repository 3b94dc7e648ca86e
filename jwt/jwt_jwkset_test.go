package jwt_test

import (
	"crypto/rand"
	"testing"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jwk"
	"github.com/halimath/josex/jws"
	"github.com/halimath/josex/jwt"
)

func TestDecodeWithSignerInJWKSet(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	k := jwk.FromSymmetricKey(secret)
	k.Set("kid", "key-1")
	k.Set("alg", string(jwa.HS256))

	signer := jws.HS256(secret)
	payload := jwt.NewPayload()
	payload.SetSubject("user-in-set")

	h := header.New()
	h.SetKeyID("key-1")
	compact, err := jwt.EncodeWithSigner(signer, payload, h)
	if err != nil {
		t.Fatal(err)
	}

	set := jwk.NewSet(k)
	_, decoded, err := jwt.DecodeWithSignerInJWKSet(nil, compact, set, func(candidate *jwk.JWK) (jws.Verifier, error) {
		secret, err := candidate.SymmetricKey()
		if err != nil {
			return nil, err
		}
		return jws.HS256(secret), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Subject() != "user-in-set" {
		t.Errorf("got subject %q", decoded.Subject())
	}
}
