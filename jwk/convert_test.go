package jwk_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/halimath/josex/jwk"
)

func TestECRoundTrip(t *testing.T) {
	for _, curve := range []elliptic.Curve{elliptic.P256(), elliptic.P384(), elliptic.P521()} {
		priv, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		k, err := jwk.FromECPrivateKey(priv)
		if err != nil {
			t.Fatal(err)
		}
		got, err := k.ECPrivateKey()
		if err != nil {
			t.Fatal(err)
		}
		if got.D.Cmp(priv.D) != 0 || got.X.Cmp(priv.X) != 0 || got.Y.Cmp(priv.Y) != 0 {
			t.Errorf("round trip mismatch for curve %s", curve.Params().Name)
		}
	}
}

func TestECCoordinatesArePadded(t *testing.T) {
	// Regenerate until we find a key whose X has a leading zero byte when
	// minimally encoded, to exercise the padding path.
	for i := 0; i < 200; i++ {
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if len(priv.X.Bytes()) == 32 {
			continue
		}
		k, err := jwk.FromECPrivateKey(priv)
		if err != nil {
			t.Fatal(err)
		}
		x, _ := k.Get("x")
		if len(x.(string)) != 43 { // 32 bytes base64url no-pad == 43 chars
			t.Fatalf("expected padded 32-byte x coordinate, got encoded length %d", len(x.(string)))
		}
		return
	}
}

func TestRSARoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	k := jwk.FromRSAPrivateKey(priv)
	got, err := k.RSAPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if got.N.Cmp(priv.N) != 0 || got.D.Cmp(priv.D) != 0 {
		t.Error("RSA round trip mismatch")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	k := jwk.FromEd25519PrivateKey(priv)

	gotPub, err := k.Ed25519PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if !gotPub.Equal(pub) {
		t.Error("public key mismatch")
	}

	gotPriv, err := k.Ed25519PrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if !gotPriv.Equal(priv) {
		t.Error("private key mismatch")
	}
}

func TestSymmetricKeyRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef")
	k := jwk.FromSymmetricKey(secret)
	got, err := k.SymmetricKey()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(secret) {
		t.Error("symmetric key round trip mismatch")
	}
}

func TestRSAPublicKeyRejectsWrongKeyType(t *testing.T) {
	k := jwk.FromSymmetricKey([]byte("x"))
	if _, err := k.RSAPublicKey(); err == nil {
		t.Error("expected error for mismatched kty")
	}
}
