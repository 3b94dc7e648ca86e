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

func TestRSAPEMRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	k := jwk.FromRSAPrivateKey(priv)

	privPEM, err := k.ToPrivateKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jwk.FromPEM(privPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPriv, err := parsed.RSAPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if gotPriv.N.Cmp(priv.N) != 0 || gotPriv.D.Cmp(priv.D) != 0 {
		t.Error("RSA PKCS#8 round trip mismatch")
	}

	pubK := jwk.FromRSAPublicKey(&priv.PublicKey)
	pubPEM, err := pubK.ToPublicKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsedPub, err := jwk.FromPEM(pubPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPub, err := parsedPub.RSAPublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if gotPub.N.Cmp(priv.N) != 0 {
		t.Error("RSA SPKI round trip mismatch")
	}
}

func TestECPEMRoundTrip(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	k, err := jwk.FromECPrivateKey(priv)
	if err != nil {
		t.Fatal(err)
	}

	privPEM, err := k.ToPrivateKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jwk.FromPEM(privPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPriv, err := parsed.ECPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if gotPriv.D.Cmp(priv.D) != 0 {
		t.Error("EC PKCS#8 round trip mismatch")
	}

	pubK, err := jwk.FromECPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pubPEM, err := pubK.ToPublicKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsedPub, err := jwk.FromPEM(pubPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPub, err := parsedPub.ECPublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if gotPub.X.Cmp(priv.X) != 0 || gotPub.Y.Cmp(priv.Y) != 0 {
		t.Error("EC SPKI round trip mismatch")
	}
}

func TestEd25519PEMRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	k := jwk.FromEd25519PrivateKey(priv)

	privPEM, err := k.ToPrivateKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jwk.FromPEM(privPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPriv, err := parsed.Ed25519PrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if !gotPriv.Equal(priv) {
		t.Error("Ed25519 PKCS#8 round trip mismatch")
	}

	pubK := jwk.FromEd25519PublicKey(pub)
	pubPEM, err := pubK.ToPublicKeyPEM()
	if err != nil {
		t.Fatal(err)
	}
	parsedPub, err := jwk.FromPEM(pubPEM)
	if err != nil {
		t.Fatal(err)
	}
	gotPub, err := parsedPub.Ed25519PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	if !gotPub.Equal(pub) {
		t.Error("Ed25519 SPKI round trip mismatch")
	}
}

func TestFromPEM_rejectsUnknownBlockType(t *testing.T) {
	pemData := []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n")
	if _, err := jwk.FromPEM(pemData); err == nil {
		t.Error("expected error for unsupported PEM block type")
	}
}
