package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/halimath/josex/internal/der"
	"github.com/halimath/josex/internal/encoding"
)

// Object identifiers used by the PKCS#8 / SPKI structures this file
// transcodes, per RFC 3279, RFC 5480 and RFC 8410.
var (
	oidRSAEncryption = der.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECPublicKey   = der.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidEd25519       = der.ObjectIdentifier{1, 3, 101, 112}

	oidP256 = der.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidP384 = der.ObjectIdentifier{1, 3, 132, 0, 34}
	oidP521 = der.ObjectIdentifier{1, 3, 132, 0, 35}
)

var curveOIDs = map[string]der.ObjectIdentifier{
	"P-256": oidP256,
	"P-384": oidP384,
	"P-521": oidP521,
}

func curveNameForOID(oid der.ObjectIdentifier) (string, bool) {
	for name, o := range curveOIDs {
		if o.Equal(oid) {
			return name, true
		}
	}
	return "", false
}

// PEM block types this package knows of, per RFC 7468 and the legacy
// PKCS#1 / SEC1 conventions most toolchains still emit. FromPEM accepts
// all of them except pemTypeEd25519Private.
const (
	pemTypePKCS8PrivateKey = "PRIVATE KEY"
	pemTypeSPKIPublicKey   = "PUBLIC KEY"
	pemTypeRSAPrivateKey   = "RSA PRIVATE KEY"
	pemTypeRSAPublicKey    = "RSA PUBLIC KEY"
	pemTypeECPrivateKey    = "EC PRIVATE KEY"
	pemTypeEd25519Private  = "ED25519 PRIVATE KEY"
)

// ToPrivateKeyPEM renders k's private key material as a PKCS#8
// PrivateKeyInfo wrapped in a "PRIVATE KEY" PEM block, per RFC 5958.
func (k *JWK) ToPrivateKeyPEM() ([]byte, error) {
	inner, oid, params, err := k.pkcs8Inner()
	if err != nil {
		return nil, err
	}

	var b der.Builder
	b.AddSequence(func(b *der.Builder) {
		b.AddInt(0)
		b.AddSequence(func(b *der.Builder) {
			b.AddOID(oid)
			if params != nil {
				params(b)
			}
		})
		b.AddOctetString(inner)
	})

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePKCS8PrivateKey, Bytes: b.Bytes()}), nil
}

func (k *JWK) pkcs8Inner() (key []byte, oid der.ObjectIdentifier, params func(*der.Builder), err error) {
	switch k.KeyType() {
	case "RSA":
		priv, err := k.RSAPrivateKey()
		if err != nil {
			return nil, nil, nil, err
		}
		return rsaPrivateKeyDER(priv), oidRSAEncryption, func(b *der.Builder) { b.AddNull() }, nil
	case "EC":
		priv, err := k.ECPrivateKey()
		if err != nil {
			return nil, nil, nil, err
		}
		crvOID, ok := curveOIDs[priv.Curve.Params().Name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: unsupported EC curve", ErrInvalidKey)
		}
		size := (priv.Curve.Params().BitSize + 7) / 8
		return ecPrivateKeyDER(priv, size), oidECPublicKey, func(b *der.Builder) { b.AddOID(crvOID) }, nil
	case "OKP":
		priv, err := k.Ed25519PrivateKey()
		if err != nil {
			return nil, nil, nil, err
		}
		var seedWrap der.Builder
		seedWrap.AddOctetString(priv.Seed())
		return seedWrap.Bytes(), oidEd25519, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: unsupported kty %q for PEM export", ErrInvalidKey, k.KeyType())
	}
}

func rsaPrivateKeyDER(priv *rsa.PrivateKey) []byte {
	priv.Precompute()
	var b der.Builder
	b.AddSequence(func(b *der.Builder) {
		b.AddInt(0)
		b.AddInteger(priv.N)
		b.AddInteger(big.NewInt(int64(priv.E)))
		b.AddInteger(priv.D)
		b.AddInteger(priv.Primes[0])
		b.AddInteger(priv.Primes[1])
		b.AddInteger(priv.Precomputed.Dp)
		b.AddInteger(priv.Precomputed.Dq)
		b.AddInteger(priv.Precomputed.Qinv)
	})
	return b.Bytes()
}

func ecPrivateKeyDER(priv *ecdsa.PrivateKey, size int) []byte {
	var b der.Builder
	b.AddSequence(func(b *der.Builder) {
		b.AddInt(1)
		b.AddOctetString(fixedSizeBytes(priv.D, size))
		b.AddExplicit(1, func(b *der.Builder) {
			b.AddBitString(append([]byte{0x04}, append(fixedSizeBytes(priv.X, size), fixedSizeBytes(priv.Y, size)...)...))
		})
	})
	return b.Bytes()
}

// ToPublicKeyPEM renders k's public key material as an SPKI
// SubjectPublicKeyInfo wrapped in a "PUBLIC KEY" PEM block, per RFC 5280.
func (k *JWK) ToPublicKeyPEM() ([]byte, error) {
	spk, oid, params, err := k.spkiInner()
	if err != nil {
		return nil, err
	}

	var b der.Builder
	b.AddSequence(func(b *der.Builder) {
		b.AddSequence(func(b *der.Builder) {
			b.AddOID(oid)
			if params != nil {
				params(b)
			}
		})
		b.AddBitString(spk)
	})

	return pem.EncodeToMemory(&pem.Block{Type: pemTypeSPKIPublicKey, Bytes: b.Bytes()}), nil
}

func (k *JWK) spkiInner() (subjectPublicKey []byte, oid der.ObjectIdentifier, params func(*der.Builder), err error) {
	switch k.KeyType() {
	case "RSA":
		pub, err := k.RSAPublicKey()
		if err != nil {
			return nil, nil, nil, err
		}
		var b der.Builder
		b.AddSequence(func(b *der.Builder) {
			b.AddInteger(pub.N)
			b.AddInteger(big.NewInt(int64(pub.E)))
		})
		return b.Bytes(), oidRSAEncryption, func(b *der.Builder) { b.AddNull() }, nil
	case "EC":
		pub, err := k.ECPublicKey()
		if err != nil {
			return nil, nil, nil, err
		}
		crvOID, ok := curveOIDs[pub.Curve.Params().Name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: unsupported EC curve", ErrInvalidKey)
		}
		size := (pub.Curve.Params().BitSize + 7) / 8
		point := append([]byte{0x04}, append(fixedSizeBytes(pub.X, size), fixedSizeBytes(pub.Y, size)...)...)
		return point, oidECPublicKey, func(b *der.Builder) { b.AddOID(crvOID) }, nil
	case "OKP":
		pub, err := k.Ed25519PublicKey()
		if err != nil {
			return nil, nil, nil, err
		}
		return []byte(pub), oidEd25519, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: unsupported kty %q for PEM export", ErrInvalidKey, k.KeyType())
	}
}

// FromPEM parses a single PEM block containing a private or public key and
// returns its parameters as a JWK. Recognized block types are "PRIVATE
// KEY" (PKCS#8), "PUBLIC KEY" (SPKI), "RSA PRIVATE KEY" / "RSA PUBLIC KEY"
// (PKCS#1) and "EC PRIVATE KEY" (SEC1).
func FromPEM(data []byte) (*JWK, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	switch block.Type {
	case pemTypePKCS8PrivateKey:
		return fromPKCS8(block.Bytes)
	case pemTypeSPKIPublicKey:
		return fromSPKI(block.Bytes)
	case pemTypeRSAPrivateKey:
		return fromPKCS1PrivateKey(block.Bytes)
	case pemTypeRSAPublicKey:
		return fromPKCS1PublicKey(block.Bytes)
	case pemTypeECPrivateKey:
		return fromSEC1(block.Bytes, nil)
	default:
		return nil, fmt.Errorf("%w: unsupported PEM block type %q", ErrInvalidKey, block.Type)
	}
}

func fromPKCS8(data []byte) (*JWK, error) {
	top := der.NewReader(data)
	seq, err := top.Next()
	if err != nil || seq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed PKCS#8 structure", ErrInvalidKey)
	}
	body := seq.Body

	if _, err := body.Next(); err != nil { // version
		return nil, fmt.Errorf("%w: malformed PKCS#8 version", ErrInvalidKey)
	}
	algSeq, err := body.Next()
	if err != nil || algSeq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed PKCS#8 algorithm identifier", ErrInvalidKey)
	}
	oidEvent, err := algSeq.Body.Next()
	if err != nil || oidEvent.Kind != der.EventOID {
		return nil, fmt.Errorf("%w: malformed PKCS#8 algorithm OID", ErrInvalidKey)
	}
	keyEvent, err := body.Next()
	if err != nil || keyEvent.Kind != der.EventOctetString {
		return nil, fmt.Errorf("%w: malformed PKCS#8 private key octet string", ErrInvalidKey)
	}

	switch {
	case oidEvent.OID.Equal(oidRSAEncryption):
		return fromPKCS1PrivateKey(keyEvent.Bytes)
	case oidEvent.OID.Equal(oidECPublicKey):
		var crv der.ObjectIdentifier
		if paramEvent, err := algSeq.Body.Next(); err == nil && paramEvent.Kind == der.EventOID {
			crv = paramEvent.OID
		}
		return fromSEC1(keyEvent.Bytes, crv)
	case oidEvent.OID.Equal(oidEd25519):
		return fromEd25519Seed(keyEvent.Bytes)
	default:
		return nil, fmt.Errorf("%w: unsupported PKCS#8 algorithm OID", ErrInvalidKey)
	}
}

func fromEd25519Seed(wrapped []byte) (*JWK, error) {
	r := der.NewReader(wrapped)
	ev, err := r.Next()
	if err != nil || ev.Kind != der.EventOctetString || len(ev.Bytes) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: malformed Ed25519 private key", ErrInvalidKey)
	}
	priv := ed25519.NewKeyFromSeed(ev.Bytes)
	return FromEd25519PrivateKey(priv), nil
}

func fromPKCS1PrivateKey(data []byte) (*JWK, error) {
	r := der.NewReader(data)
	seq, err := r.Next()
	if err != nil || seq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed PKCS#1 private key", ErrInvalidKey)
	}
	body := seq.Body
	fields := make([]*big.Int, 0, 9)
	for {
		ev, err := body.Next()
		if der.IsEOF(err) {
			break
		}
		if err != nil || ev.Kind != der.EventInteger {
			return nil, fmt.Errorf("%w: malformed PKCS#1 private key field", ErrInvalidKey)
		}
		fields = append(fields, ev.Int)
	}
	if len(fields) < 9 {
		return nil, fmt.Errorf("%w: truncated PKCS#1 private key", ErrInvalidKey)
	}
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: fields[1], E: int(fields[2].Int64())},
		D:         fields[3],
		Primes:    []*big.Int{fields[4], fields[5]},
	}
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}
	return FromRSAPrivateKey(priv), nil
}

func fromPKCS1PublicKey(data []byte) (*JWK, error) {
	r := der.NewReader(data)
	seq, err := r.Next()
	if err != nil || seq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed PKCS#1 public key", ErrInvalidKey)
	}
	nEv, err := seq.Body.Next()
	if err != nil || nEv.Kind != der.EventInteger {
		return nil, fmt.Errorf("%w: malformed PKCS#1 public key modulus", ErrInvalidKey)
	}
	eEv, err := seq.Body.Next()
	if err != nil || eEv.Kind != der.EventInteger {
		return nil, fmt.Errorf("%w: malformed PKCS#1 public key exponent", ErrInvalidKey)
	}
	pub := &rsa.PublicKey{N: nEv.Int, E: int(eEv.Int.Int64())}
	return FromRSAPublicKey(pub), nil
}

func fromSPKI(data []byte) (*JWK, error) {
	top := der.NewReader(data)
	seq, err := top.Next()
	if err != nil || seq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed SPKI structure", ErrInvalidKey)
	}
	algSeq, err := seq.Body.Next()
	if err != nil || algSeq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed SPKI algorithm identifier", ErrInvalidKey)
	}
	oidEvent, err := algSeq.Body.Next()
	if err != nil || oidEvent.Kind != der.EventOID {
		return nil, fmt.Errorf("%w: malformed SPKI algorithm OID", ErrInvalidKey)
	}
	bitStr, err := seq.Body.Next()
	if err != nil || bitStr.Kind != der.EventBitString {
		return nil, fmt.Errorf("%w: malformed SPKI public key bit string", ErrInvalidKey)
	}

	switch {
	case oidEvent.OID.Equal(oidRSAEncryption):
		return fromPKCS1PublicKey(bitStr.Bytes)
	case oidEvent.OID.Equal(oidECPublicKey):
		paramEvent, err := algSeq.Body.Next()
		if err != nil || paramEvent.Kind != der.EventOID {
			return nil, fmt.Errorf("%w: missing SPKI EC curve OID", ErrInvalidKey)
		}
		return ecPointToJWK(paramEvent.OID, bitStr.Bytes)
	case oidEvent.OID.Equal(oidEd25519):
		if len(bitStr.Bytes) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: invalid Ed25519 public key length", ErrInvalidKey)
		}
		return FromEd25519PublicKey(ed25519.PublicKey(bitStr.Bytes)), nil
	default:
		return nil, fmt.Errorf("%w: unsupported SPKI algorithm OID", ErrInvalidKey)
	}
}

func fromSEC1(data []byte, crv der.ObjectIdentifier) (*JWK, error) {
	r := der.NewReader(data)
	seq, err := r.Next()
	if err != nil || seq.Kind != der.EventSequence {
		return nil, fmt.Errorf("%w: malformed SEC1 private key", ErrInvalidKey)
	}
	body := seq.Body
	if _, err := body.Next(); err != nil { // version
		return nil, fmt.Errorf("%w: malformed SEC1 version", ErrInvalidKey)
	}
	privEv, err := body.Next()
	if err != nil || privEv.Kind != der.EventOctetString {
		return nil, fmt.Errorf("%w: malformed SEC1 private key octet string", ErrInvalidKey)
	}

	var x, y []byte
	for {
		ev, err := body.Next()
		if der.IsEOF(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed SEC1 structure", ErrInvalidKey)
		}
		switch ev.Tag {
		case 0:
			if ev.Body != nil {
				if oidEv, err := ev.Body.Next(); err == nil && oidEv.Kind == der.EventOID {
					crv = oidEv.OID
				}
			}
		case 1:
			if ev.Body != nil {
				if bitEv, err := ev.Body.Next(); err == nil && bitEv.Kind == der.EventBitString && len(bitEv.Bytes) > 0 && bitEv.Bytes[0] == 0x04 {
					coord := bitEv.Bytes[1:]
					half := len(coord) / 2
					x, y = coord[:half], coord[half:]
				}
			}
		}
	}
	if crv == nil {
		return nil, fmt.Errorf("%w: SEC1 private key missing curve identifier", ErrInvalidKey)
	}
	name, ok := curveNameForOID(crv)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported SEC1 curve", ErrInvalidKey)
	}

	k := New()
	k.Set("kty", "EC")
	k.Set("crv", name)
	if x != nil {
		k.Set("x", encoding.Encode(x))
		k.Set("y", encoding.Encode(y))
	}
	k.Set("d", encoding.Encode(privEv.Bytes))
	return k, nil
}

func ecPointToJWK(crv der.ObjectIdentifier, point []byte) (*JWK, error) {
	name, ok := curveNameForOID(crv)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported EC curve", ErrInvalidKey)
	}
	if len(point) < 1 || point[0] != 0x04 {
		return nil, fmt.Errorf("%w: only uncompressed EC points are supported", ErrInvalidKey)
	}
	coord := point[1:]
	half := len(coord) / 2
	k := New()
	k.Set("kty", "EC")
	k.Set("crv", name)
	k.Set("x", encoding.Encode(coord[:half]))
	k.Set("y", encoding.Encode(coord[half:]))
	return k, nil
}
