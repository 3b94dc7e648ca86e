package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/halimath/josex/internal/encoding"
	"github.com/halimath/josex/jwa"
)

var ellipticCurves = map[jwa.EllipticCurve]elliptic.Curve{
	jwa.P256: elliptic.P256(),
	jwa.P384: elliptic.P384(),
	jwa.P521: elliptic.P521(),
}

var curveNames = map[elliptic.Curve]jwa.EllipticCurve{
	elliptic.P256(): jwa.P256,
	elliptic.P384(): jwa.P384,
	elliptic.P521(): jwa.P521,
}

// fixedSizeBytes renders v as big-endian bytes padded (or, if oversized,
// it is the caller's bug) to exactly size bytes, as RFC 7518 section
// 6.2.1.2 requires for EC coordinates: the octet sequence must represent
// the full field element, not the minimal-length encoding math/big
// produces.
func fixedSizeBytes(v *big.Int, size int) []byte {
	b := v.Bytes()
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

func curveByteSize(c elliptic.Curve) int {
	return (c.Params().BitSize + 7) / 8
}

// FromECPublicKey builds the EC JWK parameters for pub: "kty", "crv", "x"
// and "y". It does not set "use", "kid" or "alg"; callers add those
// separately.
func FromECPublicKey(pub *ecdsa.PublicKey) (*JWK, error) {
	name, ok := curveNames[pub.Curve]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported EC curve", ErrInvalidKey)
	}
	size := curveByteSize(pub.Curve)
	k := New()
	k.Set(jwa.KeyTypeKey, string(jwa.KeyTypeEC))
	k.Set(jwa.ECCurveKey, string(name))
	k.Set(jwa.ECXCoordinateKey, encoding.Encode(fixedSizeBytes(pub.X, size)))
	k.Set(jwa.ECYCoordinateKey, encoding.Encode(fixedSizeBytes(pub.Y, size)))
	return k, nil
}

// FromECPrivateKey builds the EC JWK parameters for priv, including the
// private scalar "d".
func FromECPrivateKey(priv *ecdsa.PrivateKey) (*JWK, error) {
	k, err := FromECPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	size := curveByteSize(priv.Curve)
	k.Set(jwa.ECPrivateKeyKey, encoding.Encode(fixedSizeBytes(priv.D, size)))
	return k, nil
}

// ECPublicKey reconstructs an *ecdsa.PublicKey from k's "crv", "x" and "y"
// parameters.
func (k *JWK) ECPublicKey() (*ecdsa.PublicKey, error) {
	if k.KeyType() != jwa.KeyTypeEC {
		return nil, fmt.Errorf("%w: not an EC key: kty=%s", ErrInvalidKey, k.KeyType())
	}
	crv, _ := k.getString(jwa.ECCurveKey)
	curve, ok := ellipticCurves[jwa.EllipticCurve(crv)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported EC curve %q", ErrInvalidKey, crv)
	}
	x, err := k.decodeParam(jwa.ECXCoordinateKey)
	if err != nil {
		return nil, err
	}
	y, err := k.decodeParam(jwa.ECYCoordinateKey)
	if err != nil {
		return nil, err
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

// ECPrivateKey reconstructs an *ecdsa.PrivateKey, requiring "d" in addition
// to the public parameters.
func (k *JWK) ECPrivateKey() (*ecdsa.PrivateKey, error) {
	pub, err := k.ECPublicKey()
	if err != nil {
		return nil, err
	}
	d, err := k.decodeParam(jwa.ECPrivateKeyKey)
	if err != nil {
		return nil, err
	}
	return &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(d),
	}, nil
}

func (k *JWK) decodeParam(name string) ([]byte, error) {
	s, ok := k.getString(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidKey, name)
	}
	b, err := encoding.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidKey, name, err)
	}
	return b, nil
}

// FromRSAPublicKey builds the RSA JWK parameters for pub: "kty", "n" and
// "e".
func FromRSAPublicKey(pub *rsa.PublicKey) *JWK {
	k := New()
	k.Set(jwa.KeyTypeKey, string(jwa.KeyTypeRSA))
	k.Set(jwa.RSAModulusKey, encoding.Encode(pub.N.Bytes()))
	k.Set(jwa.RSAExponentKey, encoding.Encode(big.NewInt(int64(pub.E)).Bytes()))
	return k
}

// FromRSAPrivateKey builds the RSA JWK parameters for priv, including the
// private exponent and, when priv carries exactly two primes, the CRT
// parameters "p", "q", "dp", "dq" and "qi".
func FromRSAPrivateKey(priv *rsa.PrivateKey) *JWK {
	k := FromRSAPublicKey(&priv.PublicKey)
	k.Set(jwa.RSAPrivateExponentKey, encoding.Encode(priv.D.Bytes()))
	if len(priv.Primes) == 2 {
		priv.Precompute()
		k.Set(jwa.RSAPrimePKey, encoding.Encode(priv.Primes[0].Bytes()))
		k.Set(jwa.RSAPrimeQKey, encoding.Encode(priv.Primes[1].Bytes()))
		k.Set(jwa.RSAPrimeExponentPKey, encoding.Encode(priv.Precomputed.Dp.Bytes()))
		k.Set(jwa.RSAPrimeExponentQKey, encoding.Encode(priv.Precomputed.Dq.Bytes()))
		k.Set(jwa.RSACRTCoefficientKey, encoding.Encode(priv.Precomputed.Qinv.Bytes()))
	}
	return k
}

// RSAPublicKey reconstructs an *rsa.PublicKey from k's "n" and "e"
// parameters.
func (k *JWK) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.KeyType() != jwa.KeyTypeRSA {
		return nil, fmt.Errorf("%w: not an RSA key: kty=%s", ErrInvalidKey, k.KeyType())
	}
	n, err := k.decodeParam(jwa.RSAModulusKey)
	if err != nil {
		return nil, err
	}
	e, err := k.decodeParam(jwa.RSAExponentKey)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

// RSAPrivateKey reconstructs an *rsa.PrivateKey from "n", "e", "d", "p"
// and "q". A key without both "p" and "q" fails crypto/rsa's validation
// and is rejected; the primes are not recovered from "d".
func (k *JWK) RSAPrivateKey() (*rsa.PrivateKey, error) {
	pub, err := k.RSAPublicKey()
	if err != nil {
		return nil, err
	}
	d, err := k.decodeParam(jwa.RSAPrivateExponentKey)
	if err != nil {
		return nil, err
	}
	priv := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(d),
	}
	if k.Has(jwa.RSAPrimePKey) && k.Has(jwa.RSAPrimeQKey) {
		p, err := k.decodeParam(jwa.RSAPrimePKey)
		if err != nil {
			return nil, err
		}
		q, err := k.decodeParam(jwa.RSAPrimeQKey)
		if err != nil {
			return nil, err
		}
		priv.Primes = []*big.Int{new(big.Int).SetBytes(p), new(big.Int).SetBytes(q)}
	}
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}
	priv.Precompute()
	return priv, nil
}

// Has reports whether parameter name is present.
func (k *JWK) Has(name string) bool {
	_, ok := k.raw.Get(name)
	return ok
}

// FromEd25519PublicKey builds the OKP JWK parameters for pub.
func FromEd25519PublicKey(pub ed25519.PublicKey) *JWK {
	k := New()
	k.Set(jwa.KeyTypeKey, string(jwa.KeyTypeOKP))
	k.Set(jwa.OKPCurveKey, string(jwa.Ed25519))
	k.Set(jwa.OKPPublicKeyKey, encoding.Encode(pub))
	return k
}

// FromEd25519PrivateKey builds the OKP JWK parameters for priv, including
// the private seed "d".
func FromEd25519PrivateKey(priv ed25519.PrivateKey) *JWK {
	pub := priv.Public().(ed25519.PublicKey)
	k := FromEd25519PublicKey(pub)
	k.Set(jwa.OKPPrivateKeyKey, encoding.Encode(priv.Seed()))
	return k
}

// Ed25519PublicKey reconstructs an ed25519.PublicKey from k's "x"
// parameter.
func (k *JWK) Ed25519PublicKey() (ed25519.PublicKey, error) {
	if k.KeyType() != jwa.KeyTypeOKP {
		return nil, fmt.Errorf("%w: not an OKP key: kty=%s", ErrInvalidKey, k.KeyType())
	}
	crv, _ := k.getString(jwa.OKPCurveKey)
	if jwa.EllipticCurve(crv) != jwa.Ed25519 {
		return nil, fmt.Errorf("%w: unsupported OKP curve %q", ErrInvalidKey, crv)
	}
	x, err := k.decodeParam(jwa.OKPPublicKeyKey)
	if err != nil {
		return nil, err
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: invalid Ed25519 public key length", ErrInvalidKey)
	}
	return ed25519.PublicKey(x), nil
}

// Ed25519PrivateKey reconstructs an ed25519.PrivateKey from k's "x" and
// "d" parameters.
func (k *JWK) Ed25519PrivateKey() (ed25519.PrivateKey, error) {
	if _, err := k.Ed25519PublicKey(); err != nil {
		return nil, err
	}
	seed, err := k.decodeParam(jwa.OKPPrivateKeyKey)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: invalid Ed25519 seed length", ErrInvalidKey)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// FromSymmetricKey builds the "oct" JWK parameters for a raw symmetric key.
func FromSymmetricKey(key []byte) *JWK {
	k := New()
	k.Set(jwa.KeyTypeKey, string(jwa.KeyTypeOct))
	k.Set(jwa.SymmetricKeyValueKey, encoding.Encode(key))
	return k
}

// SymmetricKey decodes k's "k" parameter.
func (k *JWK) SymmetricKey() ([]byte, error) {
	if k.KeyType() != jwa.KeyTypeOct {
		return nil, fmt.Errorf("%w: not a symmetric key: kty=%s", ErrInvalidKey, k.KeyType())
	}
	return k.decodeParam(jwa.SymmetricKeyValueKey)
}
