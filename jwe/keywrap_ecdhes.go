package jwe

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
	"github.com/halimath/josex/jwk"
)

// ecdhES implements the ECDH-ES and ECDH-ES+AxxxKW key management
// algorithms of RFC 7518 section 4.6. In the direct agreement mode
// ("ECDH-ES") the Concat KDF output is used as the content encryption key
// directly; in the key-wrapping modes it is used as a key-encryption key
// to wrap a separately generated content encryption key with AES Key Wrap.
type ecdhES struct {
	alg            jwa.KeyManagementAlgorithm
	kwKeySize      int // 0 for direct agreement, else the AES key wrap key size
	recipientPub   *ecdsa.PublicKey
	recipientPriv  *ecdsa.PrivateKey
	apu, apv       []byte
}

// ECDHESDirect returns a KeyWrapper implementing ECDH-ES direct key
// agreement for encryption, addressed to recipientPub.
func ECDHESDirect(recipientPub *ecdsa.PublicKey, apu, apv []byte) KeyWrapper {
	return &ecdhES{alg: jwa.ECDH_ES, recipientPub: recipientPub, apu: apu, apv: apv}
}

// ECDHESDirectRecipient returns a KeyWrapper implementing ECDH-ES direct
// key agreement for decryption, using recipientPriv.
func ECDHESDirectRecipient(recipientPriv *ecdsa.PrivateKey) KeyWrapper {
	return &ecdhES{alg: jwa.ECDH_ES, recipientPriv: recipientPriv}
}

// ECDHESWithAESKW returns a KeyWrapper implementing one of the
// ECDH-ES+AxxxKW algorithms for encryption, addressed to recipientPub.
func ECDHESWithAESKW(alg jwa.KeyManagementAlgorithm, recipientPub *ecdsa.PublicKey, apu, apv []byte) (KeyWrapper, error) {
	size, err := ecdhKWSize(alg)
	if err != nil {
		return nil, err
	}
	return &ecdhES{alg: alg, kwKeySize: size, recipientPub: recipientPub, apu: apu, apv: apv}, nil
}

// ECDHESWithAESKWRecipient returns a KeyWrapper implementing one of the
// ECDH-ES+AxxxKW algorithms for decryption, using recipientPriv.
func ECDHESWithAESKWRecipient(alg jwa.KeyManagementAlgorithm, recipientPriv *ecdsa.PrivateKey) (KeyWrapper, error) {
	size, err := ecdhKWSize(alg)
	if err != nil {
		return nil, err
	}
	return &ecdhES{alg: alg, kwKeySize: size, recipientPriv: recipientPriv}, nil
}

func ecdhKWSize(alg jwa.KeyManagementAlgorithm) (int, error) {
	switch alg {
	case jwa.ECDH_ES_A128KW:
		return 16, nil
	case jwa.ECDH_ES_A192KW:
		return 24, nil
	case jwa.ECDH_ES_A256KW:
		return 32, nil
	default:
		return 0, fmt.Errorf("%w: %s is not an ECDH-ES key wrapping algorithm", joseerr.ErrUnsupportedAlgorithm, alg)
	}
}

func (e *ecdhES) Alg() string { return string(e.alg) }

// algorithmID returns the value used as AlgorithmID in the Concat KDF
// OtherInfo, per RFC 7518 section 4.6.2: the "enc" value when ECDH-ES is
// the sole key management algorithm, or the "alg" value otherwise.
func (e *ecdhES) algorithmID(h *header.Header) string {
	if e.kwKeySize == 0 {
		return h.EncryptionAlgorithm()
	}
	return string(e.alg)
}

// ProvideCEK implements the cekProvider optional interface for the direct
// agreement mode.
func (e *ecdhES) ProvideCEK(cekSize int, h *header.Header) ([]byte, error) {
	if e.kwKeySize != 0 {
		return randomBytes(cekSize)
	}
	return e.deriveKey(cekSize, h)
}

func (e *ecdhES) deriveKey(keyDataLen int, h *header.Header) ([]byte, error) {
	var z []byte
	var err error
	apu, apv := e.apu, e.apv

	if e.recipientPriv != nil {
		epk, epkErr := ecdhEPKFromHeader(h, e.recipientPriv.Curve)
		if epkErr != nil {
			return nil, epkErr
		}
		z, err = ecdhSharedSecret(e.recipientPriv, epk)
		if apu == nil {
			apu, _ = h.AgreementPartyUInfo()
		}
		if apv == nil {
			apv, _ = h.AgreementPartyVInfo()
		}
	} else {
		eph, ephErr := ecdsa.GenerateKey(e.recipientPub.Curve, rand.Reader)
		if ephErr != nil {
			return nil, ephErr
		}
		z, err = ecdhSharedSecret(eph, e.recipientPub)
		if err == nil {
			epkJWK, jwkErr := jwk.FromECPublicKey(&eph.PublicKey)
			if jwkErr != nil {
				return nil, jwkErr
			}
			h.SetEphemeralPublicKey(epkJWK)
			if e.apu != nil {
				h.SetAgreementPartyUInfo(e.apu)
			}
			if e.apv != nil {
				h.SetAgreementPartyVInfo(e.apv)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	otherInfo := concatKDFOtherInfo(e.algorithmID(h), apu, apv, uint32(keyDataLen)*8)
	return concatKDF(z, keyDataLen, otherInfo), nil
}

func ecdhEPKFromHeader(h *header.Header, curve elliptic.Curve) (*ecdsa.PublicKey, error) {
	epkJWK, err := h.EphemeralPublicKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", joseerr.ErrInvalidKeyFormat, err)
	}
	if epkJWK == nil {
		return nil, fmt.Errorf("%w: missing \"epk\" header parameter", joseerr.ErrInvalidKeyFormat)
	}
	return epkJWK.ECPublicKey()
}

func ecdhSharedSecret(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) ([]byte, error) {
	if priv.Curve != pub.Curve {
		return nil, fmt.Errorf("%w: ECDH-ES requires both parties to use the same curve", joseerr.ErrInvalidKeyFormat)
	}
	x, _ := priv.Curve.ScalarMult(pub.X, pub.Y, priv.D.Bytes())
	size := (priv.Curve.Params().BitSize + 7) / 8
	return fixedSizeBytesFor(x, size), nil
}

func fixedSizeBytesFor(x interface{ Bytes() []byte }, size int) []byte {
	b := x.Bytes()
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

func (e *ecdhES) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	if e.kwKeySize == 0 {
		return []byte{}, nil
	}
	kek, err := e.deriveKey(e.kwKeySize, h)
	if err != nil {
		return nil, err
	}
	return aesKeyWrap(kek, cek)
}

func (e *ecdhES) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	if e.kwKeySize == 0 {
		return e.deriveKey(cekSize, h)
	}
	kek, err := e.deriveKey(e.kwKeySize, h)
	if err != nil {
		return nil, err
	}
	cek, err := aesKeyUnwrap(kek, encryptedKey)
	if err != nil {
		return nil, err
	}
	if len(cek) != cekSize {
		return nil, fmt.Errorf("jwe: unwrapped key size %d does not match content encryption algorithm", len(cek))
	}
	return cek, nil
}
