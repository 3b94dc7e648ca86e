package jwe

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"

	"github.com/halimath/josex/internal/header"
	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/jwa"
)

// rsaKW implements the RSA1_5, RSA-OAEP and RSA-OAEP-256 key management
// algorithms of RFC 7518 section 4.2 through 4.3: the content encryption
// key is encrypted directly under the recipient's RSA public key.
type rsaKW struct {
	alg        jwa.KeyManagementAlgorithm
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
}

// RSA15 returns a KeyWrapper for RSAES-PKCS1-v1_5 key encryption.
func RSA15(publicKey *rsa.PublicKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA1_5, publicKey: publicKey}
}

// RSA15Recipient returns a KeyWrapper for RSAES-PKCS1-v1_5 key decryption.
func RSA15Recipient(privateKey *rsa.PrivateKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA1_5, privateKey: privateKey}
}

// RSAOAEP returns a KeyWrapper for RSAES OAEP (SHA-1) key encryption.
func RSAOAEP(publicKey *rsa.PublicKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA_OAEP, publicKey: publicKey}
}

// RSAOAEPRecipient returns a KeyWrapper for RSAES OAEP (SHA-1) key
// decryption.
func RSAOAEPRecipient(privateKey *rsa.PrivateKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA_OAEP, privateKey: privateKey}
}

// RSAOAEP256 returns a KeyWrapper for RSAES OAEP (SHA-256) key encryption.
func RSAOAEP256(publicKey *rsa.PublicKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA_OAEP_256, publicKey: publicKey}
}

// RSAOAEP256Recipient returns a KeyWrapper for RSAES OAEP (SHA-256) key
// decryption.
func RSAOAEP256Recipient(privateKey *rsa.PrivateKey) KeyWrapper {
	return &rsaKW{alg: jwa.RSA_OAEP_256, privateKey: privateKey}
}

func (r *rsaKW) Alg() string { return string(r.alg) }

func (r *rsaKW) WrapKey(cek []byte, h *header.Header) ([]byte, error) {
	if r.publicKey == nil {
		return nil, fmt.Errorf("jwe: %s encryption requires a public key", r.alg)
	}
	switch r.alg {
	case jwa.RSA1_5:
		return rsa.EncryptPKCS1v15(rand.Reader, r.publicKey, cek)
	case jwa.RSA_OAEP:
		return rsa.EncryptOAEP(sha1.New(), rand.Reader, r.publicKey, cek, nil)
	case jwa.RSA_OAEP_256:
		return rsa.EncryptOAEP(sha256.New(), rand.Reader, r.publicKey, cek, nil)
	default:
		return nil, fmt.Errorf("%w: unsupported RSA key management algorithm %s", joseerr.ErrUnsupportedAlgorithm, r.alg)
	}
}

func (r *rsaKW) UnwrapKey(encryptedKey []byte, h *header.Header, cekSize int) ([]byte, error) {
	if r.privateKey == nil {
		return nil, fmt.Errorf("jwe: %s decryption requires a private key", r.alg)
	}
	var cek []byte
	var err error
	switch r.alg {
	case jwa.RSA1_5:
		cek, err = rsa.DecryptPKCS1v15(rand.Reader, r.privateKey, encryptedKey)
	case jwa.RSA_OAEP:
		cek, err = rsa.DecryptOAEP(sha1.New(), rand.Reader, r.privateKey, encryptedKey, nil)
	case jwa.RSA_OAEP_256:
		cek, err = rsa.DecryptOAEP(sha256.New(), rand.Reader, r.privateKey, encryptedKey, nil)
	default:
		return nil, fmt.Errorf("%w: unsupported RSA key management algorithm %s", joseerr.ErrUnsupportedAlgorithm, r.alg)
	}
	if err != nil {
		return nil, err
	}
	if len(cek) != cekSize {
		return nil, fmt.Errorf("jwe: unwrapped key size %d does not match content encryption algorithm", len(cek))
	}
	return cek, nil
}
