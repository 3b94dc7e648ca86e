package jwe

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/halimath/josex/jwa"
)

// cbcHmacEncryption implements the AES_CBC_HMAC_SHA2 content encryption
// algorithms of RFC 7518 section 5.2: AES-CBC for confidentiality and an
// HMAC computed over the AAD, IV, ciphertext and AAD bit-length for
// authentication. The input content encryption key is a concatenation of
// a MAC key (the first half) and an encryption key (the second half), per
// section 5.2.2.1.
type cbcHmacEncryption struct {
	alg       jwa.EncryptionAlgorithm
	keySize   int // total CEK size; half MAC, half encryption
	tagSize   int // truncated authentication tag size
	hf        func() hash.Hash
}

// A128CBCHS256 returns AES-128-CBC-HMAC-SHA-256.
func A128CBCHS256() ContentEncryption {
	return &cbcHmacEncryption{alg: jwa.A128CBC_HS256, keySize: 32, tagSize: 16, hf: sha256.New}
}

// A192CBCHS384 returns AES-192-CBC-HMAC-SHA-384.
func A192CBCHS384() ContentEncryption {
	return &cbcHmacEncryption{alg: jwa.A192CBC_HS384, keySize: 48, tagSize: 24, hf: sha512.New384}
}

// A256CBCHS512 returns AES-256-CBC-HMAC-SHA-512.
func A256CBCHS512() ContentEncryption {
	return &cbcHmacEncryption{alg: jwa.A256CBC_HS512, keySize: 64, tagSize: 32, hf: sha512.New}
}

func (c *cbcHmacEncryption) Alg() string  { return string(c.alg) }
func (c *cbcHmacEncryption) KeySize() int { return c.keySize }
func (c *cbcHmacEncryption) IVSize() int  { return aes.BlockSize }

func (c *cbcHmacEncryption) split(cek []byte) (macKey, encKey []byte, err error) {
	if len(cek) != c.keySize {
		return nil, nil, fmt.Errorf("jwe: %s requires a %d byte key, got %d", c.alg, c.keySize, len(cek))
	}
	half := c.keySize / 2
	return cek[:half], cek[half:], nil
}

func (c *cbcHmacEncryption) authTag(macKey, aad, iv, ciphertext []byte) []byte {
	al := make([]byte, 8)
	binary.BigEndian.PutUint64(al, uint64(len(aad))*8)

	mac := hmac.New(c.hf, macKey)
	mac.Write(aad)
	mac.Write(iv)
	mac.Write(ciphertext)
	mac.Write(al)
	sum := mac.Sum(nil)
	return sum[:c.tagSize]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("jwe: invalid padded ciphertext length")
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("jwe: invalid PKCS#7 padding")
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("jwe: invalid PKCS#7 padding")
		}
	}
	return data[:n-padLen], nil
}

func (c *cbcHmacEncryption) Encrypt(cek, iv, aad, plaintext []byte) ([]byte, []byte, error) {
	macKey, encKey, err := c.split(cek)
	if err != nil {
		return nil, nil, err
	}
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, nil, fmt.Errorf("jwe: %s requires a %d byte IV, got %d", c.alg, aes.BlockSize, len(iv))
	}

	padded := pkcs7Pad(append([]byte{}, plaintext...), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	tag := c.authTag(macKey, aad, iv, ciphertext)
	return ciphertext, tag, nil
}

func (c *cbcHmacEncryption) Decrypt(cek, iv, aad, ciphertext, tag []byte) ([]byte, error) {
	macKey, encKey, err := c.split(cek)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("jwe: %s requires a %d byte IV, got %d", c.alg, aes.BlockSize, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("jwe: invalid ciphertext length")
	}

	expectedTag := c.authTag(macKey, aad, iv, ciphertext)
	if subtle.ConstantTimeCompare(expectedTag, tag) != 1 {
		return nil, fmt.Errorf("jwe: authentication tag mismatch")
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, aes.BlockSize)
}
