package jwe

import "crypto/rand"

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ivForEncryption returns a fresh random IV of the size enc requires. AES-GCM
// and AES-CBC-HMAC-SHA2 both use a 96-bit and 128-bit IV respectively; each
// ContentEncryption implementation reports its own size via an IVSize
// method so this stays generic across families.
func ivForEncryption(enc ContentEncryption) ([]byte, error) {
	type ivSizer interface{ IVSize() int }
	if s, ok := enc.(ivSizer); ok {
		return randomBytes(s.IVSize())
	}
	return randomBytes(12)
}
