package jwe

import (
	"crypto/sha256"
	"encoding/binary"
)

// concatKDF implements the Concatenation Key Derivation Function of NIST
// SP 800-56A section 5.8.1, as profiled for ECDH-ES by RFC 7518 section
// 4.6.2. No library in the reference corpus implements this primitive (it
// is a close cousin of HKDF but uses a plain counter-prefixed hash rather
// than an HMAC-based extract-then-expand construction, so crypto/hkdf
// cannot stand in for it); see DESIGN.md.
func concatKDF(z []byte, keyDataLen int, otherInfo []byte) []byte {
	hashSize := sha256.Size
	reps := (keyDataLen + hashSize - 1) / hashSize

	out := make([]byte, 0, reps*hashSize)
	for counter := uint32(1); counter <= uint32(reps); counter++ {
		h := sha256.New()
		var counterBytes [4]byte
		binary.BigEndian.PutUint32(counterBytes[:], counter)
		h.Write(counterBytes[:])
		h.Write(z)
		h.Write(otherInfo)
		out = h.Sum(out)
	}
	return out[:keyDataLen]
}

// concatKDFOtherInfo builds the OtherInfo value of SP 800-56A section
// 5.8.1.2 as profiled by RFC 7518 section 4.6.2: AlgorithmID, PartyUInfo,
// PartyVInfo and SuppPubInfo, each length-prefixed with a 32-bit big-endian
// byte count; SuppPrivInfo is not used by this profile.
func concatKDFOtherInfo(algID string, apu, apv []byte, keyDataLenBits uint32) []byte {
	var out []byte
	out = append(out, lengthPrefixed([]byte(algID))...)
	out = append(out, lengthPrefixed(apu)...)
	out = append(out, lengthPrefixed(apv)...)

	var suppPub [4]byte
	binary.BigEndian.PutUint32(suppPub[:], keyDataLenBits)
	out = append(out, suppPub[:]...)
	return out
}

func lengthPrefixed(b []byte) []byte {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(b)))
	return append(prefix[:], b...)
}
