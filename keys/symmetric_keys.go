// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keys

import (
	"crypto/cipher"
	"encoding/binary"

	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/wipe"
)

// SymmetricKeys is the write (or read) half of a protection epoch.
type SymmetricKeys struct {
	Write   cipher.AEAD // 16 interface + 16 interface inside + 16 (counters) + 240 aes half + (240 aes half we do not need)
	WriteIV [ciphersuite.MaxIVLength]byte
	IVLen   int
}

// Derives "key" and "iv" from a traffic secret [rfc8446:7.3] and
// replaces the previous contents.
func (keys *SymmetricKeys) Reset(suite *ciphersuite.Suite, secret ciphersuite.Hash) {
	hmacSecret := suite.Hash.NewHMAC(secret.GetValue())
	writeKey := make([]byte, suite.Aead.KeySize)
	ciphersuite.HKDFExpandLabel(writeKey, hmacSecret, "key", nil)
	keys.IVLen = suite.Aead.IVSize
	ciphersuite.HKDFExpandLabel(keys.WriteIV[:keys.IVLen], hmacSecret, "iv", nil)
	keys.Write = suite.Aead.New(writeKey)
	wipe.ClearMemory(writeKey)
}

func (keys *SymmetricKeys) Wipe() {
	keys.Write = nil
	wipe.ClearMemory(keys.WriteIV[:])
	keys.IVLen = 0
}

// panic if len(iv) is < 8
func FillIVSequence(iv []byte, seq uint64) {
	maskBytes := iv[len(iv)-8:]
	mask := binary.BigEndian.Uint64(maskBytes)
	binary.BigEndian.PutUint64(maskBytes, seq^mask)
}
