// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"encoding/binary"
	"hash"
	"math"

	"github.com/BernardoGomesNegri/picotls/safecast"
)

// [rfc5869:2.2] output length equals digest size of the underlying hash
func HKDFExtract(hmacSalt hash.Hash, keymaterial []byte) (result Hash) {
	hmacSalt.Reset()
	hmacSalt.Write(keymaterial)
	result.SetSum(hmacSalt)
	return
}

// [rfc5869:2.3]
func HKDFExpand(dst []byte, hmacSecret hash.Hash, info []byte) {
	offset := 0
	hmacSecret.Reset()
	var ha Hash
	for i := 1; offset < len(dst); i++ {
		hmacSecret.Write(info)
		hmacSecret.Write([]byte{byte(i)}) // truncate
		ha.SetSum(hmacSecret)
		offset += copy(dst[offset:], ha.GetValue())
		hmacSecret.Reset()
		hmacSecret.Write(ha.GetValue())
	}
	ha.Wipe()
}

// [rfc8446:7.1] HkdfLabel with "tls13 " prefix
func HKDFExpandLabel(dst []byte, hmacSecret hash.Hash, label string, context []byte) {
	if len(dst) > math.MaxUint16 {
		panic("invalid expand label result length")
	}
	hkdflabel := make([]byte, 0, 128)
	hkdflabel = binary.BigEndian.AppendUint16(hkdflabel, uint16(len(dst))) // safe due to check above
	hkdflabel = append(hkdflabel, safecast.Cast[byte](len(label)+6))
	hkdflabel = append(hkdflabel, "tls13 "...)
	hkdflabel = append(hkdflabel, label...)
	hkdflabel = append(hkdflabel, safecast.Cast[byte](len(context)))
	hkdflabel = append(hkdflabel, context...)
	HKDFExpand(dst, hmacSecret, hkdflabel)
}

// Derive-Secret(S, L, M) = HKDF-Expand-Label(S, L, Transcript-Hash(M), Hash.length)
func DeriveSecret(hmacSecret hash.Hash, label string, transcriptHash Hash) (result Hash) {
	result.SetZero(hmacSecret.Size())
	HKDFExpandLabel(result.GetValue(), hmacSecret, label, transcriptHash.GetValue())
	return result
}
