// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/BernardoGomesNegri/picotls/wipe"
)

const MaxHashLength = 48

// We want fixed-size storage for hashes and secrets, as we want to do as few
// allocations as possible. All suites we recognize fit in 48 bytes.
type Hash struct {
	data [MaxHashLength]byte
	size byte
}

func (h *Hash) GetValue() []byte {
	return h.data[0:h.size]
}

func (h *Hash) Len() int {
	return int(h.size) // widening
}

func (h *Hash) Cap() int {
	return len(h.data)
}

func (h *Hash) SetSum(hasher hash.Hash) {
	*h = Hash{} // clear data, so objects are equal by built-in operator
	da := hasher.Sum(h.data[:0])
	if len(da) > len(h.data) {
		panic("hasher length exceeds hash storage size")
	}
	h.size = byte(len(da)) // safe due to check above
}

func (h *Hash) SetZero(size int) {
	if size > len(h.data) {
		panic("zero hash length exceeds hash storage size")
	}
	*h = Hash{size: byte(size)} // safe due to check above
}

func (h *Hash) SetValue(data []byte) {
	if len(data) > len(h.data) {
		panic("hash length exceeds hash storage size")
	}
	// clear data, so objects are equal by built-in operator
	*h = Hash{size: byte(len(data))} // safe due to check above
	copy(h.data[:], data)
}

// for secret-bearing values, call when the value is no longer needed
func (h *Hash) Wipe() {
	wipe.ClearMemory(h.data[:])
	h.size = 0
}

// HashAlgorithm describes the hash member of a cipher suite.
// Instances are immutable and shared by all sessions.
type HashAlgorithm struct {
	Name       string
	BlockSize  int // of the underlying compression function, used by HMAC
	DigestSize int
	New        func() hash.Hash
}

func (a *HashAlgorithm) NewHMAC(key []byte) hash.Hash {
	return hmac.New(a.New, key)
}

// HKDF-Extract output length equals DigestSize
func (a *HashAlgorithm) HKDFExtract(salt, keymaterial []byte) Hash {
	return HKDFExtract(a.NewHMAC(salt), keymaterial)
}

func (a *HashAlgorithm) HKDFExpand(dst []byte, prk, info []byte) {
	HKDFExpand(dst, a.NewHMAC(prk), info)
}

func (a *HashAlgorithm) EmptyHash() Hash {
	switch a {
	case SHA256:
		return emptySha256Hash
	case SHA384:
		return emptySha384Hash
	}
	var h Hash
	h.SetSum(a.New())
	return h
}

var SHA256 = &HashAlgorithm{Name: "sha256", BlockSize: 64, DigestSize: 32, New: sha256.New}
var SHA384 = &HashAlgorithm{Name: "sha384", BlockSize: 128, DigestSize: 48, New: sha512.New384}

var emptySha256Hash Hash
var emptySha384Hash Hash

func init() {
	emptySha256Hash.SetSum(sha256.New())
	emptySha384Hash.SetSum(sha512.New384())
}
