// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

const MaxIVLength = 16
const AEADSealSize = 16

// AeadAlgorithm describes the AEAD member of a cipher suite.
// Instances are immutable and shared by all sessions.
type AeadAlgorithm struct {
	Name    string
	KeySize int
	IVSize  int
	TagSize int
	New     func(key []byte) cipher.AEAD
}

func NewAesGCM(key []byte) cipher.AEAD {
	block, err := aes.NewCipher(key)
	if err != nil {
		panic("aes.NewCipher fails " + err.Error())
	}
	c, err := cipher.NewGCM(block)
	if err != nil {
		panic("cipher.NewGCM fails " + err.Error())
	}
	return c
}

func NewChacha20Poly1305(key []byte) cipher.AEAD {
	c, err := chacha20poly1305.New(key)
	if err != nil {
		panic("chacha20poly1305.New fails " + err.Error())
	}
	return c
}

var AES128GCM = &AeadAlgorithm{Name: "aes128gcm", KeySize: 16, IVSize: 12, TagSize: 16, New: NewAesGCM}
var AES256GCM = &AeadAlgorithm{Name: "aes256gcm", KeySize: 32, IVSize: 12, TagSize: 16, New: NewAesGCM}
var Chacha20Poly1305 = &AeadAlgorithm{Name: "chacha20poly1305", KeySize: 32, IVSize: 12, TagSize: 16, New: NewChacha20Poly1305}
