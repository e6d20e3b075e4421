// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keyexchange

import (
	"crypto/ecdh"

	"github.com/BernardoGomesNegri/picotls/tlserrors"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
	"github.com/BernardoGomesNegri/picotls/wipe"
)

type ID uint16

const (
	// [rfc8446:4.2.7]
	Secp256r1 ID = 23
	X25519    ID = 29
)

// Context holds the ephemeral private key between offering a share and
// receiving the peer's. OnExchange with a nil peer key releases the key
// material without computing a secret.
type Context interface {
	OnExchange(peerKey []byte) (secret []byte, err error)
}

// Algorithm describes one named group. Instances are immutable and shared.
type Algorithm struct {
	ID     ID
	Name   string
	Create func(rnd tlsrand.Rand) (Context, []byte, error)
	// one-shot server side: generate, compute, forget
	Exchange func(rnd tlsrand.Rand, peerKey []byte) (publicKey []byte, secret []byte, err error)
}

// reads from Rand through the io.Reader shape ecdh generation wants
type randReader struct {
	rnd tlsrand.Rand
}

func (r randReader) Read(p []byte) (int, error) {
	r.rnd.Read(p)
	return len(p), nil
}

type ecdhContext struct {
	curve  ecdh.Curve
	secret *ecdh.PrivateKey
}

func (c *ecdhContext) OnExchange(peerKey []byte) ([]byte, error) {
	if c.secret == nil {
		return nil, tlserrors.ErrLibrary
	}
	priv := c.secret
	c.secret = nil
	if peerKey == nil { // release without computing
		return nil, nil
	}
	pub, err := c.curve.NewPublicKey(peerKey)
	if err != nil {
		return nil, tlserrors.ErrIncompatibleKey
	}
	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, tlserrors.ErrIncompatibleKey
	}
	return secret, nil
}

func createECDH(curve ecdh.Curve, rnd tlsrand.Rand) (Context, []byte, error) {
	priv, err := curve.GenerateKey(randReader{rnd: rnd})
	if err != nil {
		return nil, nil, tlserrors.ErrLibrary
	}
	return &ecdhContext{curve: curve, secret: priv}, priv.PublicKey().Bytes(), nil
}

func exchangeECDH(curve ecdh.Curve, rnd tlsrand.Rand, peerKey []byte) ([]byte, []byte, error) {
	ctx, publicKey, err := createECDH(curve, rnd)
	if err != nil {
		return nil, nil, err
	}
	secret, err := ctx.OnExchange(peerKey)
	if err != nil {
		return nil, nil, err
	}
	return publicKey, secret, nil
}

var AlgorithmX25519 = &Algorithm{
	ID:   X25519,
	Name: "x25519",
	Create: func(rnd tlsrand.Rand) (Context, []byte, error) {
		return createECDH(ecdh.X25519(), rnd)
	},
	Exchange: func(rnd tlsrand.Rand, peerKey []byte) ([]byte, []byte, error) {
		return exchangeECDH(ecdh.X25519(), rnd, peerKey)
	},
}

var AlgorithmSecp256r1 = &Algorithm{
	ID:   Secp256r1,
	Name: "secp256r1",
	Create: func(rnd tlsrand.Rand) (Context, []byte, error) {
		return createECDH(ecdh.P256(), rnd)
	},
	Exchange: func(rnd tlsrand.Rand, peerKey []byte) ([]byte, []byte, error) {
		return exchangeECDH(ecdh.P256(), rnd, peerKey)
	},
}

// returns nil for groups we do not recognize, callers use this during negotiation
func GetAlgorithm(num ID) *Algorithm {
	switch num {
	case X25519:
		return AlgorithmX25519
	case Secp256r1:
		return AlgorithmSecp256r1
	}
	return nil
}

// WipeSecret clears a shared secret produced by OnExchange.
func WipeSecret(secret []byte) {
	wipe.ClearMemory(secret)
}
