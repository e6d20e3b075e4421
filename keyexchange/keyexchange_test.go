// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keyexchange

import (
	"bytes"
	"testing"

	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

func sharedSecret(t *testing.T, alg *Algorithm) {
	t.Helper()
	rnd := tlsrand.CryptoRand()
	ctx, clientPub, err := alg.Create(rnd)
	if err != nil {
		t.Fatalf("%s create: %v", alg.Name, err)
	}
	serverPub, serverSecret, err := alg.Exchange(rnd, clientPub)
	if err != nil {
		t.Fatalf("%s exchange: %v", alg.Name, err)
	}
	clientSecret, err := ctx.OnExchange(serverPub)
	if err != nil {
		t.Fatalf("%s client exchange: %v", alg.Name, err)
	}
	if !bytes.Equal(clientSecret, serverSecret) {
		t.Errorf("%s shared secret disagreement", alg.Name)
	}
	if len(clientSecret) == 0 {
		t.Errorf("%s empty shared secret", alg.Name)
	}
	WipeSecret(clientSecret)
	WipeSecret(serverSecret)
}

func TestSharedSecret(t *testing.T) {
	sharedSecret(t, AlgorithmX25519)
	sharedSecret(t, AlgorithmSecp256r1)
}

func TestExchangeRejectsGarbage(t *testing.T) {
	rnd := tlsrand.CryptoRand()
	garbage := bytes.Repeat([]byte{0xFF}, 65)
	if _, _, err := AlgorithmSecp256r1.Exchange(rnd, garbage); err == nil {
		t.Errorf("secp256r1 accepted a point off the curve")
	}
	if _, _, err := AlgorithmX25519.Exchange(rnd, []byte{1, 2, 3}); err == nil {
		t.Errorf("x25519 accepted a short key")
	}
}

func TestContextRelease(t *testing.T) {
	ctx, _, err := AlgorithmX25519.Create(tlsrand.CryptoRand())
	if err != nil {
		t.Fatal(err)
	}
	// nil peer key is the release call, no secret comes back
	if secret, _ := ctx.OnExchange(nil); secret != nil {
		t.Errorf("release call produced a secret")
	}
}

func TestGetAlgorithm(t *testing.T) {
	if GetAlgorithm(X25519) != AlgorithmX25519 {
		t.Errorf("x25519 lookup")
	}
	if GetAlgorithm(Secp256r1) != AlgorithmSecp256r1 {
		t.Errorf("secp256r1 lookup")
	}
	if GetAlgorithm(0x1234) != nil {
		t.Errorf("unknown id lookup")
	}
}
