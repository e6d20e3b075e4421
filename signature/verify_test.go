// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"

	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

func selfSigned(t *testing.T, privateKey any, publicKey any) *x509.Certificate {
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, publicKey, privateKey)
	if err != nil {
		t.Fatalf("%v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return cert
}

func TestSignVerifyRSA(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("%v", err)
	}
	cert := selfSigned(t, privateKey, &privateKey.PublicKey)

	var transcriptHash [32]byte
	covered := CoveredContent(true, transcriptHash[:], nil)
	digest := sha256.Sum256(covered)

	sig, err := CreateSignature(tlsrand.CryptoRand(), privateKey, handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256, digest[:])
	if err != nil {
		t.Errorf("%v", err)
	}
	if err := VerifySignature(cert, handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256, digest[:], sig); err != nil {
		t.Errorf("%v", err)
	}
	sig[0] ^= 1
	if err := VerifySignature(cert, handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256, digest[:], sig); err == nil {
		t.Errorf("corrupted signature accepted")
	}
}

func TestSignVerifyECDSA(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("%v", err)
	}
	cert := selfSigned(t, privateKey, &privateKey.PublicKey)

	digest := sha256.Sum256([]byte("something to sign"))

	sig, err := CreateSignature(tlsrand.CryptoRand(), privateKey, handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256, digest[:])
	if err != nil {
		t.Errorf("%v", err)
	}
	if err := VerifySignature(cert, handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256, digest[:], sig); err != nil {
		t.Errorf("%v", err)
	}
	digest[0] ^= 1
	if err := VerifySignature(cert, handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256, digest[:], sig); err == nil {
		t.Errorf("signature over different digest accepted")
	}
}

func TestSchemeMismatch(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("%v", err)
	}
	digest := sha256.Sum256([]byte("something to sign"))
	if _, err := CreateSignature(tlsrand.CryptoRand(), privateKey, handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256, digest[:]); err == nil {
		t.Errorf("ecdsa key produced rsa signature")
	}
	if _, err := CreateSignature(tlsrand.CryptoRand(), privateKey, handshake.SignatureAlgorithm_ED25519, digest[:]); err == nil {
		t.Errorf("unsupported scheme accepted")
	}
}
