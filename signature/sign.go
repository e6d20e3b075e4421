// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"

	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

type randReader struct {
	rnd tlsrand.Rand
}

func (r randReader) Read(data []byte) (int, error) {
	r.rnd.Read(data)
	return len(data), nil
}

// Selects the scheme the key can produce from the peer's advertised set.
// Returns 0 when they do not intersect.
func SelectScheme(privateKey crypto.Signer, peerAlgorithms handshake.SignatureAlgorithmsSet) uint16 {
	switch privateKey.(type) {
	case *rsa.PrivateKey:
		if peerAlgorithms.RSA_PSS_RSAE_SHA256 {
			return handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256
		}
	case *ecdsa.PrivateKey:
		if peerAlgorithms.ECDSA_SECP256r1_SHA256 {
			return handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256
		}
	}
	return 0
}

// data is the already hashed covered content, see CoveredContent
func CreateSignature(rnd tlsrand.Rand, privateKey crypto.Signer, scheme uint16, data []byte) ([]byte, error) {
	switch scheme {
	case handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256:
		rsaKey, ok := privateKey.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrCertificateWrongPublicKeyType
		}
		return rsa.SignPSS(randReader{rnd: rnd}, rsaKey, crypto.SHA256, data, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       crypto.SHA256,
		})
	case handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256:
		ecdsaKey, ok := privateKey.(*ecdsa.PrivateKey)
		if !ok {
			return nil, ErrCertificateWrongPublicKeyType
		}
		return ecdsa.SignASN1(randReader{rnd: rnd}, ecdsaKey, data)
	}
	return nil, ErrSignatureSchemeNotSupported
}
