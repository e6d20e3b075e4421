// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"errors"

	"github.com/BernardoGomesNegri/picotls/handshake"
)

var ErrCertificateWrongPublicKeyType = errors.New("certificate has wrong public key type")
var ErrSignatureSchemeNotSupported = errors.New("signature scheme not supported")
var ErrSignatureInvalid = errors.New("signature verification failed")

// data is the already hashed covered content, see CoveredContent
func VerifySignature(cert *x509.Certificate, scheme uint16, data []byte, sig []byte) error {
	switch scheme {
	case handshake.SignatureAlgorithm_RSA_PSS_RSAE_SHA256:
		rsaPublicKey, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return ErrCertificateWrongPublicKeyType
		}
		if err := rsa.VerifyPSS(rsaPublicKey, crypto.SHA256, data, sig, nil); err != nil {
			return ErrSignatureInvalid
		}
		return nil
	case handshake.SignatureAlgorithm_ECDSA_SECP256r1_SHA256:
		ecdsaPublicKey, ok := cert.PublicKey.(*ecdsa.PublicKey)
		if !ok {
			return ErrCertificateWrongPublicKeyType
		}
		if !ecdsa.VerifyASN1(ecdsaPublicKey, data, sig) {
			return ErrSignatureInvalid
		}
		return nil
	}
	return ErrSignatureSchemeNotSupported
}

// the scheme we will offer in signature_algorithms and check certificates against
func SupportedSchemes() handshake.SignatureAlgorithmsSet {
	var set handshake.SignatureAlgorithmsSet
	set.ECDSA_SECP256r1_SHA256 = true
	set.RSA_PSS_RSAE_SHA256 = true
	return set
}
