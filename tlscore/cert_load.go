// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/BernardoGomesNegri/picotls/constants"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

// LoadServerContext reads a PEM certificate chain and private key and builds a
// serving context around them.
// TODO - this is the only dependency on "crypto/tls", if this stays, we might want to write this code manually
func LoadServerContext(rnd tlsrand.Rand, certificatePath string, privateKeyPEMPath string) (*CertificateContext, error) {
	cert, err := tls.LoadX509KeyPair(certificatePath, privateKeyPEMPath)
	if err != nil {
		return nil, fmt.Errorf("error loading x509 key pair: %w", err)
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("loaded x509 pem file contains no certificates")
	}
	if len(cert.Certificate) > constants.MaxCertificateChainLength {
		return nil, fmt.Errorf("loaded x509 pem file contains too many (%d) certificates, only %d are supported", len(cert.Certificate), constants.MaxCertificateChainLength)
	}
	signer, ok := cert.PrivateKey.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("loaded private key cannot sign")
	}
	return NewServerContext(rnd, cert.Certificate, signer), nil
}

// LoadClientContext builds a verifying context trusting the PEM roots at
// rootsPath. Empty rootsPath disables chain validation.
func LoadClientContext(rootsPath string) (*CertificateContext, error) {
	if rootsPath == "" {
		return NewClientContext(nil), nil
	}
	pemData, err := os.ReadFile(rootsPath)
	if err != nil {
		return nil, fmt.Errorf("error loading x509 roots: %w", err)
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("loaded x509 roots pem file contains no certificates")
	}
	return NewClientContext(roots), nil
}
