// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"crypto"
	"crypto/sha256"
	"crypto/x509"

	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/signature"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

// SignHandle is the signing continuation returned by Lookup. Exactly one of
// Run or Cancel must be called, after which the handle is dead. Cancel invokes
// the callback with empty arguments so it can free whatever it captured.
type SignHandle struct {
	sign func(coveredContent []byte) ([]byte, error)
}

func NewSignHandle(sign func(coveredContent []byte) ([]byte, error)) *SignHandle {
	return &SignHandle{sign: sign}
}

func (h *SignHandle) Run(coveredContent []byte) ([]byte, error) {
	if h == nil || h.sign == nil {
		return nil, tlserrors.ErrLibrary
	}
	sign := h.sign
	h.sign = nil
	return sign(coveredContent)
}

func (h *SignHandle) Cancel() {
	if h == nil || h.sign == nil {
		return
	}
	sign := h.sign
	h.sign = nil
	_, _ = sign(nil)
}

// VerifySignHandle is the signature checking continuation returned by Verify,
// with the same single-shot Run/Cancel contract as SignHandle.
type VerifySignHandle struct {
	verify func(scheme uint16, coveredContent []byte, sig []byte) error
}

func NewVerifySignHandle(verify func(scheme uint16, coveredContent []byte, sig []byte) error) *VerifySignHandle {
	return &VerifySignHandle{verify: verify}
}

func (h *VerifySignHandle) Run(scheme uint16, coveredContent []byte, sig []byte) error {
	if h == nil || h.verify == nil {
		return tlserrors.ErrLibrary
	}
	verify := h.verify
	h.verify = nil
	return verify(scheme, coveredContent, sig)
}

func (h *VerifySignHandle) Cancel() {
	if h == nil || h.verify == nil {
		return
	}
	verify := h.verify
	h.verify = nil
	_ = verify(0, nil, nil)
}

type LookupResult struct {
	Chain  [][]byte // DER certificates, leaf first
	Scheme uint16
	Signer *SignHandle
}

// CertificateContext is the host-provided callback table. Servers fill Lookup,
// clients fill Verify. May be shared between sessions.
type CertificateContext struct {
	Lookup func(serverName []byte, peerAlgorithms handshake.SignatureAlgorithmsSet) (LookupResult, error)
	Verify func(chain [][]byte) (*VerifySignHandle, error)
}

// NewServerContext serves one certificate chain for any requested name.
// Hosts needing SNI dispatch provide their own Lookup.
func NewServerContext(rnd tlsrand.Rand, chain [][]byte, privateKey crypto.Signer) *CertificateContext {
	return &CertificateContext{
		Lookup: func(serverName []byte, peerAlgorithms handshake.SignatureAlgorithmsSet) (LookupResult, error) {
			scheme := signature.SelectScheme(privateKey, peerAlgorithms)
			if scheme == 0 {
				return LookupResult{}, tlserrors.ErrHandshakeFailure
			}
			signer := NewSignHandle(func(coveredContent []byte) ([]byte, error) {
				if len(coveredContent) == 0 {
					return nil, nil // cleanup call, nothing captured beyond the key
				}
				digest := sha256.Sum256(coveredContent)
				return signature.CreateSignature(rnd, privateKey, scheme, digest[:])
			})
			return LookupResult{Chain: chain, Scheme: scheme, Signer: signer}, nil
		},
	}
}

// NewClientContext verifies the peer chain against roots and then checks the
// CertificateVerify signature with the leaf key. Nil roots skips chain
// validation and trusts the leaf as presented, for tests and pinned setups.
func NewClientContext(roots *x509.CertPool) *CertificateContext {
	return &CertificateContext{
		Verify: func(chain [][]byte) (*VerifySignHandle, error) {
			if len(chain) == 0 {
				return nil, tlserrors.ErrBadCertificate
			}
			leaf, err := x509.ParseCertificate(chain[0])
			if err != nil {
				return nil, tlserrors.ErrBadCertificate
			}
			if roots != nil {
				intermediates := x509.NewCertPool()
				for _, der := range chain[1:] {
					cert, err := x509.ParseCertificate(der)
					if err != nil {
						return nil, tlserrors.ErrBadCertificate
					}
					intermediates.AddCert(cert)
				}
				if _, err := leaf.Verify(x509.VerifyOptions{Roots: roots, Intermediates: intermediates}); err != nil {
					return nil, tlserrors.ErrBadCertificate
				}
			}
			return NewVerifySignHandle(func(scheme uint16, coveredContent []byte, sig []byte) error {
				if len(coveredContent) == 0 && len(sig) == 0 {
					return nil // cleanup call
				}
				digest := sha256.Sum256(coveredContent)
				if err := signature.VerifySignature(leaf, scheme, digest[:], sig); err != nil {
					return tlserrors.ErrDecryptError
				}
				return nil
			}), nil
		},
	}
}
