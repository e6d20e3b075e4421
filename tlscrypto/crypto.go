// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscrypto

import (
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

// Crypto is a read-only capability table shared by any number of sessions.
// It must outlive every session created over it.
type Crypto struct {
	Rand         tlsrand.Rand
	KeyExchanges []*keyexchange.Algorithm // in preference order
	CipherSuites []ciphersuite.ID         // in preference order
}

// everything we implement
func Default() *Crypto {
	return &Crypto{
		Rand: tlsrand.CryptoRand(),
		KeyExchanges: []*keyexchange.Algorithm{
			keyexchange.AlgorithmX25519,
			keyexchange.AlgorithmSecp256r1,
		},
		CipherSuites: []ciphersuite.ID{
			ciphersuite.TLS_AES_128_GCM_SHA256,
			ciphersuite.TLS_AES_256_GCM_SHA384,
			ciphersuite.TLS_CHACHA20_POLY1305_SHA256,
		},
	}
}

func (c *Crypto) HasSuite(id ciphersuite.ID) bool {
	for _, s := range c.CipherSuites {
		if s == id {
			return true
		}
	}
	return false
}

func (c *Crypto) HasKeyExchange(id keyexchange.ID) bool {
	for _, k := range c.KeyExchanges {
		if k.ID == id {
			return true
		}
	}
	return false
}
