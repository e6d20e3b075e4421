// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"hash"

	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
)

// Everything that lives only between the first flight and the Finished
// exchange. Dropped as one unit when the session connects or fails.
type handshakeContext struct {
	localRandom [32]byte

	// aligned with opts.KeyExchanges, entries become nil once released
	kexContexts []keyexchange.Context

	// transcript cannot start until ServerHello names the suite, so the
	// client keeps its serialized ClientHello around
	clientHello      handshake.Message
	transcriptHasher hash.Hash

	// pending certificate continuations, at most one is non-nil
	verifySign *VerifySignHandle
	signer     *SignHandle
}

func (hctx *handshakeContext) releaseKexContexts() {
	for i, ctx := range hctx.kexContexts {
		if ctx != nil {
			_, _ = ctx.OnExchange(nil)
			hctx.kexContexts[i] = nil
		}
	}
}

func (hctx *handshakeContext) release() {
	hctx.releaseKexContexts()
	hctx.verifySign.Cancel()
	hctx.verifySign = nil
	hctx.signer.Cancel()
	hctx.signer = nil
	hctx.transcriptHasher = nil
	hctx.clientHello = handshake.Message{}
}
