// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

type smClientExpectEE struct {
	smClosed
}

func (*smClientExpectEE) OnEncryptedExtensions(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgEncryptedExtensions) error {
	if msgParsed.Extensions.SupportedVersionsSet || msgParsed.Extensions.KeyShareSet {
		// those belong in ServerHello only
		return tlserrors.ErrUnsupportedExtension
	}
	msg.AddToHash(sess.hctx.transcriptHasher)
	sess.stateID = smIDClientExpectCert
	return nil
}
