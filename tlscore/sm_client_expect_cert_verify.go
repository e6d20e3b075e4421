// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/signature"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
	"github.com/BernardoGomesNegri/picotls/wipe"
)

type smClientExpectCertVerify struct {
	smClosed
}

func (*smClientExpectCertVerify) OnCertificateVerify(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificateVerify) error {
	hctx := sess.hctx
	// [rfc8446:4.4.3] - signature covers the transcript through Certificate
	var trHash ciphersuite.Hash
	trHash.SetSum(hctx.transcriptHasher)
	coveredContent := signature.CoveredContent(true, trHash.GetValue(), nil)

	verifySign := hctx.verifySign
	hctx.verifySign = nil
	err := verifySign.Run(msgParsed.SignatureScheme, coveredContent, msgParsed.Signature)
	wipe.ClearMemory(coveredContent)
	if err != nil {
		if _, ok := err.(*tlserrors.Error); ok {
			return err
		}
		return tlserrors.ErrDecryptError
	}
	msg.AddToHash(hctx.transcriptHasher)
	sess.stateID = smIDClientExpectFinished
	return nil
}
