// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keys"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

type smServerExpectFinished struct {
	smClosed
}

func (*smServerExpectFinished) OnFinished(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgFinished) error {
	hctx := sess.hctx
	suite := sess.suite

	// [rfc8446:4.4.4] - finished
	var trHash ciphersuite.Hash
	trHash.SetSum(hctx.transcriptHasher)
	if !keys.CheckFinished(suite, sess.sched.ClientHandshakeTrafficSecret, trHash, msgParsed.VerifyData) {
		return tlserrors.ErrDecryptError
	}
	msg.AddToHash(hctx.transcriptHasher)

	var trAfterClientFinished ciphersuite.Hash
	trAfterClientFinished.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeResumptionSecret(trAfterClientFinished)

	sess.recvProtection.Reset(suite, sess.sched.ClientApplicationTrafficSecret)
	sess.completeHandshake()
	return nil
}
