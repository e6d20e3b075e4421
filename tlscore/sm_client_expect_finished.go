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

type smClientExpectFinished struct {
	smClosed
}

func (*smClientExpectFinished) OnFinished(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgFinished) error {
	hctx := sess.hctx
	suite := sess.suite

	// [rfc8446:4.4.4] - finished
	var trHash ciphersuite.Hash
	trHash.SetSum(hctx.transcriptHasher)
	if !keys.CheckFinished(suite, sess.sched.ServerHandshakeTrafficSecret, trHash, msgParsed.VerifyData) {
		return tlserrors.ErrDecryptError
	}
	msg.AddToHash(hctx.transcriptHasher)

	var trAfterServerFinished ciphersuite.Hash
	trAfterServerFinished.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeApplicationSecrets(trAfterServerFinished)

	// our Finished goes out under the handshake keys
	finished := keys.ComputeFinished(suite, sess.sched.ClientHandshakeTrafficSecret, trAfterServerFinished)
	finishedMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeFinished,
		Body:    append([]byte(nil), finished.GetValue()...),
	}
	finished.Wipe()
	finishedMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, finishedMsg); err != nil {
		return err
	}

	var trAfterClientFinished ciphersuite.Hash
	trAfterClientFinished.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeResumptionSecret(trAfterClientFinished)

	sess.sendProtection.Reset(suite, sess.sched.ClientApplicationTrafficSecret)
	sess.recvProtection.Reset(suite, sess.sched.ServerApplicationTrafficSecret)
	sess.completeHandshake()
	return nil
}
