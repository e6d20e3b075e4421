// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

type smClientExpectServerHello struct {
	smClosed
}

func (*smClientExpectServerHello) OnServerHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgServerHello) error {
	hctx := sess.hctx
	if msgParsed.IsHelloRetryRequest() {
		// we always offer a key share per group, a conforming peer never retries
		return tlserrors.ErrHandshakeFailure
	}
	if !msgParsed.Extensions.SupportedVersionsSet ||
		msgParsed.Extensions.SupportedVersions.SelectedVersion != handshake.TLS_VERSION_13 {
		return tlserrors.ErrProtocolVersion
	}
	if msgParsed.LegacySessionIDLength != 0 {
		// must echo the empty id we sent
		return tlserrors.ErrIllegalParameter
	}
	suite := ciphersuite.GetSuite(msgParsed.CipherSuite)
	if suite == nil || !sess.opts.HasSuite(msgParsed.CipherSuite) {
		return tlserrors.ErrIllegalParameter
	}
	if !msgParsed.Extensions.KeyShareSet {
		return tlserrors.ErrMissingExtension
	}
	groupID, peerKey, err := serverKeyShareEntry(msgParsed.Extensions.KeyShare)
	if err != nil {
		return err
	}
	var kexCtx keyexchange.Context
	for i, alg := range sess.opts.KeyExchanges {
		if alg.ID == groupID {
			kexCtx = hctx.kexContexts[i]
			hctx.kexContexts[i] = nil
		}
	}
	if kexCtx == nil {
		return tlserrors.ErrIllegalParameter
	}

	sess.suite = suite
	sess.sched.Suite = suite
	hctx.transcriptHasher = suite.Hash.New()
	hctx.clientHello.AddToHash(hctx.transcriptHasher)
	hctx.clientHello = handshake.Message{}
	msg.AddToHash(hctx.transcriptHasher)

	dheSecret, err := kexCtx.OnExchange(peerKey)
	hctx.releaseKexContexts()
	if err != nil {
		return err
	}
	var trHash ciphersuite.Hash
	trHash.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeEarlySecret(nil)
	sess.sched.ComputeHandshakeSecrets(dheSecret, trHash)
	keyexchange.WipeSecret(dheSecret)

	sess.sendProtection.Reset(suite, sess.sched.ClientHandshakeTrafficSecret)
	sess.recvProtection.Reset(suite, sess.sched.ServerHandshakeTrafficSecret)

	sess.stateID = smIDClientExpectEE
	return nil
}
