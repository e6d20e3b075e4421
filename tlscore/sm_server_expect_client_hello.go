// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/constants"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
	"github.com/BernardoGomesNegri/picotls/keys"
	"github.com/BernardoGomesNegri/picotls/signature"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
	"github.com/BernardoGomesNegri/picotls/wipe"
)

type smServerExpectClientHello struct {
	smClosed
}

// first group in our preference order the client both offers and shares
func selectClientKeyShare(opts []*keyexchange.Algorithm, set handshake.KeyShareSet) (*keyexchange.Algorithm, []byte) {
	for _, alg := range opts {
		switch alg.ID {
		case keyexchange.X25519:
			if set.X25519PublicKeySet {
				return alg, set.X25519PublicKey[:]
			}
		case keyexchange.Secp256r1:
			if set.SECP256R1PublicKeySet {
				peerKey := make([]byte, 0, 65)
				peerKey = append(peerKey, 4)
				peerKey = append(peerKey, set.SECP256R1PublicKey[:]...)
				return alg, peerKey
			}
		}
	}
	return nil, nil
}

func (*smServerExpectClientHello) OnClientHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgClientHello) error {
	if !msgParsed.Extensions.SupportedVersionsSet || !msgParsed.Extensions.SupportedVersions.TLS_13 {
		return tlserrors.ErrProtocolVersion
	}
	var suite *ciphersuite.Suite
	for _, id := range sess.opts.CipherSuites {
		if msgParsed.CipherSuites.Has(id) {
			suite = ciphersuite.MustSuite(id)
			break
		}
	}
	if suite == nil {
		return tlserrors.ErrHandshakeFailure
	}
	if !msgParsed.Extensions.KeyShareSet || !msgParsed.Extensions.SupportedGroupsSet {
		return tlserrors.ErrMissingExtension
	}
	// no HelloRetryRequest, so a missing share for every group we support
	// ends the handshake instead of asking the client again
	alg, peerKey := selectClientKeyShare(sess.opts.KeyExchanges, msgParsed.Extensions.KeyShare)
	if alg == nil {
		return tlserrors.ErrHandshakeFailure
	}
	if !msgParsed.Extensions.SignatureAlgorithmsSet {
		return tlserrors.ErrMissingExtension
	}
	var serverName []byte
	if msgParsed.Extensions.ServerNameSet {
		serverName = msgParsed.Extensions.ServerName.HostName
	}
	if sess.certCtx == nil || sess.certCtx.Lookup == nil {
		return tlserrors.ErrLibrary
	}
	lookup, err := sess.certCtx.Lookup(serverName, msgParsed.Extensions.SignatureAlgorithms)
	if err != nil {
		if _, ok := err.(*tlserrors.Error); ok {
			return err
		}
		return tlserrors.ErrHandshakeFailure
	}
	if len(lookup.Chain) == 0 || len(lookup.Chain) > constants.MaxCertificateChainLength {
		lookup.Signer.Cancel()
		return tlserrors.ErrInternalError
	}

	hctx := &handshakeContext{signer: lookup.Signer}
	sess.hctx = hctx
	sess.suite = suite
	sess.sched.Suite = suite
	hctx.transcriptHasher = suite.Hash.New()
	msg.AddToHash(hctx.transcriptHasher)

	publicKey, dheSecret, err := alg.Exchange(sess.opts.Rand, peerKey)
	if err != nil {
		return tlserrors.ErrIllegalParameter
	}

	shParsed := handshake.MsgServerHello{
		LegacySessionIDLength: msgParsed.LegacySessionIDLength,
		LegacySessionID:       msgParsed.LegacySessionID,
		CipherSuite:           suite.ID,
	}
	sess.opts.Rand.Read(shParsed.Random[:])
	shParsed.Extensions.SupportedVersionsSet = true
	shParsed.Extensions.SupportedVersions.SelectedVersion = handshake.TLS_VERSION_13
	shParsed.Extensions.KeyShareSet = true
	switch alg.ID {
	case keyexchange.X25519:
		shParsed.Extensions.KeyShare.X25519PublicKeySet = true
		copy(shParsed.Extensions.KeyShare.X25519PublicKey[:], publicKey)
	case keyexchange.Secp256r1:
		shParsed.Extensions.KeyShare.SECP256R1PublicKeySet = true
		copy(shParsed.Extensions.KeyShare.SECP256R1PublicKey[:], publicKey[1:])
	}
	shMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeServerHello,
		Body:    shParsed.Write(nil),
	}
	shMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, shMsg); err != nil {
		keyexchange.WipeSecret(dheSecret)
		return err
	}

	var trHash ciphersuite.Hash
	trHash.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeEarlySecret(nil)
	sess.sched.ComputeHandshakeSecrets(dheSecret, trHash)
	keyexchange.WipeSecret(dheSecret)

	// everything from here on is under the handshake keys
	sess.sendProtection.Reset(suite, sess.sched.ServerHandshakeTrafficSecret)
	sess.recvProtection.Reset(suite, sess.sched.ClientHandshakeTrafficSecret)

	eeParsed := handshake.MsgEncryptedExtensions{}
	eeMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeEncryptedExtensions,
		Body:    eeParsed.Write(nil),
	}
	eeMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, eeMsg); err != nil {
		return err
	}

	var certParsed handshake.MsgCertificate
	certParsed.CertificatesLength = len(lookup.Chain)
	for i, der := range lookup.Chain {
		certParsed.Certificates[i] = handshake.CertificateEntry{CertData: der}
	}
	certMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeCertificate,
		Body:    certParsed.Write(nil),
	}
	certMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, certMsg); err != nil {
		return err
	}

	// [rfc8446:4.4.3] - sign the transcript through Certificate
	var certVerifyTrHash ciphersuite.Hash
	certVerifyTrHash.SetSum(hctx.transcriptHasher)
	coveredContent := signature.CoveredContent(true, certVerifyTrHash.GetValue(), nil)
	signer := hctx.signer
	hctx.signer = nil
	sig, err := signer.Run(coveredContent)
	wipe.ClearMemory(coveredContent)
	if err != nil {
		if _, ok := err.(*tlserrors.Error); ok {
			return err
		}
		return tlserrors.ErrInternalError
	}
	cvParsed := handshake.MsgCertificateVerify{
		SignatureScheme: lookup.Scheme,
		Signature:       sig,
	}
	cvMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeCertificateVerify,
		Body:    cvParsed.Write(nil),
	}
	cvMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, cvMsg); err != nil {
		return err
	}

	var finishedTrHash ciphersuite.Hash
	finishedTrHash.SetSum(hctx.transcriptHasher)
	finished := keys.ComputeFinished(suite, sess.sched.ServerHandshakeTrafficSecret, finishedTrHash)
	finishedMsg := handshake.Message{
		MsgType: handshake.HandshakeTypeFinished,
		Body:    append([]byte(nil), finished.GetValue()...),
	}
	finished.Wipe()
	finishedMsg.AddToHash(hctx.transcriptHasher)
	if err := sess.pushMessage(sendbuf, finishedMsg); err != nil {
		return err
	}

	// we may send application data now, the client keeps the handshake
	// receive keys until its Finished is through
	var trAfterServerFinished ciphersuite.Hash
	trAfterServerFinished.SetSum(hctx.transcriptHasher)
	sess.sched.ComputeApplicationSecrets(trAfterServerFinished)
	sess.sendProtection.Reset(suite, sess.sched.ServerApplicationTrafficSecret)

	sess.stateID = smIDServerExpectFinished
	return nil
}
