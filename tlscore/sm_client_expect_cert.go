// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

type smClientExpectCert struct {
	smClosed
}

func (*smClientExpectCert) OnCertificate(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificate) error {
	hctx := sess.hctx
	if msgParsed.RequestContextLength != 0 {
		// non-empty only in post-handshake client auth, which we never request
		return tlserrors.ErrIllegalParameter
	}
	if msgParsed.CertificatesLength == 0 {
		return tlserrors.ErrBadCertificate
	}
	// entries alias the receive assembly, the callback may retain its copy
	chain := make([][]byte, msgParsed.CertificatesLength)
	for i := 0; i < msgParsed.CertificatesLength; i++ {
		chain[i] = append([]byte(nil), msgParsed.Certificates[i].CertData...)
	}
	if sess.certCtx == nil || sess.certCtx.Verify == nil {
		return tlserrors.ErrLibrary
	}
	verifySign, err := sess.certCtx.Verify(chain)
	if err != nil {
		if _, ok := err.(*tlserrors.Error); ok {
			return err
		}
		return tlserrors.ErrBadCertificate
	}
	hctx.verifySign = verifySign
	msg.AddToHash(hctx.transcriptHasher)
	sess.stateID = smIDClientExpectCertVerify
	return nil
}
