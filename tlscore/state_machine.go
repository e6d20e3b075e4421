// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

type stateMachineStateID byte

const (
	smIDClosed                  stateMachineStateID = 0
	smIDError                   stateMachineStateID = 1
	smIDClientStart             stateMachineStateID = 2
	smIDClientExpectServerHello stateMachineStateID = 3
	smIDClientExpectEE          stateMachineStateID = 4
	smIDClientExpectCert        stateMachineStateID = 5
	smIDClientExpectCertVerify  stateMachineStateID = 6
	smIDClientExpectFinished    stateMachineStateID = 7
	smIDServerExpectClientHello stateMachineStateID = 8
	smIDServerExpectFinished    stateMachineStateID = 9
	smIDConnected               stateMachineStateID = 10
)

var stateMachineStates = [...]stateMachine{
	smIDClosed:                  &smClosed{},
	smIDError:                   &smClosed{},
	smIDClientStart:             &smClosed{},
	smIDClientExpectServerHello: &smClientExpectServerHello{},
	smIDClientExpectEE:          &smClientExpectEE{},
	smIDClientExpectCert:        &smClientExpectCert{},
	smIDClientExpectCertVerify:  &smClientExpectCertVerify{},
	smIDClientExpectFinished:    &smClientExpectFinished{},
	smIDServerExpectClientHello: &smServerExpectClientHello{},
	smIDServerExpectFinished:    &smServerExpectFinished{},
	smIDConnected:               &smClosed{},
}

type stateMachine interface {
	OnClientHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgClientHello) error
	OnServerHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgServerHello) error
	OnEncryptedExtensions(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgEncryptedExtensions) error
	OnCertificate(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificate) error
	OnCertificateVerify(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificateVerify) error
	OnFinished(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgFinished) error
}

// every message is forbidden until a state overrides its handler
type smClosed struct{}

func (*smClosed) OnClientHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgClientHello) error {
	return tlserrors.ErrUnexpectedMessage
}

func (*smClosed) OnServerHello(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgServerHello) error {
	return tlserrors.ErrUnexpectedMessage
}

func (*smClosed) OnEncryptedExtensions(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgEncryptedExtensions) error {
	return tlserrors.ErrUnexpectedMessage
}

func (*smClosed) OnCertificate(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificate) error {
	return tlserrors.ErrUnexpectedMessage
}

func (*smClosed) OnCertificateVerify(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgCertificateVerify) error {
	return tlserrors.ErrUnexpectedMessage
}

func (*smClosed) OnFinished(sess *Session, sendbuf *buffer.Buffer, msg handshake.Message, msgParsed handshake.MsgFinished) error {
	return tlserrors.ErrUnexpectedMessage
}
