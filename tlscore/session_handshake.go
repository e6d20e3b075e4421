// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/constants"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/record"
	"github.com/BernardoGomesNegri/picotls/record/alert"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// Handshake is level-triggered. It consumes as many complete records as input
// holds, appends anything it wants sent to sendbuf, and reports progress:
// ErrHandshakeInProgress while more I/O is needed, nil once connected.
func (s *Session) Handshake(sendbuf *buffer.Buffer, input []byte) (consumed int, err error) {
	switch s.stateID {
	case smIDConnected:
		return 0, nil
	case smIDError:
		return 0, s.failure
	case smIDClosed:
		return 0, tlserrors.ErrUnexpectedMessage
	case smIDClientStart:
		if err := s.startClient(sendbuf); err != nil {
			return 0, s.fail(sendbuf, err)
		}
	}
	for {
		var hdr record.Record
		n, perr := hdr.Parse(input[consumed:])
		if perr != nil {
			return consumed, s.fail(sendbuf, tlserrors.ErrDecodeError)
		}
		if n == 0 {
			break
		}
		consumed += n
		if err := s.processHandshakeRecord(sendbuf, hdr); err != nil {
			return consumed, s.fail(sendbuf, err)
		}
		if s.stateID == smIDConnected {
			return consumed, nil
		}
	}
	return consumed, tlserrors.ErrHandshakeInProgress
}

func (s *Session) processHandshakeRecord(sendbuf *buffer.Buffer, hdr record.Record) error {
	switch hdr.ContentType {
	case record.RecordTypeChangeCipherSpec:
		// middlebox compatibility artifact, consumed silently at any point
		return nil
	case record.RecordTypeAlert:
		var a alert.Alert
		if err := a.Parse(hdr.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return tlserrors.PeerAlert(a.Description)
	case record.RecordTypeHandshake:
		if s.recvProtection.Enabled() {
			// once keys are installed the peer must encrypt everything
			return tlserrors.ErrUnexpectedMessage
		}
		return s.receivedHandshakeBytes(sendbuf, hdr.Body)
	case record.RecordTypeApplicationData:
		if !s.recvProtection.Enabled() {
			return tlserrors.ErrUnexpectedMessage
		}
		decrypted, innerType, err := s.recvProtection.Deprotect(hdr)
		if err != nil {
			return err
		}
		switch innerType {
		case record.RecordTypeHandshake:
			return s.receivedHandshakeBytes(sendbuf, decrypted)
		case record.RecordTypeAlert:
			var a alert.Alert
			if err := a.Parse(decrypted); err != nil {
				return tlserrors.ErrDecodeError
			}
			return tlserrors.PeerAlert(a.Description)
		default:
			// no application data until both Finished are through
			return tlserrors.ErrUnexpectedMessage
		}
	}
	panic("record parser let unknown content type through")
}

// accumulates body bytes and dispatches every complete handshake message
func (s *Session) receivedHandshakeBytes(sendbuf *buffer.Buffer, body []byte) error {
	wasProtected := s.recvProtection.Enabled()
	s.recvAssembly = append(s.recvAssembly, body...)
	for {
		if len(s.recvAssembly) < handshake.MsgHeaderSize {
			break
		}
		var hdr handshake.MsgHeader
		if err := hdr.Parse(s.recvAssembly); err != nil {
			return tlserrors.ErrDecodeError
		}
		if hdr.Length > constants.MaxHandshakeMessageLength {
			return tlserrors.ErrDecodeError
		}
		endOffset := handshake.MsgHeaderSize + int(hdr.Length)
		if len(s.recvAssembly) < endOffset {
			break
		}
		msg := handshake.Message{
			MsgType: hdr.MsgType,
			Body:    s.recvAssembly[handshake.MsgHeaderSize:endOffset],
		}
		if err := s.receivedFullMessage(sendbuf, msg); err != nil {
			return err
		}
		s.recvAssembly = append(s.recvAssembly[:0], s.recvAssembly[endOffset:]...)
		if !wasProtected && s.recvProtection.Enabled() && len(s.recvAssembly) != 0 {
			// peer must not coalesce plaintext and encrypted flights
			return tlserrors.ErrUnexpectedMessage
		}
	}
	return nil
}

func (s *Session) receivedFullMessage(sendbuf *buffer.Buffer, msg handshake.Message) error {
	switch msg.MsgType {
	case handshake.HandshakeTypeClientHello:
		var msgParsed handshake.MsgClientHello
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnClientHello(s, sendbuf, msg, msgParsed)
	case handshake.HandshakeTypeServerHello:
		var msgParsed handshake.MsgServerHello
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnServerHello(s, sendbuf, msg, msgParsed)
	case handshake.HandshakeTypeEncryptedExtensions:
		var msgParsed handshake.MsgEncryptedExtensions
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnEncryptedExtensions(s, sendbuf, msg, msgParsed)
	case handshake.HandshakeTypeCertificate:
		var msgParsed handshake.MsgCertificate
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnCertificate(s, sendbuf, msg, msgParsed)
	case handshake.HandshakeTypeCertificateVerify:
		var msgParsed handshake.MsgCertificateVerify
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnCertificateVerify(s, sendbuf, msg, msgParsed)
	case handshake.HandshakeTypeFinished:
		var msgParsed handshake.MsgFinished
		if err := msgParsed.Parse(msg.Body); err != nil {
			return tlserrors.ErrDecodeError
		}
		return s.state().OnFinished(s, sendbuf, msg, msgParsed)
	}
	return tlserrors.ErrUnexpectedMessage
}
