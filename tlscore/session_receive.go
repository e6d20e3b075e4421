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

// Receive decrypts at most one record into plaintextbuf. consumed == 0 with
// nil error means the input does not yet hold a complete record.
func (s *Session) Receive(plaintextbuf *buffer.Buffer, input []byte) (consumed int, err error) {
	switch s.stateID {
	case smIDConnected:
	case smIDError:
		return 0, s.failure
	case smIDClosed:
		return 0, tlserrors.ErrCloseNotifyReceived
	default:
		return 0, tlserrors.ErrHandshakeInProgress
	}
	var hdr record.Record
	n, perr := hdr.Parse(input)
	if perr != nil {
		return 0, s.fail(nil, tlserrors.ErrDecodeError)
	}
	if n == 0 {
		return 0, nil
	}
	switch hdr.ContentType {
	case record.RecordTypeChangeCipherSpec:
		return n, nil
	case record.RecordTypeAlert, record.RecordTypeHandshake:
		// everything is encrypted after the handshake
		return n, s.fail(nil, tlserrors.ErrUnexpectedMessage)
	}
	decrypted, innerType, err := s.recvProtection.Deprotect(hdr)
	if err != nil {
		return n, s.fail(nil, err)
	}
	switch innerType {
	case record.RecordTypeApplicationData:
		if err := plaintextbuf.PushBytes(decrypted); err != nil {
			return n, s.fail(nil, tlserrors.ErrNoMemory)
		}
		return n, nil
	case record.RecordTypeAlert:
		var a alert.Alert
		if err := a.Parse(decrypted); err != nil {
			return n, s.fail(nil, tlserrors.ErrDecodeError)
		}
		if a.Description == alert.CloseNotify {
			s.stateID = smIDClosed
			return n, tlserrors.ErrCloseNotifyReceived
		}
		return n, s.fail(nil, tlserrors.PeerAlert(a.Description))
	case record.RecordTypeHandshake:
		if err := s.receivedPostHandshakeBytes(decrypted); err != nil {
			return n, s.fail(nil, err)
		}
		return n, nil
	}
	return n, s.fail(nil, tlserrors.ErrUnexpectedMessage)
}

// NewSessionTicket is tolerated and dropped, we keep no ticket store.
// KeyUpdate is not supported, long sessions fail on sequence exhaustion.
func (s *Session) receivedPostHandshakeBytes(body []byte) error {
	s.recvAssembly = append(s.recvAssembly, body...)
	for {
		if len(s.recvAssembly) < handshake.MsgHeaderSize {
			return nil
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
			return nil
		}
		if hdr.MsgType != handshake.HandshakeTypeNewSessionTicket {
			return tlserrors.ErrUnexpectedMessage
		}
		s.recvAssembly = append(s.recvAssembly[:0], s.recvAssembly[endOffset:]...)
	}
}
