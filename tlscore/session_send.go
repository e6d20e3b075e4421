// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/record"
	"github.com/BernardoGomesNegri/picotls/record/alert"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// Send encrypts data into sendbuf, fragmenting as needed.
// Empty data produces no records.
func (s *Session) Send(sendbuf *buffer.Buffer, data []byte) error {
	switch s.stateID {
	case smIDConnected:
	case smIDError:
		return s.failure
	case smIDClosed:
		return tlserrors.ErrCloseNotifyReceived
	default:
		return tlserrors.ErrHandshakeInProgress
	}
	for len(data) > 0 {
		chunk := len(data)
		if chunk > record.MaxPlaintextRecordLength {
			chunk = record.MaxPlaintextRecordLength
		}
		if err := s.pushRecord(sendbuf, record.RecordTypeApplicationData, data[:chunk]); err != nil {
			return s.fail(nil, err)
		}
		data = data[chunk:]
	}
	return nil
}

// Close emits close_notify and makes the session unusable for sending.
// Closing an already closed or failed session is a no-op.
func (s *Session) Close(sendbuf *buffer.Buffer) error {
	switch s.stateID {
	case smIDClosed, smIDError:
		return nil
	}
	err := s.pushAlert(sendbuf, alert.CloseNormal())
	if hctx := s.hctx; hctx != nil {
		hctx.release()
		s.hctx = nil
	}
	s.stateID = smIDClosed
	return err
}
