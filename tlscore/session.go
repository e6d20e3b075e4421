// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keys"
	"github.com/BernardoGomesNegri/picotls/record"
	"github.com/BernardoGomesNegri/picotls/record/alert"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// Session is one endpoint of one connection. It is buffer-in, buffer-out and
// never touches a socket. Not safe for concurrent use, the caller serializes.
type Session struct {
	opts       *tlscrypto.Crypto
	certCtx    *CertificateContext
	serverName string
	roleServer bool

	stateID stateMachineStateID
	suite   *ciphersuite.Suite
	sched   keys.Schedule

	sendProtection record.Protection
	recvProtection record.Protection

	hctx *handshakeContext

	// handshake messages reassembled across record boundaries
	recvAssembly []byte

	failure error

	scratch []byte // record build area, reused between calls
}

func NewClient(opts *tlscrypto.Crypto, certCtx *CertificateContext, serverName string) *Session {
	return &Session{
		opts:       opts,
		certCtx:    certCtx,
		serverName: serverName,
		stateID:    smIDClientStart,
	}
}

func NewServer(opts *tlscrypto.Crypto, certCtx *CertificateContext) *Session {
	return &Session{
		opts:       opts,
		certCtx:    certCtx,
		roleServer: true,
		stateID:    smIDServerExpectClientHello,
	}
}

// Empty serverName selects the server role, mirroring the convention that a
// client always knows who it dials.
func New(opts *tlscrypto.Crypto, certCtx *CertificateContext, serverName string) *Session {
	if serverName == "" {
		return NewServer(opts, certCtx)
	}
	return NewClient(opts, certCtx, serverName)
}

func (s *Session) Connected() bool { return s.stateID == smIDConnected }

func (s *Session) Suite() *ciphersuite.Suite { return s.suite }

func (s *Session) state() stateMachine { return stateMachineStates[s.stateID] }

// Dispose releases every owned resource, including pending certificate
// continuations via their cleanup calls. Idempotent.
func (s *Session) Dispose() {
	if hctx := s.hctx; hctx != nil {
		hctx.release()
		s.hctx = nil
	}
	s.sched.Wipe()
	s.sendProtection.Wipe()
	s.recvProtection.Wipe()
	s.recvAssembly = nil
	s.suite = nil
	s.failure = nil
	s.stateID = smIDClosed
}

// handshake secrets are of no further use once both directions run on
// application keys
func (s *Session) completeHandshake() {
	s.sched.ClientHandshakeTrafficSecret.Wipe()
	s.sched.ServerHandshakeTrafficSecret.Wipe()
	if hctx := s.hctx; hctx != nil {
		hctx.release()
		s.hctx = nil
	}
	s.stateID = smIDConnected
}

// [rfc8446:7.5], connected sessions only
func (s *Session) ExportKeyingMaterial(dst []byte, label string, context []byte) error {
	if s.stateID != smIDConnected {
		return tlserrors.ErrHandshakeInProgress
	}
	s.sched.ExportSecret(dst, label, context)
	return nil
}

// Classifies err and moves the session to the terminal error state. Self-alert
// errors emit the alert when the caller gave us somewhere to put it, peer
// alerts and internal errors never write to the wire.
func (s *Session) fail(sendbuf *buffer.Buffer, err error) error {
	if s.stateID == smIDError {
		return s.failure
	}
	terr, ok := err.(*tlserrors.Error)
	if !ok {
		terr = tlserrors.ErrDecodeError
		err = terr
	}
	if desc, selfAlert := terr.AlertToPeer(); selfAlert && sendbuf != nil {
		_ = s.pushAlert(sendbuf, alert.Fatal(desc))
	}
	if hctx := s.hctx; hctx != nil {
		hctx.release()
		s.hctx = nil
	}
	s.recvAssembly = nil
	s.stateID = smIDError
	s.failure = err
	return err
}

func (s *Session) pushRecord(sendbuf *buffer.Buffer, contentType byte, body []byte) error {
	s.scratch = s.scratch[:0]
	if s.sendProtection.Enabled() {
		var err error
		s.scratch, err = s.sendProtection.Protect(s.scratch, contentType, body, 0)
		if err != nil {
			return err
		}
	} else {
		s.scratch = record.AppendHeader(s.scratch, contentType, len(body))
		s.scratch = append(s.scratch, body...)
	}
	return sendbuf.PushBytes(s.scratch)
}

func (s *Session) pushAlert(sendbuf *buffer.Buffer, a alert.Alert) error {
	return s.pushRecord(sendbuf, record.RecordTypeAlert, a.Write(nil))
}

// serializes msg and fragments it into handshake records
func (s *Session) pushMessage(sendbuf *buffer.Buffer, msg handshake.Message) error {
	wire := msg.Write(nil)
	for len(wire) > 0 {
		chunk := len(wire)
		if chunk > record.MaxPlaintextRecordLength {
			chunk = record.MaxPlaintextRecordLength
		}
		if err := s.pushRecord(sendbuf, record.RecordTypeHandshake, wire[:chunk]); err != nil {
			return err
		}
		wire = wire[chunk:]
	}
	return nil
}
