// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlserrors

import (
	"fmt"

	"github.com/BernardoGomesNegri/picotls/record/alert"
)

// we do not allocate on error returning path,
// so all errors are completely static

// Error codes carry a class in bits above the low byte. Class zero means we
// are about to send the embedded alert to the peer, ClassPeerAlert means the
// peer sent it to us, ClassInternal covers conditions with no alert on the
// wire.
const (
	ClassSelfAlert = 0x0000
	ClassPeerAlert = 0x0100
	ClassInternal  = 0x0200

	CodeNoMemory            = ClassInternal + 1
	CodeHandshakeInProgress = ClassInternal + 2
	CodeLibrary             = ClassInternal + 3
	CodeIncompatibleKey     = ClassInternal + 4
)

type Error struct {
	code int
	text string
}

func (e *Error) Error() string {
	switch {
	case e.code&^0xff == ClassPeerAlert:
		return fmt.Sprintf("tinytls (alert from peer): %d %s", e.code&0xff, e.text)
	case e.code&^0xff == ClassInternal:
		return fmt.Sprintf("tinytls: %d %s", e.code, e.text)
	}
	return fmt.Sprintf("tinytls (alert to peer): %d %s", e.code, e.text)
}

func (e *Error) Code() int { return e.code }

// Alert to send before closing, and whether one must be sent at all.
func (e *Error) AlertToPeer() (alert.Description, bool) {
	if e.code&^0xff != ClassSelfAlert {
		return 0, false
	}
	return alert.Description(e.code & 0xff), true
}

func New(code int, text string) *Error {
	return &Error{code: code, text: text}
}

var ErrNoMemory = New(CodeNoMemory, "out of memory")
var ErrHandshakeInProgress = New(CodeHandshakeInProgress, "handshake in progress")
var ErrLibrary = New(CodeLibrary, "unexpected state in crypto backend")
var ErrIncompatibleKey = New(CodeIncompatibleKey, "incompatible key for exchange")

var ErrCloseNotifyReceived = New(ClassPeerAlert+int(alert.CloseNotify), "connection closed by peer")

var ErrUnexpectedMessage = New(int(alert.UnexpectedMessage), "message forbidden in current state")
var ErrBadRecordMAC = New(int(alert.BadRecordMAC), "failed to deprotect encrypted record")
var ErrRecordOverflow = New(int(alert.RecordOverflow), "record payload exceeds protocol limit")
var ErrHandshakeFailure = New(int(alert.HandshakeFailure), "no common cipher suite or key share")
var ErrBadCertificate = New(int(alert.BadCertificate), "certificate load error")
var ErrIllegalParameter = New(int(alert.IllegalParameter), "field value violates protocol")
var ErrDecodeError = New(int(alert.DecodeError), "message failed to parse")
var ErrDecryptError = New(int(alert.DecryptError), "signature or finished verification failed")
var ErrProtocolVersion = New(int(alert.ProtocolVersion), "peer does not offer TLS 1.3")
var ErrInternalError = New(int(alert.InternalError), "internal error")
var ErrMissingExtension = New(int(alert.MissingExtension), "mandatory extension missing")
var ErrUnsupportedExtension = New(int(alert.UnsupportedExtension), "extension forbidden in this message")
var ErrUnrecognizedName = New(int(alert.UnrecognizedName), "no certificate for requested server name")
var ErrCertificateRequired = New(int(alert.CertificateRequired), "client certificate required")

// PeerAlert wraps an alert description received from the peer.
// Descriptions for which we keep a static error return that error,
// others share a generic one to stay allocation-free.
func PeerAlert(desc alert.Description) *Error {
	switch desc {
	case alert.CloseNotify:
		return ErrCloseNotifyReceived
	case alert.UnexpectedMessage:
		return errPeerUnexpectedMessage
	case alert.BadRecordMAC:
		return errPeerBadRecordMAC
	case alert.HandshakeFailure:
		return errPeerHandshakeFailure
	case alert.IllegalParameter:
		return errPeerIllegalParameter
	case alert.DecodeError:
		return errPeerDecodeError
	case alert.DecryptError:
		return errPeerDecryptError
	case alert.InternalError:
		return errPeerInternalError
	}
	return errPeerUnknownAlert
}

var errPeerUnexpectedMessage = New(ClassPeerAlert+int(alert.UnexpectedMessage), "peer reports unexpected message")
var errPeerBadRecordMAC = New(ClassPeerAlert+int(alert.BadRecordMAC), "peer failed to deprotect our record")
var errPeerHandshakeFailure = New(ClassPeerAlert+int(alert.HandshakeFailure), "peer reports handshake failure")
var errPeerIllegalParameter = New(ClassPeerAlert+int(alert.IllegalParameter), "peer reports illegal parameter")
var errPeerDecodeError = New(ClassPeerAlert+int(alert.DecodeError), "peer failed to parse our message")
var errPeerDecryptError = New(ClassPeerAlert+int(alert.DecryptError), "peer failed to verify signature")
var errPeerInternalError = New(ClassPeerAlert+int(alert.InternalError), "peer reports internal error")
var errPeerUnknownAlert = New(ClassPeerAlert+0xff, "peer sent fatal alert")
