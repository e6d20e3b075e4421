// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"errors"

	"github.com/BernardoGomesNegri/picotls/format"
)

var ErrClientHelloLegacyVersion = errors.New("client hello wrong legacy version")
var ErrClientHelloLegacySessionID = errors.New("client hello wrong legacy session id")
var ErrClientHelloLegacyCompressionMethod = errors.New("client hello wrong legacy compression method")

type MsgClientHello struct {
	// legacy_version is checked but not stored, it is frozen at 0x0303 [rfc8446:4.1.2]
	Random [32]byte

	// legacy_session_id is opaque to us, the server echoes it back unchanged
	LegacySessionIDLength int
	LegacySessionID       [32]byte

	CipherSuites CipherSuitesSet
	// legacy_compression_methods is checked but not stored
	Extensions ExtensionsSet
}

func (msg *MsgClientHello) MessageKind() string { return "handshake" }
func (msg *MsgClientHello) MessageName() string { return "ClientHello" }

func (msg *MsgClientHello) Parse(body []byte) (err error) {
	offset := 0
	// middleboxes expect to see 1.2 here, actual version is in supported_versions
	if offset, err = format.ParserReadUint16Const(body, offset, TLS_VERSION_12, ErrClientHelloLegacyVersion); err != nil {
		return err
	}
	if offset, err = format.ParserReadFixedBytes(body, offset, msg.Random[:]); err != nil {
		return err
	}
	var sessionID []byte
	if offset, sessionID, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	if len(sessionID) > len(msg.LegacySessionID) {
		return ErrClientHelloLegacySessionID
	}
	msg.LegacySessionIDLength = len(sessionID)
	copy(msg.LegacySessionID[:], sessionID)
	var cipherSuitesBody []byte
	if offset, cipherSuitesBody, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	if err = msg.CipherSuites.Parse(cipherSuitesBody); err != nil {
		return err
	}
	if offset, err = format.ParserReadUint16Const(body, offset, 0x0100, ErrClientHelloLegacyCompressionMethod); err != nil {
		return err
	}
	return msg.Extensions.Parse(body[offset:], false)
}

func (msg *MsgClientHello) Write(body []byte) []byte {
	body = binary.BigEndian.AppendUint16(body, TLS_VERSION_12)

	body = append(body, msg.Random[:]...)

	body, mark := format.MarkByteOffset(body)
	body = append(body, msg.LegacySessionID[:msg.LegacySessionIDLength]...)
	format.FillByteOffset(body, mark)

	body, mark = format.MarkUint16Offset(body)
	body = msg.CipherSuites.Write(body)
	format.FillUint16Offset(body, mark)

	body = binary.BigEndian.AppendUint16(body, 0x0100) // legacy_compression_methods

	body = msg.Extensions.Write(body, false)

	return body
}
