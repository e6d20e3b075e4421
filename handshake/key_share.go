// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"errors"

	"github.com/BernardoGomesNegri/picotls/format"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
)

type KeyShareSet struct {
	X25519PublicKeySet    bool
	X25519PublicKey       [32]byte
	SECP256R1PublicKeySet bool
	SECP256R1PublicKey    [64]byte // uncompressed point without the leading 0x04
}

var ErrKeyShareX25519PublicKeyWrongFormat = errors.New("x25519 public key has wrong format")
var ErrKeyShareSECP256R1PublicKeyWrongFormat = errors.New("secp256r1 public key has wrong format")

func (msg *KeyShareSet) parseInside(body []byte) (err error) {
	offset := 0
	for offset < len(body) {
		var keyShareType uint16
		if offset, keyShareType, err = format.ParserReadUint16(body, offset); err != nil {
			return err
		}
		var keyShareBody []byte
		if offset, keyShareBody, err = format.ParserReadUint16Length(body, offset); err != nil {
			return err
		}
		switch keyexchange.ID(keyShareType) { // skip unknown
		case keyexchange.X25519:
			if len(keyShareBody) != 32 {
				return ErrKeyShareX25519PublicKeyWrongFormat
			}
			msg.X25519PublicKeySet = true
			copy(msg.X25519PublicKey[:], keyShareBody)
		case keyexchange.Secp256r1:
			if len(keyShareBody) != 65 || keyShareBody[0] != 4 {
				return ErrKeyShareSECP256R1PublicKeyWrongFormat
			}
			msg.SECP256R1PublicKeySet = true
			copy(msg.SECP256R1PublicKey[:], keyShareBody[1:])
		}
	}
	return nil
}

func (msg *KeyShareSet) Parse(body []byte, isServerHello bool) (err error) {
	offset := 0
	if isServerHello {
		// single entry, no list length [rfc8446:4.2.8]
		if err = msg.parseInside(body); err != nil {
			return err
		}
		return nil
	}
	var insideBody []byte
	if offset, insideBody, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	if err := msg.parseInside(insideBody); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *KeyShareSet) writeEntries(body []byte) []byte {
	var mark int
	if msg.X25519PublicKeySet {
		body = binary.BigEndian.AppendUint16(body, uint16(keyexchange.X25519))
		body, mark = format.MarkUint16Offset(body)
		body = append(body, msg.X25519PublicKey[:]...)
		format.FillUint16Offset(body, mark)
	}
	if msg.SECP256R1PublicKeySet {
		body = binary.BigEndian.AppendUint16(body, uint16(keyexchange.Secp256r1))
		body, mark = format.MarkUint16Offset(body)
		body = append(body, 4)
		body = append(body, msg.SECP256R1PublicKey[:]...)
		format.FillUint16Offset(body, mark)
	}
	return body
}

func (msg *KeyShareSet) Write(body []byte, isServerHello bool) []byte {
	if isServerHello {
		if msg.X25519PublicKeySet == msg.SECP256R1PublicKeySet {
			panic("server hello must contain single selected key_share")
		}
		return msg.writeEntries(body)
	}
	body, externalMark := format.MarkUint16Offset(body)
	body = msg.writeEntries(body)
	format.FillUint16Offset(body, externalMark)
	return body
}
