// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"

	"github.com/BernardoGomesNegri/picotls/format"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
)

type SupportedGroupsSet struct {
	X25519    bool
	SECP256R1 bool
}

func (msg *SupportedGroupsSet) parseInside(body []byte) (err error) {
	offset := 0
	for offset < len(body) {
		var group uint16
		if offset, group, err = format.ParserReadUint16(body, offset); err != nil {
			return err
		}
		switch keyexchange.ID(group) { // skip unknown
		case keyexchange.X25519:
			msg.X25519 = true
		case keyexchange.Secp256r1:
			msg.SECP256R1 = true
		}
	}
	return nil
}

func (msg *SupportedGroupsSet) Parse(body []byte) (err error) {
	offset := 0
	var insideBody []byte
	if offset, insideBody, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	if err := msg.parseInside(insideBody); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *SupportedGroupsSet) Write(body []byte) []byte {
	body, mark := format.MarkUint16Offset(body)
	if msg.X25519 {
		body = binary.BigEndian.AppendUint16(body, uint16(keyexchange.X25519))
	}
	if msg.SECP256R1 {
		body = binary.BigEndian.AppendUint16(body, uint16(keyexchange.Secp256r1))
	}
	format.FillUint16Offset(body, mark)
	return body
}
