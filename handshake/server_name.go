// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"errors"

	"github.com/BernardoGomesNegri/picotls/format"
)

const serverNameTypeHostName = 0

var ErrServerNameEmpty = errors.New("empty host_name forbidden")

// [rfc6066:3] we only understand the host_name entry.
// After parsing, HostName points into the input buffer, so must not be retained.
type ServerName struct {
	HostName []byte
}

func (msg *ServerName) parseInside(body []byte) (err error) {
	offset := 0
	for offset < len(body) {
		var nameType byte
		if offset, nameType, err = format.ParserReadByte(body, offset); err != nil {
			return err
		}
		var name []byte
		if offset, name, err = format.ParserReadUint16Length(body, offset); err != nil {
			return err
		}
		if nameType != serverNameTypeHostName { // skip unknown
			continue
		}
		if len(name) == 0 {
			return ErrServerNameEmpty
		}
		msg.HostName = name
	}
	return nil
}

func (msg *ServerName) Parse(body []byte) (err error) {
	// server echoes with an empty extension body [rfc6066:3]
	if len(body) == 0 {
		return nil
	}
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

func (msg *ServerName) Write(body []byte) []byte {
	if len(msg.HostName) == 0 {
		return body
	}
	body, externalMark := format.MarkUint16Offset(body)
	body = append(body, serverNameTypeHostName)
	body, mark := format.MarkUint16Offset(body)
	body = append(body, msg.HostName...)
	format.FillUint16Offset(body, mark)
	format.FillUint16Offset(body, externalMark)
	return body
}
