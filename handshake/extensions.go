// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"

	"github.com/BernardoGomesNegri/picotls/format"
)

const (
	EXTENSION_SERVER_NAME          = 0x0000
	EXTENSION_SUPPORTED_GROUPS     = 0x000a
	EXTENSION_SIGNATURE_ALGORITHMS = 0x000d
	EXTENSION_SUPPORTED_VERSIONS   = 0x002b
	EXTENSION_KEY_SHARE            = 0x0033
)

// after parsing, slices inside point to the input buffer, so must not be retained
type ExtensionsSet struct {
	ServerNameSet bool
	ServerName    ServerName

	SupportedVersionsSet   bool
	SupportedVersions      SupportedVersionsSet
	SupportedGroupsSet     bool
	SupportedGroups        SupportedGroupsSet
	SignatureAlgorithmsSet bool
	SignatureAlgorithms    SignatureAlgorithmsSet

	KeyShareSet bool
	KeyShare    KeyShareSet
}

func (msg *ExtensionsSet) parseInside(body []byte, isServerHello bool) (err error) {
	offset := 0
	for offset < len(body) {
		var extensionType uint16
		if offset, extensionType, err = format.ParserReadUint16(body, offset); err != nil {
			return err
		}
		var extensionBody []byte
		if offset, extensionBody, err = format.ParserReadUint16Length(body, offset); err != nil {
			return err
		}
		switch extensionType { // skip unknown/not needed
		case EXTENSION_SERVER_NAME:
			if err := msg.ServerName.Parse(extensionBody); err != nil {
				return err
			}
			msg.ServerNameSet = true
		case EXTENSION_SUPPORTED_GROUPS:
			if err := msg.SupportedGroups.Parse(extensionBody); err != nil {
				return err
			}
			msg.SupportedGroupsSet = true
		case EXTENSION_SIGNATURE_ALGORITHMS:
			if err := msg.SignatureAlgorithms.Parse(extensionBody); err != nil {
				return err
			}
			msg.SignatureAlgorithmsSet = true
		case EXTENSION_SUPPORTED_VERSIONS:
			if err := msg.SupportedVersions.Parse(extensionBody, isServerHello); err != nil {
				return err
			}
			msg.SupportedVersionsSet = true
		case EXTENSION_KEY_SHARE:
			if err := msg.KeyShare.Parse(extensionBody, isServerHello); err != nil {
				return err
			}
			msg.KeyShareSet = true
		}
	}
	return nil
}

func (msg *ExtensionsSet) Parse(body []byte, isServerHello bool) (err error) {
	offset := 0
	var extensionsBody []byte
	if offset, extensionsBody, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	if err = msg.parseInside(extensionsBody, isServerHello); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *ExtensionsSet) WriteInside(body []byte, isServerHello bool) []byte {
	var mark int
	if msg.ServerNameSet {
		body = binary.BigEndian.AppendUint16(body, EXTENSION_SERVER_NAME)
		body, mark = format.MarkUint16Offset(body)
		body = msg.ServerName.Write(body)
		format.FillUint16Offset(body, mark)
	}
	if msg.SupportedVersionsSet {
		body = binary.BigEndian.AppendUint16(body, EXTENSION_SUPPORTED_VERSIONS)
		body, mark = format.MarkUint16Offset(body)
		body = msg.SupportedVersions.Write(body, isServerHello)
		format.FillUint16Offset(body, mark)
	}
	if msg.SupportedGroupsSet {
		body = binary.BigEndian.AppendUint16(body, EXTENSION_SUPPORTED_GROUPS)
		body, mark = format.MarkUint16Offset(body)
		body = msg.SupportedGroups.Write(body)
		format.FillUint16Offset(body, mark)
	}
	if msg.SignatureAlgorithmsSet {
		body = binary.BigEndian.AppendUint16(body, EXTENSION_SIGNATURE_ALGORITHMS)
		body, mark = format.MarkUint16Offset(body)
		body = msg.SignatureAlgorithms.Write(body)
		format.FillUint16Offset(body, mark)
	}
	if msg.KeyShareSet {
		body = binary.BigEndian.AppendUint16(body, EXTENSION_KEY_SHARE)
		body, mark = format.MarkUint16Offset(body)
		body = msg.KeyShare.Write(body, isServerHello)
		format.FillUint16Offset(body, mark)
	}
	return body
}

func (msg *ExtensionsSet) Write(body []byte, isServerHello bool) []byte {
	body, mark := format.MarkUint16Offset(body)
	body = msg.WriteInside(body, isServerHello)
	format.FillUint16Offset(body, mark)
	return body
}
