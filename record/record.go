// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package record

import (
	"encoding/binary"
	"errors"
)

const HeaderSize = 5
const MaxPlaintextRecordLength = 16384                           // [rfc8446:5.1]
const MaxCiphertextRecordLength = MaxPlaintextRecordLength + 256 // [rfc8446:5.2]

const (
	RecordTypeChangeCipherSpec = 20
	RecordTypeAlert            = 21
	RecordTypeHandshake        = 22
	RecordTypeApplicationData  = 23
)

var ErrRecordBodyTooLong = errors.New("record body exceeds protocol limit")
var ErrRecordWrongLegacyVersion = errors.New("record wrong legacy record version")
var ErrRecordUnknownContentType = errors.New("record unknown content type")

type Record struct {
	ContentType byte
	// legacy_record_version is ignored, not stored
	Header []byte // alias to buffer, the 5 header bytes for AEAD additional data
	Body   []byte // alias to buffer which must be parsed/saved and never retained
}

// Returns n == 0 with nil error when the stream does not yet contain
// a complete record, callers then wait for more bytes.
func (hdr *Record) Parse(data []byte) (n int, err error) {
	if len(data) < HeaderSize {
		return 0, nil
	}
	switch data[0] {
	case RecordTypeChangeCipherSpec, RecordTypeAlert, RecordTypeHandshake, RecordTypeApplicationData:
	default:
		return 0, ErrRecordUnknownContentType
	}
	// legacy_record_version (data[1:3]) is accepted as-is, peers send 0x0301
	// in the first flight and 0x0303 after [rfc8446:5.1]
	length := int(binary.BigEndian.Uint16(data[3:5]))
	if length > MaxCiphertextRecordLength {
		return 0, ErrRecordBodyTooLong
	}
	endOffset := HeaderSize + length
	if len(data) < endOffset {
		return 0, nil
	}
	hdr.ContentType = data[0]
	hdr.Header = data[:HeaderSize]
	hdr.Body = data[HeaderSize:endOffset]
	return endOffset, nil
}

func AppendHeader(data []byte, contentType byte, length int) []byte {
	if length > MaxCiphertextRecordLength {
		panic("record body exceeds protocol limit")
	}
	data = append(data, contentType, 3, 3)
	data = binary.BigEndian.AppendUint16(data, uint16(length)) // safe due to check above
	return data
}
