// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"hash"

	"github.com/BernardoGomesNegri/picotls/format"
	"github.com/BernardoGomesNegri/picotls/safecast"
)

const MsgHeaderSize = 4

type MsgHeader struct {
	MsgType MsgType
	Length  uint32 // stored as 24-bit
}

func (hdr *MsgHeader) Parse(record []byte) error {
	if len(record) < MsgHeaderSize {
		return ErrHandshakeMsgTooShort
	}
	hdr.MsgType = MsgType(record[0])
	hdr.Length = binary.BigEndian.Uint32(record[0:4]) & 0xFFFFFF
	return nil
}

// body slice points into record, so must not be retained
func (hdr *MsgHeader) ParseWithBody(record []byte) (n int, body []byte, err error) {
	if err := hdr.Parse(record); err != nil {
		return 0, nil, err
	}
	endOffset := MsgHeaderSize + int(hdr.Length)
	if len(record) < endOffset {
		return 0, nil, ErrHandshakeMsgTooShort
	}
	return endOffset, record[MsgHeaderSize:endOffset], nil
}

func (hdr *MsgHeader) Write(body []byte) []byte {
	body = append(body, byte(hdr.MsgType))
	body = format.AppendUint24(body, hdr.Length)
	return body
}

type Message struct {
	MsgType MsgType
	Body    []byte // TODO - reuse in rope
}

func (msg *Message) Len32() uint32 {
	return safecast.Cast[uint32](len(msg.Body))
}

func (msg *Message) Write(body []byte) []byte {
	hdr := MsgHeader{MsgType: msg.MsgType, Length: msg.Len32()}
	body = hdr.Write(body)
	return append(body, msg.Body...)
}

func (msg *Message) AddToHash(transcriptHasher hash.Hash) {
	if len(msg.Body) > 0xFFFFFF {
		panic("message body too large")
	}
	var result [4]byte
	first4Bytes := (uint32(msg.MsgType) << 24) + uint32(len(msg.Body)) // widening, safe due to check above
	binary.BigEndian.PutUint32(result[:], first4Bytes)
	_, _ = transcriptHasher.Write(result[:])
	_, _ = transcriptHasher.Write(msg.Body)
}
