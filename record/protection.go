// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package record

import (
	"encoding/binary"
	"math"

	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/keys"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// inner plaintext is body plus the content type byte [rfc8446:5.2]
const MaxInnerPlaintextLength = MaxPlaintextRecordLength + 1

// Protection is one direction of one epoch. Sequence numbers start at
// zero on every key change and never repeat under the same key.
type Protection struct {
	Symmetric keys.SymmetricKeys
	NextSeq   uint64
}

func (p *Protection) Reset(suite *ciphersuite.Suite, secret ciphersuite.Hash) {
	p.Symmetric.Reset(suite, secret)
	p.NextSeq = 0
}

func (p *Protection) Enabled() bool { return p.Symmetric.Write != nil }

// contentType is the first non-zero byte from the end
func findPaddingOffsetContentType(data []byte) (paddingOffset int, contentType byte) {
	offset := len(data)
	for ; offset > 16; offset -= 16 { // poor man's SIMD
		slice := data[offset-16 : offset]
		val1 := binary.LittleEndian.Uint64(slice)
		val2 := binary.LittleEndian.Uint64(slice[8:])
		if (val1 | val2) != 0 {
			break
		}
	}
	for ; offset > 0; offset-- {
		b := data[offset-1]
		if b != 0 {
			return offset - 1, b
		}
	}
	return -1, 0
}

// Appends a protected application_data record to data.
// body must not exceed MaxPlaintextRecordLength, padding pads the inner
// plaintext with zeros up to the same limit.
func (p *Protection) Protect(data []byte, contentType byte, body []byte, padding int) ([]byte, error) {
	if p.NextSeq == math.MaxUint64 {
		// running the same key further would repeat a nonce [rfc8446:5.5]
		return data, tlserrors.ErrInternalError
	}
	innerLen := len(body) + 1 + padding
	if innerLen > MaxInnerPlaintextLength {
		return data, tlserrors.ErrRecordOverflow
	}
	data = AppendHeader(data, RecordTypeApplicationData, innerLen+ciphersuite.AEADSealSize)
	header := data[len(data)-HeaderSize:]

	bodyStart := len(data)
	data = append(data, body...)
	data = append(data, contentType)
	for i := 0; i < padding; i++ {
		data = append(data, 0)
	}
	var seal [ciphersuite.AEADSealSize]byte
	data = append(data, seal[:]...)

	iv := p.Symmetric.WriteIV // copy, otherwise disaster
	keys.FillIVSequence(iv[:p.Symmetric.IVLen], p.NextSeq)
	inner := data[bodyStart : bodyStart+innerLen]
	_ = p.Symmetric.Write.Seal(inner[:0], iv[:p.Symmetric.IVLen], inner, header)
	p.NextSeq++
	return data, nil
}

// Warning - decrypts in place, hdr.Body is garbage after unsuccessful decryption
func (p *Protection) Deprotect(hdr Record) (decrypted []byte, contentType byte, err error) {
	if p.NextSeq == math.MaxUint64 {
		return nil, 0, tlserrors.ErrInternalError
	}
	iv := p.Symmetric.WriteIV // copy, otherwise disaster
	keys.FillIVSequence(iv[:p.Symmetric.IVLen], p.NextSeq)
	decrypted, openErr := p.Symmetric.Write.Open(hdr.Body[:0], iv[:p.Symmetric.IVLen], hdr.Body, hdr.Header)
	if openErr != nil {
		return nil, 0, tlserrors.ErrBadRecordMAC
	}
	paddingOffset, contentType := findPaddingOffsetContentType(decrypted) // [rfc8446:5.4]
	if paddingOffset < 0 {
		return nil, 0, tlserrors.ErrUnexpectedMessage
	}
	if paddingOffset > MaxPlaintextRecordLength {
		return nil, 0, tlserrors.ErrRecordOverflow
	}
	p.NextSeq++
	return decrypted[:paddingOffset], contentType, nil
}

func (p *Protection) Wipe() {
	p.Symmetric.Wipe()
	p.NextSeq = 0
}
