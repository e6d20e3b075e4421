// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package alert

import (
	"errors"

	"github.com/BernardoGomesNegri/picotls/format"
)

var ErrAlertLevelParsing = errors.New("alert level failed to parse")

const AlertSize = 2

const (
	// we use 0 as "no alert" indicator
	LevelWarning = 1
	LevelFatal   = 2
)

type Description byte

// [rfc8446:6] descriptions we generate or classify on receipt
const (
	CloseNotify          Description = 0
	UnexpectedMessage    Description = 10
	BadRecordMAC         Description = 20
	RecordOverflow       Description = 22
	HandshakeFailure     Description = 40
	BadCertificate       Description = 42
	CertificateExpired   Description = 45
	CertificateUnknown   Description = 46
	IllegalParameter     Description = 47
	UnknownCA            Description = 48
	DecodeError          Description = 50
	DecryptError         Description = 51
	ProtocolVersion      Description = 70
	InternalError        Description = 80
	UserCanceled         Description = 90
	MissingExtension     Description = 109
	UnsupportedExtension Description = 110
	UnrecognizedName     Description = 112
	CertificateRequired  Description = 116
)

type Alert struct {
	Level       byte
	Description Description
}

func (msg *Alert) IsFatal() bool {
	return msg.Level == LevelFatal
}

// close_notify carries the warning level, yet still closes the connection
func CloseNormal() Alert { return Alert{Level: LevelWarning, Description: CloseNotify} }

func Fatal(desc Description) Alert { return Alert{Level: LevelFatal, Description: desc} }

func (msg *Alert) Parse(body []byte) (err error) {
	offset := 0
	var level byte
	if offset, level, err = format.ParserReadByte(body, offset); err != nil {
		return err
	}
	switch level {
	case LevelWarning, LevelFatal:
		msg.Level = level
	default:
		return ErrAlertLevelParsing
	}
	var desc byte
	if offset, desc, err = format.ParserReadByte(body, offset); err != nil {
		return err
	}
	msg.Description = Description(desc)
	return format.ParserReadFinish(body, offset)
}

func (msg *Alert) Write(body []byte) []byte {
	switch msg.Level {
	case LevelWarning, LevelFatal:
		return append(body, msg.Level, byte(msg.Description))
	default:
		panic("should not write alert with level not in standard")
	}
}
