// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

type MsgEncryptedExtensions struct {
	Extensions ExtensionsSet
}

func (msg *MsgEncryptedExtensions) MessageKind() string { return "handshake" }
func (msg *MsgEncryptedExtensions) MessageName() string { return "EncryptedExtensions" }

func (msg *MsgEncryptedExtensions) Parse(body []byte) (err error) {
	return msg.Extensions.Parse(body, false)
}

func (msg *MsgEncryptedExtensions) Write(body []byte) []byte {
	return msg.Extensions.Write(body, false)
}
