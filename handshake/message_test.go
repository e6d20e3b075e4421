// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"testing"

	"github.com/BernardoGomesNegri/picotls/ciphersuite"
)

// one realistic ClientHello the way our client builds it
func makeClientHello() MsgClientHello {
	var msg MsgClientHello
	for i := range msg.Random {
		msg.Random[i] = byte(i)
	}
	msg.CipherSuites.Add(ciphersuite.TLS_AES_128_GCM_SHA256)
	msg.CipherSuites.Add(ciphersuite.TLS_CHACHA20_POLY1305_SHA256)
	msg.Extensions.SupportedVersionsSet = true
	msg.Extensions.SupportedVersions.TLS_13 = true
	msg.Extensions.SupportedGroupsSet = true
	msg.Extensions.SupportedGroups.X25519 = true
	msg.Extensions.SignatureAlgorithmsSet = true
	msg.Extensions.SignatureAlgorithms.ECDSA_SECP256r1_SHA256 = true
	msg.Extensions.SignatureAlgorithms.RSA_PSS_RSAE_SHA256 = true
	msg.Extensions.KeyShareSet = true
	msg.Extensions.KeyShare.X25519PublicKeySet = true
	for i := range msg.Extensions.KeyShare.X25519PublicKey {
		msg.Extensions.KeyShare.X25519PublicKey[i] = byte(0x80 + i)
	}
	msg.Extensions.ServerNameSet = true
	msg.Extensions.ServerName.HostName = []byte("example.com")
	return msg
}

func TestClientHelloRoundTrip(t *testing.T) {
	msg := makeClientHello()
	wire := msg.Write(nil)

	var parsed MsgClientHello
	if err := parsed.Parse(wire); err != nil {
		t.Fatalf("%v", err)
	}
	if parsed.Random != msg.Random {
		t.Errorf("random lost")
	}
	if !parsed.CipherSuites.Has(ciphersuite.TLS_AES_128_GCM_SHA256) ||
		!parsed.CipherSuites.Has(ciphersuite.TLS_CHACHA20_POLY1305_SHA256) ||
		parsed.CipherSuites.Has(ciphersuite.TLS_AES_256_GCM_SHA384) {
		t.Errorf("cipher suites lost")
	}
	if !parsed.Extensions.SupportedVersionsSet || !parsed.Extensions.SupportedVersions.TLS_13 {
		t.Errorf("supported versions lost")
	}
	if !parsed.Extensions.KeyShareSet || !parsed.Extensions.KeyShare.X25519PublicKeySet ||
		parsed.Extensions.KeyShare.X25519PublicKey != msg.Extensions.KeyShare.X25519PublicKey {
		t.Errorf("key share lost")
	}
	if !parsed.Extensions.SignatureAlgorithmsSet ||
		!parsed.Extensions.SignatureAlgorithms.ECDSA_SECP256r1_SHA256 ||
		!parsed.Extensions.SignatureAlgorithms.RSA_PSS_RSAE_SHA256 ||
		parsed.Extensions.SignatureAlgorithms.ED25519 {
		t.Errorf("signature algorithms lost")
	}
	if !parsed.Extensions.ServerNameSet || string(parsed.Extensions.ServerName.HostName) != "example.com" {
		t.Errorf("server name lost: %q", parsed.Extensions.ServerName.HostName)
	}
}

func TestClientHelloTruncated(t *testing.T) {
	msg := makeClientHello()
	wire := msg.Write(nil)
	for cut := 0; cut < len(wire); cut++ {
		var parsed MsgClientHello
		if err := parsed.Parse(wire[:cut]); err == nil {
			t.Fatalf("truncation at %d of %d parsed fine", cut, len(wire))
		}
	}
}

func TestMessageFraming(t *testing.T) {
	msg := Message{MsgType: HandshakeTypeFinished, Body: []byte{1, 2, 3, 4, 5}}
	wire := msg.Write(nil)
	if len(wire) != MsgHeaderSize+5 {
		t.Fatalf("wrong framed length %d", len(wire))
	}
	var hdr MsgHeader
	if err := hdr.Parse(wire); err != nil {
		t.Fatal(err)
	}
	if hdr.MsgType != HandshakeTypeFinished || hdr.Length != 5 {
		t.Errorf("header (%d, %d)", hdr.MsgType, hdr.Length)
	}
	if err := hdr.Parse(wire[:MsgHeaderSize-1]); err == nil {
		t.Errorf("truncated header parsed fine")
	}
}

func TestServerHelloRetryRequestMagic(t *testing.T) {
	var msg MsgServerHello
	msg.SetHelloRetryRequest()
	if !msg.IsHelloRetryRequest() {
		t.Errorf("magic random not recognized")
	}
	var plain MsgServerHello
	if plain.IsHelloRetryRequest() {
		t.Errorf("zero random mistaken for retry request")
	}
}
