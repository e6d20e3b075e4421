// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/handshake"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
	"github.com/BernardoGomesNegri/picotls/signature"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// first Handshake call on a client generates and sends ClientHello
func (s *Session) startClient(sendbuf *buffer.Buffer) error {
	hctx := &handshakeContext{}
	s.opts.Rand.Read(hctx.localRandom[:])

	hctx.kexContexts = make([]keyexchange.Context, len(s.opts.KeyExchanges))
	var keyShare handshake.KeyShareSet
	var groups handshake.SupportedGroupsSet
	for i, alg := range s.opts.KeyExchanges {
		ctx, publicKey, err := alg.Create(s.opts.Rand)
		if err != nil {
			hctx.releaseKexContexts()
			return err
		}
		hctx.kexContexts[i] = ctx
		switch alg.ID {
		case keyexchange.X25519:
			groups.X25519 = true
			keyShare.X25519PublicKeySet = true
			copy(keyShare.X25519PublicKey[:], publicKey)
		case keyexchange.Secp256r1:
			groups.SECP256R1 = true
			keyShare.SECP256R1PublicKeySet = true
			copy(keyShare.SECP256R1PublicKey[:], publicKey[1:]) // strip the 0x04
		}
	}

	msgParsed := handshake.MsgClientHello{
		Random: hctx.localRandom,
	}
	for _, id := range s.opts.CipherSuites {
		msgParsed.CipherSuites.Add(id)
	}
	msgParsed.Extensions.SupportedVersionsSet = true
	msgParsed.Extensions.SupportedVersions.TLS_13 = true
	msgParsed.Extensions.SupportedGroupsSet = true
	msgParsed.Extensions.SupportedGroups = groups
	msgParsed.Extensions.SignatureAlgorithmsSet = true
	msgParsed.Extensions.SignatureAlgorithms = signature.SupportedSchemes()
	msgParsed.Extensions.KeyShareSet = true
	msgParsed.Extensions.KeyShare = keyShare
	if s.serverName != "" {
		msgParsed.Extensions.ServerNameSet = true
		msgParsed.Extensions.ServerName.HostName = []byte(s.serverName)
	}

	hctx.clientHello = handshake.Message{
		MsgType: handshake.HandshakeTypeClientHello,
		Body:    msgParsed.Write(nil),
	}
	if err := s.pushMessage(sendbuf, hctx.clientHello); err != nil {
		hctx.releaseKexContexts()
		return err
	}
	s.hctx = hctx
	s.stateID = smIDClientExpectServerHello
	return nil
}

// the single key share entry the server selected, converted to wire form
func serverKeyShareEntry(set handshake.KeyShareSet) (keyexchange.ID, []byte, error) {
	switch {
	case set.X25519PublicKeySet && !set.SECP256R1PublicKeySet:
		return keyexchange.X25519, set.X25519PublicKey[:], nil
	case set.SECP256R1PublicKeySet && !set.X25519PublicKeySet:
		peerKey := make([]byte, 0, 65)
		peerKey = append(peerKey, 4)
		peerKey = append(peerKey, set.SECP256R1PublicKey[:]...)
		return keyexchange.Secp256r1, peerKey, nil
	}
	return 0, nil, tlserrors.ErrIllegalParameter
}
