// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package picotls

import (
	"net"
	"time"

	"github.com/BernardoGomesNegri/picotls/tlscore"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
)

func Dial(network, address string, opts *tlscrypto.Crypto, certCtx *tlscore.CertificateContext, serverName string) (*Conn, error) {
	return DialTimeout(network, address, 0, opts, certCtx, serverName)
}

// DialTimeout covers the TCP dial and the handshake together.
func DialTimeout(network, address string, timeout time.Duration, opts *tlscrypto.Crypto, certCtx *tlscore.CertificateContext, serverName string) (*Conn, error) {
	inner, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return nil, err
	}
	conn := Client(inner, opts, certCtx, serverName)
	if timeout != 0 {
		if err := inner.SetDeadline(time.Now().Add(timeout)); err != nil {
			_ = inner.Close()
			return nil, err
		}
	}
	if err := conn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if timeout != 0 {
		if err := inner.SetDeadline(time.Time{}); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}
