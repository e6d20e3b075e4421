// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package picotls

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"testing"

	"github.com/BernardoGomesNegri/picotls/tlscore"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
)

func testServerContext(t *testing.T) *tlscore.CertificateContext {
	t.Helper()
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("%v", err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return tlscore.NewServerContext(tlscrypto.Default().Rand, [][]byte{der}, privateKey)
}

func TestConnEcho(t *testing.T) {
	clientInner, serverInner := net.Pipe()
	opts := tlscrypto.Default()
	client := Client(clientInner, opts, tlscore.NewClientContext(nil), "localhost")
	server := Server(serverInner, opts, testServerContext(t))

	serverDone := make(chan error, 1)
	go func() {
		defer server.Close()
		b := make([]byte, 1024)
		for {
			n, err := server.Read(b)
			if err != nil {
				if errors.Is(err, io.EOF) {
					serverDone <- nil
				} else {
					serverDone <- err
				}
				return
			}
			if _, err := server.Write(b[:n]); err != nil {
				serverDone <- err
				return
			}
		}
	}()

	request := []byte("ping over tls")
	if _, err := client.Write(request); err != nil {
		t.Fatal(err)
	}
	echo := make([]byte, len(request))
	if _, err := io.ReadFull(client, echo); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(echo, request) {
		t.Errorf("echo mismatch: %q", echo)
	}
	if client.Session().Suite() == nil || !client.Session().Connected() {
		t.Errorf("session must be connected after I/O")
	}
	if err := client.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := <-serverDone; err != nil {
		t.Errorf("server: %v", err)
	}
}

func TestConnHandshakeExplicit(t *testing.T) {
	clientInner, serverInner := net.Pipe()
	opts := tlscrypto.Default()
	client := Client(clientInner, opts, tlscore.NewClientContext(nil), "localhost")
	server := Server(serverInner, opts, testServerContext(t))
	// close the raw pipe ends, a graceful Close would block with no reader
	defer clientInner.Close()
	defer serverInner.Close()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Handshake() }()
	if err := client.Handshake(); err != nil {
		t.Fatal(err)
	}
	if err := <-serverErr; err != nil {
		t.Fatal(err)
	}
	// idempotent once connected
	if err := client.Handshake(); err != nil {
		t.Errorf("second handshake: %v", err)
	}
}
