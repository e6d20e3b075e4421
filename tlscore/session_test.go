// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package tlscore

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"

	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/ciphersuite"
	"github.com/BernardoGomesNegri/picotls/keyexchange"
	"github.com/BernardoGomesNegri/picotls/record"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

func testServerContext(t *testing.T) *CertificateContext {
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
	return NewServerContext(tlscrypto.Default().Rand, [][]byte{der}, privateKey)
}

// testPipes shuttles handshake flights between two sessions in memory
type testPipes struct {
	toServer []byte
	toClient []byte
}

func (p *testPipes) step(t *testing.T, sess *Session, server bool) error {
	t.Helper()
	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	input := p.toClient
	if server {
		input = p.toServer
	}
	consumed, err := sess.Handshake(&sendbuf, input)
	if server {
		p.toServer = p.toServer[consumed:]
		p.toClient = append(p.toClient, sendbuf.Bytes()...)
	} else {
		p.toClient = p.toClient[consumed:]
		p.toServer = append(p.toServer, sendbuf.Bytes()...)
	}
	return err
}

// runs both sessions until connected, failing the test on any error
func handshakeMust(t *testing.T, client *Session, server *Session) *testPipes {
	t.Helper()
	p := &testPipes{}
	for round := 0; !client.Connected() || !server.Connected(); round++ {
		if round > 10 {
			t.Fatal("handshake does not converge")
		}
		if err := p.step(t, client, false); err != nil && err != tlserrors.ErrHandshakeInProgress {
			t.Fatalf("client: %v", err)
		}
		if err := p.step(t, server, true); err != nil && err != tlserrors.ErrHandshakeInProgress {
			t.Fatalf("server: %v", err)
		}
	}
	if len(p.toServer) != 0 || len(p.toClient) != 0 {
		t.Fatalf("handshake left %d+%d unconsumed bytes", len(p.toServer), len(p.toClient))
	}
	return p
}

// runs both sessions until one errors out, returning both final errors
func handshakeExpectFailure(t *testing.T, client *Session, server *Session) (clientErr, serverErr error) {
	t.Helper()
	p := &testPipes{}
	for round := 0; clientErr == nil || serverErr == nil; round++ {
		if round > 10 {
			t.Fatal("neither session errored out")
		}
		if err := p.step(t, client, false); err != nil && err != tlserrors.ErrHandshakeInProgress {
			clientErr = err
		}
		if err := p.step(t, server, true); err != nil && err != tlserrors.ErrHandshakeInProgress {
			serverErr = err
		}
	}
	return clientErr, serverErr
}

func transfer(t *testing.T, from *Session, to *Session, data []byte) []byte {
	t.Helper()
	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	if err := from.Send(&sendbuf, data); err != nil {
		t.Fatalf("send: %v", err)
	}
	var plaintext []byte
	wire := sendbuf.Bytes()
	for len(wire) != 0 {
		var recvbuf buffer.Buffer
		recvbuf.Init(nil)
		consumed, err := to.Receive(&recvbuf, wire)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if consumed == 0 {
			t.Fatal("receiver stuck on complete input")
		}
		wire = wire[consumed:]
		plaintext = append(plaintext, recvbuf.Bytes()...)
	}
	return plaintext
}

func TestHandshakeAndEcho(t *testing.T) {
	opts := tlscrypto.Default()
	certCtx := testServerContext(t)
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, certCtx)
	defer client.Dispose()
	defer server.Dispose()

	handshakeMust(t, client, server)
	if client.Suite() != server.Suite() {
		t.Errorf("suite disagreement")
	}
	if client.Suite().ID != ciphersuite.TLS_AES_128_GCM_SHA256 {
		t.Errorf("both sides prefer aes128, got %04x", client.Suite().ID)
	}

	request := []byte("GET / HTTP/1.0\r\n\r\n")
	if got := transfer(t, client, server, request); !bytes.Equal(got, request) {
		t.Errorf("request lost in transit: %q", got)
	}
	response := []byte("HTTP/1.0 200 OK\r\n\r\nhello")
	if got := transfer(t, server, client, response); !bytes.Equal(got, response) {
		t.Errorf("response lost in transit: %q", got)
	}
}

func TestExporterAgreement(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)

	var clientKM, serverKM, otherKM [32]byte
	if err := client.ExportKeyingMaterial(clientKM[:], "EXPORTER-test", []byte("ctx")); err != nil {
		t.Fatal(err)
	}
	if err := server.ExportKeyingMaterial(serverKM[:], "EXPORTER-test", []byte("ctx")); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(clientKM[:], serverKM[:]) {
		t.Errorf("exporter disagreement")
	}
	if err := server.ExportKeyingMaterial(otherKM[:], "EXPORTER-other", []byte("ctx")); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(clientKM[:], otherKM[:]) {
		t.Errorf("exporter ignores label")
	}
}

func TestHandshakeSuiteNegotiation(t *testing.T) {
	serverOpts := tlscrypto.Default()
	serverOpts.CipherSuites = []ciphersuite.ID{ciphersuite.TLS_AES_256_GCM_SHA384}
	client := NewClient(tlscrypto.Default(), NewClientContext(nil), "localhost")
	server := NewServer(serverOpts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)
	if client.Suite().ID != ciphersuite.TLS_AES_256_GCM_SHA384 {
		t.Errorf("negotiated %04x, want the only suite the server has", client.Suite().ID)
	}
}

func TestHandshakeChacha(t *testing.T) {
	clientOpts := tlscrypto.Default()
	clientOpts.CipherSuites = []ciphersuite.ID{ciphersuite.TLS_CHACHA20_POLY1305_SHA256}
	client := NewClient(clientOpts, NewClientContext(nil), "localhost")
	server := NewServer(tlscrypto.Default(), testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)
	if client.Suite().ID != ciphersuite.TLS_CHACHA20_POLY1305_SHA256 {
		t.Errorf("negotiated %04x", client.Suite().ID)
	}
}

func TestHandshakeSecp256r1(t *testing.T) {
	clientOpts := tlscrypto.Default()
	clientOpts.KeyExchanges = []*keyexchange.Algorithm{keyexchange.AlgorithmSecp256r1}
	client := NewClient(clientOpts, NewClientContext(nil), "localhost")
	server := NewServer(tlscrypto.Default(), testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)
}

func TestHandshakeNoCommonSuite(t *testing.T) {
	clientOpts := tlscrypto.Default()
	clientOpts.CipherSuites = []ciphersuite.ID{ciphersuite.TLS_CHACHA20_POLY1305_SHA256}
	serverOpts := tlscrypto.Default()
	serverOpts.CipherSuites = []ciphersuite.ID{ciphersuite.TLS_AES_128_GCM_SHA256}
	client := NewClient(clientOpts, NewClientContext(nil), "localhost")
	server := NewServer(serverOpts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	clientErr, serverErr := handshakeExpectFailure(t, client, server)
	if serverErr != tlserrors.ErrHandshakeFailure {
		t.Errorf("server: %v", serverErr)
	}
	if clientErr == nil {
		t.Errorf("client must see the failure alert")
	}
}

func TestHandshakeNoCommonGroup(t *testing.T) {
	clientOpts := tlscrypto.Default()
	clientOpts.KeyExchanges = []*keyexchange.Algorithm{keyexchange.AlgorithmX25519}
	serverOpts := tlscrypto.Default()
	serverOpts.KeyExchanges = []*keyexchange.Algorithm{keyexchange.AlgorithmSecp256r1}
	client := NewClient(clientOpts, NewClientContext(nil), "localhost")
	server := NewServer(serverOpts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	_, serverErr := handshakeExpectFailure(t, client, server)
	if serverErr != tlserrors.ErrHandshakeFailure {
		t.Errorf("server: %v", serverErr)
	}
}

func TestHandshakeUntrustedChain(t *testing.T) {
	// roots pool with an unrelated certificate, the server chain must not verify
	unrelated, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("%v", err)
	}
	template := x509.Certificate{
		SerialNumber:          big.NewInt(2),
		Subject:               pkix.Name{CommonName: "unrelated"},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &unrelated.PublicKey, unrelated)
	if err != nil {
		t.Fatalf("%v", err)
	}
	rootCert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("%v", err)
	}
	roots := x509.NewCertPool()
	roots.AddCert(rootCert)

	client := NewClient(tlscrypto.Default(), NewClientContext(roots), "localhost")
	server := NewServer(tlscrypto.Default(), testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	clientErr, serverErr := handshakeExpectFailure(t, client, server)
	if clientErr != tlserrors.ErrBadCertificate {
		t.Errorf("client: %v", clientErr)
	}
	if serverErr == nil {
		t.Errorf("server must see the bad_certificate alert")
	}
}

func TestReceiveBadRecordMAC(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)

	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	if err := client.Send(&sendbuf, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	wire := append([]byte(nil), sendbuf.Bytes()...)
	wire[len(wire)-1] ^= 1
	var recvbuf buffer.Buffer
	recvbuf.Init(nil)
	if _, err := server.Receive(&recvbuf, wire); err != tlserrors.ErrBadRecordMAC {
		t.Errorf("tampered record: %v", err)
	}
	// the session is dead now
	if _, err := server.Receive(&recvbuf, nil); err != tlserrors.ErrBadRecordMAC {
		t.Errorf("failed session must stay failed: %v", err)
	}
}

func TestCloseNotify(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)

	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	if err := client.Close(&sendbuf); err != nil {
		t.Fatal(err)
	}
	var recvbuf buffer.Buffer
	recvbuf.Init(nil)
	if _, err := server.Receive(&recvbuf, sendbuf.Bytes()); err != tlserrors.ErrCloseNotifyReceived {
		t.Errorf("close_notify: %v", err)
	}
	var after buffer.Buffer
	after.Init(nil)
	if err := server.Send(&after, []byte("too late")); err != tlserrors.ErrCloseNotifyReceived {
		t.Errorf("send after close: %v", err)
	}
	// closing twice is fine
	if err := client.Close(&sendbuf); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestSendFragmentation(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()
	handshakeMust(t, client, server)

	data := bytes.Repeat([]byte{0xAB}, record.MaxPlaintextRecordLength+1)
	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	if err := client.Send(&sendbuf, data); err != nil {
		t.Fatal(err)
	}
	records := 0
	for wire := sendbuf.Bytes(); len(wire) != 0; records++ {
		var hdr record.Record
		n, err := hdr.Parse(wire)
		if err != nil || n == 0 {
			t.Fatalf("bad record framing, n=%d err=%v", n, err)
		}
		wire = wire[n:]
	}
	if records != 2 {
		t.Errorf("one byte over the limit must produce 2 records, got %d", records)
	}
	if got := transfer(t, client, server, nil); got != nil {
		t.Errorf("empty send must produce no records")
	}
	// and the oversized payload itself arrives whole
	var plaintext []byte
	wire := sendbuf.Bytes()
	for len(wire) != 0 {
		var recvbuf buffer.Buffer
		recvbuf.Init(nil)
		consumed, err := server.Receive(&recvbuf, wire)
		if err != nil {
			t.Fatal(err)
		}
		wire = wire[consumed:]
		plaintext = append(plaintext, recvbuf.Bytes()...)
	}
	if !bytes.Equal(plaintext, data) {
		t.Errorf("fragmented payload lost, got %d bytes", len(plaintext))
	}
}

func TestHandshakePartialInput(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()

	var clientOut buffer.Buffer
	clientOut.Init(nil)
	if _, err := client.Handshake(&clientOut, nil); err != tlserrors.ErrHandshakeInProgress {
		t.Fatalf("client first flight: %v", err)
	}
	flight := clientOut.Bytes()

	var serverOut buffer.Buffer
	serverOut.Init(nil)
	consumed, err := server.Handshake(&serverOut, flight[:len(flight)-1])
	if err != tlserrors.ErrHandshakeInProgress {
		t.Fatalf("truncated flight: %v", err)
	}
	if consumed != 0 {
		t.Errorf("incomplete record must not be consumed, got %d", consumed)
	}
	if serverOut.Len() != 0 {
		t.Errorf("server answered a truncated ClientHello")
	}
	if _, err := server.Handshake(&serverOut, flight); err != tlserrors.ErrHandshakeInProgress {
		t.Fatalf("full flight: %v", err)
	}
	if serverOut.Len() == 0 {
		t.Errorf("server flight missing")
	}
}

func TestSendBeforeConnected(t *testing.T) {
	client := NewClient(tlscrypto.Default(), NewClientContext(nil), "localhost")
	defer client.Dispose()
	var sendbuf buffer.Buffer
	sendbuf.Init(nil)
	if err := client.Send(&sendbuf, []byte("early")); err != tlserrors.ErrHandshakeInProgress {
		t.Errorf("send before handshake: %v", err)
	}
	var recvbuf buffer.Buffer
	recvbuf.Init(nil)
	if _, err := client.Receive(&recvbuf, nil); err != tlserrors.ErrHandshakeInProgress {
		t.Errorf("receive before handshake: %v", err)
	}
	var km [16]byte
	if err := client.ExportKeyingMaterial(km[:], "EXPORTER-test", nil); err != tlserrors.ErrHandshakeInProgress {
		t.Errorf("export before handshake: %v", err)
	}
}

func TestChangeCipherSpecIgnored(t *testing.T) {
	opts := tlscrypto.Default()
	client := NewClient(opts, NewClientContext(nil), "localhost")
	server := NewServer(opts, testServerContext(t))
	defer client.Dispose()
	defer server.Dispose()

	var clientOut buffer.Buffer
	clientOut.Init(nil)
	if _, err := client.Handshake(&clientOut, nil); err != tlserrors.ErrHandshakeInProgress {
		t.Fatal(err)
	}
	// middlebox compatibility record in front of the ClientHello
	ccs := []byte{20, 3, 3, 0, 1, 1}
	input := append(append([]byte(nil), ccs...), clientOut.Bytes()...)
	var serverOut buffer.Buffer
	serverOut.Init(nil)
	consumed, err := server.Handshake(&serverOut, input)
	if err != tlserrors.ErrHandshakeInProgress {
		t.Fatalf("%v", err)
	}
	if consumed != len(input) {
		t.Errorf("consumed %d of %d", consumed, len(input))
	}
	if serverOut.Len() == 0 {
		t.Errorf("server flight missing after ignored change_cipher_spec")
	}
}
