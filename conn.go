// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package picotls

import (
	"io"
	"net"
	"time"

	"github.com/BernardoGomesNegri/picotls/buffer"
	"github.com/BernardoGomesNegri/picotls/record"
	"github.com/BernardoGomesNegri/picotls/tlscore"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
	"github.com/BernardoGomesNegri/picotls/tlserrors"
)

// toy implementation - not optimized at all, unlike core

// Conn drives a Session over an inner stream synchronously. Safe for a single
// reader and a single writer only, like the session itself.
type Conn struct {
	inner net.Conn
	sess  *tlscore.Session

	sendbuf buffer.Buffer
	recvbuf buffer.Buffer

	incoming     []byte // undecrypted bytes from the inner conn
	incomingSize int

	plaintext []byte // decrypted bytes not yet handed to the caller

	readErr error
}

var _ net.Conn = &Conn{}
var _ io.ReadWriter = &Conn{}

func newConn(inner net.Conn, sess *tlscore.Session) *Conn {
	c := &Conn{
		inner:    inner,
		sess:     sess,
		incoming: make([]byte, 2*record.MaxCiphertextRecordLength),
	}
	c.sendbuf.Init(nil)
	c.recvbuf.Init(nil)
	return c
}

// Client wraps inner in a TLS session dialing serverName.
func Client(inner net.Conn, opts *tlscrypto.Crypto, certCtx *tlscore.CertificateContext, serverName string) *Conn {
	return newConn(inner, tlscore.NewClient(opts, certCtx, serverName))
}

// Server wraps inner in a TLS session answering handshakes.
func Server(inner net.Conn, opts *tlscrypto.Crypto, certCtx *tlscore.CertificateContext) *Conn {
	return newConn(inner, tlscore.NewServer(opts, certCtx))
}

func (c *Conn) LocalAddr() net.Addr                { return c.inner.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr               { return c.inner.RemoteAddr() }
func (c *Conn) SetDeadline(t time.Time) error      { return c.inner.SetDeadline(t) }
func (c *Conn) SetReadDeadline(t time.Time) error  { return c.inner.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.inner.SetWriteDeadline(t) }

// Session exposes the underlying session for exporters and suite inspection.
func (c *Conn) Session() *tlscore.Session { return c.sess }

func (c *Conn) flush() error {
	if c.sendbuf.Len() == 0 {
		return nil
	}
	_, err := c.inner.Write(c.sendbuf.Bytes())
	c.sendbuf.Init(nil)
	return err
}

// incoming always has room: it holds two maximum records and consume moves
// leftovers to the front, so a full buffer would contain a complete record
// which the session consumes first.
func (c *Conn) fill() error {
	n, err := c.inner.Read(c.incoming[c.incomingSize:])
	c.incomingSize += n
	if n == 0 && err != nil {
		return err
	}
	return nil
}

func (c *Conn) consume(n int) {
	copy(c.incoming, c.incoming[n:c.incomingSize])
	c.incomingSize -= n
}

// Handshake runs the handshake to completion. Calling it on a connected
// session is a no-op, Read and Write call it for you.
func (c *Conn) Handshake() error {
	for !c.sess.Connected() {
		consumed, err := c.sess.Handshake(&c.sendbuf, c.incoming[:c.incomingSize])
		c.consume(consumed)
		if ferr := c.flush(); ferr != nil {
			return ferr
		}
		if err == nil {
			continue
		}
		if err != tlserrors.ErrHandshakeInProgress {
			return err
		}
		if ferr := c.fill(); ferr != nil {
			return ferr
		}
	}
	return nil
}

func (c *Conn) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if err := c.Handshake(); err != nil {
		return 0, err
	}
	for len(c.plaintext) == 0 {
		if c.readErr != nil {
			return 0, c.readErr
		}
		consumed, err := c.sess.Receive(&c.recvbuf, c.incoming[:c.incomingSize])
		c.consume(consumed)
		if err == tlserrors.ErrCloseNotifyReceived {
			c.readErr = io.EOF
		} else if err != nil {
			c.readErr = err
		}
		if c.recvbuf.Len() != 0 {
			c.plaintext = append(c.plaintext, c.recvbuf.Bytes()...)
			c.recvbuf.Init(nil)
			break
		}
		if c.readErr != nil {
			return 0, c.readErr
		}
		if consumed != 0 {
			continue // empty record, alert, or ticket, try the next one
		}
		if err := c.fill(); err != nil {
			c.readErr = err
			return 0, err
		}
	}
	copied := copy(b, c.plaintext)
	c.plaintext = c.plaintext[copied:]
	return copied, nil
}

func (c *Conn) Write(b []byte) (int, error) {
	if err := c.Handshake(); err != nil {
		return 0, err
	}
	if err := c.sess.Send(&c.sendbuf, b); err != nil {
		return 0, err
	}
	if err := c.flush(); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close sends close_notify when the session still can, then closes the inner
// conn either way.
func (c *Conn) Close() error {
	err := c.sess.Close(&c.sendbuf)
	if ferr := c.flush(); err == nil {
		err = ferr
	}
	c.sess.Dispose()
	if cerr := c.inner.Close(); err == nil {
		err = cerr
	}
	return err
}
