package chat

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/BernardoGomesNegri/picotls/circular"
)

type roomConn struct {
	room *Room
	conn net.Conn

	messagesToSend circular.Buffer[string] // protected by room lock
	cond           chan struct{}
}

// Room broadcasts every line it receives to every other connection.
type Room struct {
	mu          sync.Mutex
	connections map[*roomConn]struct{}
}

func NewRoom() *Room {
	return &Room{connections: map[*roomConn]struct{}{}}
}

// Serve runs the connection until it disconnects. Call in its own goroutine.
func (ch *Room) Serve(conn net.Conn) {
	rc := &roomConn{room: ch, conn: conn, cond: make(chan struct{}, 1)}
	ch.mu.Lock()
	ch.connections[rc] = struct{}{}
	ch.mu.Unlock()
	go rc.writeLoop()
	defer func() {
		ch.mu.Lock()
		delete(ch.connections, rc)
		ch.mu.Unlock()
		close(rc.cond)
		_ = conn.Close()
	}()
	b := make([]byte, 128)
	for {
		n, err := conn.Read(b)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				fmt.Printf("chat room connection error: %v\n", err)
			}
			return
		}
		if n == 0 {
			continue
		}
		ch.broadcast(rc, b[:n])
	}
}

func (ch *Room) broadcast(from *roomConn, body []byte) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	fmt.Printf("chat room message from %q, sending to %d buddies: %q\n", from.conn.RemoteAddr(), len(ch.connections), body)
	for buddy := range ch.connections {
		buddy.messagesToSend.PushBack(fmt.Sprintf("%s says: %s", from.conn.RemoteAddr(), body))
		signalCond(buddy.cond)
	}
}

func (rc *roomConn) writeLoop() {
	for range rc.cond {
		for {
			msg, ok := rc.takeMessage()
			if !ok {
				break
			}
			if _, err := rc.conn.Write([]byte(msg)); err != nil {
				return
			}
		}
	}
}

func (rc *roomConn) takeMessage() (string, bool) {
	rc.room.mu.Lock()
	defer rc.room.mu.Unlock()
	if rc.messagesToSend.Len() == 0 {
		return "", false
	}
	return rc.messagesToSend.PopFront(), true
}

func signalCond(cond chan struct{}) {
	select {
	case cond <- struct{}{}:
	default:
	}
}
