// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package buffer

import (
	"bytes"
	"testing"
)

func TestBufferSmallArea(t *testing.T) {
	var small [16]byte
	var b Buffer
	b.Init(small[:])
	if err := b.PushBytes([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 10 {
		t.Errorf("wrong length %d", b.Len())
	}
	// still inside the small area, no promotion
	if &small[0] != &b.Bytes()[0] {
		t.Errorf("small writes must stay in the caller's area")
	}
	if err := b.PushBytes([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if &small[0] == &b.Bytes()[0] {
		t.Errorf("growth beyond the small area must promote to the heap")
	}
	if !bytes.Equal(b.Bytes(), []byte("01234567890123456789")) {
		t.Errorf("contents lost on promotion: %q", b.Bytes())
	}
	b.Dispose()
	if b.Len() != 0 {
		t.Errorf("dispose must empty the buffer")
	}
	b.Dispose() // idempotent
}

func TestBufferNilSmallArea(t *testing.T) {
	var b Buffer
	b.Init(nil)
	for i := 0; i < 100; i++ {
		if err := b.PushByte(byte(i)); err != nil {
			t.Fatal(err)
		}
	}
	if b.Len() != 100 {
		t.Errorf("wrong length %d", b.Len())
	}
	for i, v := range b.Bytes() {
		if v != byte(i) {
			t.Fatalf("wrong byte %d at %d", v, i)
		}
	}
	b.Dispose()
}

func TestBufferReserveKeepsContents(t *testing.T) {
	var b Buffer
	b.Init(nil)
	if err := b.PushBytes([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := b.Reserve(1 << 12); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), []byte("abc")) {
		t.Errorf("reserve must not change contents: %q", b.Bytes())
	}
	b.Dispose()
}
