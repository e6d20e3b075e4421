// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package buffer

import (
	"errors"
	"math"

	"github.com/BernardoGomesNegri/picotls/wipe"
)

var ErrNoMemory = errors.New("buffer capacity overflow")

// Buffer is an appendable byte sink. It starts over a caller-owned small
// area (usually on the caller's stack frame) and promotes to the heap on the
// first growth beyond that capacity. Invariant: off <= cap(base).
type Buffer struct {
	base      []byte // len(base) == capacity
	off       int
	allocated bool // base no longer aliases the caller's small area
}

// small may be nil, then the first reserve allocates
func (b *Buffer) Init(small []byte) {
	*b = Buffer{base: small[:len(small):len(small)]}
}

func (b *Buffer) Len() int      { return b.off }
func (b *Buffer) Bytes() []byte { return b.base[:b.off] }

// ensures capacity >= off+delta, doubling as needed
func (b *Buffer) Reserve(delta int) error {
	if delta < 0 {
		panic("buffer reserve with negative delta")
	}
	if b.off > math.MaxInt-delta {
		return ErrNoMemory
	}
	need := b.off + delta
	if need <= len(b.base) {
		return nil
	}
	capacity := len(b.base)
	if capacity == 0 {
		capacity = 64
	}
	for capacity < need {
		if capacity > math.MaxInt/2 {
			return ErrNoMemory
		}
		capacity *= 2
	}
	newBase := make([]byte, capacity)
	copy(newBase, b.base[:b.off])
	if b.allocated {
		wipe.ClearMemory(b.base)
	}
	b.base = newBase
	b.allocated = true
	return nil
}

func (b *Buffer) PushBytes(data []byte) error {
	if err := b.Reserve(len(data)); err != nil {
		return err
	}
	b.off += copy(b.base[b.off:], data)
	return nil
}

func (b *Buffer) PushByte(v byte) error {
	if err := b.Reserve(1); err != nil {
		return err
	}
	b.base[b.off] = v
	b.off++
	return nil
}

// Dispose is idempotent and safe whether or not promotion occurred.
// Promoted storage may have carried key material, so it is wiped.
func (b *Buffer) Dispose() {
	if b.allocated {
		wipe.ClearMemory(b.base)
	}
	*b = Buffer{}
}
