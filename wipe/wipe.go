// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package wipe

import "runtime"

// ClearMemory is a process-wide hook for best-effort constant-time erasure of
// secret material. Hosts with hardened allocators may replace it, but must
// not substitute an ordinary fill that the compiler may elide.
var ClearMemory func(p []byte) = clearMemory

func clearMemory(p []byte) {
	if len(p) == 0 {
		return
	}
	for i := range p {
		p[i] = 0
	}
	// keep the backing array (and so the stores) alive past the last write
	runtime.KeepAlive(&p[0])
}
