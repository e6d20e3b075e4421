// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package constants

// Limited as a protection against too much work for signature checking
const MaxCertificateChainLength = 16

// Certificate chains can legitimately span several records, everything else
// is tiny. This cap rejects absurd lengths before we buffer a message.
const MaxHandshakeMessageLength = 1 << 17

const AEADSealSize = 16
