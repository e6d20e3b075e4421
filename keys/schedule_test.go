// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keys

import (
	"encoding/hex"
	"testing"

	"github.com/BernardoGomesNegri/picotls/ciphersuite"
)

func hashFromHex(t *testing.T, s string) ciphersuite.Hash {
	t.Helper()
	data, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	var h ciphersuite.Hash
	h.SetValue(data)
	return h
}

func checkSecret(t *testing.T, name string, got ciphersuite.Hash, want string) {
	t.Helper()
	if hex.EncodeToString(got.GetValue()) != want {
		t.Errorf("%s = %x, want %s", name, got.GetValue(), want)
	}
}

// [rfc8448:3] simple 1-RTT handshake trace, TLS_AES_128_GCM_SHA256
func TestScheduleTrace(t *testing.T) {
	sched := Schedule{Suite: ciphersuite.MustSuite(ciphersuite.TLS_AES_128_GCM_SHA256)}

	sched.ComputeEarlySecret(nil)
	checkSecret(t, "early secret", sched.earlySecret,
		"33ad0a1c607ec03b09e6cd9893680ce210adf300aa1f2660e1b22e10f170f92a")

	dheSecret, err := hex.DecodeString("8bd4054fb55b9d63fdfbacf9f04b9f0d35e6d63f537563efd46272900f89492d")
	if err != nil {
		t.Fatal(err)
	}
	helloHash := hashFromHex(t, "860c06edc07858ee8e78f0e7428c58edd6b43f2ca3e6e95f02ed063cf0e1cad8")
	sched.ComputeHandshakeSecrets(dheSecret, helloHash)
	checkSecret(t, "handshake secret", sched.handshakeSecret,
		"1dc826e93606aa6fdc0aadc12f741b01046aa6b99f691ed221a9f0ca043fbeac")
	checkSecret(t, "c hs traffic", sched.ClientHandshakeTrafficSecret,
		"b3eddb126e067f35a780b3abf45e2d8f3b1a950738f52e9600746a0e27a55a21")
	checkSecret(t, "s hs traffic", sched.ServerHandshakeTrafficSecret,
		"b67b7d690cc16c4e75e54213cb2d37b4e9c912bcded9105d42befd59d391ad38")
	checkSecret(t, "master secret", sched.masterSecret,
		"18df06843d13a08bf2a449844c5f8a478001bc4d4c627984d5a41da8d0402919")

	finishedHash := hashFromHex(t, "9608102a0f1ccc6db6250b7b7e417b1a000eaada3daae4777a7686c9ff83df13")
	sched.ComputeApplicationSecrets(finishedHash)
	checkSecret(t, "c ap traffic", sched.ClientApplicationTrafficSecret,
		"9e40646ce79a7f9dc05af8889bce6552875afa0b06df0087f792ebb7c17504a5")
	checkSecret(t, "s ap traffic", sched.ServerApplicationTrafficSecret,
		"a11af9f05531f856ad47116b45a950328204b4f44bfb6b3a4b4f1f3fcb631643")
	checkSecret(t, "exp master", sched.ExporterMasterSecret,
		"fe22f881176eda18eb8f44529e6792c50c9a3f89452f68d8ae311b4309d3cf50")

	sched.Wipe()
	if sched.masterSecret.Len() != 0 {
		t.Errorf("wipe left the master secret behind")
	}
}

func TestFinished(t *testing.T) {
	suite := ciphersuite.MustSuite(ciphersuite.TLS_AES_256_GCM_SHA384)
	traffic := hashFromHex(t,
		"b3eddb126e067f35a780b3abf45e2d8f3b1a950738f52e9600746a0e27a55a21"+
			"b3eddb126e067f35a780b3abf45e2d8f")
	transcript := hashFromHex(t,
		"860c06edc07858ee8e78f0e7428c58edd6b43f2ca3e6e95f02ed063cf0e1cad8"+
			"860c06edc07858ee8e78f0e7428c58ed")

	verifyData := ComputeFinished(suite, traffic, transcript)
	if verifyData.Len() != suite.Hash.DigestSize {
		t.Errorf("verify data length %d", verifyData.Len())
	}
	if !CheckFinished(suite, traffic, transcript, verifyData.GetValue()) {
		t.Errorf("finished does not verify against itself")
	}
	tampered := append([]byte(nil), verifyData.GetValue()...)
	tampered[0] ^= 1
	if CheckFinished(suite, traffic, transcript, tampered) {
		t.Errorf("tampered finished verified")
	}
	var otherTranscript ciphersuite.Hash
	otherTranscript.SetZero(suite.Hash.DigestSize)
	if CheckFinished(suite, traffic, otherTranscript, verifyData.GetValue()) {
		t.Errorf("finished ignores the transcript")
	}
}
