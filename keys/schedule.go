// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keys

import (
	"crypto/hmac"

	"github.com/BernardoGomesNegri/picotls/ciphersuite"
)

// Schedule walks the TLS 1.3 key derivation tree [rfc8446:7.1].
// Stages must be computed in order, each consumes the transcript hash
// at the point the protocol reached.
type Schedule struct {
	Suite *ciphersuite.Suite

	earlySecret     ciphersuite.Hash
	handshakeSecret ciphersuite.Hash
	masterSecret    ciphersuite.Hash

	ClientHandshakeTrafficSecret ciphersuite.Hash
	ServerHandshakeTrafficSecret ciphersuite.Hash

	ClientApplicationTrafficSecret ciphersuite.Hash
	ServerApplicationTrafficSecret ciphersuite.Hash
	ExporterMasterSecret           ciphersuite.Hash
	ResumptionMasterSecret         ciphersuite.Hash
}

// psk may be nil, then a string of zeros of digest size is extracted
func (s *Schedule) ComputeEarlySecret(psk []byte) {
	ikm := psk
	var zeros ciphersuite.Hash
	if len(ikm) == 0 {
		zeros.SetZero(s.Suite.Hash.DigestSize)
		ikm = zeros.GetValue()
	}
	hmacZeroSalt := s.Suite.Hash.NewHMAC(nil)
	s.earlySecret = ciphersuite.HKDFExtract(hmacZeroSalt, ikm)
}

func (s *Schedule) ComputeHandshakeSecrets(dheSecret []byte, trHash ciphersuite.Hash) {
	emptyHash := s.Suite.Hash.EmptyHash()

	hmacEarly := s.Suite.Hash.NewHMAC(s.earlySecret.GetValue())
	derived := ciphersuite.DeriveSecret(hmacEarly, "derived", emptyHash)
	hmacDerived := s.Suite.Hash.NewHMAC(derived.GetValue())
	s.handshakeSecret = ciphersuite.HKDFExtract(hmacDerived, dheSecret)
	derived.Wipe()

	hmacHandshake := s.Suite.Hash.NewHMAC(s.handshakeSecret.GetValue())
	s.ClientHandshakeTrafficSecret = ciphersuite.DeriveSecret(hmacHandshake, "c hs traffic", trHash)
	s.ServerHandshakeTrafficSecret = ciphersuite.DeriveSecret(hmacHandshake, "s hs traffic", trHash)

	derived = ciphersuite.DeriveSecret(hmacHandshake, "derived", emptyHash)
	var zeros ciphersuite.Hash
	zeros.SetZero(s.Suite.Hash.DigestSize)
	hmacDerived = s.Suite.Hash.NewHMAC(derived.GetValue())
	s.masterSecret = ciphersuite.HKDFExtract(hmacDerived, zeros.GetValue())
	derived.Wipe()
}

// transcript hash must cover ClientHello..server Finished
func (s *Schedule) ComputeApplicationSecrets(trHash ciphersuite.Hash) {
	hmacMaster := s.Suite.Hash.NewHMAC(s.masterSecret.GetValue())
	s.ClientApplicationTrafficSecret = ciphersuite.DeriveSecret(hmacMaster, "c ap traffic", trHash)
	s.ServerApplicationTrafficSecret = ciphersuite.DeriveSecret(hmacMaster, "s ap traffic", trHash)
	s.ExporterMasterSecret = ciphersuite.DeriveSecret(hmacMaster, "exp master", trHash)
}

// transcript hash must cover ClientHello..client Finished
func (s *Schedule) ComputeResumptionSecret(trHash ciphersuite.Hash) {
	hmacMaster := s.Suite.Hash.NewHMAC(s.masterSecret.GetValue())
	s.ResumptionMasterSecret = ciphersuite.DeriveSecret(hmacMaster, "res master", trHash)
}

// [rfc8446:7.5]
func (s *Schedule) ExportSecret(dst []byte, label string, context []byte) {
	hmacExporter := s.Suite.Hash.NewHMAC(s.ExporterMasterSecret.GetValue())
	derived := ciphersuite.DeriveSecret(hmacExporter, label, s.Suite.Hash.EmptyHash())

	contextHasher := s.Suite.Hash.New()
	contextHasher.Write(context)
	var contextHash ciphersuite.Hash
	contextHash.SetSum(contextHasher)

	hmacDerived := s.Suite.Hash.NewHMAC(derived.GetValue())
	ciphersuite.HKDFExpandLabel(dst, hmacDerived, "exporter", contextHash.GetValue())
	derived.Wipe()
}

func ComputeFinished(suite *ciphersuite.Suite, trafficSecret ciphersuite.Hash, transcriptHash ciphersuite.Hash) ciphersuite.Hash {
	hmacTrafficSecret := suite.Hash.NewHMAC(trafficSecret.GetValue())
	var finishedKey ciphersuite.Hash
	finishedKey.SetZero(hmacTrafficSecret.Size())
	ciphersuite.HKDFExpandLabel(finishedKey.GetValue(), hmacTrafficSecret, "finished", nil)
	var result ciphersuite.Hash
	hmacFinishedKey := suite.Hash.NewHMAC(finishedKey.GetValue())
	hmacFinishedKey.Write(transcriptHash.GetValue())
	result.SetSum(hmacFinishedKey)
	finishedKey.Wipe()
	return result
}

func CheckFinished(suite *ciphersuite.Suite, trafficSecret ciphersuite.Hash, transcriptHash ciphersuite.Hash, verifyData []byte) bool {
	expected := ComputeFinished(suite, trafficSecret, transcriptHash)
	ok := hmac.Equal(expected.GetValue(), verifyData)
	expected.Wipe()
	return ok
}

func (s *Schedule) Wipe() {
	s.earlySecret.Wipe()
	s.handshakeSecret.Wipe()
	s.masterSecret.Wipe()
	s.ClientHandshakeTrafficSecret.Wipe()
	s.ServerHandshakeTrafficSecret.Wipe()
	s.ClientApplicationTrafficSecret.Wipe()
	s.ServerApplicationTrafficSecret.Wipe()
	s.ExporterMasterSecret.Wipe()
	s.ResumptionMasterSecret.Wipe()
}
