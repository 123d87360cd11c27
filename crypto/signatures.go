// Copyright (C) 2020-2026 Aurum Ledger Foundation.
// This file is part of go-aurum
//
// go-aurum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-aurum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-aurum.  If not, see <https://www.gnu.org/licenses/>.

package crypto

import (
	"crypto/ed25519"
	"errors"

	"github.com/hdevalence/ed25519consensus"
)

// A Seed holds the entropy needed to generate cryptographic keys.
type Seed [32]byte

// PublicKey is an exported ed25519 public key.
type PublicKey [ed25519.PublicKeySize]byte

// Signature is an ed25519 signature over some message.
type Signature [ed25519.SignatureSize]byte

// IsZero returns true if the public key is all zeros.
func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

// ErrBadSignature represents a bad signature
var ErrBadSignature = errors.New("invalid signature")

// SignatureVerifier is used to identify the holder of SignatureSecrets
// and verify the authenticity of Signatures.
type SignatureVerifier = PublicKey

// SignatureSecrets are used by an entity to produce unforgeable signatures over
// a message.
type SignatureSecrets struct {
	SignatureVerifier
	sk ed25519.PrivateKey
}

// GenerateSignatureSecrets creates SignatureSecrets from a source of entropy.
func GenerateSignatureSecrets(seed Seed) *SignatureSecrets {
	sk := ed25519.NewKeyFromSeed(seed[:])
	s := &SignatureSecrets{sk: sk}
	copy(s.SignatureVerifier[:], sk.Public().(ed25519.PublicKey))
	return s
}

// SignBytes signs a message directly, without hashing it first.
func (s *SignatureSecrets) SignBytes(message []byte) (sig Signature) {
	copy(sig[:], ed25519.Sign(s.sk, message))
	return
}

// SignDigest signs a precomputed digest.
func (s *SignatureSecrets) SignDigest(d Digest) Signature {
	return s.SignBytes(d[:])
}

// VerifyBytes verifies a signature, and returns true iff it verifies.
// Verification uses the ZIP-215 consensus rules so that all nodes agree on
// signature validity regardless of the underlying ed25519 implementation.
func (v SignatureVerifier) VerifyBytes(message []byte, sig Signature) bool {
	return ed25519consensus.Verify(v[:], message, sig[:])
}

// VerifyDigest verifies a signature over a precomputed digest.
func (v SignatureVerifier) VerifyDigest(d Digest, sig Signature) bool {
	return v.VerifyBytes(d[:], sig)
}
