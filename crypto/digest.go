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
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/aurumledger/go-aurum/protocol"
)

// DigestSize is the number of bytes in the preferred hash Digest used here.
const DigestSize = 32

// Digest represents a 32-byte value holding the 256-bit Hash digest.
type Digest [DigestSize]byte

// String returns the digest in a hexadecimal form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero returns true if the digest contains only zeros, false otherwise.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// DigestFromString converts a hexadecimal string to a Digest.
func DigestFromString(str string) (d Digest, err error) {
	decoded, err := hex.DecodeString(str)
	if err != nil {
		return d, err
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("expected %d bytes, got %d", len(d), len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}

// Sha512Half computes the SHA-512 hash of the concatenation of the given
// byte slices and returns the first 256 bits of the 512-bit output.
func Sha512Half(data ...[]byte) Digest {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	var sum [sha512.Size]byte
	h.Sum(sum[:0])

	var d Digest
	copy(d[:], sum[:DigestSize])
	return d
}

// HashObj computes the sha512-half digest of a domain prefix followed by the
// canonical encoding of the given object.
func HashObj(id protocol.HashID, obj interface{}) Digest {
	return Sha512Half([]byte(id), protocol.EncodeReflect(obj))
}

// RandBytes fills the provided structure with a set of random bytes
func RandBytes(dst []byte) {
	_, err := rand.Read(dst)
	if err != nil {
		panic(fmt.Errorf("rand.Read: %w", err))
	}
}
