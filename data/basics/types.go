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

// Package basics holds the primitive value types of the ledger domain:
// sequence numbers, network time, transaction and node identifiers.
package basics

import (
	"encoding/hex"
	"time"

	"github.com/aurumledger/go-aurum/crypto"
)

// Seq is a ledger sequence number. The genesis ledger has sequence 1;
// every child ledger carries its parent's sequence plus one.
type Seq uint32

// TxID identifies a transaction by the hash of its serialized form.
type TxID crypto.Digest

// String returns the transaction id in hexadecimal form.
func (id TxID) String() string {
	return crypto.Digest(id).String()
}

// NodeIDSize is the number of bytes in a node identifier.
const NodeIDSize = 20

// NodeID is the short identifier of a validator, derived from its
// long-lived signing public key.
type NodeID [NodeIDSize]byte

// MakeNodeID derives the short node identifier from a signing key.
func MakeNodeID(pk crypto.PublicKey) (n NodeID) {
	d := crypto.Sha512Half(pk[:])
	copy(n[:], d[:NodeIDSize])
	return
}

// String returns the node id in hexadecimal form.
func (n NodeID) String() string {
	return hex.EncodeToString(n[:])
}

// networkEpoch is the instant NetTime counts from: 2000-01-01T00:00:00Z.
const networkEpoch = 946684800

// NetTime is a coarse network timestamp: whole seconds since the network
// epoch. The zero value is the null time point.
type NetTime uint32

// NetTimeFromWall converts a wall-clock instant to network time.
// Instants before the network epoch map to the null time point.
func NetTimeFromWall(t time.Time) NetTime {
	u := t.Unix()
	if u <= networkEpoch {
		return 0
	}
	return NetTime(u - networkEpoch)
}

// Wall converts a network time back to a wall-clock instant.
func (t NetTime) Wall() time.Time {
	return time.Unix(networkEpoch+int64(t), 0).UTC()
}

// Add shifts a network time by a duration, saturating at the epoch.
func (t NetTime) Add(d time.Duration) NetTime {
	s := int64(t) + int64(d/time.Second)
	if s < 0 {
		return 0
	}
	return NetTime(s)
}

// IsZero reports whether t is the null time point.
func (t NetTime) IsZero() bool {
	return t == 0
}
