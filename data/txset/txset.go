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

// Package txset implements content-addressed candidate transaction sets
// and the store that exchanges them with peers during a consensus round.
package txset

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/protocol"
)

var (
	// ErrMissingNode reports a transaction-set node that should be present
	// locally but is not. The consensus entry points treat it as fatal:
	// it indicates storage corruption.
	ErrMissingNode = errors.New("txset: missing node")

	// ErrImmutable is returned when mutating a snapshotted set.
	ErrImmutable = errors.New("txset: set is immutable")
)

// TxSet is a content-addressed map from transaction id to serialized
// transaction. A set starts mutable, accumulates the open ledger's
// transactions plus any voting pseudo-transactions, and is then
// snapshotted. The snapshot's identity is the Merkle hash of its leaves.
type TxSet struct {
	entries map[basics.TxID][]byte
	id      crypto.Digest
	snapped bool
}

// New creates an empty, mutable transaction set.
func New() *TxSet {
	return &TxSet{entries: make(map[basics.TxID][]byte)}
}

// AddItem inserts a serialized transaction under its id. Inserting the
// same id twice is a no-op; inserting into a snapshot fails.
func (s *TxSet) AddItem(id basics.TxID, raw []byte) error {
	if s.snapped {
		return ErrImmutable
	}
	if _, ok := s.entries[id]; ok {
		return nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.entries[id] = cp
	return nil
}

// Snapshot freezes the set: it returns an immutable copy whose identity
// has been computed. The receiver remains mutable.
func (s *TxSet) Snapshot() *TxSet {
	entries := make(map[basics.TxID][]byte, len(s.entries))
	for id, raw := range s.entries {
		entries[id] = raw
	}
	snap := &TxSet{entries: entries, snapped: true}
	snap.id = snap.merkleRoot()
	return snap
}

// ID returns the set's identity. It is only meaningful on a snapshot.
func (s *TxSet) ID() crypto.Digest {
	return s.id
}

// Len returns the number of leaves.
func (s *TxSet) Len() int {
	return len(s.entries)
}

// Has reports whether the set contains a leaf with the given id.
func (s *TxSet) Has(id basics.TxID) bool {
	_, ok := s.entries[id]
	return ok
}

// Entry returns the serialized transaction stored under id.
func (s *TxSet) Entry(id basics.TxID) ([]byte, bool) {
	raw, ok := s.entries[id]
	return raw, ok
}

// VisitLeaves calls f for every leaf in id order.
func (s *TxSet) VisitLeaves(f func(id basics.TxID, raw []byte)) {
	for _, id := range s.sortedIDs() {
		f(id, s.entries[id])
	}
}

func (s *TxSet) sortedIDs() []basics.TxID {
	ids := make([]basics.TxID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// merkleRoot computes the Merkle hash over the leaves in id order. The
// empty set hashes to the zero digest.
func (s *TxSet) merkleRoot() crypto.Digest {
	if len(s.entries) == 0 {
		return crypto.Digest{}
	}
	level := make([]crypto.Digest, 0, len(s.entries))
	for _, id := range s.sortedIDs() {
		level = append(level, crypto.Sha512Half([]byte(protocol.TxSetLeaf), id[:], s.entries[id]))
	}
	for len(level) > 1 {
		next := make([]crypto.Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, crypto.Sha512Half([]byte(protocol.InnerNode), level[i][:], level[i+1][:]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}
	return level[0]
}

// wireSet is the overlay serialization of a snapshotted set.
type wireSet struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ID     crypto.Digest `codec:"id"`
	Leaves []wireLeaf    `codec:"txs"`
}

type wireLeaf struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ID  basics.TxID `codec:"id"`
	Raw []byte      `codec:"raw"`
}

// Encode serializes a snapshot for the overlay.
func (s *TxSet) Encode() []byte {
	w := wireSet{ID: s.id}
	s.VisitLeaves(func(id basics.TxID, raw []byte) {
		w.Leaves = append(w.Leaves, wireLeaf{ID: id, Raw: raw})
	})
	return protocol.EncodeReflect(w)
}

// Decode parses an overlay-serialized set and verifies its identity. The
// returned set is a snapshot.
func Decode(data []byte) (*TxSet, error) {
	var w wireSet
	if err := protocol.DecodeReflect(data, &w); err != nil {
		return nil, fmt.Errorf("txset: %w", err)
	}
	s := New()
	for _, leaf := range w.Leaves {
		if err := s.AddItem(leaf.ID, leaf.Raw); err != nil {
			return nil, err
		}
	}
	snap := s.Snapshot()
	if snap.id != w.ID {
		return nil, fmt.Errorf("txset: identity mismatch: computed %v, claimed %v", snap.id, w.ID)
	}
	return snap, nil
}
