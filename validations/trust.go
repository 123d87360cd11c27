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

package validations

import (
	"math"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
)

// TrustedSet is the node's view of the trusted validator list: the keys,
// the quorum derived from their count, and the list's expiry.
type TrustedSet struct {
	mu             deadlock.RWMutex
	keys           map[crypto.PublicKey]struct{}
	quorumFraction float64
	expires        time.Time
}

// MakeTrustedSet creates an empty trusted set with the given quorum
// fraction.
func MakeTrustedSet(quorumFraction float64) *TrustedSet {
	return &TrustedSet{
		keys:           make(map[crypto.PublicKey]struct{}),
		quorumFraction: quorumFraction,
	}
}

// SetTrusted replaces the trusted keys and the list expiry.
func (t *TrustedSet) SetTrusted(keys []crypto.PublicKey, expires time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = make(map[crypto.PublicKey]struct{}, len(keys))
	for _, k := range keys {
		t.keys[k] = struct{}{}
	}
	t.expires = expires
}

// Count returns the number of trusted keys.
func (t *TrustedSet) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

// IsTrusted reports whether pk is on the trusted list.
func (t *TrustedSet) IsTrusted(pk crypto.PublicKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.keys[pk]
	return ok
}

// Quorum returns the number of trusted validators whose agreement
// constitutes a quorum.
func (t *TrustedSet) Quorum() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(math.Ceil(t.quorumFraction * float64(len(t.keys))))
}

// Expires returns the list expiry; ok is false when no expiry is known.
func (t *TrustedSet) Expires() (when time.Time, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.expires, !t.expires.IsZero()
}

// QuorumKeys returns the quorum together with a copy of the trusted keys.
func (t *TrustedSet) QuorumKeys() (int, map[crypto.PublicKey]struct{}) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make(map[crypto.PublicKey]struct{}, len(t.keys))
	for k := range t.keys {
		keys[k] = struct{}{}
	}
	return int(math.Ceil(t.quorumFraction * float64(len(t.keys)))), keys
}
