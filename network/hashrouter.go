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

package network

import (
	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
)

// HashRouter deduplicates observed messages and self-originated
// broadcasts by content fingerprint. It keeps two rotating generations of
// up to maxSize fingerprints each, so an entry survives at least one full
// rotation window.
type HashRouter struct {
	cur  map[crypto.Digest]*routeEntry
	prev map[crypto.Digest]*routeEntry

	maxSize int
	mu      deadlock.Mutex
}

type routeEntry struct {
	relayed bool
}

// MakeHashRouter creates a router retaining up to 2*size fingerprints.
func MakeHashRouter(size int) *HashRouter {
	return &HashRouter{
		cur:     map[crypto.Digest]*routeEntry{},
		maxSize: size,
	}
}

// locking semantic: write lock must be taken
func (r *HashRouter) lookup(d crypto.Digest) *routeEntry {
	if e, found := r.cur[d]; found {
		return e
	}
	if e, found := r.prev[d]; found {
		// promote so the entry survives the next swap
		r.cur[d] = e
		return e
	}
	return nil
}

// locking semantic: write lock must be taken
func (r *HashRouter) insert(d crypto.Digest) *routeEntry {
	if len(r.cur) >= r.maxSize {
		r.prev = r.cur
		r.cur = map[crypto.Digest]*routeEntry{}
	}
	e := &routeEntry{}
	r.cur[d] = e
	return e
}

// AddSuppression records a fingerprint so the message is treated as
// already seen. It returns false if the fingerprint was already present.
func (r *HashRouter) AddSuppression(d crypto.Digest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookup(d) != nil {
		return false
	}
	r.insert(d)
	return true
}

// Check reports whether a fingerprint has been seen in the current window.
func (r *HashRouter) Check(d crypto.Digest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(d) != nil
}

// ShouldRelay reports whether a message with this fingerprint should be
// relayed now: at most once per suppression window.
func (r *HashRouter) ShouldRelay(d crypto.Digest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(d)
	if e == nil {
		e = r.insert(d)
	}
	if e.relayed {
		return false
	}
	e.relayed = true
	return true
}

// Len returns the number of fingerprints currently retained.
func (r *HashRouter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cur) + len(r.prev)
}
