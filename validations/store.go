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
	"bytes"
	"errors"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/logging"
)

var (
	// ErrStale reports a validation whose signing time does not advance
	// the validator's previous one.
	ErrStale = errors.New("validations: stale signing time")
)

// Store holds validations received from validators, keyed by ledger hash,
// and answers the adaptor's quorum and branch queries.
type Store struct {
	mu      deadlock.Mutex
	log     logging.Logger
	trusted *TrustedSet

	byLedger map[crypto.Digest]map[basics.NodeID]*Validation
	seqOf    map[crypto.Digest]basics.Seq
	latest   map[basics.NodeID]*Validation
	lastTime map[basics.NodeID]basics.NetTime

	localHighest basics.Seq
}

// MakeStore creates an empty validation store over the given trust view.
func MakeStore(log logging.Logger, trusted *TrustedSet) *Store {
	return &Store{
		log:      log,
		trusted:  trusted,
		byLedger: make(map[crypto.Digest]map[basics.NodeID]*Validation),
		seqOf:    make(map[crypto.Digest]basics.Seq),
		latest:   make(map[basics.NodeID]*Validation),
		lastTime: make(map[basics.NodeID]basics.NetTime),
	}
}

// Trusted returns the trust view the store was built over.
func (s *Store) Trusted() *TrustedSet {
	return s.trusted
}

// AddValidation verifies and records a validation. Signing times must
// strictly increase per validator; a validator contributes at most one
// validation per ledger sequence to the latest view. source is "local"
// for validations signed by this node.
func (s *Store) AddValidation(v *Validation, source string) error {
	if !v.Verify() {
		return ErrBadValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastTime[v.NodeID]; ok && v.SigningTime <= last {
		return ErrStale
	}
	s.lastTime[v.NodeID] = v.SigningTime

	byNode, ok := s.byLedger[v.LedgerHash]
	if !ok {
		byNode = make(map[basics.NodeID]*Validation)
		s.byLedger[v.LedgerHash] = byNode
		s.seqOf[v.LedgerHash] = v.LedgerSeq
	}
	byNode[v.NodeID] = v

	if prev, ok := s.latest[v.NodeID]; !ok || v.LedgerSeq >= prev.LedgerSeq {
		s.latest[v.NodeID] = v
	}

	if source == "local" && v.LedgerSeq > s.localHighest {
		s.localHighest = v.LedgerSeq
	}

	s.log.Debugf("validation for %v seq %d from %v (%s)", v.LedgerHash, v.LedgerSeq, v.NodeID, source)
	return nil
}

// CanValidateSeq reports whether the local node may still emit a
// validation for seq: at most one validation per sequence is allowed.
func (s *Store) CanValidateSeq(seq basics.Seq) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq > s.localHighest
}

// NumTrustedForLedger counts trusted validators that accepted ledger h.
func (s *Store) NumTrustedForLedger(h crypto.Digest) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.byLedger[h] {
		if s.trusted.IsTrusted(v.PublicKey) {
			n++
		}
	}
	return n
}

// GetTrustedForLedger returns the trusted validations for ledger h.
func (s *Store) GetTrustedForLedger(h crypto.Digest) []*Validation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Validation
	for _, v := range s.byLedger[h] {
		if s.trusted.IsTrusted(v.PublicKey) {
			out = append(out, v)
		}
	}
	return out
}

// GetNodesAfter counts trusted validators whose latest validated ledger
// sits strictly after sequence seq (the sequence of ledger h).
func (s *Store) GetNodesAfter(h crypto.Digest, seq basics.Seq) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if known, ok := s.seqOf[h]; ok {
		seq = known
	}
	n := 0
	for _, v := range s.latest {
		if s.trusted.IsTrusted(v.PublicKey) && v.LedgerSeq > seq {
			n++
		}
	}
	return n
}

// GetPreferred returns the ledger hash the network's trusted validators
// currently support: the latest-validation tally winner at or above the
// fully-validated floor. With no trusted validations beyond the local
// ledger the local id wins.
func (s *Store) GetPreferred(localID crypto.Digest, localSeq basics.Seq, validSeq basics.Seq) crypto.Digest {
	s.mu.Lock()
	defer s.mu.Unlock()

	type tally struct {
		support int
		seq     basics.Seq
	}
	counts := make(map[crypto.Digest]*tally)
	for _, v := range s.latest {
		if !s.trusted.IsTrusted(v.PublicKey) || v.LedgerSeq < validSeq {
			continue
		}
		t, ok := counts[v.LedgerHash]
		if !ok {
			t = &tally{seq: v.LedgerSeq}
			counts[v.LedgerHash] = t
		}
		t.support++
	}

	best := localID
	bestTally := tally{}
	if t, ok := counts[localID]; ok {
		bestTally = *t
	} else {
		bestTally.seq = localSeq
	}
	for h, t := range counts {
		if t.support > bestTally.support ||
			(t.support == bestTally.support && t.seq > bestTally.seq) ||
			(t.support == bestTally.support && t.seq == bestTally.seq && bytes.Compare(h[:], best[:]) < 0) {
			best = h
			bestTally = *t
		}
	}
	return best
}

// Laggards removes from keys every trusted validator whose latest
// validation has reached seq, and returns the number left behind.
func (s *Store) Laggards(seq basics.Seq, keys map[crypto.PublicKey]struct{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.latest {
		if v.LedgerSeq >= seq {
			delete(keys, v.PublicKey)
		}
	}
	return len(keys)
}

// Prune drops per-ledger validations below the given sequence. The latest
// view and per-validator signing-time floors are retained.
func (s *Store) Prune(below basics.Seq) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, seq := range s.seqOf {
		if seq < below {
			delete(s.byLedger, h)
			delete(s.seqOf, h)
		}
	}
}
