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

package ledger

import (
	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/logging"
)

// Master tracks the chain of closed ledgers on this node: the by-hash
// store, the last closed ledger, the validated line, and the sequence
// currently being built.
type Master struct {
	mu   deadlock.Mutex
	peek deadlock.Mutex // held by compound operations spanning the open ledger rebuild
	log  logging.Logger

	ledgers        map[crypto.Digest]*Ledger
	closed         *Ledger
	validated      *Ledger
	firstValidated basics.Seq
	building       basics.Seq
	replay         *ReplayData
	earliestFetch  basics.Seq
}

// MakeMaster creates a Master holding genesis as both the closed and
// validated ledger.
func MakeMaster(log logging.Logger, genesis *Ledger) *Master {
	return &Master{
		log:            log,
		ledgers:        map[crypto.Digest]*Ledger{genesis.ID(): genesis},
		closed:         genesis,
		validated:      genesis,
		firstValidated: genesis.Seq,
	}
}

// PeekMutex exposes the lock held across compound operations that combine
// the ledger master with the open-ledger rebuild.
func (m *Master) PeekMutex() *deadlock.Mutex {
	return &m.peek
}

// GetLedgerByHash returns the ledger with the given identity, or nil.
func (m *Master) GetLedgerByHash(h crypto.Digest) *Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledgers[h]
}

// StoreLedger adds a ledger to the store. It returns true if the ledger
// was already present.
func (m *Master) StoreLedger(l *Ledger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ledgers[l.ID()]; ok {
		return true
	}
	m.ledgers[l.ID()] = l
	return false
}

// SwitchLCL advances the last-closed-ledger pointer to l.
func (m *Master) SwitchLCL(l *Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[l.ID()] = l
	m.closed = l
}

// GetClosedLedger returns the last closed ledger.
func (m *Master) GetClosedLedger() *Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetValidatedLedger returns the newest fully validated ledger, or nil.
func (m *Master) GetValidatedLedger() *Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validated
}

// SetValidatedLedger advances the validated line.
func (m *Master) SetValidatedLedger(l *Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[l.ID()] = l
	if m.validated == nil {
		m.firstValidated = l.Seq
	}
	m.validated = l
}

// GetValidLedgerIndex returns the sequence of the newest validated
// ledger, or zero.
func (m *Master) GetValidLedgerIndex() basics.Seq {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.validated == nil {
		return 0
	}
	return m.validated.Seq
}

// HaveValidated reports whether any ledger has been fully validated.
func (m *Master) HaveValidated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validated != nil
}

// SetBuildingLedger records the sequence currently being built; zero
// clears it. At most one sequence is in the building phase at a time.
func (m *Master) SetBuildingLedger(seq basics.Seq) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.building = seq
}

// BuildingLedger returns the sequence currently being built, or zero.
func (m *Master) BuildingLedger() basics.Seq {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.building
}

// SetReplay arms a replay payload to be consumed by the next accept.
func (m *Master) SetReplay(r *ReplayData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replay = r
}

// ReleaseReplay returns the armed replay payload, if any, and disarms it.
func (m *Master) ReleaseReplay() *ReplayData {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.replay
	m.replay = nil
	return r
}

// SetEarliestFetch records the lowest sequence this node serves to peers.
func (m *Master) SetEarliestFetch(seq basics.Seq) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earliestFetch = seq
}

// GetEarliestFetch returns the lowest sequence this node serves to peers.
func (m *Master) GetEarliestFetch() basics.Seq {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.earliestFetch
}

// GetFullValidatedRange returns the contiguous range of validated
// sequences, or false if nothing has been validated.
func (m *Master) GetFullValidatedRange() (first, last basics.Seq, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.validated == nil {
		return 0, 0, false
	}
	return m.firstValidated, m.validated.Seq, true
}

// IsCompatible reports whether l can sit on the local validated line. An
// incompatible ledger shares a sequence with a validated ancestor but not
// its identity.
func (m *Master) IsCompatible(l *Ledger, log logging.Logger, reason string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	val := m.validated
	if val == nil {
		return true
	}

	compatible := true
	switch {
	case l.Seq == val.Seq:
		compatible = l.ID() == val.ID()
	case l.Seq > val.Seq:
		if anc := m.ancestorAt(l, val.Seq); anc != nil {
			compatible = anc.ID() == val.ID()
		}
	default:
		if anc := m.ancestorAt(val, l.Seq); anc != nil {
			compatible = anc.ID() == l.ID()
		}
	}

	if !compatible {
		log.Warnf("%s: ledger %d:%v conflicts with validated %d:%v",
			reason, l.Seq, l.ID(), val.Seq, val.ID())
	}
	return compatible
}

// ancestorAt walks l's parent links through the store until seq. Returns
// nil if the chain is not locally known that far back.
// locking semantic: mu must be held.
func (m *Master) ancestorAt(l *Ledger, seq basics.Seq) *Ledger {
	for l != nil && l.Seq > seq {
		l = m.ledgers[l.ParentHash]
	}
	if l == nil || l.Seq != seq {
		return nil
	}
	return l
}
