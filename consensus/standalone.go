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

package consensus

import (
	"time"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
)

// StandaloneEngine is the engine used when the node runs without a
// network: it implements only the simulate path, closing a round
// unanimously on our own position. The real agreement engine replaces it
// on networked nodes.
type StandaloneEngine struct {
	log logging.Logger
	cb  Callbacks

	mode      Mode
	prevID    crypto.Digest
	prev      *ledger.Ledger
	proposing bool
}

// MakeStandaloneEngine builds a stand-alone engine over the adaptor's
// callbacks.
func MakeStandaloneEngine(log logging.Logger) func(Callbacks) Engine {
	return func(cb Callbacks) Engine {
		return &StandaloneEngine{log: log, cb: cb, mode: ModeObserving}
	}
}

// StartRound records the round's previous ledger and the proposing flag.
func (e *StandaloneEngine) StartRound(now time.Time, prevID crypto.Digest, prev *ledger.Ledger, nowUntrusted map[basics.NodeID]struct{}, proposing bool) {
	e.prevID = prevID
	e.prev = prev
	e.proposing = proposing

	mode := ModeObserving
	if proposing {
		mode = ModeProposing
	}
	if mode != e.mode {
		e.cb.OnModeChange(e.mode, mode)
		e.mode = mode
	}
}

// TimerEntry is a no-op: stand-alone rounds only advance via Simulate.
func (e *StandaloneEngine) TimerEntry(now time.Time) error {
	return nil
}

// GotTxSet is a no-op for the stand-alone engine.
func (e *StandaloneEngine) GotTxSet(now time.Time, set *txset.TxSet) error {
	return nil
}

// PeerProposal drops the position: there are no peers stand-alone.
func (e *StandaloneEngine) PeerProposal(now time.Time, pos *PeerPos) (bool, error) {
	return false, nil
}

// Simulate closes one round unanimously: the candidate set opened by the
// adaptor becomes the agreed set and the accept path runs inline.
func (e *StandaloneEngine) Simulate(now time.Time, delay time.Duration) error {
	if delay == 0 {
		delay = 100 * time.Millisecond
	}
	closeTime := basics.NetTimeFromWall(now)

	result := e.cb.OnClose(e.prev, closeTime, e.mode)
	result.State = StateYes
	result.RoundTime = delay
	if e.proposing {
		result.Proposers = 1
	}

	raw := CloseTimes{
		Peers: make(map[basics.NetTime]int),
		Self:  closeTime,
	}
	e.cb.OnForceAccept(result, e.prev, e.prev.CloseTimeResolution, raw, e.mode, map[string]interface{}{
		"simulated": true,
	})
	e.log.Infof("simulated round on ledger %d complete", e.prev.Seq)
	return nil
}

// GetJSON reports the stand-alone engine's state.
func (e *StandaloneEngine) GetJSON(full bool) map[string]interface{} {
	ret := map[string]interface{}{
		"mode":      e.mode.String(),
		"proposing": e.proposing,
	}
	if e.prev != nil {
		ret["previous_ledger"] = e.prevID.String()
		ret["previous_seq"] = uint32(e.prev.Seq)
	}
	return ret
}
