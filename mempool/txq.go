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

package mempool

import (
	"sort"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
)

// DefaultTxQSize is the default open-ledger size cap.
const DefaultTxQSize = 2000

// TxQ rebalances the open ledger's fees after each close: slow rounds
// escalate the effective fee floor, fast rounds let it decay back to the
// ledger base fee.
type TxQ struct {
	mu  deadlock.Mutex
	log logging.Logger

	maxSize       int
	feeMultiplier uint64
	lastSeq       basics.Seq
}

// MakeTxQ creates a TxQ capping the open ledger at maxSize transactions.
// Zero picks the default cap.
func MakeTxQ(log logging.Logger, maxSize int) *TxQ {
	if maxSize == 0 {
		maxSize = DefaultTxQSize
	}
	return &TxQ{
		log:           log,
		maxSize:       maxSize,
		feeMultiplier: 1,
	}
}

// ProcessClosedLedger feeds the queue a freshly built ledger. slow flags
// rounds whose agreement took longer than the protocol threshold.
func (q *TxQ) ProcessClosedLedger(built *ledger.Ledger, slow bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lastSeq = built.Seq
	if slow {
		q.feeMultiplier *= 2
		q.log.Warnf("slow close of ledger %d; fee multiplier now %d", built.Seq, q.feeMultiplier)
	} else if q.feeMultiplier > 1 {
		q.feeMultiplier /= 2
	}
}

// FeeMultiplier returns the current escalation factor over the base fee.
func (q *TxQ) FeeMultiplier() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.feeMultiplier
}

// rebalance trims the rebuilt open set: account transactions below the
// escalated fee floor are dropped, and the set is capped at maxSize
// keeping the highest-fee transactions.
func (q *TxQ) rebalance(txs map[basics.TxID]transactions.Tx, baseFee uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	floor := baseFee * q.feeMultiplier
	for id, tx := range txs {
		if !tx.Pseudo() && tx.Fee < floor {
			delete(txs, id)
		}
	}

	if len(txs) <= q.maxSize {
		return
	}
	type entry struct {
		id basics.TxID
		tx transactions.Tx
	}
	entries := make([]entry, 0, len(txs))
	for id, tx := range txs {
		entries = append(entries, entry{id, tx})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].tx.Fee < entries[j].tx.Fee
	})
	for _, e := range entries[:len(entries)-q.maxSize] {
		delete(txs, e.id)
	}
	q.log.Debugf("open ledger capped at %d transactions", q.maxSize)
}
