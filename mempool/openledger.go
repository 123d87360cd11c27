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

// Package mempool implements the open-ledger transaction pool: the
// transactions a node would like to see in the next ledger, rebuilt on
// top of each newly accepted ledger.
package mempool

import (
	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
)

// OpenLedger holds the open transaction set on top of the last closed
// ledger, plus held transactions awaiting the next round open and the
// locally submitted transactions that survive rebuilds.
type OpenLedger struct {
	masterMu deadlock.Mutex // serializes the rebuild with other compound state changes
	mu       deadlock.Mutex
	log      logging.Logger

	parent *ledger.Ledger
	txs    map[basics.TxID]transactions.Tx
	held   []transactions.Tx
	local  map[basics.TxID]transactions.Tx
}

// MakeOpenLedger creates an empty open ledger on top of parent.
func MakeOpenLedger(log logging.Logger, parent *ledger.Ledger) *OpenLedger {
	return &OpenLedger{
		log:    log,
		parent: parent,
		txs:    make(map[basics.TxID]transactions.Tx),
		local:  make(map[basics.TxID]transactions.Tx),
	}
}

// Empty reports whether the open ledger holds no transactions.
func (o *OpenLedger) Empty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.txs) == 0
}

// Parent returns the closed ledger the open ledger sits on.
func (o *OpenLedger) Parent() *ledger.Ledger {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parent
}

// Current returns a snapshot of the open transactions.
func (o *OpenLedger) Current() []transactions.Tx {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]transactions.Tx, 0, len(o.txs))
	for _, tx := range o.txs {
		out = append(out, tx)
	}
	return out
}

// Submit adds a locally originated transaction. Local transactions are
// re-applied across rebuilds until they land in a closed ledger.
func (o *OpenLedger) Submit(tx transactions.Tx) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := tx.ID()
	o.txs[id] = tx
	o.local[id] = tx
}

// AddHeld parks a transaction until the next round opens.
func (o *OpenLedger) AddHeld(tx transactions.Tx) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.held = append(o.held, tx)
}

// ApplyHeldTransactions moves held transactions into the open set.
func (o *OpenLedger) ApplyHeldTransactions() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, tx := range o.held {
		o.txs[tx.ID()] = tx
	}
	o.held = nil
}

// Accept rebuilds the open ledger on top of a newly built closed ledger.
// It runs under the master lock combined with the ledger master's peek
// lock. The new open set is the retriable residue plus surviving local
// and open transactions, with everything in applied removed; the fee
// queue then rebalances the result.
func (o *OpenLedger) Accept(lm *ledger.Master, built *ledger.Ledger, applied map[basics.TxID]struct{}, retriable *transactions.CanonicalTxSet, anyDisputes bool, txq *TxQ) {
	o.masterMu.Lock()
	defer o.masterMu.Unlock()
	peek := lm.PeekMutex()
	peek.Lock()
	defer peek.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	next := make(map[basics.TxID]transactions.Tx)
	insert := func(tx transactions.Tx) {
		id := tx.ID()
		if _, ok := applied[id]; ok {
			delete(o.local, id)
			return
		}
		next[id] = tx
	}
	for _, tx := range retriable.Txs() {
		insert(tx)
	}
	for _, tx := range o.local {
		insert(tx)
	}
	for _, tx := range o.txs {
		insert(tx)
	}

	if anyDisputes {
		o.log.Debugf("open ledger rebuild on %d carries disputed transactions", built.Seq)
	}

	txq.rebalance(next, built.BaseFee)
	o.parent = built
	o.txs = next
}
