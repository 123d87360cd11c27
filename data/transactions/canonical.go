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

package transactions

import (
	"bytes"
	"sort"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
)

// CanonicalTxSet holds transactions in the apply order used during ledger
// building. Accounts are ordered by their key salted with the agreed set's
// hash, so the order is deterministic across nodes yet unpredictable to
// transaction submitters; within an account, transactions apply in
// sequence order.
type CanonicalTxSet struct {
	key crypto.Digest
	txs map[basics.TxID]Tx
}

// NewCanonicalTxSet creates an empty set whose account ordering is salted
// by key.
func NewCanonicalTxSet(key crypto.Digest) *CanonicalTxSet {
	return &CanonicalTxSet{
		key: key,
		txs: make(map[basics.TxID]Tx),
	}
}

// Key returns the ordering salt.
func (s *CanonicalTxSet) Key() crypto.Digest {
	return s.key
}

// Insert adds a transaction, replacing any previous transaction with the
// same id.
func (s *CanonicalTxSet) Insert(tx Tx) {
	s.txs[tx.ID()] = tx
}

// Remove drops the transaction with the given id, if present.
func (s *CanonicalTxSet) Remove(id basics.TxID) {
	delete(s.txs, id)
}

// Len returns the number of transactions in the set.
func (s *CanonicalTxSet) Len() int {
	return len(s.txs)
}

// IDs returns the ids of all transactions currently in the set.
func (s *CanonicalTxSet) IDs() []basics.TxID {
	ids := make([]basics.TxID, 0, len(s.txs))
	for id := range s.txs {
		ids = append(ids, id)
	}
	return ids
}

// Txs returns the transactions in canonical apply order.
func (s *CanonicalTxSet) Txs() []Tx {
	type entry struct {
		salted crypto.Digest
		tx     Tx
		id     basics.TxID
	}
	entries := make([]entry, 0, len(s.txs))
	for id, tx := range s.txs {
		entries = append(entries, entry{
			salted: s.accountKey(tx.Account),
			tx:     tx,
			id:     id,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := bytes.Compare(entries[i].salted[:], entries[j].salted[:]); c != 0 {
			return c < 0
		}
		if entries[i].tx.Sequence != entries[j].tx.Sequence {
			return entries[i].tx.Sequence < entries[j].tx.Sequence
		}
		return bytes.Compare(entries[i].id[:], entries[j].id[:]) < 0
	})
	out := make([]Tx, len(entries))
	for i := range entries {
		out[i] = entries[i].tx
	}
	return out
}

func (s *CanonicalTxSet) accountKey(acct Address) crypto.Digest {
	return crypto.Sha512Half(s.key[:], acct[:])
}
