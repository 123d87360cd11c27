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

package voting

import (
	"sort"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/validations"
)

// FeeVote drives base-fee voting at flag ledgers toward this node's
// preferred fee.
type FeeVote struct {
	mu  deadlock.Mutex
	log logging.Logger

	target uint64
}

// MakeFeeVote creates a FeeVote preferring the given base fee. Zero keeps
// the network default.
func MakeFeeVote(log logging.Logger, target uint64) *FeeVote {
	if target == 0 {
		target = ledger.DefaultBaseFee
	}
	return &FeeVote{log: log, target: target}
}

// DoVoting injects a set-fee pseudo-transaction when the median of the
// flag ledger's validation fee votes (and our own preference) differs
// from the parent's base fee.
func (f *FeeVote) DoVoting(parent *ledger.Ledger, vals []*validations.Validation, set *txset.TxSet) {
	f.mu.Lock()
	defer f.mu.Unlock()

	votes := []uint64{f.target}
	for _, v := range vals {
		if v.BaseFee != 0 {
			votes = append(votes, v.BaseFee)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i] < votes[j] })
	median := votes[len(votes)/2]
	if median == parent.BaseFee {
		return
	}

	tx := transactions.Tx{
		Kind: transactions.KindSetFee,
		Fee:  median,
	}
	if err := set.AddItem(tx.ID(), tx.Encode()); err != nil {
		f.log.Warnf("fee vote for %d not recorded: %v", median, err)
		return
	}
	f.log.Infof("voting to move base fee from %d to %d", parent.BaseFee, median)
}

// DoValidation returns the base-fee vote to advertise in a flag-ledger
// validation, or zero when the current fee is acceptable.
func (f *FeeVote) DoValidation(lastClosed *ledger.Ledger) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.target == lastClosed.BaseFee {
		return 0
	}
	return f.target
}
