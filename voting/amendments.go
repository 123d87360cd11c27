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

// Package voting holds the flag-ledger policies: amendment voting and fee
// voting. Both inject pseudo-transactions into the candidate set at flag
// ledgers and contribute fields to outgoing validations.
package voting

import (
	"bytes"
	"sort"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/protocol"
	"github.com/aurumledger/go-aurum/validations"
)

// FeatureID derives an amendment's identity from its name.
func FeatureID(name string) crypto.Digest {
	return crypto.Sha512Half([]byte(protocol.Amendment), []byte(name))
}

// FeatRoundedCloseTime snaps agreed close times to the resolution grid,
// reducing inter-node disagreement over the close-time field.
var FeatRoundedCloseTime = FeatureID("RoundedCloseTime")

// AmendmentTable tracks which amendments this build understands and
// drives amendment voting at flag ledgers.
type AmendmentTable struct {
	mu  deadlock.Mutex
	log logging.Logger

	supported map[crypto.Digest]string
}

// MakeAmendmentTable creates a table supporting the given amendment names
// plus the amendments every build understands.
func MakeAmendmentTable(log logging.Logger, names []string) *AmendmentTable {
	t := &AmendmentTable{
		log:       log,
		supported: make(map[crypto.Digest]string),
	}
	t.supported[FeatRoundedCloseTime] = "RoundedCloseTime"
	for _, name := range names {
		t.supported[FeatureID(name)] = name
	}
	return t
}

// Supports reports whether this build understands the amendment.
func (t *AmendmentTable) Supports(id crypto.Digest) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.supported[id]
	return ok
}

// HasUnsupported reports whether any enabled amendment is unknown to this
// build; such a node must stop validating.
func (t *AmendmentTable) HasUnsupported(enabled []crypto.Digest) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range enabled {
		if _, ok := t.supported[id]; !ok {
			return true
		}
	}
	return false
}

// DoVoting injects enable-amendment pseudo-transactions into the
// candidate set for every supported amendment that is not yet enabled and
// carries majority support among the flag ledger's validations. With no
// validations (a stand-alone network) local support alone decides.
func (t *AmendmentTable) DoVoting(parent *ledger.Ledger, vals []*validations.Validation, set *txset.TxSet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range t.sortedSupported() {
		if parent.AmendmentEnabled(id) {
			continue
		}
		votes := 0
		for _, v := range vals {
			for _, a := range v.Amendments {
				if a == id {
					votes++
					break
				}
			}
		}
		if len(vals) > 0 && 2*votes <= len(vals) {
			continue
		}
		tx := transactions.Tx{
			Kind: transactions.KindEnableAmendment,
			Note: append([]byte(nil), id[:]...),
		}
		if err := set.AddItem(tx.ID(), tx.Encode()); err != nil {
			t.log.Warnf("amendment vote for %s not recorded: %v", t.supported[id], err)
			continue
		}
		t.log.Infof("voting to enable amendment %s", t.supported[id])
	}
}

// DoValidation returns the amendments to advertise in a flag-ledger
// validation: everything supported but not yet enabled.
func (t *AmendmentTable) DoValidation(enabled []crypto.Digest) []crypto.Digest {
	t.mu.Lock()
	defer t.mu.Unlock()

	isEnabled := make(map[crypto.Digest]struct{}, len(enabled))
	for _, id := range enabled {
		isEnabled[id] = struct{}{}
	}
	var out []crypto.Digest
	for _, id := range t.sortedSupported() {
		if _, ok := isEnabled[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// locking semantic: mu must be held.
func (t *AmendmentTable) sortedSupported() []crypto.Digest {
	ids := make([]crypto.Digest, 0, len(t.supported))
	for id := range t.supported {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
