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
	"time"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/logging"
)

// ReplayData carries a previously captured ledger close to be rebuilt
// verbatim instead of closing over the agreed set.
type ReplayData struct {
	Parent         *Ledger
	Txs            []transactions.Tx
	TxSetHash      crypto.Digest
	CloseTime      basics.NetTime
	CloseTimeAgree bool
	Resolution     time.Duration
}

// BuildLedger closes a new ledger over parent. Transactions are consumed
// from txs in canonical order; any transaction that cannot be applied is
// added to failed and excluded. On return txs is empty: every entry was
// either applied or failed.
func BuildLedger(parent *Ledger, txs *transactions.CanonicalTxSet, closeTime basics.NetTime, closeTimeAgree bool, resolution time.Duration, failed map[basics.TxID]struct{}, log logging.Logger) *Ledger {
	l := &Ledger{
		Seq:                 parent.Seq + 1,
		ParentHash:          parent.ID(),
		TxSetHash:           txs.Key(),
		CloseTime:           closeTime,
		ParentCloseTime:     parent.CloseTime,
		CloseTimeResolution: resolution,
		CloseTimeAgree:      closeTimeAgree,
		BaseFee:             parent.BaseFee,
		Amendments:          append([]crypto.Digest(nil), parent.Amendments...),
	}

	for _, tx := range txs.Txs() {
		id := tx.ID()
		txs.Remove(id)
		if err := applyTx(l, tx); err != nil {
			log.Debugf("build ledger %d: tx %v failed: %v", l.Seq, id, err)
			failed[id] = struct{}{}
		}
	}

	l.seal()
	return l
}

// BuildFromReplay rebuilds a ledger from a captured close.
func BuildFromReplay(replay *ReplayData, log logging.Logger) *Ledger {
	l := &Ledger{
		Seq:                 replay.Parent.Seq + 1,
		ParentHash:          replay.Parent.ID(),
		TxSetHash:           replay.TxSetHash,
		CloseTime:           replay.CloseTime,
		ParentCloseTime:     replay.Parent.CloseTime,
		CloseTimeResolution: replay.Resolution,
		CloseTimeAgree:      replay.CloseTimeAgree,
		BaseFee:             replay.Parent.BaseFee,
		Amendments:          append([]crypto.Digest(nil), replay.Parent.Amendments...),
	}
	for _, tx := range replay.Txs {
		if err := applyTx(l, tx); err != nil {
			log.Debugf("replay ledger %d: tx %v failed: %v", l.Seq, tx.ID(), err)
		}
	}
	l.seal()
	return l
}

type applyError string

func (e applyError) Error() string { return string(e) }

const (
	errFeeTooLow    = applyError("fee below ledger base fee")
	errBadAmendment = applyError("malformed amendment payload")
)

// applyTx applies a single transaction to the ledger under construction.
func applyTx(l *Ledger, tx transactions.Tx) error {
	switch tx.Kind {
	case transactions.KindSetFee:
		l.BaseFee = tx.Fee
	case transactions.KindEnableAmendment:
		if len(tx.Note) != crypto.DigestSize {
			return errBadAmendment
		}
		var amd crypto.Digest
		copy(amd[:], tx.Note)
		if !l.AmendmentEnabled(amd) {
			l.Amendments = append(l.Amendments, amd)
		}
	default:
		if tx.Fee < l.BaseFee {
			return errFeeTooLow
		}
	}
	return nil
}
