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

// Package ledger implements the closed-ledger chain: the immutable ledger
// record, the builder that closes a new ledger over an agreed transaction
// set, and the master that tracks the local closed and validated lines.
package ledger

import (
	"time"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/protocol"
)

// Ledger is a closed ledger. It is immutable once built; all fields are
// fixed by the builder and the identity covers them all.
type Ledger struct {
	Seq                 basics.Seq
	ParentHash          crypto.Digest
	TxSetHash           crypto.Digest
	CloseTime           basics.NetTime
	ParentCloseTime     basics.NetTime
	CloseTimeResolution time.Duration
	CloseTimeAgree      bool
	BaseFee             uint64
	Amendments          []crypto.Digest

	hash crypto.Digest
}

type ledgerHeader struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Seq             basics.Seq      `codec:"seq"`
	ParentHash      crypto.Digest   `codec:"par"`
	TxSetHash       crypto.Digest   `codec:"txs"`
	CloseTime       basics.NetTime  `codec:"ct"`
	ParentCloseTime basics.NetTime  `codec:"pct"`
	Resolution      uint32          `codec:"res"`
	CloseTimeAgree  bool            `codec:"agr"`
	BaseFee         uint64          `codec:"fee"`
	Amendments      []crypto.Digest `codec:"amd"`
}

func (l *Ledger) seal() {
	l.hash = crypto.Sha512Half([]byte(protocol.LedgerHeader), protocol.EncodeReflect(ledgerHeader{
		Seq:             l.Seq,
		ParentHash:      l.ParentHash,
		TxSetHash:       l.TxSetHash,
		CloseTime:       l.CloseTime,
		ParentCloseTime: l.ParentCloseTime,
		Resolution:      uint32(l.CloseTimeResolution / time.Second),
		CloseTimeAgree:  l.CloseTimeAgree,
		BaseFee:         l.BaseFee,
		Amendments:      l.Amendments,
	}))
}

// ID returns the ledger's content hash.
func (l *Ledger) ID() crypto.Digest {
	return l.hash
}

// AmendmentEnabled reports whether the given amendment was enabled as of
// this ledger.
func (l *Ledger) AmendmentEnabled(id crypto.Digest) bool {
	for _, a := range l.Amendments {
		if a == id {
			return true
		}
	}
	return false
}

// DefaultBaseFee is the base transaction fee of a new network.
const DefaultBaseFee = 10

// Genesis creates the first ledger of a chain.
func Genesis(closeTime basics.NetTime) *Ledger {
	l := &Ledger{
		Seq:                 1,
		CloseTime:           closeTime,
		CloseTimeResolution: basics.CloseTimeResolutions[0],
		CloseTimeAgree:      true,
		BaseFee:             DefaultBaseFee,
	}
	l.seal()
	return l
}
