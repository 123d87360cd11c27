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
	"github.com/aurumledger/go-aurum/crypto"
)

// NodeEvent is the event discriminator of a StatusChange message.
type NodeEvent uint32

// The node events.
const (
	EventClosing NodeEvent = iota + 1
	EventAccepted
	EventLostSync
)

// TxStatus is the status field of a Transaction message.
type TxStatus uint32

// TxStatusNew marks a transaction seen for the first time.
const TxStatusNew TxStatus = 1

// transactionMsg is the Transaction wire message. Field names are the tag
// numbers so the canonical encoding emits them in tag order.
type transactionMsg struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	RawTransaction   []byte   `codec:"1"`
	Status           TxStatus `codec:"2"`
	ReceiveTimestamp uint64   `codec:"3"`
}

// statusChangeMsg is the StatusChange wire message.
type statusChangeMsg struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NewEvent           NodeEvent     `codec:"1"`
	LedgerSeq          uint32        `codec:"2"`
	NetworkTime        uint32        `codec:"3"`
	LedgerHashPrevious crypto.Digest `codec:"4"`
	LedgerHash         crypto.Digest `codec:"5"`
	FirstSeq           uint32        `codec:"6"`
	LastSeq            uint32        `codec:"7"`
}

// validationMsg is the Validation wire message: a single opaque field
// carrying the canonical serialization of a validation record.
type validationMsg struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Validation []byte `codec:"1"`
}
