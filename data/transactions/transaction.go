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

// Package transactions defines the serialized transaction form carried in
// candidate transaction sets, and the canonical ordering applied to an
// agreed set before ledger building.
package transactions

import (
	"errors"
	"fmt"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/protocol"
)

// Address identifies the account a transaction acts on.
type Address [20]byte

// Kind is the transaction type discriminator.
type Kind uint64

// Transaction kinds. Kinds at or above firstPseudoKind are
// pseudo-transactions: injected by the flag-ledger voting modules, never
// submitted by accounts.
const (
	KindPayment Kind = 1

	firstPseudoKind Kind = 100

	KindSetFee          Kind = 100
	KindEnableAmendment Kind = 101
)

var (
	// ErrUnknownKind is returned when decoding a transaction of a kind
	// this node does not understand.
	ErrUnknownKind = errors.New("transaction: unknown kind")
	// ErrBadAccount is returned when the account field does not match the
	// transaction kind.
	ErrBadAccount = errors.New("transaction: bad account for kind")
)

// Tx is a single transaction. Account transactions carry a nonzero
// account; pseudo-transactions carry the zero account.
type Tx struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Kind     Kind    `codec:"type"`
	Account  Address `codec:"acct"`
	Sequence uint32  `codec:"seq"`
	Fee      uint64  `codec:"fee"`
	Note     []byte  `codec:"note"`
}

// Pseudo reports whether tx was injected by a voting module rather than
// submitted by an account.
func (tx Tx) Pseudo() bool {
	return tx.Kind >= firstPseudoKind
}

// Encode returns the canonical serialization of tx.
func (tx Tx) Encode() []byte {
	return protocol.EncodeReflect(tx)
}

// ID returns the content hash of the serialized transaction.
func (tx Tx) ID() basics.TxID {
	return basics.TxID(crypto.Sha512Half([]byte(protocol.TransactionID), tx.Encode()))
}

// Decode parses a serialized transaction. It rejects unknown kinds and
// kind/account mismatches so that a malformed leaf in an agreed set is
// detected before ledger building.
func Decode(raw []byte) (Tx, error) {
	var tx Tx
	if err := protocol.DecodeReflect(raw, &tx); err != nil {
		return Tx{}, fmt.Errorf("transaction: %w", err)
	}
	switch {
	case tx.Kind == 0 || (tx.Kind > KindPayment && tx.Kind < firstPseudoKind) || tx.Kind > KindEnableAmendment:
		return Tx{}, ErrUnknownKind
	case tx.Pseudo() && tx.Account != (Address{}):
		return Tx{}, ErrBadAccount
	case !tx.Pseudo() && tx.Account == (Address{}):
		return Tx{}, ErrBadAccount
	}
	return tx, nil
}
