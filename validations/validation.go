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

// Package validations defines the signed validation record and the store
// of validations received from trusted validators.
package validations

import (
	"errors"
	"fmt"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/protocol"
)

// Validation is a validator's signed statement that it accepted a closed
// ledger. Full validations come from nodes that proposed during the
// round; partial ones from observers.
type Validation struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	LedgerHash    crypto.Digest    `codec:"lh"`
	LedgerSeq     basics.Seq       `codec:"seq"`
	ConsensusHash crypto.Digest    `codec:"ch"`
	SigningTime   basics.NetTime   `codec:"st"`
	PublicKey     crypto.PublicKey `codec:"pk"`
	NodeID        basics.NodeID    `codec:"nid"`
	Full          bool             `codec:"full"`
	LoadFee       uint32           `codec:"lf"`
	BaseFee       uint64           `codec:"bf"`
	Amendments    []crypto.Digest  `codec:"amd"`
	Signature     crypto.Signature `codec:"sig"`
}

// SigningDigest returns the digest the validation signature covers: the
// canonical serialization of the record with the signature zeroed.
func (v Validation) SigningDigest() crypto.Digest {
	v.Signature = crypto.Signature{}
	return crypto.HashObj(protocol.Validation, v)
}

// Sign fills in the signer's identity fields and signature.
func (v *Validation) Sign(secrets *crypto.SignatureSecrets) {
	v.PublicKey = secrets.SignatureVerifier
	v.NodeID = basics.MakeNodeID(v.PublicKey)
	v.Signature = secrets.SignDigest(v.SigningDigest())
}

// Verify checks the signature and the node-id binding.
func (v Validation) Verify() bool {
	if v.NodeID != basics.MakeNodeID(v.PublicKey) {
		return false
	}
	return v.PublicKey.VerifyDigest(v.SigningDigest(), v.Signature)
}

// Encode returns the canonical serialization broadcast on the overlay.
func (v Validation) Encode() []byte {
	return protocol.EncodeReflect(v)
}

// ErrBadValidation reports a validation that fails verification.
var ErrBadValidation = errors.New("validations: bad signature")

// Decode parses and verifies a wire validation.
func Decode(data []byte) (Validation, error) {
	var v Validation
	if err := protocol.DecodeReflect(data, &v); err != nil {
		return Validation{}, fmt.Errorf("validations: %w", err)
	}
	if !v.Verify() {
		return Validation{}, ErrBadValidation
	}
	return v, nil
}
