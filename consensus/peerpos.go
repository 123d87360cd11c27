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
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/protocol"
)

// Propose-sequence sentinels. A node joins a round at SeqJoin; the
// sequence then increases with every position change. SeqLeave signals a
// bow-out: the proposer withdraws from the round.
const (
	SeqJoin  uint32 = 0
	SeqLeave uint32 = math.MaxUint32
)

// Proposal is a node's position in the round in progress: the
// transaction-set hash it currently wants the next ledger built from.
type Proposal struct {
	PrevLedger crypto.Digest
	ProposeSeq uint32
	Position   crypto.Digest
	CloseTime  basics.NetTime
	Time       basics.NetTime
	NodeID     basics.NodeID
}

// BowOut reports whether the proposal signals withdrawal from the round.
func (p Proposal) BowOut() bool {
	return p.ProposeSeq == SeqLeave
}

// SigningDigest returns the canonical digest a proposal signature covers:
// sha512-half over the proposal prefix, the propose sequence and close
// time as big-endian 32-bit integers, the previous ledger hash and the
// position.
func (p Proposal) SigningDigest() crypto.Digest {
	var ints [8]byte
	binary.BigEndian.PutUint32(ints[0:4], p.ProposeSeq)
	binary.BigEndian.PutUint32(ints[4:8], uint32(p.CloseTime))
	return crypto.Sha512Half(
		[]byte(protocol.Proposal),
		ints[:],
		p.PrevLedger[:],
		p.Position[:],
	)
}

// PeerPos is a signed peer position as carried on the overlay.
type PeerPos struct {
	Prop      Proposal
	PublicKey crypto.PublicKey
	Signature crypto.Signature
}

// SuppressionID returns the overlay deduplication id of this signed
// position: a hash over position, previous ledger, propose sequence,
// close time, public key and signature.
func (p *PeerPos) SuppressionID() crypto.Digest {
	var ints [8]byte
	binary.BigEndian.PutUint32(ints[0:4], p.Prop.ProposeSeq)
	binary.BigEndian.PutUint32(ints[4:8], uint32(p.Prop.CloseTime))
	return crypto.Sha512Half(
		p.Prop.Position[:],
		p.Prop.PrevLedger[:],
		ints[:],
		p.PublicKey[:],
		p.Signature[:],
	)
}

// Verify checks the signature over the canonical digest and the node-id
// binding.
func (p *PeerPos) Verify() bool {
	if p.Prop.NodeID != basics.MakeNodeID(p.PublicKey) {
		return false
	}
	return p.PublicKey.VerifyDigest(p.Prop.SigningDigest(), p.Signature)
}

// proposeSetMsg is the ProposeSet wire message. Field names are the tag
// numbers so the canonical encoding emits them in tag order.
type proposeSetMsg struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ProposeSeq     uint32           `codec:"1"`
	CloseTime      uint32           `codec:"2"`
	CurrentTxHash  crypto.Digest    `codec:"3"`
	PreviousLedger crypto.Digest    `codec:"4"`
	NodePubKey     crypto.PublicKey `codec:"5"`
	Signature      crypto.Signature `codec:"6"`
}

// Encode returns the wire form of the signed position.
func (p *PeerPos) Encode() []byte {
	return protocol.EncodeReflect(proposeSetMsg{
		ProposeSeq:     p.Prop.ProposeSeq,
		CloseTime:      uint32(p.Prop.CloseTime),
		CurrentTxHash:  p.Prop.Position,
		PreviousLedger: p.Prop.PrevLedger,
		NodePubKey:     p.PublicKey,
		Signature:      p.Signature,
	})
}

// ErrBadProposal reports an inbound position that fails verification.
var ErrBadProposal = errors.New("consensus: bad proposal signature")

// DecodePeerPos parses and verifies a wire position. The node id is
// derived from the carried public key.
func DecodePeerPos(data []byte, now basics.NetTime) (*PeerPos, error) {
	var msg proposeSetMsg
	if err := protocol.DecodeReflect(data, &msg); err != nil {
		return nil, fmt.Errorf("consensus: %w", err)
	}
	pos := &PeerPos{
		Prop: Proposal{
			PrevLedger: msg.PreviousLedger,
			ProposeSeq: msg.ProposeSeq,
			Position:   msg.CurrentTxHash,
			CloseTime:  basics.NetTime(msg.CloseTime),
			Time:       now,
			NodeID:     basics.MakeNodeID(msg.NodePubKey),
		},
		PublicKey: msg.NodePubKey,
		Signature: msg.Signature,
	}
	if !pos.Verify() {
		return nil, ErrBadProposal
	}
	return pos, nil
}
