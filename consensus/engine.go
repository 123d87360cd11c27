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
	"time"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
)

// Engine is the generic round-based agreement engine the adaptor drives.
// Its internal dispute and voting machinery is opaque here; it interacts
// with the ledger world exclusively through the Callbacks it was built
// over. The engine is only entered from under the round lock.
type Engine interface {
	// StartRound opens a round on the given previous ledger. proposing
	// tells the engine whether this node should emit positions.
	StartRound(now time.Time, prevID crypto.Digest, prev *ledger.Ledger, nowUntrusted map[basics.NodeID]struct{}, proposing bool)

	// TimerEntry drives the engine's internal timers. An error wrapping
	// txset.ErrMissingNode indicates storage corruption.
	TimerEntry(now time.Time) error

	// GotTxSet hands the engine a transaction set it was waiting for.
	GotTxSet(now time.Time, set *txset.TxSet) error

	// PeerProposal delivers a verified peer position; it reports whether
	// the engine accepted it.
	PeerProposal(now time.Time, pos *PeerPos) (bool, error)

	// Simulate drives a synthetic round to completion.
	Simulate(now time.Time, delay time.Duration) error

	// GetJSON reports the engine's internal state.
	GetJSON(full bool) map[string]interface{}
}

// Dispute is the engine's record of a transaction present in some but not
// all known positions.
type Dispute struct {
	ID      basics.TxID
	Raw     []byte
	OurVote bool
}

// Result is the outcome of a round: the position taken, the agreed set,
// and the dispute map.
type Result struct {
	// InitialSet is the snapshot proposed when the round opened.
	InitialSet *txset.TxSet

	// Txns is the agreed transaction set. It starts equal to InitialSet
	// and is replaced as the engine converges.
	Txns *txset.TxSet

	// Position is the final position taken.
	Position Proposal

	// Disputes maps transaction ids to their dispute records.
	Disputes map[basics.TxID]*Dispute

	// Proposers counts the peers whose positions participated.
	Proposers int

	// RoundTime is how long the round took to converge.
	RoundTime time.Duration

	// State is the engine's verdict for the round.
	State State
}

// CloseTimes collects the close-time votes observed during a round.
type CloseTimes struct {
	// Peers tallies peer close-time votes.
	Peers map[basics.NetTime]int

	// Self is the close time this node observed.
	Self basics.NetTime
}

// Callbacks is the capability set the adaptor provides to the engine: the
// engine is generic over this surface, which also allows swapping in test
// doubles.
type Callbacks interface {
	// AcquireLedger returns the ledger with the given hash, or pending
	// (nil, false) after scheduling an asynchronous fetch.
	AcquireLedger(h crypto.Digest) (*ledger.Ledger, bool)

	// AcquireTxSet returns the transaction set with the given identity,
	// or pending (nil, false) after scheduling a fetch.
	AcquireTxSet(id crypto.Digest) (*txset.TxSet, bool)

	// ShareProposal relays a peer position on the overlay.
	ShareProposal(pos *PeerPos)

	// ShareTxSet publishes a transaction set.
	ShareTxSet(set *txset.TxSet)

	// ShareTx relays a disputed transaction, subject to suppression.
	ShareTx(id basics.TxID, raw []byte)

	// Propose signs our position and broadcasts it.
	Propose(prop Proposal)

	// ProposersValidated counts trusted validations for ledger h.
	ProposersValidated(h crypto.Digest) int

	// ProposersFinished counts trusted validators already working past
	// ledger h on the branch containing prev.
	ProposersFinished(prev *ledger.Ledger, h crypto.Digest) int

	// GetPrevLedger returns the network-preferred previous ledger hash,
	// signalling a view change when it diverges from the local one.
	GetPrevLedger(localID crypto.Digest, local *ledger.Ledger, mode Mode) crypto.Digest

	// OnClose opens a new candidate set for the closing ledger.
	OnClose(prev *ledger.Ledger, closeTime basics.NetTime, mode Mode) *Result

	// OnAccept schedules the accept work on a background worker and
	// signals end-of-consensus when it completes.
	OnAccept(result *Result, prev *ledger.Ledger, closeResolution time.Duration, rawCloseTimes CloseTimes, mode Mode, report map[string]interface{})

	// OnForceAccept runs the accept work synchronously.
	OnForceAccept(result *Result, prev *ledger.Ledger, closeResolution time.Duration, rawCloseTimes CloseTimes, mode Mode, report map[string]interface{})

	// OnModeChange records a mode transition.
	OnModeChange(before, after Mode)

	// HasOpenTransactions reports whether the mempool holds anything.
	HasOpenTransactions() bool

	// HaveValidated reports whether any ledger is fully validated.
	HaveValidated() bool

	// GetValidLedgerIndex returns the newest validated sequence.
	GetValidLedgerIndex() basics.Seq

	// GetQuorumKeys returns the quorum and the trusted validator keys.
	GetQuorumKeys() (int, map[crypto.PublicKey]struct{})

	// Laggards strips caught-up validators from keys and counts the rest.
	Laggards(seq basics.Seq, keys map[crypto.PublicKey]struct{}) int

	// Validator reports whether this node holds a validator key.
	Validator() bool
}

// NetworkOps is the network-operations surface the adaptor signals.
type NetworkOps interface {
	// ConsensusViewChange reports that the network prefers a different
	// previous ledger than the local one.
	ConsensusViewChange()

	// EndConsensus reports that the accepted round is fully processed.
	EndConsensus()

	// AmendmentBlocked reports whether the network enabled an amendment
	// this build does not understand.
	AmendmentBlocked() bool

	// Synced reports whether the node is caught up with the network.
	Synced() bool

	// ReportFeeChange announces open-ledger fee changes after a rebuild.
	ReportFeeChange()
}

// LedgerFetcher acquires missing consensus ledgers from peers.
type LedgerFetcher interface {
	// Acquire requests the ledger with the given hash.
	Acquire(h crypto.Digest)

	// Find reports whether a fetch for the given hash is or was active.
	Find(h crypto.Digest) bool
}

// ValidatorKeys bundles the long-lived signing identity of a validator.
// Secrets is nil on non-validating nodes.
type ValidatorKeys struct {
	Secrets   *crypto.SignatureSecrets
	PublicKey crypto.PublicKey
	NodeID    basics.NodeID
}

// MakeValidatorKeys derives the public identity from signing secrets.
func MakeValidatorKeys(secrets *crypto.SignatureSecrets) ValidatorKeys {
	if secrets == nil {
		return ValidatorKeys{}
	}
	return ValidatorKeys{
		Secrets:   secrets,
		PublicKey: secrets.SignatureVerifier,
		NodeID:    basics.MakeNodeID(secrets.SignatureVerifier),
	}
}
