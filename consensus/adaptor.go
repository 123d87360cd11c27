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

// Package consensus implements the adaptor between the generic agreement
// engine and the ledger world: it opens rounds over the open ledger's
// transactions, exchanges positions and transaction sets with peers,
// builds and validates the accepted ledger, and keeps the network time
// estimate current.
package consensus

import (
	"context"
	"errors"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/config"
	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/mempool"
	"github.com/aurumledger/go-aurum/network"
	"github.com/aurumledger/go-aurum/protocol"
	"github.com/aurumledger/go-aurum/timekeeper"
	"github.com/aurumledger/go-aurum/util/execpool"
	"github.com/aurumledger/go-aurum/util/metrics"
	"github.com/aurumledger/go-aurum/validations"
	"github.com/aurumledger/go-aurum/voting"
)

// Parameters holds the collaborators the consensus adaptor is wired to.
type Parameters struct {
	Log          logging.Logger
	Local        config.Local
	Params       config.ProtocolParams
	LedgerMaster *ledger.Master
	Inbound      LedgerFetcher
	TxSets       *txset.Store
	Validations  *validations.Store
	OpenLedger   *mempool.OpenLedger
	TxQ          *mempool.TxQ
	FeeTrack     *mempool.FeeTrack
	Overlay      network.Overlay
	Router       *network.HashRouter
	FeeVote      *voting.FeeVote
	Amendments   *voting.AmendmentTable
	Ops          NetworkOps
	TimeKeeper   *timekeeper.Keeper
	Keys         ValidatorKeys
	AcceptPool   execpool.BacklogPool
	AdvancePool  execpool.BacklogPool
}

// Consensus drives the agreement engine for this node. Every entry point
// serializes on the round lock; the engine is re-entered only from under
// it.
type Consensus struct {
	mu deadlock.Mutex // the round lock

	log     logging.Logger
	engine  Engine
	adaptor *Adaptor
}

// MakeConsensus wires an Adaptor to its collaborators and builds the
// engine over it.
func MakeConsensus(p Parameters, makeEngine func(Callbacks) Engine) *Consensus {
	a := &Adaptor{
		log:        p.Log,
		local:      p.Local,
		params:     p.Params,
		lm:         p.LedgerMaster,
		inbound:    p.Inbound,
		txSets:     p.TxSets,
		vals:       p.Validations,
		open:       p.OpenLedger,
		txq:        p.TxQ,
		feeTrack:   p.FeeTrack,
		overlay:    p.Overlay,
		router:     p.Router,
		feeVote:    p.FeeVote,
		amendments: p.Amendments,
		ops:        p.Ops,
		tk:         p.TimeKeeper,
		keys:       p.Keys,
		accept:     p.AcceptPool,
		advance:    p.AdvancePool,
		censorship: MakeCensorshipDetector[basics.TxID, basics.Seq](p.Log, p.Params.CensorshipWarnInterval),
		mode:       ModeObserving,
	}
	return &Consensus{
		log:     p.Log,
		engine:  makeEngine(a),
		adaptor: a,
	}
}

// Adaptor returns the adaptor, exposed for the engine and for tests.
func (c *Consensus) Adaptor() *Adaptor {
	return c.adaptor
}

// StartRound opens a consensus round on the given previous ledger.
func (c *Consensus) StartRound(now time.Time, prevID crypto.Digest, prev *ledger.Ledger, nowUntrusted map[basics.NodeID]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	proposing := c.adaptor.preStartRound(prev)
	c.engine.StartRound(now, prevID, prev, nowUntrusted, proposing)
}

// TimerEntry drives the engine's timers. A missing transaction-set node
// is fatal and propagated to the caller: it indicates storage corruption
// and the process is expected to restart.
func (c *Consensus) TimerEntry(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.engine.TimerEntry(now)
	if errors.Is(err, txset.ErrMissingNode) {
		c.log.Errorf("Missing node during consensus process: %v", err)
	}
	return err
}

// GotTxSet hands the engine a newly arrived transaction set, with the
// same fatal-error policy as TimerEntry.
func (c *Consensus) GotTxSet(now time.Time, set *txset.TxSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.engine.GotTxSet(now, set)
	if errors.Is(err, txset.ErrMissingNode) {
		c.log.Errorf("Missing node during consensus process: %v", err)
	}
	return err
}

// PeerProposal validates an inbound signed position, checks suppression,
// and delivers it to the engine. It reports whether the engine accepted
// it. Positions with bad signatures are silently dropped.
func (c *Consensus) PeerProposal(now time.Time, pos *PeerPos) (bool, error) {
	if !pos.Verify() {
		metrics.ProposalsDropped.Inc()
		c.log.Debugf("dropping peer proposal from %v: bad signature", pos.Prop.NodeID)
		return false, nil
	}
	if !c.adaptor.router.AddSuppression(pos.SuppressionID()) {
		metrics.ProposalsDropped.Inc()
		return false, nil
	}
	metrics.ProposalsReceived.Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.PeerProposal(now, pos)
}

// Simulate drives a synthetic round, used in tests and stand-alone mode.
func (c *Consensus) Simulate(now time.Time, delay time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Simulate(now, delay)
}

// GetJSON reports the engine state plus the adaptor's validating flag.
func (c *Consensus) GetJSON(full bool) map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := c.engine.GetJSON(full)
	if ret == nil {
		ret = make(map[string]interface{})
	}
	ret["validating"] = c.adaptor.Validating()
	return ret
}

// Adaptor implements the engine's Callbacks over the concrete ledger
// world.
type Adaptor struct {
	log        logging.Logger
	local      config.Local
	params     config.ProtocolParams
	lm         *ledger.Master
	inbound    LedgerFetcher
	txSets     *txset.Store
	vals       *validations.Store
	open       *mempool.OpenLedger
	txq        *mempool.TxQ
	feeTrack   *mempool.FeeTrack
	overlay    network.Overlay
	router     *network.HashRouter
	feeVote    *voting.FeeVote
	amendments *voting.AmendmentTable
	ops        NetworkOps
	tk         *timekeeper.Keeper
	keys       ValidatorKeys
	accept     execpool.BacklogPool
	advance    execpool.BacklogPool

	censorship *CensorshipDetector[basics.TxID, basics.Seq]

	mu                  deadlock.Mutex // guards the mutable round state below
	mode                Mode
	validating          bool
	useRoundedCloseTime bool
	acquiringLedger     crypto.Digest
	lastValidationTime  basics.NetTime
	prevProposers       int
	prevRoundTime       time.Duration
}

var _ Callbacks = (*Adaptor)(nil)

// Mode returns the node's stance in the current round.
func (a *Adaptor) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Validating reports whether the node intends to validate this round.
func (a *Adaptor) Validating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.validating
}

// PrevProposers returns the proposer count of the last accepted round.
func (a *Adaptor) PrevProposers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prevProposers
}

// PrevRoundTime returns the duration of the last accepted round.
func (a *Adaptor) PrevRoundTime() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prevRoundTime
}

// preStartRound recomputes the validating flag for the round about to
// open and notifies the transaction-set store. It returns whether the
// engine should emit proposals.
func (a *Adaptor) preStartRound(prev *ledger.Ledger) bool {
	validating := a.keys.Secrets != nil &&
		prev.Seq >= a.params.MaxDisallowedLedger &&
		!a.ops.AmendmentBlocked()
	if validating && !a.local.Standalone && a.vals.Trusted().Count() > 0 {
		when, ok := a.vals.Trusted().Expires()
		if !ok || when.Before(a.tk.Now().Wall()) {
			a.log.Errorf("Voluntarily bowing out of consensus process because of an expired validator list.")
			validating = false
		}
	}

	synced := a.ops.Synced()
	if validating {
		a.log.Infof("Entering consensus process, validating, synced=%v", synced)
	} else {
		// Otherwise we just watch the consensus process and only
		// bother the network if we need ledger data.
		a.log.Infof("Entering consensus process, watching, synced=%v", synced)
	}

	a.txSets.NewRound(prev.Seq)

	a.mu.Lock()
	a.validating = validating
	a.useRoundedCloseTime = prev.AmendmentEnabled(voting.FeatRoundedCloseTime)
	a.mu.Unlock()

	return validating && synced
}

// AcquireLedger returns the ledger with the given hash if present
// locally. Otherwise it schedules an asynchronous fetch, at most once per
// distinct hash, and reports pending.
func (a *Adaptor) AcquireLedger(h crypto.Digest) (*ledger.Ledger, bool) {
	built := a.lm.GetLedgerByHash(h)
	if built == nil {
		a.mu.Lock()
		if a.acquiringLedger != h {
			a.log.Warnf("Need consensus ledger %v", h)
			a.acquiringLedger = h
			metrics.LedgerFetches.Inc()
			err := a.advance.EnqueueBacklog(context.Background(), func(arg interface{}) interface{} {
				a.inbound.Acquire(arg.(crypto.Digest))
				return nil
			}, h, nil)
			if err != nil {
				a.log.Warnf("could not schedule fetch of ledger %v: %v", h, err)
				a.acquiringLedger = crypto.Digest{}
			}
		}
		a.mu.Unlock()
		return nil, false
	}

	a.txSets.NewRound(built.Seq)
	a.mu.Lock()
	a.useRoundedCloseTime = built.AmendmentEnabled(voting.FeatRoundedCloseTime)
	a.mu.Unlock()
	return built, true
}

// AcquireTxSet returns the locally held set or schedules a fetch through
// the transaction-set store and reports pending.
func (a *Adaptor) AcquireTxSet(id crypto.Digest) (*txset.TxSet, bool) {
	if set := a.txSets.GetSet(id, true); set != nil {
		return set, true
	}
	return nil, false
}

// ShareProposal relays a signed peer position; the position carries its
// own suppression id so recipients can dedupe.
func (a *Adaptor) ShareProposal(pos *PeerPos) {
	a.overlay.Relay(protocol.ProposeSetTag, pos.Encode(), pos.SuppressionID())
}

// ShareTxSet publishes a transaction set to the store and the overlay.
func (a *Adaptor) ShareTxSet(set *txset.TxSet) {
	a.txSets.GiveSet(set.ID(), set, false)
	a.overlay.Broadcast(protocol.TxSetTag, set.Encode())
}

// ShareTx relays a disputed transaction unless the hash router has
// recently seen it.
func (a *Adaptor) ShareTx(id basics.TxID, raw []byte) {
	if !a.router.ShouldRelay(crypto.Digest(id)) {
		a.log.Debugf("Not relaying disputed tx %v", id)
		return
	}
	a.log.Debugf("Relaying disputed tx %v", id)
	a.overlay.Broadcast(protocol.TxnTag, protocol.EncodeReflect(transactionMsg{
		RawTransaction:   raw,
		Status:           TxStatusNew,
		ReceiveTimestamp: uint64(a.tk.Now()),
	}))
}

// Propose signs our position, records the suppression id, and broadcasts.
func (a *Adaptor) Propose(prop Proposal) {
	if prop.BowOut() {
		a.log.Debugf("We propose: bowOut")
	} else {
		a.log.Debugf("We propose: %v", prop.Position)
	}

	pos := &PeerPos{
		Prop:      prop,
		PublicKey: a.keys.PublicKey,
		Signature: a.keys.Secrets.SignDigest(prop.SigningDigest()),
	}
	a.router.AddSuppression(pos.SuppressionID())
	a.overlay.Broadcast(protocol.ProposeSetTag, pos.Encode())
}

// ProposersValidated counts trusted validations for ledger h.
func (a *Adaptor) ProposersValidated(h crypto.Digest) int {
	return a.vals.NumTrustedForLedger(h)
}

// ProposersFinished counts trusted validators already past ledger h on
// the branch containing prev.
func (a *Adaptor) ProposersFinished(prev *ledger.Ledger, h crypto.Digest) int {
	return a.vals.GetNodesAfter(h, prev.Seq)
}

// GetPrevLedger returns the network-preferred previous ledger hash. If it
// diverges from the local one and we are not already in wrong-ledger
// mode, a view change is signalled.
func (a *Adaptor) GetPrevLedger(localID crypto.Digest, local *ledger.Ledger, mode Mode) crypto.Digest {
	netLgr := a.vals.GetPreferred(localID, local.Seq, a.lm.GetValidLedgerIndex())
	if netLgr != localID {
		if mode != ModeWrongLedger {
			a.ops.ConsensusViewChange()
			metrics.ViewChanges.Inc()
		}
		a.log.Debugf("Network preferred ledger %v over local %v", netLgr, localID)
	}
	return netLgr
}

// OnClose opens a new candidate set over the closing ledger: held
// transactions are flushed, the open ledger is snapshotted, flag-ledger
// votes are injected, and the snapshot is registered with the censorship
// detector.
func (a *Adaptor) OnClose(prev *ledger.Ledger, closeTime basics.NetTime, mode Mode) *Result {
	wrongLCL := mode == ModeWrongLedger
	proposing := mode == ModeProposing

	a.notify(EventClosing, prev, !wrongLCL)

	a.open.ApplyHeldTransactions()
	a.lm.SetBuildingLedger(prev.Seq + 1)

	initialSet := txset.New()
	for _, tx := range a.open.Current() {
		a.log.Debugf("Adding open ledger tx %v", tx.ID())
		if err := initialSet.AddItem(tx.ID(), tx.Encode()); err != nil {
			a.log.Errorf("could not add open ledger tx %v: %v", tx.ID(), err)
		}
	}

	if (a.local.Standalone || (proposing && !wrongLCL)) &&
		prev.Seq%a.params.FlagLedgerInterval == 0 {
		vals := a.vals.GetTrustedForLedger(prev.ParentHash)
		if len(vals) >= a.vals.Trusted().Quorum() {
			a.feeVote.DoVoting(prev, vals, initialSet)
			a.amendments.DoVoting(prev, vals, initialSet)
		}
	}

	snap := initialSet.Snapshot()

	if !wrongLCL {
		seq := prev.Seq + 1
		var proposed []TrackedItem[basics.TxID, basics.Seq]
		snap.VisitLeaves(func(id basics.TxID, raw []byte) {
			proposed = append(proposed, TrackedItem[basics.TxID, basics.Seq]{ID: id, Seq: seq})
		})
		a.censorship.Propose(proposed)
	}

	return &Result{
		InitialSet: snap,
		Txns:       snap,
		Position: Proposal{
			PrevLedger: a.open.Parent().ID(),
			ProposeSeq: SeqJoin,
			Position:   snap.ID(),
			CloseTime:  closeTime,
			Time:       a.tk.Now(),
			NodeID:     a.keys.NodeID,
		},
		Disputes: make(map[basics.TxID]*Dispute),
	}
}

// OnAccept schedules the accept work on the accept worker and signals
// end-of-consensus when it completes. The workers do not take the round
// lock.
func (a *Adaptor) OnAccept(result *Result, prev *ledger.Ledger, closeResolution time.Duration, rawCloseTimes CloseTimes, mode Mode, report map[string]interface{}) {
	err := a.accept.EnqueueBacklog(context.Background(), func(interface{}) interface{} {
		a.doAccept(result, prev, closeResolution, rawCloseTimes, mode, report)
		a.ops.EndConsensus()
		return nil
	}, nil, nil)
	if err != nil {
		a.log.Errorf("could not schedule ledger accept: %v", err)
	}
}

// OnForceAccept runs the accept work synchronously, avoiding re-entry
// into the engine's force path.
func (a *Adaptor) OnForceAccept(result *Result, prev *ledger.Ledger, closeResolution time.Duration, rawCloseTimes CloseTimes, mode Mode, report map[string]interface{}) {
	a.doAccept(result, prev, closeResolution, rawCloseTimes, mode, report)
}

// OnModeChange records the transition; leaving proposing or observing
// resets censorship tracking.
func (a *Adaptor) OnModeChange(before, after Mode) {
	a.log.Infof("Consensus mode change before=%v, after=%v", before, after)
	if (before == ModeProposing || before == ModeObserving) && before != after {
		a.censorship.Reset()
	}
	a.mu.Lock()
	a.mode = after
	a.mu.Unlock()
}

// HasOpenTransactions reports whether the open ledger holds anything.
func (a *Adaptor) HasOpenTransactions() bool {
	return !a.open.Empty()
}

// HaveValidated reports whether any ledger is fully validated.
func (a *Adaptor) HaveValidated() bool {
	return a.lm.HaveValidated()
}

// GetValidLedgerIndex returns the newest validated sequence.
func (a *Adaptor) GetValidLedgerIndex() basics.Seq {
	return a.lm.GetValidLedgerIndex()
}

// GetQuorumKeys returns the quorum and the trusted validator keys.
func (a *Adaptor) GetQuorumKeys() (int, map[crypto.PublicKey]struct{}) {
	return a.vals.Trusted().QuorumKeys()
}

// Laggards strips caught-up validators from keys and counts the rest.
func (a *Adaptor) Laggards(seq basics.Seq, keys map[crypto.PublicKey]struct{}) int {
	return a.vals.Laggards(seq, keys)
}

// Validator reports whether this node holds a validator key.
func (a *Adaptor) Validator() bool {
	return !a.keys.PublicKey.IsZero()
}

// notify broadcasts a status change for the given ledger, downgraded to
// lost-sync when the local previous ledger is wrong.
func (a *Adaptor) notify(ne NodeEvent, l *ledger.Ledger, haveCorrectLCL bool) {
	if !haveCorrectLCL {
		ne = EventLostSync
	}
	first, last, ok := a.lm.GetFullValidatedRange()
	if !ok {
		first, last = 0, 0
	} else if ef := a.lm.GetEarliestFetch(); first < ef {
		first = ef
	}
	a.overlay.Broadcast(protocol.StatusChangeTag, protocol.EncodeReflect(statusChangeMsg{
		NewEvent:           ne,
		LedgerSeq:          uint32(l.Seq),
		NetworkTime:        uint32(a.tk.Now()),
		LedgerHashPrevious: l.ParentHash,
		LedgerHash:         l.ID(),
		FirstSeq:           uint32(first),
		LastSeq:            uint32(last),
	}))
	a.log.Debugf("send status change to peer")
}
