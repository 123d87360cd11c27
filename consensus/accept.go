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
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/protocol"
	"github.com/aurumledger/go-aurum/util/metrics"
	"github.com/aurumledger/go-aurum/validations"
)

// effCloseTime applies the close-time rule in force: with the rounded
// rule, snap to the grid but stay after the prior close; without it, snap
// only.
func (a *Adaptor) effCloseTime(closeTime basics.NetTime, resolution time.Duration, prior basics.NetTime) basics.NetTime {
	a.mu.Lock()
	rounded := a.useRoundedCloseTime
	a.mu.Unlock()
	if rounded {
		return basics.EffCloseTime(closeTime, resolution, prior)
	}
	return basics.RoundCloseTime(closeTime, resolution)
}

// doAccept turns a round result into the next closed ledger: it decides
// the close time, canonicalizes the agreed set, builds and stores the
// ledger, reconciles censorship tracking, validates, rebuilds the open
// ledger, switches the LCL and submits the close-time offset.
func (a *Adaptor) doAccept(result *Result, prev *ledger.Ledger, closeResolution time.Duration, rawCloseTimes CloseTimes, mode Mode, report map[string]interface{}) {
	proposing := mode == ModeProposing
	haveCorrectLCL := mode != ModeWrongLedger
	consensusFail := result.State == StateMovedOn

	a.mu.Lock()
	a.prevProposers = result.Proposers
	a.prevRoundTime = result.RoundTime
	validating := a.validating
	a.mu.Unlock()

	consensusCloseTime := result.Position.CloseTime
	var closeTimeCorrect bool
	if consensusCloseTime.IsZero() {
		consensusCloseTime = prev.CloseTime.Add(time.Second)
		closeTimeCorrect = false
	} else {
		consensusCloseTime = a.effCloseTime(consensusCloseTime, closeResolution, prev.CloseTime)
		closeTimeCorrect = true
	}

	a.log.Debugf("Report: Prop=%v val=%v corLCL=%v fail=%v",
		proposing, validating, haveCorrectLCL, consensusFail)
	a.log.Debugf("Report: Prev = %v:%d", prev.ID(), prev.Seq)

	failed := make(map[basics.TxID]struct{})
	retriable := transactions.NewCanonicalTxSet(result.Txns.ID())
	a.log.Debugf("Building canonical tx set: %v", retriable.Key())
	result.Txns.VisitLeaves(func(id basics.TxID, raw []byte) {
		tx, err := transactions.Decode(raw)
		if err != nil {
			failed[id] = struct{}{}
			a.log.Warnf("    Tx: %v cannot be parsed: %v", id, err)
			return
		}
		retriable.Insert(tx)
		a.log.Debugf("    Tx: %v", id)
	})

	built := a.buildLCL(prev, retriable, consensusCloseTime, closeTimeCorrect, closeResolution, result.RoundTime, failed)
	a.log.Debugf("Built ledger #%d: %v", built.Seq, built.ID())
	if len(report) > 0 {
		a.log.Debugf("Round report: %s", protocol.EncodeJSON(report))
	}

	a.notify(EventAccepted, built, haveCorrectLCL)

	if haveCorrectLCL && result.State == StateYes {
		var accepted []basics.TxID
		result.Txns.VisitLeaves(func(id basics.TxID, raw []byte) {
			accepted = append(accepted, id)
		})
		// whatever the builder could not apply and left behind is
		// failed as far as tracking is concerned
		for _, id := range retriable.IDs() {
			failed[id] = struct{}{}
		}
		a.censorship.Check(accepted, built.Seq, func(id basics.TxID, since basics.Seq) bool {
			_, bad := failed[id]
			return bad
		})
	}

	if validating {
		validating = a.lm.IsCompatible(built, a.log, "Not validating")
	}
	if validating && !consensusFail && a.vals.CanValidateSeq(built.Seq) {
		a.validate(built, result.Txns, proposing)
		a.log.Infof("CNF Val %v", built.ID())
	} else {
		a.log.Infof("CNF buildLCL %v", built.ID())
	}
	a.mu.Lock()
	a.validating = validating
	a.mu.Unlock()

	// put any transactions we voted NO on back into the pool of
	// retriable transactions, pseudo-transactions excepted
	anyDisputes := false
	for _, d := range result.Disputes {
		if d.OurVote {
			continue
		}
		a.log.Debugf("Test applying disputed transaction that did not get in %v", d.ID)
		tx, err := transactions.Decode(d.Raw)
		if err != nil {
			a.log.Debugf("Failed to apply transaction we voted NO on: %v", err)
			continue
		}
		if tx.Pseudo() {
			continue
		}
		retriable.Insert(tx)
		anyDisputes = true
	}

	applied := make(map[basics.TxID]struct{})
	result.Txns.VisitLeaves(func(id basics.TxID, raw []byte) {
		if _, bad := failed[id]; !bad {
			applied[id] = struct{}{}
		}
	})
	a.open.Accept(a.lm, built, applied, retriable, anyDisputes, a.txq)
	a.ops.ReportFeeChange()

	a.lm.SwitchLCL(built)
	a.lm.SetBuildingLedger(0)
	if got := a.lm.GetClosedLedger().ID(); got != built.ID() {
		a.log.Panicf("closed ledger %v does not match built %v", got, built.ID())
	}
	if got := a.open.Parent().ID(); got != built.ID() {
		a.log.Panicf("open ledger parent %v does not match built %v", got, built.ID())
	}

	metrics.RoundsAccepted.Inc()
	metrics.Proposers.Set(float64(result.Proposers))

	if (mode == ModeProposing || mode == ModeObserving) && !consensusFail {
		a.submitCloseOffset(rawCloseTimes)
	}
}

// submitCloseOffset folds the round's close-time votes into the network
// time estimate: the rounded mean of local and peer close times, weighted
// by vote counts, relative to our own close.
func (a *Adaptor) submitCloseOffset(rawCloseTimes CloseTimes) {
	self := rawCloseTimes.Self
	a.log.Infof("We closed at %d", self)

	closeTotal := uint64(self)
	closeCount := 1
	for t, votes := range rawCloseTimes.Peers {
		a.log.Infof("%d time votes for %d", votes, t)
		closeCount += votes
		closeTotal += uint64(t) * uint64(votes)
	}
	closeTotal += uint64(closeCount / 2)
	closeTotal /= uint64(closeCount)

	offset := time.Duration(int64(closeTotal)-int64(self)) * time.Second
	a.log.Infof("Our close offset is estimated at %v (%d)", offset, closeCount)
	a.tk.AdjustCloseTime(offset)
}

// buildLCL closes the new ledger, preferring an armed replay payload
// whose parent matches, and feeds the result to the fee queue.
func (a *Adaptor) buildLCL(prev *ledger.Ledger, retriable *transactions.CanonicalTxSet, closeTime basics.NetTime, closeTimeCorrect bool, closeResolution time.Duration, roundTime time.Duration, failed map[basics.TxID]struct{}) *ledger.Ledger {
	var built *ledger.Ledger
	if replay := a.lm.ReleaseReplay(); replay != nil && replay.Parent.ID() == prev.ID() {
		built = ledger.BuildFromReplay(replay, a.log)
	} else {
		built = ledger.BuildLedger(prev, retriable, closeTime, closeTimeCorrect, closeResolution, failed, a.log)
	}

	a.txq.ProcessClosedLedger(built, roundTime > a.params.RoundSlowThreshold)

	if a.lm.StoreLedger(built) {
		a.log.Debugf("Consensus built ledger we already had")
	} else if a.inbound.Find(built.ID()) {
		a.log.Debugf("Consensus built ledger we were acquiring")
	} else {
		a.log.Debugf("Consensus built new ledger")
	}
	return built
}

// validate signs and broadcasts a validation for the built ledger.
// Signing times strictly increase; the load fee is included only above
// the base, and fee and amendment votes only on flag ledgers.
func (a *Adaptor) validate(built *ledger.Ledger, txns *txset.TxSet, proposing bool) {
	validationTime := a.tk.CloseTime()
	a.mu.Lock()
	if validationTime <= a.lastValidationTime {
		validationTime = a.lastValidationTime + 1
	}
	a.lastValidationTime = validationTime
	a.mu.Unlock()

	v := &validations.Validation{
		LedgerHash:    built.ID(),
		LedgerSeq:     built.Seq,
		ConsensusHash: txns.ID(),
		SigningTime:   validationTime,
		Full:          proposing,
	}

	fee := a.feeTrack.GetLocalFee()
	if cluster := a.feeTrack.GetClusterFee(); cluster > fee {
		fee = cluster
	}
	if fee > a.feeTrack.GetLoadBase() {
		v.LoadFee = fee
	}

	if (built.Seq+1)%a.params.FlagLedgerInterval == 0 {
		v.BaseFee = a.feeVote.DoValidation(built)
		v.Amendments = a.amendments.DoValidation(built.Amendments)
	}

	v.Sign(a.keys.Secrets)

	blob := v.Encode()
	a.router.AddSuppression(crypto.Sha512Half(blob))
	if err := a.vals.AddValidation(v, "local"); err != nil {
		a.log.Warnf("could not register own validation: %v", err)
	}
	metrics.ValidationsEmitted.Inc()
	a.overlay.Broadcast(protocol.ValidationTag, protocol.EncodeReflect(validationMsg{Validation: blob}))
}
