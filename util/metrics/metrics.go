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

// Package metrics registers the node's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoundsAccepted counts consensus rounds that reached an accepted ledger.
	RoundsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_consensus_rounds_accepted_total",
		Help: "Number of consensus rounds that produced an accepted ledger.",
	})

	// ProposalsReceived counts inbound peer positions handed to the engine.
	ProposalsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_consensus_proposals_received_total",
		Help: "Number of peer proposals delivered to the consensus engine.",
	})

	// ProposalsDropped counts inbound peer positions rejected before the engine.
	ProposalsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_consensus_proposals_dropped_total",
		Help: "Number of peer proposals dropped for bad signatures or suppression.",
	})

	// ValidationsEmitted counts validations signed and broadcast by this node.
	ValidationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_consensus_validations_emitted_total",
		Help: "Number of validations signed by the local validator key.",
	})

	// TxSetFetches counts transaction-set fetches scheduled on the overlay.
	TxSetFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_txset_fetches_total",
		Help: "Number of missing transaction sets requested from peers.",
	})

	// LedgerFetches counts consensus-ledger fetches scheduled on the overlay.
	LedgerFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_ledger_fetches_total",
		Help: "Number of missing consensus ledgers requested from peers.",
	})

	// ViewChanges counts wrong-ledger view changes signalled to network ops.
	ViewChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aurum_consensus_view_changes_total",
		Help: "Number of times the preferred ledger diverged from the local one.",
	})

	// Proposers tracks the proposer count of the last accepted round.
	Proposers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aurum_consensus_proposers",
		Help: "Number of proposers seen in the last accepted consensus round.",
	})
)
