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

package config

import (
	"time"

	"github.com/aurumledger/go-aurum/data/basics"
)

// ProtocolParams specifies settings fixed by the network protocol rather
// than the node operator.
type ProtocolParams struct {
	// FlagLedgerInterval is the spacing of flag ledgers: fee and
	// amendment votes are collected only when the closing ledger's
	// parent sequence is a multiple of this interval.
	FlagLedgerInterval basics.Seq

	// CensorshipWarnInterval is the number of ledgers between censorship
	// warnings for a tracked-but-unincluded transaction.
	CensorshipWarnInterval basics.Seq

	// RoundSlowThreshold is the round duration above which the fee queue
	// treats the closed ledger as slow.
	RoundSlowThreshold time.Duration

	// TrustedQuorumFraction is the fraction of the trusted validator set
	// whose agreement constitutes a quorum.
	TrustedQuorumFraction float64

	// MaxDisallowedLedger is the lowest parent sequence at which the
	// node may validate; an anti-replay guard for freshly started nodes.
	MaxDisallowedLedger basics.Seq
}

// DefaultParams are the protocol parameters of the Aurum main network.
var DefaultParams = ProtocolParams{
	FlagLedgerInterval:     256,
	CensorshipWarnInterval: 15,
	RoundSlowThreshold:     5 * time.Second,
	TrustedQuorumFraction:  0.8,
	MaxDisallowedLedger:    0,
}
