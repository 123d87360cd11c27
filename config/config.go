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

// Package config holds node-operator settings and the network protocol
// parameters.
package config

// Local holds the per-node configuration settings, controlled by the node
// operator rather than by the network protocol.
type Local struct {
	// Standalone runs the node without a network: rounds are driven
	// synthetically, the trusted validator list's expiry is not checked,
	// and flag-ledger voting does not depend on proposing.
	Standalone bool

	// BaseLoggerDebugLevel specifies the logging level (0 = panic ..
	// 5 = debug).
	BaseLoggerDebugLevel uint32

	// GossipFanout sets how many peers a broadcast message is sent to.
	GossipFanout int

	// AcceptBacklogSize bounds the queue of pending ledger-accept jobs.
	// Zero uses the execution pool's parallelism.
	AcceptBacklogSize int

	// AdvanceBacklogSize bounds the queue of pending fetch jobs.
	// Zero uses the execution pool's parallelism.
	AdvanceBacklogSize int
}

// DefaultLocal is the default node configuration.
var DefaultLocal = Local{
	BaseLoggerDebugLevel: 4,
	GossipFanout:         4,
}
