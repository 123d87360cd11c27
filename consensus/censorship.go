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
	"github.com/aurumledger/go-aurum/logging"
)

// TrackedItem pairs a tracked id with the sequence it was first proposed
// at.
type TrackedItem[ID comparable, S ~uint32 | ~uint64] struct {
	ID  ID
	Seq S
}

// CensorshipDetector watches transactions the local node has proposed and
// reports, at regular multiples of the warn interval, the ones the
// network keeps leaving out. It only reports; it never retries.
type CensorshipDetector[ID comparable, S ~uint32 | ~uint64] struct {
	log          logging.Logger
	warnInterval S
	tracked      map[ID]S
}

// MakeCensorshipDetector creates a detector warning every warnInterval
// sequences.
func MakeCensorshipDetector[ID comparable, S ~uint32 | ~uint64](log logging.Logger, warnInterval S) *CensorshipDetector[ID, S] {
	return &CensorshipDetector[ID, S]{
		log:          log,
		warnInterval: warnInterval,
		tracked:      make(map[ID]S),
	}
}

// Propose records each item as tracked since its sequence, unless already
// tracked.
func (c *CensorshipDetector[ID, S]) Propose(items []TrackedItem[ID, S]) {
	for _, item := range items {
		if _, ok := c.tracked[item.ID]; !ok {
			c.tracked[item.ID] = item.Seq
		}
	}
}

// Check reconciles the tracker against a closed ledger: ids in accepted
// are dropped as included, ids for which pred returns true are dropped as
// failed, and anything still tracked for a positive multiple of the warn
// interval produces a warning.
func (c *CensorshipDetector[ID, S]) Check(accepted []ID, curr S, pred func(id ID, since S) bool) {
	for _, id := range accepted {
		delete(c.tracked, id)
	}
	for id, since := range c.tracked {
		if pred != nil && pred(id, since) {
			delete(c.tracked, id)
			continue
		}
		if wait := curr - since; wait != 0 && wait%c.warnInterval == 0 {
			c.log.Warnf("Potential Censorship: Eligible tx %v, which we are tracking since ledger %d has not been included as of ledger %d.",
				id, since, curr)
		}
	}
}

// Reset drops all tracked items. Invoked when the node stops proposing or
// observing.
func (c *CensorshipDetector[ID, S]) Reset() {
	c.tracked = make(map[ID]S)
}
