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

// Package timekeeper estimates network time: the local clock plus a close
// offset adjusted once per accepted round from peer close-time votes.
package timekeeper

import (
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/util/sclock"
)

// Keeper tracks the local estimate of network time.
type Keeper struct {
	mu          deadlock.Mutex
	clock       *sclock.Service
	closeOffset time.Duration
}

// MakeKeeper creates a Keeper reading the given seconds clock. A nil
// clock uses the process default.
func MakeKeeper(clock *sclock.Service) *Keeper {
	if clock == nil {
		clock = sclock.Default()
	}
	return &Keeper{clock: clock}
}

// Now returns the current network time.
func (k *Keeper) Now() basics.NetTime {
	return basics.NetTimeFromWall(k.clock.Now())
}

// CloseTime returns the close time the node would put in a ledger closing
// now: network time shifted by the estimated close offset.
func (k *Keeper) CloseTime() basics.NetTime {
	k.mu.Lock()
	offset := k.closeOffset
	k.mu.Unlock()
	return k.Now().Add(offset)
}

// AdjustCloseTime folds a new close-offset observation into the estimate
// with a 3/4 decay, so a single outlying round cannot swing it far.
func (k *Keeper) AdjustCloseTime(amount time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.closeOffset = (k.closeOffset*3 + amount) / 4
}

// CloseOffset returns the current close-offset estimate.
func (k *Keeper) CloseOffset() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.closeOffset
}
