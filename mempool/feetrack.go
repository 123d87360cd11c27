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

package mempool

import (
	"github.com/algorand/go-deadlock"
)

// feeLoadBase is the fee level meaning "no load escalation".
const feeLoadBase = 256

// FeeTrack tracks the load-based fee escalation observed locally and
// reported by cluster peers. Validations advertise a load fee only when
// the tracked fee exceeds the base.
type FeeTrack struct {
	mu         deadlock.Mutex
	localFee   uint32
	clusterFee uint32
}

// MakeFeeTrack creates a FeeTrack at the unloaded base level.
func MakeFeeTrack() *FeeTrack {
	return &FeeTrack{
		localFee:   feeLoadBase,
		clusterFee: feeLoadBase,
	}
}

// GetLoadBase returns the unloaded fee level.
func (f *FeeTrack) GetLoadBase() uint32 {
	return feeLoadBase
}

// GetLocalFee returns the locally observed fee level.
func (f *FeeTrack) GetLocalFee() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localFee
}

// SetLocalFee updates the locally observed fee level.
func (f *FeeTrack) SetLocalFee(fee uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.localFee = fee
}

// GetClusterFee returns the highest fee level reported by cluster peers.
func (f *FeeTrack) GetClusterFee() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clusterFee
}

// SetClusterFee updates the cluster-reported fee level.
func (f *FeeTrack) SetClusterFee(fee uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clusterFee = fee
}
