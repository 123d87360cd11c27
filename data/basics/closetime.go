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

package basics

import "time"

// CloseTimeResolutions are the close-time grid spacings a ledger may use.
// Wider resolutions reduce inter-node disagreement over the close-time
// field at the cost of timestamp precision.
var CloseTimeResolutions = []time.Duration{
	10 * time.Second,
	20 * time.Second,
	30 * time.Second,
	60 * time.Second,
	90 * time.Second,
	120 * time.Second,
}

// RoundCloseTime snaps a close time to the nearest multiple of the
// resolution, rounding half up.
func RoundCloseTime(closeTime NetTime, resolution time.Duration) NetTime {
	res := NetTime(resolution / time.Second)
	if res <= 1 {
		return closeTime
	}
	closeTime += res / 2
	return closeTime - closeTime%res
}

// EffCloseTime returns the effective close time of a ledger: the agreed
// close time snapped to the resolution grid, but always strictly after the
// prior ledger's close time. A null agreed time stays null.
func EffCloseTime(closeTime NetTime, resolution time.Duration, priorCloseTime NetTime) NetTime {
	if closeTime.IsZero() {
		return 0
	}
	rounded := RoundCloseTime(closeTime, resolution)
	if floor := priorCloseTime + 1; rounded < floor {
		return floor
	}
	return rounded
}
