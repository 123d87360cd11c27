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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/testpartitioning"
)

func warnCountingDetector() (*CensorshipDetector[string, basics.Seq], *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logging.NewLogger()
	log.SetOutput(buf)
	return MakeCensorshipDetector[string, basics.Seq](log, 15), buf
}

func warnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "Potential Censorship")
}

func TestCensorshipWarnsAtIntervalMultiples(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	d, buf := warnCountingDetector()
	d.Propose([]TrackedItem[string, basics.Seq]{{ID: "tx", Seq: 10}})

	for curr := basics.Seq(11); curr <= 70; curr++ {
		d.Check(nil, curr, nil)
	}
	// multiples of 15 since tracking: 25, 40, 55, 70
	require.Equal(t, 4, warnings(buf))
}

func TestCensorshipDropsIncluded(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	d, buf := warnCountingDetector()
	d.Propose([]TrackedItem[string, basics.Seq]{{ID: "tx", Seq: 10}})

	d.Check([]string{"tx"}, 25, nil)
	d.Check(nil, 40, nil)
	require.Zero(t, warnings(buf))
}

func TestCensorshipDropsPredicateFailed(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	d, buf := warnCountingDetector()
	d.Propose([]TrackedItem[string, basics.Seq]{
		{ID: "failed", Seq: 10},
		{ID: "eligible", Seq: 10},
	})

	failed := func(id string, since basics.Seq) bool { return id == "failed" }
	d.Check(nil, 25, failed)
	require.Equal(t, 1, warnings(buf))

	// the failed one is gone for good
	d.Check(nil, 40, nil)
	require.Equal(t, 2, warnings(buf))
}

func TestCensorshipProposeIsIdempotent(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	d, buf := warnCountingDetector()
	d.Propose([]TrackedItem[string, basics.Seq]{{ID: "tx", Seq: 10}})
	// a later round re-proposing the same tx keeps the original sequence
	d.Propose([]TrackedItem[string, basics.Seq]{{ID: "tx", Seq: 20}})

	d.Check(nil, 25, nil)
	require.Equal(t, 1, warnings(buf))
}

func TestCensorshipReset(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	d, buf := warnCountingDetector()
	d.Propose([]TrackedItem[string, basics.Seq]{{ID: "tx", Seq: 10}})
	d.Reset()
	d.Check(nil, 25, nil)
	require.Zero(t, warnings(buf))
}
