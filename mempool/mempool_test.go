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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/testpartitioning"
)

func payment(account byte, seq uint32, fee uint64) transactions.Tx {
	var addr transactions.Address
	addr[0] = account
	return transactions.Tx{Kind: transactions.KindPayment, Account: addr, Sequence: seq, Fee: fee}
}

func buildChild(t *testing.T, parent *ledger.Ledger) *ledger.Ledger {
	t.Helper()
	var key crypto.Digest
	crypto.RandBytes(key[:])
	txs := transactions.NewCanonicalTxSet(key)
	return ledger.BuildLedger(parent, txs, parent.CloseTime+10, true, 10*time.Second,
		map[basics.TxID]struct{}{}, logging.NewLogger())
}

func TestOpenLedgerHeld(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	genesis := ledger.Genesis(1000)
	o := MakeOpenLedger(log, genesis)
	require.True(t, o.Empty())
	require.Equal(t, genesis, o.Parent())

	o.AddHeld(payment(1, 1, 10))
	require.True(t, o.Empty())
	o.ApplyHeldTransactions()
	require.False(t, o.Empty())
	require.Len(t, o.Current(), 1)
}

func TestOpenLedgerAcceptRebuild(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	genesis := ledger.Genesis(1000)
	lm := ledger.MakeMaster(log, genesis)
	o := MakeOpenLedger(log, genesis)
	txq := MakeTxQ(log, 0)

	included := payment(1, 1, 10)
	pending := payment(2, 1, 10)
	o.Submit(included)
	o.Submit(pending)

	retried := payment(3, 1, 10)
	var key crypto.Digest
	crypto.RandBytes(key[:])
	retriable := transactions.NewCanonicalTxSet(key)
	retriable.Insert(retried)

	built := buildChild(t, genesis)
	applied := map[basics.TxID]struct{}{included.ID(): {}}
	o.Accept(lm, built, applied, retriable, true, txq)

	require.Equal(t, built, o.Parent())
	current := o.Current()
	require.Len(t, current, 2)
	ids := map[basics.TxID]bool{}
	for _, tx := range current {
		ids[tx.ID()] = true
	}
	require.True(t, ids[pending.ID()])
	require.True(t, ids[retried.ID()])
	require.False(t, ids[included.ID()])
}

func TestTxQSlowRounds(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	genesis := ledger.Genesis(1000)
	built := buildChild(t, genesis)
	q := MakeTxQ(log, 0)

	require.Equal(t, uint64(1), q.FeeMultiplier())
	q.ProcessClosedLedger(built, true)
	require.Equal(t, uint64(2), q.FeeMultiplier())
	q.ProcessClosedLedger(built, true)
	require.Equal(t, uint64(4), q.FeeMultiplier())
	q.ProcessClosedLedger(built, false)
	require.Equal(t, uint64(2), q.FeeMultiplier())
	q.ProcessClosedLedger(built, false)
	q.ProcessClosedLedger(built, false)
	require.Equal(t, uint64(1), q.FeeMultiplier())
}

func TestTxQEscalationDropsCheapTxs(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	genesis := ledger.Genesis(1000)
	lm := ledger.MakeMaster(log, genesis)
	o := MakeOpenLedger(log, genesis)
	q := MakeTxQ(log, 0)

	built := buildChild(t, genesis)
	q.ProcessClosedLedger(built, true) // doubles the floor

	cheap := payment(1, 1, built.BaseFee)
	rich := payment(2, 1, built.BaseFee*2)
	o.Submit(cheap)
	o.Submit(rich)

	var key crypto.Digest
	crypto.RandBytes(key[:])
	o.Accept(lm, built, map[basics.TxID]struct{}{}, transactions.NewCanonicalTxSet(key), false, q)

	current := o.Current()
	require.Len(t, current, 1)
	require.Equal(t, rich.ID(), current[0].ID())
}

func TestTxQSizeCap(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	genesis := ledger.Genesis(1000)
	lm := ledger.MakeMaster(log, genesis)
	o := MakeOpenLedger(log, genesis)
	q := MakeTxQ(log, 3)

	for i := byte(1); i <= 6; i++ {
		o.Submit(payment(i, 1, uint64(10+i)))
	}

	built := buildChild(t, genesis)
	var key crypto.Digest
	crypto.RandBytes(key[:])
	o.Accept(lm, built, map[basics.TxID]struct{}{}, transactions.NewCanonicalTxSet(key), false, q)

	current := o.Current()
	require.Len(t, current, 3)
	for _, tx := range current {
		// the three highest fees survive
		require.GreaterOrEqual(t, tx.Fee, uint64(14))
	}
}

func TestFeeTrack(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	f := MakeFeeTrack()
	require.Equal(t, f.GetLoadBase(), f.GetLocalFee())
	require.Equal(t, f.GetLoadBase(), f.GetClusterFee())

	f.SetLocalFee(512)
	f.SetClusterFee(300)
	require.Equal(t, uint32(512), f.GetLocalFee())
	require.Equal(t, uint32(300), f.GetClusterFee())
}
