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

package voting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/data/transactions"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/testpartitioning"
	"github.com/aurumledger/go-aurum/validations"
)

func decodeLeaves(t *testing.T, set *txset.TxSet) []transactions.Tx {
	t.Helper()
	var out []transactions.Tx
	set.Snapshot().VisitLeaves(func(id basics.TxID, raw []byte) {
		tx, err := transactions.Decode(raw)
		require.NoError(t, err)
		out = append(out, tx)
	})
	return out
}

func TestFeatureIDStable(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	require.Equal(t, FeatureID("RoundedCloseTime"), FeatRoundedCloseTime)
	require.NotEqual(t, FeatureID("A"), FeatureID("B"))
}

func TestAmendmentTableSupport(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	tbl := MakeAmendmentTable(logging.NewLogger(), []string{"MultiSign"})
	require.True(t, tbl.Supports(FeatRoundedCloseTime))
	require.True(t, tbl.Supports(FeatureID("MultiSign")))
	require.False(t, tbl.Supports(FeatureID("Unknown")))

	var strange crypto.Digest
	crypto.RandBytes(strange[:])
	require.False(t, tbl.HasUnsupported([]crypto.Digest{FeatRoundedCloseTime}))
	require.True(t, tbl.HasUnsupported([]crypto.Digest{strange}))
}

func TestAmendmentVoting(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	tbl := MakeAmendmentTable(log, nil)
	parent := ledger.Genesis(1000)

	// with no validations, local support decides
	set := txset.New()
	tbl.DoVoting(parent, nil, set)
	leaves := decodeLeaves(t, set)
	require.Len(t, leaves, 1)
	require.Equal(t, transactions.KindEnableAmendment, leaves[0].Kind)
	require.Equal(t, FeatRoundedCloseTime[:], []byte(leaves[0].Note))

	// no vote for an amendment already enabled
	enabled := ledger.BuildLedger(parent, transactions.NewCanonicalTxSet(crypto.Digest{}),
		1010, true, parent.CloseTimeResolution, map[basics.TxID]struct{}{}, log)
	// enact manually through a build over a set carrying the vote
	key := crypto.Digest{}
	cts := transactions.NewCanonicalTxSet(key)
	cts.Insert(transactions.Tx{Kind: transactions.KindEnableAmendment, Note: FeatRoundedCloseTime[:]})
	enabled = ledger.BuildLedger(enabled, cts, 1020, true, parent.CloseTimeResolution, map[basics.TxID]struct{}{}, log)
	require.True(t, enabled.AmendmentEnabled(FeatRoundedCloseTime))

	set = txset.New()
	tbl.DoVoting(enabled, nil, set)
	require.Empty(t, decodeLeaves(t, set))
}

func TestAmendmentValidationVotes(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	tbl := MakeAmendmentTable(logging.NewLogger(), nil)
	require.Equal(t, []crypto.Digest{FeatRoundedCloseTime}, tbl.DoValidation(nil))
	require.Empty(t, tbl.DoValidation([]crypto.Digest{FeatRoundedCloseTime}))
}

func TestFeeVoting(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	parent := ledger.Genesis(1000)

	// content with the current fee: no pseudo-transaction
	fv := MakeFeeVote(log, ledger.DefaultBaseFee)
	set := txset.New()
	fv.DoVoting(parent, nil, set)
	require.Empty(t, decodeLeaves(t, set))
	require.Zero(t, fv.DoValidation(parent))

	// a different target injects a set-fee vote
	fv = MakeFeeVote(log, 20)
	set = txset.New()
	fv.DoVoting(parent, nil, set)
	leaves := decodeLeaves(t, set)
	require.Len(t, leaves, 1)
	require.Equal(t, transactions.KindSetFee, leaves[0].Kind)
	require.Equal(t, uint64(20), leaves[0].Fee)
	require.Equal(t, uint64(20), fv.DoValidation(parent))
}

func TestFeeVotingMedian(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	parent := ledger.Genesis(1000)
	fv := MakeFeeVote(log, 20)

	// peer votes drag the median back to the current base fee
	var vals []*validations.Validation
	for i := 0; i < 4; i++ {
		vals = append(vals, &validations.Validation{BaseFee: ledger.DefaultBaseFee})
	}
	set := txset.New()
	fv.DoVoting(parent, vals, set)
	require.Empty(t, decodeLeaves(t, set))
}
