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

package txset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/testpartitioning"
	"github.com/aurumledger/go-aurum/util/execpool"
)

func leaf(i int) (basics.TxID, []byte) {
	raw := []byte(fmt.Sprintf("tx-%d", i))
	return basics.TxID(crypto.Sha512Half(raw)), raw
}

func TestTxSetIdentity(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	a := New()
	b := New()
	for i := 0; i < 10; i++ {
		id, raw := leaf(i)
		require.NoError(t, a.AddItem(id, raw))
	}
	for i := 9; i >= 0; i-- {
		id, raw := leaf(i)
		require.NoError(t, b.AddItem(id, raw))
	}

	// identity does not depend on insertion order
	require.Equal(t, a.Snapshot().ID(), b.Snapshot().ID())

	// identity depends on contents
	id, raw := leaf(100)
	require.NoError(t, b.AddItem(id, raw))
	require.NotEqual(t, a.Snapshot().ID(), b.Snapshot().ID())

	// the empty set has the zero identity
	require.True(t, New().Snapshot().ID().IsZero())
}

func TestTxSetSnapshotImmutable(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	s := New()
	id, raw := leaf(1)
	require.NoError(t, s.AddItem(id, raw))

	snap := s.Snapshot()
	id2, raw2 := leaf(2)
	require.ErrorIs(t, snap.AddItem(id2, raw2), ErrImmutable)

	// the source set stays mutable and does not affect the snapshot
	require.NoError(t, s.AddItem(id2, raw2))
	require.Equal(t, 1, snap.Len())
	require.True(t, snap.Has(id))
	require.False(t, snap.Has(id2))
}

func TestTxSetVisitOrder(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	s := New()
	for i := 0; i < 20; i++ {
		id, raw := leaf(i)
		require.NoError(t, s.AddItem(id, raw))
	}
	snap := s.Snapshot()

	var prev basics.TxID
	first := true
	count := 0
	snap.VisitLeaves(func(id basics.TxID, raw []byte) {
		if !first {
			require.Greater(t, id.String(), prev.String())
		}
		prev = id
		first = false
		count++
	})
	require.Equal(t, 20, count)
}

func TestTxSetEncodeDecode(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	s := New()
	for i := 0; i < 5; i++ {
		id, raw := leaf(i)
		require.NoError(t, s.AddItem(id, raw))
	}
	snap := s.Snapshot()

	dec, err := Decode(snap.Encode())
	require.NoError(t, err)
	require.Equal(t, snap.ID(), dec.ID())
	require.Equal(t, snap.Len(), dec.Len())

	// tampering with a leaf breaks the claimed identity
	tampered := snap.Encode()
	tampered[len(tampered)-1] ^= 0xff
	_, err = Decode(tampered)
	require.Error(t, err)
}

type countingFetcher struct {
	ch chan crypto.Digest
}

func (f *countingFetcher) FetchTxSet(id crypto.Digest) {
	f.ch <- id
}

func TestStoreFetchOnce(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	pool := execpool.MakeBacklog(nil, 4, execpool.HighPriority, t)
	defer pool.Shutdown()

	fetcher := &countingFetcher{ch: make(chan crypto.Digest, 16)}
	store := MakeStore(log, fetcher, pool)
	store.NewRound(5)

	var want crypto.Digest
	crypto.RandBytes(want[:])

	// first miss schedules a fetch
	require.Nil(t, store.GetSet(want, true))
	require.Equal(t, want, <-fetcher.ch)

	// repeated misses do not schedule another
	require.Nil(t, store.GetSet(want, true))
	require.Nil(t, store.GetSet(want, false))
	select {
	case got := <-fetcher.ch:
		t.Fatalf("unexpected second fetch of %v", got)
	default:
	}

	// the set arriving satisfies later queries
	src := New()
	id, raw := leaf(1)
	require.NoError(t, src.AddItem(id, raw))
	snap := src.Snapshot()
	store.GiveSet(snap.ID(), snap, true)
	require.Equal(t, snap, store.GetSet(snap.ID(), false))
}

func TestStoreRejectsMismatchedSet(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	pool := execpool.MakeBacklog(nil, 4, execpool.HighPriority, t)
	defer pool.Shutdown()
	store := MakeStore(log, &countingFetcher{ch: make(chan crypto.Digest, 1)}, pool)

	src := New()
	id, raw := leaf(1)
	require.NoError(t, src.AddItem(id, raw))
	snap := src.Snapshot()

	var bogus crypto.Digest
	crypto.RandBytes(bogus[:])
	store.GiveSet(bogus, snap, true)
	require.Nil(t, store.GetSet(bogus, false))
}

func TestStorePrunesOldRounds(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	pool := execpool.MakeBacklog(nil, 4, execpool.HighPriority, t)
	defer pool.Shutdown()
	store := MakeStore(log, &countingFetcher{ch: make(chan crypto.Digest, 1)}, pool)

	store.NewRound(5)
	src := New()
	id, raw := leaf(1)
	require.NoError(t, src.AddItem(id, raw))
	snap := src.Snapshot()
	store.GiveSet(snap.ID(), snap, false)

	// the set survives the next round, where the lookup refreshes it,
	// and is pruned two rounds after that
	store.NewRound(6)
	require.NotNil(t, store.GetSet(snap.ID(), false))
	store.NewRound(8)
	require.Nil(t, store.GetSet(snap.ID(), false))
}
