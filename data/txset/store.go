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
	"context"

	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/util/execpool"
	"github.com/aurumledger/go-aurum/util/metrics"
)

// Fetcher requests a missing transaction set from peers. Implementations
// send a request on the overlay; the response arrives later via GiveSet.
type Fetcher interface {
	FetchTxSet(id crypto.Digest)
}

// Store holds candidate transaction sets by identity and fetches missing
// sets from peers on demand. Sets from rounds older than the previous one
// are pruned when a new round begins.
type Store struct {
	mu      deadlock.Mutex
	log     logging.Logger
	fetcher Fetcher
	pool    execpool.BacklogPool

	seq       basics.Seq
	sets      map[crypto.Digest]*setEntry
	acquiring map[crypto.Digest]struct{}
}

type setEntry struct {
	set *TxSet
	seq basics.Seq
}

// MakeStore creates a Store scheduling fetches on the given backlog pool.
func MakeStore(log logging.Logger, fetcher Fetcher, pool execpool.BacklogPool) *Store {
	return &Store{
		log:       log,
		fetcher:   fetcher,
		pool:      pool,
		sets:      make(map[crypto.Digest]*setEntry),
		acquiring: make(map[crypto.Digest]struct{}),
	}
}

// NewRound tells the store a round with the given parent sequence began.
// Outstanding fetches are forgotten and sets older than the previous
// round are pruned.
func (s *Store) NewRound(seq basics.Seq) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = seq
	s.acquiring = make(map[crypto.Digest]struct{})
	for id, e := range s.sets {
		if e.seq+1 < seq {
			delete(s.sets, id)
		}
	}
}

// GetSet returns the set with the given identity if held locally. If it is
// missing and acquire is set, a fetch is scheduled, at most once per
// identity per round.
func (s *Store) GetSet(id crypto.Digest, acquire bool) *TxSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sets[id]; ok {
		e.seq = s.seq
		return e.set
	}
	if !acquire {
		return nil
	}
	if _, ok := s.acquiring[id]; ok {
		return nil
	}
	s.acquiring[id] = struct{}{}
	metrics.TxSetFetches.Inc()
	s.log.Debugf("txset store: fetching set %v", id)
	err := s.pool.EnqueueBacklog(context.Background(), func(arg interface{}) interface{} {
		s.fetcher.FetchTxSet(arg.(crypto.Digest))
		return nil
	}, id, nil)
	if err != nil {
		s.log.Warnf("txset store: could not schedule fetch of %v: %v", id, err)
		delete(s.acquiring, id)
	}
	return nil
}

// GiveSet stores a snapshotted set under its identity. fromPeer marks sets
// that arrived from the overlay rather than from the local round.
func (s *Store) GiveSet(id crypto.Digest, set *TxSet, fromPeer bool) {
	if set == nil || set.ID() != id {
		s.log.Warnf("txset store: refusing set with mismatched identity %v", id)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.acquiring, id)
	if _, ok := s.sets[id]; !ok {
		s.sets[id] = &setEntry{set: set, seq: s.seq}
		if fromPeer {
			s.log.Debugf("txset store: acquired set %v from peer", id)
		}
	}
}
