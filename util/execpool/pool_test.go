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

package execpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/testpartitioning"
)

func TestPoolExecutes(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	p := MakePool(t)
	defer p.Shutdown()
	require.Equal(t, t, p.GetOwner())
	require.Greater(t, p.GetParallelism(), 0)

	out := make(chan interface{}, 1)
	err := p.Enqueue(context.Background(), func(arg interface{}) interface{} {
		return arg.(int) * 2
	}, 21, LowPriority, out)
	require.NoError(t, err)
	require.Equal(t, 42, <-out)
}

func TestBacklogExecutes(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 8, HighPriority, t)
	defer bl.Shutdown()

	var count int64
	done := make(chan struct{})
	const jobs = 32
	for i := 0; i < jobs; i++ {
		err := bl.EnqueueBacklog(context.Background(), func(interface{}) interface{} {
			if atomic.AddInt64(&count, 1) == jobs {
				close(done)
			}
			return nil
		}, nil, nil)
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("only %d of %d jobs ran", atomic.LoadInt64(&count), jobs)
	}
}

func TestBacklogShutdownStopsEnqueue(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 1, LowPriority, nil)
	bl.Shutdown()

	err := bl.EnqueueBacklog(context.Background(), func(interface{}) interface{} {
		return nil
	}, nil, nil)
	require.Error(t, err)
}

func TestEnqueueHonorsContext(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 0, LowPriority, nil)
	defer bl.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// fill the buffer with blockers first so the enqueue has to wait
	block := make(chan struct{})
	defer close(block)
	for i := 0; i < bl.GetParallelism()*2+1; i++ {
		bl.EnqueueBacklog(context.Background(), func(interface{}) interface{} {
			<-block
			return nil
		}, nil, nil)
	}

	err := bl.EnqueueBacklog(ctx, func(interface{}) interface{} { return nil }, nil, nil)
	require.Error(t, err)
}
