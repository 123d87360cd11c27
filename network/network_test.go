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

package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/protocol"
	"github.com/aurumledger/go-aurum/testpartitioning"
)

func TestHashRouterSuppression(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	r := MakeHashRouter(16)
	var d crypto.Digest
	crypto.RandBytes(d[:])

	require.False(t, r.Check(d))
	require.True(t, r.AddSuppression(d))
	require.True(t, r.Check(d))
	require.False(t, r.AddSuppression(d))
}

func TestHashRouterShouldRelayOnce(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	r := MakeHashRouter(16)
	var d crypto.Digest
	crypto.RandBytes(d[:])

	require.True(t, r.ShouldRelay(d))
	require.False(t, r.ShouldRelay(d))
	require.False(t, r.ShouldRelay(d))
}

func TestHashRouterRotation(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	const size = 8
	r := MakeHashRouter(size)

	var first crypto.Digest
	crypto.RandBytes(first[:])
	r.AddSuppression(first)

	// one full generation later the entry is still present
	for i := 0; i < size; i++ {
		var d crypto.Digest
		crypto.RandBytes(d[:])
		r.AddSuppression(d)
	}
	require.True(t, r.Check(first))
	require.LessOrEqual(t, r.Len(), 2*size)
}

func TestMsgCacheDedup(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	c := MakeMsgCache(16)
	msg := []byte("propose set payload")

	require.False(t, c.CheckAndPut(msg))
	require.True(t, c.CheckAndPut(msg))

	// a remix keeps the previous generation visible
	c.Remix()
	require.True(t, c.CheckAndPut(msg))

	// two remixes age it out
	c.Remix()
	require.False(t, c.CheckAndPut(msg))
}

func TestMuxRouting(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	log := logging.NewLogger()
	m := MakeMux(log, MakeMsgCache(16))

	var got [][]byte
	m.RegisterHandler(protocol.ProposeSetTag, func(tag protocol.Tag, data []byte, sender Peer) {
		got = append(got, data)
	})

	m.Route(protocol.ProposeSetTag, []byte("one"), nil)
	m.Route(protocol.ProposeSetTag, []byte("one"), nil) // duplicate dropped
	m.Route(protocol.ProposeSetTag, []byte("two"), nil)
	m.Route(protocol.ValidationTag, []byte("ignored"), nil) // no handler

	require.Equal(t, [][]byte{[]byte("one"), []byte("two")}, got)
}
