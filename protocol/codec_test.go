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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/testpartitioning"
)

type testObject struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	A uint32   `codec:"a"`
	B string   `codec:"b"`
	C []byte   `codec:"c"`
	D [4]byte  `codec:"d"`
	E []uint64 `codec:"e"`
}

func TestEncodeDecodeReflect(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	obj := testObject{
		A: 42,
		B: "position",
		C: []byte{1, 2, 3},
		D: [4]byte{9, 8, 7, 6},
		E: []uint64{5, 10, 15},
	}
	enc := EncodeReflect(obj)

	var dec testObject
	require.NoError(t, DecodeReflect(enc, &dec))
	require.Equal(t, obj, dec)
}

func TestEncodeCanonical(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	obj := testObject{A: 1, B: "x"}
	first := EncodeReflect(obj)
	for i := 0; i < 16; i++ {
		require.Equal(t, first, EncodeReflect(obj))
	}
}

func TestDecodeGarbage(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	var dec testObject
	require.Error(t, DecodeReflect([]byte("not msgpack at all"), &dec))
}

func TestEncodeJSON(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	obj := testObject{A: 3, B: "hello"}
	enc := EncodeJSON(obj)

	var dec testObject
	require.NoError(t, DecodeJSON(enc, &dec))
	require.Equal(t, obj.A, dec.A)
	require.Equal(t, obj.B, dec.B)
}
