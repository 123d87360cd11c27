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

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurumledger/go-aurum/testpartitioning"
)

func TestLevelFiltering(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewLogger()
	log.SetOutput(buf)
	log.SetLevel(Warn)

	log.Debugf("hidden %d", 1)
	log.Infof("hidden %d", 2)
	log.Warnf("shown %d", 3)
	log.Errorf("shown %d", 4)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown 3")
	require.Contains(t, out, "shown 4")

	require.True(t, log.IsLevelEnabled(Warn))
	require.False(t, log.IsLevelEnabled(Info))
}

func TestWithFields(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewLogger()
	log.SetOutput(buf)
	log.SetLevel(Info)

	log.With("round", 17).Infof("closing ledger")
	require.Contains(t, buf.String(), "round=17")

	buf.Reset()
	log.WithFields(Fields{"seq": 9}).Warn("behind")
	require.Contains(t, buf.String(), "seq=9")
}

func TestSourceAnnotation(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewLogger()
	log.SetOutput(buf)
	log.SetLevel(Info)

	log.Infof("whereami")
	require.Contains(t, buf.String(), "log_test.go")
}

func TestJSONFormatter(t *testing.T) {
	testpartitioning.PartitionTest(t)
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewLogger()
	log.SetOutput(buf)
	log.SetLevel(Info)
	log.SetJSONFormatter()

	log.Infof("hello json")
	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "{"))
	require.Contains(t, line, `"msg":"hello json"`)
}

func TestBaseLogger(t *testing.T) {
	testpartitioning.PartitionTest(t)

	require.NotNil(t, Base())
}
