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

package ledger

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/basics"
)

// SpecifierKind discriminates the forms a ledger specifier can take.
type SpecifierKind uint8

// The specifier kinds.
const (
	SpecNever SpecifierKind = iota
	SpecAlways
	SpecNow
	SpecAtSeq
	SpecAtHash
)

// Specifier is the parsed form of an operator-supplied ledger reference:
// one of the keywords "never", "always", "now", a decimal sequence
// number, or a 64-digit hex ledger hash.
type Specifier struct {
	Kind SpecifierKind
	Seq  basics.Seq
	Hash crypto.Digest
}

// ErrBadSpecifier reports an unparseable ledger specifier.
var ErrBadSpecifier = errors.New("ledger: bad specifier")

// ParseSpecifier parses an operator-supplied ledger reference. There are
// no implicit fallbacks: a string that is not one of the keywords, a
// decimal number, or a 64-digit hash is an error.
func ParseSpecifier(s string) (Specifier, error) {
	switch strings.ToLower(s) {
	case "never":
		return Specifier{Kind: SpecNever}, nil
	case "always":
		return Specifier{Kind: SpecAlways}, nil
	case "now":
		return Specifier{Kind: SpecNow}, nil
	}
	if len(s) == 2*crypto.DigestSize {
		h, err := crypto.DigestFromString(s)
		if err != nil {
			return Specifier{}, ErrBadSpecifier
		}
		return Specifier{Kind: SpecAtHash, Hash: h}, nil
	}
	seq, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Specifier{}, ErrBadSpecifier
	}
	return Specifier{Kind: SpecAtSeq, Seq: basics.Seq(seq)}, nil
}
