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

// Tag represents a message type identifier.  Messages have a Tag field. Handlers can register to a given Tag.
// e.g., the consensus adaptor registers to handle peer positions with the ProposeSet tag.
type Tag string

// Tags, in lexicographic sort order of tag values to avoid duplicates.
const (
	UnknownMsgTag   Tag = "??"
	GetTxSetTag     Tag = "GS"
	ProposeSetTag   Tag = "PS"
	StatusChangeTag Tag = "SC"
	TxSetTag        Tag = "TS"
	TxnTag          Tag = "TX"
	ValidationTag   Tag = "VL"
)
