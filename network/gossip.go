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

// Package network defines the overlay surface the consensus adaptor
// speaks to, together with the message suppression machinery: the hash
// router for content fingerprints and a salted cache deduplicating raw
// inbound messages.
package network

import (
	"github.com/algorand/go-deadlock"

	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/protocol"
)

// Peer is an opaque handle for the remote end of a connection.
type Peer interface{}

// Overlay is the peer-messaging surface. Sends are fire-and-forget.
type Overlay interface {
	// Broadcast sends a message to all connected peers.
	Broadcast(tag protocol.Tag, data []byte)

	// Relay sends a message to every peer that has not already reported
	// the given suppression id.
	Relay(tag protocol.Tag, data []byte, id crypto.Digest)
}

// MessageHandler consumes an inbound overlay message.
type MessageHandler func(tag protocol.Tag, data []byte, sender Peer)

// Mux dispatches inbound overlay messages to per-tag handlers, dropping
// raw duplicates first.
type Mux struct {
	mu       deadlock.RWMutex
	log      logging.Logger
	handlers map[protocol.Tag]MessageHandler
	dedup    *MsgCache
}

// MakeMux creates a Mux deduplicating through the given cache. A nil
// cache disables deduplication.
func MakeMux(log logging.Logger, dedup *MsgCache) *Mux {
	return &Mux{
		log:      log,
		handlers: make(map[protocol.Tag]MessageHandler),
		dedup:    dedup,
	}
}

// RegisterHandler routes messages with the given tag to h.
func (m *Mux) RegisterHandler(tag protocol.Tag, h MessageHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[tag] = h
}

// Route delivers an inbound message to its handler. Duplicate raw
// payloads and unknown tags are dropped.
func (m *Mux) Route(tag protocol.Tag, data []byte, sender Peer) {
	if m.dedup != nil && m.dedup.CheckAndPut(data) {
		m.log.Debugf("dropping duplicate %s message", tag)
		return
	}
	m.mu.RLock()
	h := m.handlers[tag]
	m.mu.RUnlock()
	if h == nil {
		m.log.Warnf("no handler for message tag %s", tag)
		return
	}
	h(tag, data, sender)
}
