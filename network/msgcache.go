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
	"context"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/algorand/go-deadlock"
	"golang.org/x/crypto/blake2b"

	"github.com/aurumledger/go-aurum/crypto"
)

// MsgCache is a rotating cache of raw message fingerprints with a
// rotating salt, so peers cannot craft payloads that collide with other
// peers' traffic. It keeps up to 2*N fingerprints in memory.
type MsgCache struct {
	cur  map[crypto.Digest]struct{}
	prev map[crypto.Digest]struct{}

	curSalt  [4]byte
	prevSalt [4]byte

	maxSize int
	mu      deadlock.Mutex
	wg      sync.WaitGroup
	ctx     context.Context
}

// MakeMsgCache creates a salted cache of the given generation size.
func MakeMsgCache(size int) *MsgCache {
	c := &MsgCache{
		cur:     map[crypto.Digest]struct{}{},
		maxSize: size,
	}
	c.moreSalt()
	return c
}

// Start begins salt rotation on the given interval. A zero interval
// disables scheduled rotation.
func (c *MsgCache) Start(ctx context.Context, refreshInterval time.Duration) {
	c.ctx = ctx
	if refreshInterval != 0 {
		c.wg.Add(1)
		go c.salter(refreshInterval)
	}
}

// WaitForStop blocks until the salter goroutine exits.
func (c *MsgCache) WaitForStop() {
	c.wg.Wait()
}

// salter is a goroutine refreshing the cache by schedule
func (c *MsgCache) salter(refreshInterval time.Duration) {
	ticker := time.NewTicker(refreshInterval)
	defer c.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Remix()
		case <-c.ctx.Done():
			return
		}
	}
}

// moreSalt updates salt value used for hashing
// locking semantic: write lock must be held
func (c *MsgCache) moreSalt() {
	var b [8]byte
	crypto.RandBytes(b[:])
	r := uint32(binary.LittleEndian.Uint64(b[:]) % math.MaxUint32)
	binary.LittleEndian.PutUint32(c.curSalt[:], r)
}

// Remix rotates the cache pages and the salt, called on schedule.
func (c *MsgCache) Remix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.innerSwap()
}

// locking semantic: write lock must be held
func (c *MsgCache) innerSwap() {
	c.prevSalt = c.curSalt
	c.prev = c.cur
	c.cur = map[crypto.Digest]struct{}{}
	c.moreSalt()
}

// CheckAndPut adds msg to the cache if its fingerprint is not already
// present, and reports whether it was.
func (c *MsgCache) CheckAndPut(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := saltedDigest(msg, c.curSalt)
	if _, found := c.cur[d]; found {
		return true
	}
	pd := saltedDigest(msg, c.prevSalt)
	if _, found := c.prev[pd]; found {
		return true
	}

	if len(c.cur) >= c.maxSize {
		c.innerSwap()
		d = saltedDigest(msg, c.curSalt)
	}
	c.cur[d] = struct{}{}
	return false
}

// Len returns size of the cache
func (c *MsgCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cur) + len(c.prev)
}

func saltedDigest(msg []byte, salt [4]byte) crypto.Digest {
	toBeHashed := make([]byte, 0, len(msg)+len(salt))
	toBeHashed = append(toBeHashed, msg...)
	toBeHashed = append(toBeHashed, salt[:]...)
	return crypto.Digest(blake2b.Sum256(toBeHashed))
}
