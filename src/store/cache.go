// MIT License
//
// # Copyright (c) 2024 hypercube-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/store/cache.go
//
// In-memory TTL cache of verification outcomes, keyed by a digest of the
// encoded batch. Verification is deterministic for a given batch, so a cached
// outcome can be served for repeated batch bytes without re-running the
// chains. Keys are HighwayHash digests under a per-process random key, which
// keeps map keys fixed-size and makes the key layout unpredictable to
// callers.
package store

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"hash"
	"sync"
	"time"

	"github.com/minio/highwayhash"

	"github.com/hypercube-core/go/src/core/types"
)

// Key is a fixed-size cache key derived from a 32-byte batch digest.
type Key struct {
	v1 uint64
	v2 uint64
	v3 uint64
	v4 uint64
}

type cached struct {
	outcome *types.Outcome
	ttl     time.Time
}

// OutcomeCache is an in-memory key-value store with HighwayHash keys and
// per-entry TTL.
type OutcomeCache struct {
	mu   sync.Mutex
	hash hash.Hash
	data map[Key]*cached
}

// NewOutcomeCache creates a new in-memory outcome cache with a random
// HighwayHash key.
func NewOutcomeCache() *OutcomeCache {
	highwayKey := make([]byte, 32)
	if _, err := rand.Read(highwayKey); err != nil {
		panic(err)
	}
	h, err := highwayhash.New(highwayKey)
	if err != nil {
		panic(err)
	}
	return &OutcomeCache{
		hash: h,
		data: make(map[Key]*cached),
	}
}

// Put stores an outcome under a batch digest with a specified TTL.
func (c *OutcomeCache) Put(digest [32]byte, outcome *types.Outcome, ttlInSeconds uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := time.Now().Add(time.Duration(ttlInSeconds) * time.Second)
	c.data[c.keyFor(digest)] = &cached{outcome: outcome, ttl: ttl}
}

// Get retrieves the outcome cached under a batch digest. Expired
// entries are treated as absent; GC reclaims them.
func (c *OutcomeCache) Get(digest [32]byte) (*types.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.data[c.keyFor(digest)]
	if !ok || rec.ttl.Before(time.Now()) {
		return nil, false
	}
	return rec.outcome, true
}

// Len reports the number of entries, including any not yet collected.
func (c *OutcomeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// GC performs garbage collection on expired entries.
func (c *OutcomeCache) GC() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, rec := range c.data {
		if rec.ttl.Before(now) {
			delete(c.data, key)
		}
	}
}

// RunGC collects expired entries at the given interval until ctx is done.
func (c *OutcomeCache) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.GC()
		}
	}
}

// keyFor computes the cache key for a digest using HighwayHash.
func (c *OutcomeCache) keyFor(digest [32]byte) Key {
	c.hash.Reset()
	if _, err := c.hash.Write(digest[:]); err != nil {
		panic(err)
	}
	sum := c.hash.Sum(nil)
	if len(sum) != 32 {
		panic("unexpected digest length")
	}
	codec := binary.BigEndian
	return Key{
		v1: codec.Uint64(sum),
		v2: codec.Uint64(sum[8:]),
		v3: codec.Uint64(sum[16:]),
		v4: codec.Uint64(sum[24:]),
	}
}
