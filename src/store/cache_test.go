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

// go/src/store/cache_test.go
package store

import (
	"testing"
	"time"

	"github.com/hypercube-core/go/src/core/types"
)

func digestOf(fill byte) [32]byte {
	var c [32]byte
	for i := range c {
		c[i] = fill
	}
	return c
}

func TestCachePutGet(t *testing.T) {
	cache := NewOutcomeCache()
	outcome := &types.Outcome{AllValid: true, VerifiedCount: 2, Commitment: digestOf(1)}

	cache.Put(digestOf(1), outcome, 60)
	got, ok := cache.Get(digestOf(1))
	if !ok {
		t.Fatal("cached outcome not found")
	}
	if got != outcome {
		t.Fatal("cache returned a different outcome")
	}
	if _, ok := cache.Get(digestOf(2)); ok {
		t.Fatal("uncached digest found")
	}
	if cache.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", cache.Len())
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewOutcomeCache()
	cache.Put(digestOf(3), &types.Outcome{VerifiedCount: 1}, 60)
	cache.Put(digestOf(3), &types.Outcome{VerifiedCount: 2}, 60)

	got, ok := cache.Get(digestOf(3))
	if !ok || got.VerifiedCount != 2 {
		t.Fatalf("overwrite not visible: %+v", got)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len after overwrite: got %d, want 1", cache.Len())
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewOutcomeCache()
	cache.Put(digestOf(4), &types.Outcome{}, 0)
	time.Sleep(10 * time.Millisecond)

	if _, ok := cache.Get(digestOf(4)); ok {
		t.Fatal("expired entry served")
	}
	// Expired entries linger until collected.
	if cache.Len() != 1 {
		t.Fatalf("Len before GC: got %d, want 1", cache.Len())
	}
	cache.GC()
	if cache.Len() != 0 {
		t.Fatalf("Len after GC: got %d, want 0", cache.Len())
	}
}

func TestCacheGCKeepsLiveEntries(t *testing.T) {
	cache := NewOutcomeCache()
	cache.Put(digestOf(5), &types.Outcome{}, 0)
	cache.Put(digestOf(6), &types.Outcome{VerifiedCount: 6}, 60)
	time.Sleep(10 * time.Millisecond)

	cache.GC()
	if cache.Len() != 1 {
		t.Fatalf("Len after GC: got %d, want 1", cache.Len())
	}
	if _, ok := cache.Get(digestOf(6)); !ok {
		t.Fatal("live entry was collected")
	}
}
