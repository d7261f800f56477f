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

// go/src/core/wots/chain.go
package wots

import (
	"github.com/hypercube-core/go/src/core/hasher"
)

// Advance applies the chain hash n times to value.
func Advance(value [hasher.DigestSize]byte, n uint32) [hasher.DigestSize]byte {
	for i := uint32(0); i < n; i++ {
		value = hasher.ChainStep(value)
	}
	return value
}

// ChainEnd recomputes the public chain end for a disclosed lane value.
// stepsTaken is the number of hash applications the signer already performed;
// the verifier advances the value the remaining (w-1-stepsTaken) steps to the
// maximum chain position.
func ChainEnd(value [hasher.DigestSize]byte, stepsTaken uint16, w uint16) [hasher.DigestSize]byte {
	if stepsTaken >= w {
		// Step counts come from the vertex encoder and are < w by
		// construction; a larger value means corrupted input, for which
		// the fully-advanced chain cannot match any honest commitment.
		return Advance(value, 0)
	}
	return Advance(value, uint32(w-1-stepsTaken))
}

// ChainEnds recomputes all lane ends for a signature's disclosed values.
// values and steps must have equal length; the caller validates lane counts
// before calling.
func ChainEnds(values [][]byte, steps []uint16, w uint16) [][hasher.DigestSize]byte {
	ends := make([][hasher.DigestSize]byte, len(values))
	for i, raw := range values {
		var v [hasher.DigestSize]byte
		copy(v[:], raw)
		ends[i] = ChainEnd(v, steps[i], w)
	}
	return ends
}

// LeafFromSignature collapses the recomputed chain ends into the leaf digest
// committed by the signer's Merkle tree.
func LeafFromSignature(values [][]byte, steps []uint16, w uint16) [hasher.DigestSize]byte {
	return hasher.LeafDigest(ChainEnds(values, steps, w))
}
