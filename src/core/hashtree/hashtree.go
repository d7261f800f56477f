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

// go/src/core/hashtree/hashtree.go
//
// Merkle authentication over one-time-signature leaves. Node hashing is
// domain separated from chain hashing and bound to the key's parameter seed,
// the level, and the parent index, so nodes from different trees, levels or
// positions never collide structurally.
package hashtree

import (
	"errors"

	"github.com/hypercube-core/go/src/core/hasher"
)

// ComputeRoot recomputes the Merkle root from a leaf digest, its index, and
// the bottom-up sibling path. Bit h of leafIndex selects the ordering at
// level h: a set bit means the current node is the right child. The result
// is compared for exact equality against the claimed public key root by the
// caller; a mismatch is an ordinary verification failure, not an error.
func ComputeRoot(leaf [hasher.DigestSize]byte, leafIndex uint32, authPath [][]byte, parameterSeed []byte) [hasher.DigestSize]byte {
	node := leaf
	for h, raw := range authPath {
		var sibling [hasher.DigestSize]byte
		copy(sibling[:], raw)

		parentIndex := leafIndex >> (uint(h) + 1)
		if (leafIndex>>uint(h))&1 == 0 {
			node = hasher.NodeHash(parameterSeed, uint32(h), parentIndex, node, sibling)
		} else {
			node = hasher.NodeHash(parameterSeed, uint32(h), parentIndex, sibling, node)
		}
	}
	return node
}

// Tree is a full Merkle tree over one-time-signature leaves, kept level by
// level so authentication paths can be extracted for any leaf. It exists for
// the signer side and for building test fixtures; verification never needs
// more than ComputeRoot.
type Tree struct {
	height        uint16
	parameterSeed []byte
	levels        [][][hasher.DigestSize]byte // levels[0] is the leaf row
}

// Build constructs a tree of the given height over exactly 2^height leaves.
func Build(leaves [][hasher.DigestSize]byte, height uint16, parameterSeed []byte) (*Tree, error) {
	want := 1 << height
	if len(leaves) != want {
		return nil, errors.New("hashtree: leaf count does not match tree height")
	}

	levels := make([][][hasher.DigestSize]byte, height+1)
	levels[0] = leaves
	for h := uint16(0); h < height; h++ {
		below := levels[h]
		row := make([][hasher.DigestSize]byte, len(below)/2)
		for i := range row {
			row[i] = hasher.NodeHash(parameterSeed, uint32(h), uint32(i), below[2*i], below[2*i+1])
		}
		levels[h+1] = row
	}
	return &Tree{height: height, parameterSeed: parameterSeed, levels: levels}, nil
}

// Root returns the tree root digest.
func (t *Tree) Root() [hasher.DigestSize]byte {
	return t.levels[t.height][0]
}

// AuthPath returns the bottom-up sibling digests for the given leaf index.
func (t *Tree) AuthPath(leafIndex uint32) ([][]byte, error) {
	if int(leafIndex) >= len(t.levels[0]) {
		return nil, errors.New("hashtree: leaf index out of range")
	}
	path := make([][]byte, t.height)
	idx := leafIndex
	for h := uint16(0); h < t.height; h++ {
		sibling := t.levels[h][idx^1]
		out := make([]byte, hasher.DigestSize)
		copy(out, sibling[:])
		path[h] = out
		idx >>= 1
	}
	return path, nil
}
