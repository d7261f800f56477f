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

// go/src/core/hashtree/hashtree_test.go
package hashtree

import (
	"testing"

	"github.com/hypercube-core/go/src/core/hasher"
)

func testLeaves(n int) [][hasher.DigestSize]byte {
	leaves := make([][hasher.DigestSize]byte, n)
	for i := range leaves {
		leaves[i] = hasher.Sum256([]byte{byte(i)})
	}
	return leaves
}

func TestAuthPathRecomputesRoot(t *testing.T) {
	const height = 3
	seed := []byte("tree-seed-tree-seed-tree-seed-32")
	leaves := testLeaves(1 << height)

	tree, err := Build(leaves, height, seed)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()

	for i := range leaves {
		path, err := tree.AuthPath(uint32(i))
		if err != nil {
			t.Fatalf("AuthPath(%d): %v", i, err)
		}
		if len(path) != height {
			t.Fatalf("AuthPath(%d): got %d siblings, want %d", i, len(path), height)
		}
		if ComputeRoot(leaves[i], uint32(i), path, seed) != root {
			t.Fatalf("leaf %d: recomputed root does not match", i)
		}
	}
}

func TestBuildRejectsWrongLeafCount(t *testing.T) {
	if _, err := Build(testLeaves(7), 3, []byte("seed")); err == nil {
		t.Fatal("Build accepted 7 leaves for a height-3 tree")
	}
	if _, err := Build(testLeaves(16), 3, []byte("seed")); err == nil {
		t.Fatal("Build accepted 16 leaves for a height-3 tree")
	}
}

func TestTamperedPathMisses(t *testing.T) {
	const height = 2
	seed := []byte("another-seed")
	leaves := testLeaves(1 << height)

	tree, err := Build(leaves, height, seed)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path, err := tree.AuthPath(2)
	if err != nil {
		t.Fatalf("AuthPath: %v", err)
	}

	path[1][0] ^= 1
	if ComputeRoot(leaves[2], 2, path, seed) == tree.Root() {
		t.Fatal("tampered sibling still produced the root")
	}
	path[1][0] ^= 1

	// Wrong leaf index reorders the path and must also miss.
	if ComputeRoot(leaves[2], 3, path, seed) == tree.Root() {
		t.Fatal("wrong leaf index still produced the root")
	}
}

func TestSeedBindsTree(t *testing.T) {
	leaves := testLeaves(4)
	a, err := Build(leaves, 2, []byte("seed-a"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(leaves, 2, []byte("seed-b"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Root() == b.Root() {
		t.Fatal("distinct parameter seeds produced the same root")
	}
}

func TestAuthPathOutOfRange(t *testing.T) {
	tree, err := Build(testLeaves(4), 2, []byte("seed"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tree.AuthPath(4); err == nil {
		t.Fatal("AuthPath accepted an out-of-range leaf index")
	}
}
