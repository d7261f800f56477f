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

// go/src/core/tsl/encoder.go
//
// Target-sum-layer vertex encoding. A statement's (message digest, epoch)
// pair is hashed to a 64-bit index which is unranked, in lexicographic order,
// into the unique integer composition of length v with entries in [0, w-1]
// summing to d0. The composition selects how many chain steps each
// one-time-signature lane has already taken.
package tsl

import (
	"github.com/holiman/uint256"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/types"
)

// layerTable is the dynamic-programming counting table for one parameter set:
// count[rem][sum] is the number of compositions of length rem with entries in
// [0, w-1] summing to sum. Counts live in a 256-bit unsigned domain; any
// addition that would overflow it fails the whole table closed.
type layerTable struct {
	w     uint16
	v     uint16
	d0    uint32
	count [][]*uint256.Int
}

// maxTableCells bounds the counting table at 2^20 cells. The largest shipped
// parameter set needs fewer than 2^11; anything past the cap is wire-crafted
// geometry whose only effect would be an enormous allocation.
const maxTableCells = 1 << 20

// newLayerTable builds the counting table for (w, v, d0). It returns a
// ParameterError for degenerate or oversized geometry and an
// EncodingOverflowError when the counting domain cannot represent the layer,
// never a wrapped value.
func newLayerTable(p types.Parameters) (*layerTable, error) {
	if p.W < 2 {
		return nil, &types.ParameterError{Reason: "chain parameter w must be at least 2"}
	}
	if p.V == 0 {
		return nil, &types.ParameterError{Reason: "lane count v must be at least 1"}
	}
	if p.D0 > uint32(p.V)*uint32(p.W-1) {
		return nil, &types.ParameterError{Reason: "target weight d0 exceeds v*(w-1)"}
	}
	if (int64(p.V)+1)*(int64(p.D0)+1) > maxTableCells {
		return nil, &types.ParameterError{Reason: "layer counting table too large"}
	}

	v := int(p.V)
	d0 := int(p.D0)
	count := make([][]*uint256.Int, v+1)
	for rem := 0; rem <= v; rem++ {
		count[rem] = make([]*uint256.Int, d0+1)
		for s := 0; s <= d0; s++ {
			count[rem][s] = uint256.NewInt(0)
		}
	}
	count[0][0] = uint256.NewInt(1)

	maxEntry := int(p.W) - 1
	for rem := 1; rem <= v; rem++ {
		for s := 0; s <= d0; s++ {
			acc := uint256.NewInt(0)
			top := maxEntry
			if s < top {
				top = s
			}
			for x := 0; x <= top; x++ {
				if _, overflow := acc.AddOverflow(acc, count[rem-1][s-x]); overflow {
					return nil, &types.EncodingOverflowError{W: p.W, V: p.V, D0: p.D0}
				}
			}
			count[rem][s] = acc
		}
	}
	return &layerTable{w: p.W, v: p.V, d0: p.D0, count: count}, nil
}

// LayerSize returns the number of length-v compositions with entries in
// [0, w-1] summing to d0.
func LayerSize(p types.Parameters) (*uint256.Int, error) {
	tbl, err := newLayerTable(p)
	if err != nil {
		return nil, err
	}
	return tbl.count[p.V][p.D0], nil
}

// EncodeVertex maps a message digest and epoch to the per-lane step counts.
// The mapping is deterministic: it hashes epoch || message_digest, reads the
// first 8 bytes as a little-endian uint64, reduces modulo the layer size and
// unranks the result. Encoding fails closed on parameter configurations the
// counting domain cannot represent.
func EncodeVertex(messageDigest [hasher.DigestSize]byte, epoch uint64, p types.Parameters) ([]uint16, error) {
	index := hasher.EncodingIndex(messageDigest, epoch)
	return MapToLayer(index, p)
}

// MapToLayer unranks an arbitrary 64-bit index into the layer for p.
func MapToLayer(index uint64, p types.Parameters) ([]uint16, error) {
	tbl, err := newLayerTable(p)
	if err != nil {
		return nil, err
	}
	layerSize := tbl.count[p.V][p.D0]
	if layerSize.IsZero() {
		return nil, &types.ParameterError{Reason: "layer is empty for configured (w, v, d0)"}
	}

	idx := uint256.NewInt(index)
	idx.Mod(idx, layerSize)
	return tbl.unrank(idx), nil
}

// unrank walks the counting table lane by lane, choosing the smallest entry
// whose block still contains idx. idx must already be reduced modulo the
// layer size.
func (t *layerTable) unrank(idx *uint256.Int) []uint16 {
	steps := make([]uint16, 0, t.v)
	sum := int(t.d0)
	maxEntry := int(t.w) - 1
	for rem := int(t.v); rem > 0; rem-- {
		top := maxEntry
		if sum < top {
			top = sum
		}
		chosen := 0
		for x := 0; x <= top; x++ {
			block := t.count[rem-1][sum-x]
			if idx.Lt(block) {
				chosen = x
				break
			}
			idx.Sub(idx, block)
		}
		steps = append(steps, uint16(chosen))
		sum -= chosen
	}
	return steps
}
