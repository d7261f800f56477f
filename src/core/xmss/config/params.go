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

// go/src/core/xmss/config/params.go
package config

import (
	"github.com/hypercube-core/go/src/core/types"
)

// ParameterSet names a fixed scheme instantiation.
type ParameterSet int

const (
	// SHA256H18W4 is SHA-256 with tree height 18 and chain parameter 4.
	// Lifetime 2^18 = 262,144 one-time keys.
	SHA256H18W4 ParameterSet = iota
	// SHA256H18W8 is SHA-256 with tree height 18 and chain parameter 8.
	SHA256H18W8
	// SHA256H20W4 is SHA-256 with tree height 20 and chain parameter 4.
	// Lifetime 2^20 = 1,048,576 one-time keys.
	SHA256H20W4
	// SHA256H4W4 is a short-lifetime instantiation for tests and tooling.
	SHA256H4W4
)

// messageHashLen is the scheme's message-hash length in bytes; together with
// the chain parameter it fixes the lane count v = (messageHashLen*8)/w.
const messageHashLen = 18

// ParameterMetadata describes one parameter set.
type ParameterMetadata struct {
	Name               string `json:"name"`
	Lifetime           uint32 `json:"lifetime"`
	TreeHeight         uint16 `json:"tree_height"`
	ChainParameter     uint16 `json:"chain_parameter"`
	HashFunction       string `json:"hash_function"`
	SignatureSizeBytes int    `json:"signature_size_bytes"`
	PublicKeySizeBytes int    `json:"public_key_size_bytes"`
}

// Metadata returns the metadata of a parameter set.
func (p ParameterSet) Metadata() ParameterMetadata {
	switch p {
	case SHA256H18W8:
		return makeMetadata("SHA256-H18-W8", 18, 8)
	case SHA256H20W4:
		return makeMetadata("SHA256-H20-W4", 20, 4)
	case SHA256H4W4:
		return makeMetadata("SHA256-H4-W4", 4, 4)
	default:
		return makeMetadata("SHA256-H18-W4", 18, 4)
	}
}

// Parameters maps the set onto the encoding parameters used by the vertex
// encoder and batch verifier.
func (p ParameterSet) Parameters() types.Parameters {
	md := p.Metadata()
	return types.Parameters{
		W:            md.ChainParameter,
		V:            laneCount(md.ChainParameter),
		D0:           targetWeight(md.ChainParameter),
		SecurityBits: 128,
		TreeHeight:   md.TreeHeight,
	}
}

// Lifetime returns the number of one-time keys of the set's tree.
func (p ParameterSet) Lifetime() uint32 {
	return uint32(1) << p.Metadata().TreeHeight
}

// Sets returns all named parameter sets.
func Sets() []ParameterSet {
	return []ParameterSet{SHA256H18W4, SHA256H18W8, SHA256H20W4, SHA256H4W4}
}

// ByName resolves a parameter-set name as it appears in metadata.
func ByName(name string) (ParameterSet, error) {
	for _, set := range Sets() {
		if set.Metadata().Name == name {
			return set, nil
		}
	}
	return 0, &types.ParameterError{Reason: "unknown parameter set " + name}
}

func makeMetadata(name string, height, w uint16) ParameterMetadata {
	v := int(laneCount(w))
	return ParameterMetadata{
		Name:           name,
		Lifetime:       uint32(1) << height,
		TreeHeight:     height,
		ChainParameter: w,
		HashFunction:   "SHA-256",
		// leaf_index + randomness + chain values + auth path
		SignatureSizeBytes: 4 + 32 + v*32 + int(height)*32,
		PublicKeySizeBytes: 32 + 32,
	}
}

func laneCount(w uint16) uint16 {
	return uint16(messageHashLen*8) / w
}

// targetWeight is the layer weight used for each chain parameter; the values
// mirror the paired signer's encoding configuration.
func targetWeight(w uint16) uint32 {
	switch w {
	case 1:
		return 8
	case 2:
		return 4
	case 8:
		return 2
	default:
		return 3
	}
}
