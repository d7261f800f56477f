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

// go/src/core/types/types.go
package types

import (
	"encoding/binary"

	"github.com/hypercube-core/go/src/core/hasher"
)

// Parameters fixes the vertex-encoding and tree geometry for a verification
// run. Every per-lane step count produced by the encoder lies in [0, W-1] and
// the lane step counts sum to exactly D0.
type Parameters struct {
	W            uint16 `json:"w"`             // chain length parameter, >= 2
	V            uint16 `json:"v"`             // number of one-time-signature lanes, >= 1
	D0           uint32 `json:"d0"`            // target layer weight, in [0, V*(W-1)]
	SecurityBits uint16 `json:"security_bits"` // claimed security level
	TreeHeight   uint16 `json:"tree_height"`   // Merkle tree height
}

// PublicKey is the flat wire form of a one-time-signature-tree public key.
type PublicKey struct {
	Root          []byte `json:"root"`           // 32-byte Merkle root
	ParameterSeed []byte `json:"parameter_seed"` // 32-byte hashing domain seed
}

// Signature is the flat wire form of a single XMSS-family signature. It is
// created once by the signer and never mutated; logical reuse across epochs
// is the security violation the epoch window exists to make detectable.
type Signature struct {
	LeafIndex   uint32   `json:"leaf_index"`
	Randomness  []byte   `json:"randomness"`   // 32 bytes
	ChainValues [][]byte `json:"chain_values"` // V partially-advanced lane values, 32 bytes each
	AuthPath    [][]byte `json:"auth_path"`    // TreeHeight bottom-up sibling digests, 32 bytes each
}

// Statement is the public claim a batch is verified against: the expected
// signature count, the epoch, the common message digest, and the ordered
// public keys. MessageDigest is always a fixed-size digest regardless of the
// original message length.
type Statement struct {
	K             uint32      `json:"k"`
	Epoch         uint64      `json:"epoch"`
	MessageDigest []byte      `json:"message_digest"` // 32 bytes
	PublicKeys    []PublicKey `json:"public_keys"`
}

// VerificationBatch is the unit submitted to the batch verifier. The verifier
// borrows it read-only; a signature count that disagrees with the statement's
// public key list is rejected, never tolerated.
type VerificationBatch struct {
	Params     Parameters  `json:"params"`
	Statement  Statement   `json:"statement"`
	Signatures []Signature `json:"signatures"`
}

// Outcome is the public result of verifying a structurally valid batch.
// It is produced even when some or all signatures fail.
type Outcome struct {
	AllValid      bool     `json:"all_valid"`
	VerifiedCount uint32   `json:"verified_count"`
	Commitment    [32]byte `json:"commitment"`
}

// EpochWindow is the active-epoch range attached to a secret key at
// generation. A signing or verification request at epoch e is well-formed
// only if ActivationEpoch <= e < ActivationEpoch + NumActiveEpochs.
type EpochWindow struct {
	ActivationEpoch uint32 `json:"activation_epoch"`
	NumActiveEpochs uint32 `json:"num_active_epochs"`
}

// Commitment computes the statement commitment:
//
//	H(k_le32 || epoch_le64 || len(m)_le32 || m || len(pks)_le32 || (root || seed)*)
//
// It is a pure function of the statement and does not depend on whether
// verification passed, so a failed batch binds to the same commitment a
// successful one would.
func (s *Statement) Commitment() [32]byte {
	buf := make([]byte, 0, 4+8+4+len(s.MessageDigest)+4+len(s.PublicKeys)*64)
	buf = binary.LittleEndian.AppendUint32(buf, s.K)
	buf = binary.LittleEndian.AppendUint64(buf, s.Epoch)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.MessageDigest)))
	buf = append(buf, s.MessageDigest...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.PublicKeys)))
	for _, pk := range s.PublicKeys {
		buf = append(buf, pk.Root...)
		buf = append(buf, pk.ParameterSeed...)
	}
	return hasher.Sum256(buf)
}

// PublicWords lays the outcome out as the ten little-endian uint32 words a
// downstream consumer receives: one bool-as-uint32, one count, and eight
// commitment words.
func (o *Outcome) PublicWords() [10]uint32 {
	var words [10]uint32
	if o.AllValid {
		words[0] = 1
	}
	words[1] = o.VerifiedCount
	for i := 0; i < 8; i++ {
		words[2+i] = binary.LittleEndian.Uint32(o.Commitment[i*4 : (i+1)*4])
	}
	return words
}

// Lifetime returns the number of one-time keys in a tree of the configured
// height.
func (p Parameters) Lifetime() uint32 {
	return uint32(1) << p.TreeHeight
}
