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

// go/src/core/hypercube/hypercube.go
//
// Hypercube one-time-signature-tree signer. This package plays the signing
// library's role on the trusted side: it generates secret chain material,
// builds the Merkle tree over per-epoch one-time leaves, and discloses
// partially-advanced chain values when signing. Key and signature types are
// opaque: fields are unexported and the stable byte layouts in serialize.go
// are the only interface the wrapper layer sees.
package hypercube

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/sha3"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hashtree"
	"github.com/hypercube-core/go/src/core/tsl"
	"github.com/hypercube-core/go/src/core/types"
)

// PublicKey is the signer-side public key: a Merkle root plus the parameter
// seed that domain-separates node hashing for this key.
type PublicKey struct {
	root          [hasher.DigestSize]byte
	parameterSeed [hasher.DigestSize]byte
}

// SecretKey holds the generation seed, the key's epoch window, and the
// precomputed tree. The epoch window never changes after generation.
type SecretKey struct {
	seed            []byte
	params          types.Parameters
	activationEpoch uint32
	numActiveEpochs uint32
	parameterSeed   [hasher.DigestSize]byte
	tree            *hashtree.Tree
}

// Signature is one disclosed one-time signature: the leaf index (epoch), the
// signing randomness, the partially-advanced lane values and the
// authentication path.
type Signature struct {
	leafIndex   uint32
	randomness  [hasher.DigestSize]byte
	chainValues [][hasher.DigestSize]byte
	authPath    [][]byte
}

// KeyGen derives a key pair deterministically from seed. All 2^tree_height
// one-time leaves are derived, whether or not they fall inside the active
// window, so the root commits to the full lifetime.
func KeyGen(params types.Parameters, seed []byte, activationEpoch, numActiveEpochs uint32) (*PublicKey, *SecretKey, error) {
	if params.W < 2 || params.V == 0 {
		return nil, nil, errors.New("hypercube: invalid chain parameters")
	}
	if params.TreeHeight > 31 {
		return nil, nil, errors.New("hypercube: tree height too large")
	}
	if len(seed) == 0 {
		return nil, nil, errors.New("hypercube: empty seed")
	}
	lifetime := params.Lifetime()
	end := uint64(activationEpoch) + uint64(numActiveEpochs)
	if end > uint64(lifetime) {
		return nil, nil, errors.New("hypercube: epoch window exceeds key lifetime")
	}

	parameterSeed := deriveParameterSeed(seed)
	leaves := make([][hasher.DigestSize]byte, lifetime)
	for e := uint32(0); e < lifetime; e++ {
		ends := make([][hasher.DigestSize]byte, params.V)
		for lane := uint16(0); lane < params.V; lane++ {
			start := chainStart(seed, e, lane)
			ends[lane] = advance(start, uint32(params.W-1))
		}
		leaves[e] = hasher.LeafDigest(ends)
	}

	tree, err := hashtree.Build(leaves, params.TreeHeight, parameterSeed[:])
	if err != nil {
		return nil, nil, err
	}

	sk := &SecretKey{
		seed:            append([]byte(nil), seed...),
		params:          params,
		activationEpoch: activationEpoch,
		numActiveEpochs: numActiveEpochs,
		parameterSeed:   parameterSeed,
		tree:            tree,
	}
	pk := &PublicKey{root: tree.Root(), parameterSeed: parameterSeed}
	return pk, sk, nil
}

// Sign discloses the one-time signature for the given epoch and 32-byte
// message digest. The secret key is not mutated; tracking which epochs have
// been spent is the caller's responsibility.
func (sk *SecretKey) Sign(epoch uint32, messageDigest [hasher.DigestSize]byte) (*Signature, error) {
	end := uint64(sk.activationEpoch) + uint64(sk.numActiveEpochs)
	if uint64(epoch) < uint64(sk.activationEpoch) || uint64(epoch) >= end {
		return nil, errors.New("hypercube: epoch outside key's active window")
	}

	steps, err := tsl.EncodeVertex(messageDigest, uint64(epoch), sk.params)
	if err != nil {
		return nil, err
	}

	chainValues := make([][hasher.DigestSize]byte, sk.params.V)
	for lane := uint16(0); lane < sk.params.V; lane++ {
		start := chainStart(sk.seed, epoch, lane)
		chainValues[lane] = advance(start, uint32(steps[lane]))
	}

	authPath, err := sk.tree.AuthPath(epoch)
	if err != nil {
		return nil, err
	}
	return &Signature{
		leafIndex:   epoch,
		randomness:  signingRandomness(sk.seed, epoch),
		chainValues: chainValues,
		authPath:    authPath,
	}, nil
}

// Verify checks a signature produced by this package against a public key.
func Verify(params types.Parameters, pk *PublicKey, epoch uint32, messageDigest [hasher.DigestSize]byte, sig *Signature) bool {
	if sig.leafIndex != epoch || len(sig.chainValues) != int(params.V) {
		return false
	}
	steps, err := tsl.EncodeVertex(messageDigest, uint64(epoch), params)
	if err != nil {
		return false
	}

	ends := make([][hasher.DigestSize]byte, len(sig.chainValues))
	for lane, value := range sig.chainValues {
		if steps[lane] >= params.W {
			return false
		}
		ends[lane] = advance(value, uint32(params.W-1-steps[lane]))
	}
	leaf := hasher.LeafDigest(ends)
	root := hashtree.ComputeRoot(leaf, sig.leafIndex, sig.authPath, pk.parameterSeed[:])
	return root == pk.root
}

// ActiveWindow reports the key's epoch window.
func (sk *SecretKey) ActiveWindow() (activationEpoch, numActiveEpochs uint32) {
	return sk.activationEpoch, sk.numActiveEpochs
}

// Params reports the parameters the key was generated with.
func (sk *SecretKey) Params() types.Parameters {
	return sk.params
}

// chainStart derives lane secret material with a SHAKE256 PRF over
// seed || epoch_be32 || lane_be16.
func chainStart(seed []byte, epoch uint32, lane uint16) [hasher.DigestSize]byte {
	buf := make([]byte, 0, len(seed)+6)
	buf = append(buf, seed...)
	buf = binary.BigEndian.AppendUint32(buf, epoch)
	buf = binary.BigEndian.AppendUint16(buf, lane)
	var out [hasher.DigestSize]byte
	sha3.ShakeSum256(out[:], buf)
	return out
}

// deriveParameterSeed separates the public hashing domain seed from chain
// material by a fixed suffix.
func deriveParameterSeed(seed []byte) [hasher.DigestSize]byte {
	var out [hasher.DigestSize]byte
	sha3.ShakeSum256(out[:], append(append([]byte(nil), seed...), 'P'))
	return out
}

func signingRandomness(seed []byte, epoch uint32) [hasher.DigestSize]byte {
	buf := append(append([]byte(nil), seed...), 'R')
	buf = binary.BigEndian.AppendUint32(buf, epoch)
	var out [hasher.DigestSize]byte
	sha3.ShakeSum256(out[:], buf)
	return out
}

func advance(value [hasher.DigestSize]byte, n uint32) [hasher.DigestSize]byte {
	for i := uint32(0); i < n; i++ {
		value = hasher.ChainStep(value)
	}
	return value
}
