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

// go/src/core/verify/aggregator.go
package verify

import (
	"fmt"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/types"
)

// Aggregator collects signature/public-key pairs sharing one message and
// epoch and assembles them into a VerificationBatch. Capacity is fixed at
// construction so a misbehaving producer cannot grow a batch without bound.
type Aggregator struct {
	params        types.Parameters
	epoch         uint64
	messageDigest [hasher.DigestSize]byte
	signatures    []types.Signature
	publicKeys    []types.PublicKey
	maxSignatures int
}

// NewAggregator creates an aggregator for up to maxSignatures signatures
// over the given message and epoch. The message is reduced to its digest
// unconditionally.
func NewAggregator(params types.Parameters, epoch uint64, message []byte, maxSignatures int) *Aggregator {
	return &Aggregator{
		params:        params,
		epoch:         epoch,
		messageDigest: hasher.PreprocessMessage(message),
		signatures:    make([]types.Signature, 0, maxSignatures),
		publicKeys:    make([]types.PublicKey, 0, maxSignatures),
		maxSignatures: maxSignatures,
	}
}

// Add appends a signature and its public key, keeping the two sequences in
// lockstep.
func (a *Aggregator) Add(sig types.Signature, pk types.PublicKey) error {
	if len(a.signatures) >= a.maxSignatures {
		return fmt.Errorf("aggregator is full (max %d signatures)", a.maxSignatures)
	}
	a.signatures = append(a.signatures, sig)
	a.publicKeys = append(a.publicKeys, pk)
	return nil
}

// Len returns the number of collected signatures.
func (a *Aggregator) Len() int {
	return len(a.signatures)
}

// Batch assembles the collected pairs into a VerificationBatch whose
// statement expects every collected signature to verify.
func (a *Aggregator) Batch() *types.VerificationBatch {
	return &types.VerificationBatch{
		Params: a.params,
		Statement: types.Statement{
			K:             uint32(len(a.signatures)),
			Epoch:         a.epoch,
			MessageDigest: a.messageDigest[:],
			PublicKeys:    a.publicKeys,
		},
		Signatures: a.signatures,
	}
}

// Reset clears the collected pairs, keeping parameters and statement inputs.
// Fresh backing arrays are allocated so batches assembled before the reset
// keep their contents.
func (a *Aggregator) Reset() {
	a.signatures = make([]types.Signature, 0, a.maxSignatures)
	a.publicKeys = make([]types.PublicKey, 0, a.maxSignatures)
}
