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

// go/src/core/verify/verifier.go
//
// Batch verification of XMSS-family signatures against a shared statement.
// This function is the boundary exposed to the proof-generation backend: a
// deterministic map from a batch to (all_valid, verified_count, commitment).
package verify

import (
	"context"
	"runtime"
	"sync"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hashtree"
	"github.com/hypercube-core/go/src/core/tsl"
	"github.com/hypercube-core/go/src/core/types"
	"github.com/hypercube-core/go/src/core/wots"
)

// VerifyBatch checks every signature in the batch against the statement and
// returns the public outcome. Structural violations reject the whole batch
// with a typed error before any hashing and produce no outcome. Individual
// signature failures never abort: all signatures are evaluated so the count
// and commitment are always well-defined, and the commitment is computed
// whether or not verification passed.
func VerifyBatch(batch *types.VerificationBatch) (*types.Outcome, error) {
	if err := checkStructure(batch); err != nil {
		return nil, err
	}

	steps, err := statementSteps(batch)
	if err != nil {
		return nil, err
	}

	outcome := &types.Outcome{AllValid: true, Commitment: batch.Statement.Commitment()}
	for i := range batch.Signatures {
		if verifyOne(&batch.Params, steps, &batch.Signatures[i], &batch.Statement.PublicKeys[i]) {
			outcome.VerifiedCount++
		} else {
			outcome.AllValid = false
		}
	}
	return outcome, nil
}

// VerifyBatchParallel is the unconstrained fast path: per-signature checks
// are independent, so they are fanned out across workers. The outcome is
// independent of execution order; only the constrained, proof-producing
// environment needs the single-threaded VerifyBatch.
func VerifyBatchParallel(ctx context.Context, batch *types.VerificationBatch, workers int) (*types.Outcome, error) {
	if err := checkStructure(batch); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	steps, err := statementSteps(batch)
	if err != nil {
		return nil, err
	}

	results := make([]bool, len(batch.Signatures))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = verifyOne(&batch.Params, steps, &batch.Signatures[i], &batch.Statement.PublicKeys[i])
			}
		}()
	}

feed:
	for i := range batch.Signatures {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &types.Outcome{AllValid: true, Commitment: batch.Statement.Commitment()}
	for _, ok := range results {
		if ok {
			outcome.VerifiedCount++
		} else {
			outcome.AllValid = false
		}
	}
	return outcome, nil
}

// VerifyOne checks a single signature against one public key for a given
// message digest and epoch. Used by the key wrapper's single-signature
// verification path.
func VerifyOne(params types.Parameters, messageDigest [hasher.DigestSize]byte, epoch uint64, sig *types.Signature, pk *types.PublicKey) (bool, error) {
	steps, err := tsl.EncodeVertex(messageDigest, epoch, params)
	if err != nil {
		return false, err
	}
	if len(sig.ChainValues) != int(params.V) || len(sig.AuthPath) != int(params.TreeHeight) {
		return false, nil
	}
	return verifyOne(&params, steps, sig, pk), nil
}

// statementSteps derives the per-lane step counts shared by every signature
// in the batch. Encoding failure is a configuration error, not a
// verification failure.
func statementSteps(batch *types.VerificationBatch) ([]uint16, error) {
	var digest [hasher.DigestSize]byte
	copy(digest[:], batch.Statement.MessageDigest)
	return tsl.EncodeVertex(digest, batch.Statement.Epoch, batch.Params)
}

// checkStructure enforces the batch shape invariants: the signature count
// matches the statement's public key list, and every signature carries
// exactly v chain values and tree_height path digests of digest size.
func checkStructure(batch *types.VerificationBatch) error {
	if len(batch.Signatures) != len(batch.Statement.PublicKeys) {
		return &types.StructuralMismatchError{
			Field:    "signatures",
			Expected: len(batch.Statement.PublicKeys),
			Found:    len(batch.Signatures),
		}
	}
	if len(batch.Statement.MessageDigest) != hasher.DigestSize {
		return &types.StructuralMismatchError{
			Field:    "statement.message_digest",
			Expected: hasher.DigestSize,
			Found:    len(batch.Statement.MessageDigest),
		}
	}
	for i := range batch.Signatures {
		sig := &batch.Signatures[i]
		if len(sig.ChainValues) != int(batch.Params.V) {
			return &types.StructuralMismatchError{
				Field:    "signature.chain_values",
				Expected: int(batch.Params.V),
				Found:    len(sig.ChainValues),
			}
		}
		if len(sig.AuthPath) != int(batch.Params.TreeHeight) {
			return &types.StructuralMismatchError{
				Field:    "signature.auth_path",
				Expected: int(batch.Params.TreeHeight),
				Found:    len(sig.AuthPath),
			}
		}
		for _, cv := range sig.ChainValues {
			if len(cv) != hasher.DigestSize {
				return &types.StructuralMismatchError{
					Field:    "signature.chain_values.digest",
					Expected: hasher.DigestSize,
					Found:    len(cv),
				}
			}
		}
		for _, ap := range sig.AuthPath {
			if len(ap) != hasher.DigestSize {
				return &types.StructuralMismatchError{
					Field:    "signature.auth_path.digest",
					Expected: hasher.DigestSize,
					Found:    len(ap),
				}
			}
		}
	}
	for i := range batch.Statement.PublicKeys {
		pk := &batch.Statement.PublicKeys[i]
		if len(pk.Root) != hasher.DigestSize {
			return &types.StructuralMismatchError{
				Field:    "public_key.root",
				Expected: hasher.DigestSize,
				Found:    len(pk.Root),
			}
		}
		if len(pk.ParameterSeed) != hasher.DigestSize {
			return &types.StructuralMismatchError{
				Field:    "public_key.parameter_seed",
				Expected: hasher.DigestSize,
				Found:    len(pk.ParameterSeed),
			}
		}
	}
	return nil
}

// verifyOne runs the per-signature pipeline: recompute chain ends, collapse
// them into the leaf digest, walk the authentication path, and compare the
// recomputed root to the claimed one.
func verifyOne(params *types.Parameters, steps []uint16, sig *types.Signature, pk *types.PublicKey) bool {
	leaf := wots.LeafFromSignature(sig.ChainValues, steps, params.W)
	root := hashtree.ComputeRoot(leaf, sig.LeafIndex, sig.AuthPath, pk.ParameterSeed)
	var claimed [hasher.DigestSize]byte
	copy(claimed[:], pk.Root)
	return root == claimed
}
