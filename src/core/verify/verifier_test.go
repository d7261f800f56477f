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

// go/src/core/verify/verifier_test.go
package verify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hashtree"
	"github.com/hypercube-core/go/src/core/tsl"
	"github.com/hypercube-core/go/src/core/types"
	"github.com/hypercube-core/go/src/core/wots"
)

var testParams = types.Parameters{W: 4, V: 8, D0: 6, SecurityBits: 128, TreeHeight: 3}

// signer is a minimal honest signer over one key tree, used to assemble
// batches whose expected outcome is known exactly.
type signer struct {
	params types.Parameters
	seed   []byte
	tree   *hashtree.Tree
	pk     types.PublicKey
}

// laneStart derives the secret chain start for one lane of one leaf.
func (s *signer) laneStart(leafIndex uint32, lane int) [hasher.DigestSize]byte {
	material := append([]byte(nil), s.seed...)
	material = append(material, byte(leafIndex), byte(lane), 0x73)
	return hasher.Sum256(material)
}

func newSigner(t *testing.T, params types.Parameters, id byte) *signer {
	t.Helper()
	s := &signer{
		params: params,
		seed:   append([]byte("signer-seed-"), id),
	}

	leaves := make([][hasher.DigestSize]byte, params.Lifetime())
	for j := range leaves {
		ends := make([][hasher.DigestSize]byte, params.V)
		for lane := range ends {
			ends[lane] = wots.Advance(s.laneStart(uint32(j), lane), uint32(params.W-1))
		}
		leaves[j] = hasher.LeafDigest(ends)
	}

	paramSeed := hasher.Sum256(append([]byte("pseed"), id))
	tree, err := hashtree.Build(leaves, params.TreeHeight, paramSeed[:])
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()
	s.tree = tree
	s.pk = types.PublicKey{Root: root[:], ParameterSeed: paramSeed[:]}
	return s
}

func (s *signer) sign(t *testing.T, leafIndex uint32, digest [hasher.DigestSize]byte, epoch uint64) types.Signature {
	t.Helper()
	steps, err := tsl.EncodeVertex(digest, epoch, s.params)
	if err != nil {
		t.Fatalf("EncodeVertex: %v", err)
	}

	values := make([][]byte, s.params.V)
	for lane := range values {
		v := wots.Advance(s.laneStart(leafIndex, lane), uint32(steps[lane]))
		values[lane] = append([]byte(nil), v[:]...)
	}
	path, err := s.tree.AuthPath(leafIndex)
	if err != nil {
		t.Fatalf("AuthPath: %v", err)
	}
	randomness := hasher.Sum256(append([]byte("rand"), byte(leafIndex)))
	return types.Signature{
		LeafIndex:   leafIndex,
		Randomness:  randomness[:],
		ChainValues: values,
		AuthPath:    path,
	}
}

// validBatch assembles a k-signature batch where every signature is honest.
func validBatch(t *testing.T, k int, message []byte, epoch uint64) *types.VerificationBatch {
	t.Helper()
	agg := NewAggregator(testParams, epoch, message, k)
	digest := hasher.PreprocessMessage(message)
	for i := 0; i < k; i++ {
		s := newSigner(t, testParams, byte(i))
		sig := s.sign(t, uint32(i%int(testParams.Lifetime())), digest, epoch)
		if err := agg.Add(sig, s.pk); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return agg.Batch()
}

func TestVerifyBatchAllValid(t *testing.T) {
	batch := validBatch(t, 3, []byte("shared message"), 42)

	outcome, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch: %v", err)
	}
	if !outcome.AllValid {
		t.Fatal("honest batch did not verify")
	}
	if outcome.VerifiedCount != 3 {
		t.Fatalf("verified count: got %d, want 3", outcome.VerifiedCount)
	}
	if outcome.Commitment != batch.Statement.Commitment() {
		t.Fatal("outcome commitment disagrees with the statement commitment")
	}

	// Verification is read-only: a second run returns the same outcome.
	again, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch (second run): %v", err)
	}
	if *again != *outcome {
		t.Fatalf("verification is not idempotent: %+v vs %+v", again, outcome)
	}
}

func TestVerifyBatchOneTampered(t *testing.T) {
	batch := validBatch(t, 3, []byte("shared message"), 42)
	honest := batch.Statement.Commitment()
	batch.Signatures[1].ChainValues[0][5] ^= 0x40

	outcome, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch: %v", err)
	}
	if outcome.AllValid {
		t.Fatal("tampered batch verified")
	}
	if outcome.VerifiedCount != 2 {
		t.Fatalf("verified count: got %d, want 2", outcome.VerifiedCount)
	}
	// Tampering a signature does not move the commitment: the commitment
	// binds the statement, not the signatures.
	if outcome.Commitment != honest {
		t.Fatal("signature tampering moved the statement commitment")
	}
}

func TestVerifyBatchSingleLeafTree(t *testing.T) {
	// Height-zero tree: one lane, one leaf, the leaf digest is the root and
	// the authentication path is empty.
	params := types.Parameters{W: 4, V: 1, D0: 0, SecurityBits: 128, TreeHeight: 0}
	message := []byte("single leaf")
	digest := hasher.PreprocessMessage(message)

	s := newSigner(t, params, 0)
	sig := s.sign(t, 0, digest, 7)
	if len(sig.AuthPath) != 0 {
		t.Fatalf("auth path length: got %d, want 0", len(sig.AuthPath))
	}

	agg := NewAggregator(params, 7, message, 1)
	if err := agg.Add(sig, s.pk); err != nil {
		t.Fatalf("Add: %v", err)
	}
	batch := agg.Batch()

	outcome, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch: %v", err)
	}
	if !outcome.AllValid || outcome.VerifiedCount != 1 {
		t.Fatalf("honest single-leaf batch: got (%v, %d), want (true, 1)",
			outcome.AllValid, outcome.VerifiedCount)
	}

	batch.Statement.PublicKeys[0].Root[0] ^= 0x01
	outcome, err = VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch after root flip: %v", err)
	}
	if outcome.AllValid || outcome.VerifiedCount != 0 {
		t.Fatalf("flipped root: got (%v, %d), want (false, 0)",
			outcome.AllValid, outcome.VerifiedCount)
	}
}

func TestVerifyBatchStructuralMismatch(t *testing.T) {
	batch := validBatch(t, 2, []byte("msg"), 7)
	batch.Signatures = batch.Signatures[:1]

	outcome, err := VerifyBatch(batch)
	if outcome != nil {
		t.Fatal("structurally invalid batch produced an outcome")
	}
	var mismatch *types.StructuralMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error is %T, want *StructuralMismatchError", err)
	}
	if mismatch.Expected != 2 || mismatch.Found != 1 {
		t.Fatalf("mismatch carries %d/%d, want 2/1", mismatch.Expected, mismatch.Found)
	}

	batch = validBatch(t, 2, []byte("msg"), 7)
	batch.Signatures[0].ChainValues = batch.Signatures[0].ChainValues[:3]
	if _, err := VerifyBatch(batch); !errors.As(err, &mismatch) {
		t.Fatalf("short lane list: error is %T, want *StructuralMismatchError", err)
	}

	batch = validBatch(t, 2, []byte("msg"), 7)
	batch.Statement.PublicKeys[1].Root = batch.Statement.PublicKeys[1].Root[:16]
	if _, err := VerifyBatch(batch); !errors.As(err, &mismatch) {
		t.Fatalf("short root: error is %T, want *StructuralMismatchError", err)
	}
}

func TestVerifyBatchWrongEpoch(t *testing.T) {
	batch := validBatch(t, 2, []byte("msg"), 100)
	batch.Statement.Epoch = 101 // signatures were produced for epoch 100

	outcome, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch: %v", err)
	}
	if outcome.AllValid || outcome.VerifiedCount != 0 {
		t.Fatalf("stale-epoch signatures verified: %+v", outcome)
	}
}

func TestVerifyBatchParallelMatchesSequential(t *testing.T) {
	batch := validBatch(t, 5, []byte("parallel"), 9)
	batch.Signatures[2].AuthPath[0][0] ^= 1

	sequential, err := VerifyBatch(batch)
	if err != nil {
		t.Fatalf("VerifyBatch: %v", err)
	}
	for _, workers := range []int{0, 1, 2, 8} {
		parallel, err := VerifyBatchParallel(context.Background(), batch, workers)
		if err != nil {
			t.Fatalf("VerifyBatchParallel(workers=%d): %v", workers, err)
		}
		if *parallel != *sequential {
			t.Fatalf("workers=%d: %+v vs %+v", workers, parallel, sequential)
		}
	}
}

func TestVerifyBatchParallelCancelled(t *testing.T) {
	batch := validBatch(t, 3, []byte("cancel"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := VerifyBatchParallel(ctx, batch, 2)
	if outcome != nil {
		t.Fatal("cancelled run produced an outcome")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error is %v, want context.Canceled", err)
	}
}

func TestVerifyOne(t *testing.T) {
	const epoch = 12
	message := []byte("single")
	digest := hasher.PreprocessMessage(message)
	s := newSigner(t, testParams, 0xEE)
	sig := s.sign(t, 5, digest, epoch)

	ok, err := VerifyOne(testParams, digest, epoch, &sig, &s.pk)
	if err != nil {
		t.Fatalf("VerifyOne: %v", err)
	}
	if !ok {
		t.Fatal("honest signature rejected")
	}

	// Shape mismatch is a plain failure, not an error.
	short := sig
	short.ChainValues = short.ChainValues[:2]
	ok, err = VerifyOne(testParams, digest, epoch, &short, &s.pk)
	if err != nil || ok {
		t.Fatalf("short signature: got (%v, %v), want (false, nil)", ok, err)
	}

	// A different epoch changes the vertex, so the disclosed values miss.
	ok, err = VerifyOne(testParams, digest, epoch+1, &sig, &s.pk)
	if err != nil {
		t.Fatalf("VerifyOne: %v", err)
	}
	if ok {
		t.Fatal("signature verified under the wrong epoch")
	}
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator(testParams, 3, []byte("agg"), 2)
	s := newSigner(t, testParams, 1)
	digest := hasher.PreprocessMessage([]byte("agg"))
	sig := s.sign(t, 0, digest, 3)

	if err := agg.Add(sig, s.pk); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := agg.Add(sig, s.pk); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := agg.Add(sig, s.pk); err == nil {
		t.Fatal("aggregator accepted a signature past capacity")
	}
	if agg.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", agg.Len())
	}

	batch := agg.Batch()
	if batch.Statement.K != 2 || len(batch.Signatures) != 2 || len(batch.Statement.PublicKeys) != 2 {
		t.Fatalf("assembled batch is malformed: %+v", batch.Statement)
	}
	if batch.Statement.Epoch != 3 {
		t.Fatalf("epoch: got %d, want 3", batch.Statement.Epoch)
	}
	want := hasher.PreprocessMessage([]byte("agg"))
	if !bytes.Equal(batch.Statement.MessageDigest, want[:]) {
		t.Fatal("statement digest is not the preprocessed message")
	}

	agg.Reset()
	if agg.Len() != 0 {
		t.Fatalf("Len after Reset: got %d, want 0", agg.Len())
	}
}

func TestAggregatorResetDoesNotAliasBatch(t *testing.T) {
	agg := NewAggregator(testParams, 3, []byte("agg"), 2)
	digest := hasher.PreprocessMessage([]byte("agg"))
	first := newSigner(t, testParams, 1)
	if err := agg.Add(first.sign(t, 0, digest, 3), first.pk); err != nil {
		t.Fatalf("Add: %v", err)
	}
	batch := agg.Batch()
	wantIndex := batch.Signatures[0].LeafIndex
	wantRoot := append([]byte(nil), batch.Statement.PublicKeys[0].Root...)

	agg.Reset()
	second := newSigner(t, testParams, 2)
	if err := agg.Add(second.sign(t, 5, digest, 3), second.pk); err != nil {
		t.Fatalf("Add after Reset: %v", err)
	}

	if batch.Signatures[0].LeafIndex != wantIndex {
		t.Fatal("collecting after Reset overwrote an assembled batch's signatures")
	}
	if !bytes.Equal(batch.Statement.PublicKeys[0].Root, wantRoot) {
		t.Fatal("collecting after Reset overwrote an assembled batch's public keys")
	}
}
