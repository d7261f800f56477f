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

// go/src/core/attest/sign/backend/attest.go
//
// Attestation receipts bind a verification outcome to a SPHINCS+ signature
// from the verifier's attestation key. The receipt payload is the outcome's
// canonical wire encoding, so anyone holding the receipt can recompute the
// commitment words and check them against the public outputs.
package sign

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/kasperdi/SPHINCSPLUS-golang/sphincs"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	params "github.com/hypercube-core/go/src/core/attest/config"
	key "github.com/hypercube-core/go/src/core/attest/key/backend"
	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hashtree"
	"github.com/hypercube-core/go/src/core/types"
)

// receiptPrefix namespaces receipt rows in the shared LevelDB instance.
const receiptPrefix = "receipt-"

// sigChunks is the number of signature chunks hashed into the integrity tree.
const sigChunks = 4

// Receipt is a stored, signed record of one batch verification outcome.
type Receipt struct {
	Payload       []byte `json:"payload"`        // canonical outcome encoding
	Timestamp     int64  `json:"timestamp"`      // unix seconds at attestation
	Signature     []byte `json:"signature"`      // SPHINCS+ signature over Payload
	PublicKey     []byte `json:"public_key"`     // serialized attestation public key
	IntegrityRoot []byte `json:"integrity_root"` // root over signature chunks
}

// AttestManager signs verification outcomes and persists the receipts.
type AttestManager struct {
	db         *leveldb.DB
	keyManager *key.KeyManager
	parameters *params.SPHINCSParameters
}

// NewAttestManager creates a new instance of AttestManager with KeyManager
// and a LevelDB instance for receipt storage.
func NewAttestManager(db *leveldb.DB, keyManager *key.KeyManager, parameters *params.SPHINCSParameters) *AttestManager {
	if keyManager == nil || parameters == nil || parameters.Params == nil {
		panic("KeyManager or SPHINCSParameters are not properly initialized")
	}
	return &AttestManager{
		db:         db,
		keyManager: keyManager,
		parameters: parameters,
	}
}

// AttestOutcome signs the outcome's canonical encoding and stores the receipt
// under the outcome's commitment. Returns the stored receipt.
func (am *AttestManager) AttestOutcome(outcome *types.Outcome, sk *sphincs.SPHINCS_SK, pk *sphincs.SPHINCS_PK) (*Receipt, error) {
	if am.parameters == nil || am.parameters.Params == nil {
		return nil, errors.New("SPHINCSParameters are not initialized")
	}

	payload := outcome.Encode()
	signature := sphincs.Spx_sign(am.parameters.Params, payload, sk)
	if signature == nil {
		return nil, errors.New("failed to sign outcome")
	}

	sigBytes, err := signature.SerializeSignature()
	if err != nil {
		return nil, err
	}

	root, err := signatureIntegrityRoot(sigBytes, outcome.Commitment[:])
	if err != nil {
		return nil, err
	}

	pkBytes, err := pk.SerializePK()
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Payload:       payload,
		Timestamp:     time.Now().Unix(),
		Signature:     sigBytes,
		PublicKey:     pkBytes,
		IntegrityRoot: root,
	}

	if am.db != nil {
		if err := am.saveReceipt(outcome.Commitment[:], receipt); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}

// VerifyReceipt checks the receipt's SPHINCS+ signature and integrity root
// against the outcome encoded in its payload.
func (am *AttestManager) VerifyReceipt(receipt *Receipt) bool {
	if am.parameters == nil || am.parameters.Params == nil {
		return false
	}

	outcome, err := types.DecodeOutcome(receipt.Payload)
	if err != nil {
		return false
	}

	pk, err := sphincs.DeserializePK(am.parameters.Params, receipt.PublicKey)
	if err != nil {
		return false
	}
	sig, err := sphincs.DeserializeSignature(am.parameters.Params, receipt.Signature)
	if err != nil {
		return false
	}

	if !sphincs.Spx_verify(am.parameters.Params, receipt.Payload, sig, pk) {
		return false
	}

	root, err := signatureIntegrityRoot(receipt.Signature, outcome.Commitment[:])
	if err != nil {
		return false
	}
	return hex.EncodeToString(root) == hex.EncodeToString(receipt.IntegrityRoot)
}

// LoadReceipt retrieves the receipt stored under the given commitment.
func (am *AttestManager) LoadReceipt(commitment []byte) (*Receipt, error) {
	if am.db == nil {
		return nil, errors.New("no receipt store configured")
	}
	data, err := am.db.Get(receiptKey(commitment), nil)
	if err != nil {
		return nil, err
	}
	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// PruneOldReceipts deletes all but the newest keepCount receipts, by
// attestation timestamp. Used to keep the store from growing indefinitely.
func (am *AttestManager) PruneOldReceipts(keepCount int) error {
	if am.db == nil {
		return nil
	}

	type stored struct {
		key       []byte
		timestamp int64
	}
	var all []stored

	iter := am.db.NewIterator(util.BytesPrefix([]byte(receiptPrefix)), nil)
	for iter.Next() {
		var receipt Receipt
		if err := json.Unmarshal(iter.Value(), &receipt); err != nil {
			continue
		}
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		all = append(all, stored{key: k, timestamp: receipt.Timestamp})
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}

	if len(all) <= keepCount {
		return nil
	}

	// Oldest first.
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].timestamp < all[i].timestamp {
				all[i], all[j] = all[j], all[i]
			}
		}
	}

	batch := new(leveldb.Batch)
	for _, s := range all[:len(all)-keepCount] {
		batch.Delete(s.key)
	}
	return am.db.Write(batch, nil)
}

func (am *AttestManager) saveReceipt(commitment []byte, receipt *Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Put(receiptKey(commitment), data)
	return am.db.Write(batch, nil)
}

func receiptKey(commitment []byte) []byte {
	return []byte(receiptPrefix + hex.EncodeToString(commitment))
}

// signatureIntegrityRoot splits the serialized signature into sigChunks
// parts, hashes each, and builds a small tree over the chunk digests with
// the outcome commitment as the tree's parameter seed. The root lets a
// receipt holder spot-check signature integrity chunk by chunk without
// loading the whole signature.
func signatureIntegrityRoot(sigBytes, commitment []byte) ([]byte, error) {
	if len(sigBytes) < sigChunks {
		return nil, errors.New("signature too short to chunk")
	}

	chunkSize := len(sigBytes) / sigChunks
	leaves := make([][hasher.DigestSize]byte, sigChunks)
	for i := 0; i < sigChunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == sigChunks-1 {
			end = len(sigBytes)
		}
		leaves[i] = hasher.Sum256(sigBytes[start:end])
	}

	tree, err := hashtree.Build(leaves, 2, commitment)
	if err != nil {
		return nil, err
	}
	root := tree.Root()
	return root[:], nil
}
