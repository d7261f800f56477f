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

// go/src/cli/cli/helper.go
package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hypercube-core/go/src/common"
	"github.com/hypercube-core/go/src/core/types"
	"github.com/hypercube-core/go/src/core/verify"
	"github.com/hypercube-core/go/src/core/xmss"
	"github.com/hypercube-core/go/src/core/xmss/config"
)

// writeKeyFile stores serialized key material in a JSON envelope. Secret keys
// get mode 0600.
func writeKeyFile(path, setName string, keyBytes []byte, secret bool) error {
	envelope := keyFileJSON{
		Set: setName,
		Key: hex.EncodeToString(keyBytes),
	}
	if !secret {
		envelope.KeyID = common.KeyID(keyBytes)
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if secret {
		mode = 0600
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}

// readKeyFile loads a key envelope and resolves its parameter set.
func readKeyFile(path string) (config.ParameterSet, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	var envelope keyFileJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return 0, nil, fmt.Errorf("malformed key file %s: %w", path, err)
	}
	set, err := config.ByName(envelope.Set)
	if err != nil {
		return 0, nil, err
	}
	keyBytes, err := hex.DecodeString(envelope.Key)
	if err != nil {
		return 0, nil, fmt.Errorf("malformed key material in %s: %w", path, err)
	}
	return set, keyBytes, nil
}

// loadSecretKey reads and reconstructs a wrapped secret key.
func loadSecretKey(path string) (*xmss.WrappedSecretKey, config.ParameterSet, error) {
	set, keyBytes, err := readKeyFile(path)
	if err != nil {
		return nil, 0, err
	}
	sk, err := xmss.LoadSecretKey(set, keyBytes)
	if err != nil {
		return nil, 0, err
	}
	return sk, set, nil
}

// loadPublicKey reads and reconstructs a wrapped public key.
func loadPublicKey(path string) (*xmss.WrappedPublicKey, config.ParameterSet, error) {
	set, keyBytes, err := readKeyFile(path)
	if err != nil {
		return nil, 0, err
	}
	pk, err := xmss.LoadPublicKey(set, keyBytes)
	if err != nil {
		return nil, 0, err
	}
	return pk, set, nil
}

// writeSignatureFile stores a wrapped signature in a JSON envelope.
func writeSignatureFile(path, setName string, sig *xmss.WrappedSignature) error {
	envelope := signatureFileJSON{
		Set:       setName,
		Epoch:     sig.Epoch,
		Signature: hex.EncodeToString(sig.Inner.Serialize()),
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readSignatureFile loads a signature envelope, returning the flat wire form
// and the epoch it was created at.
func readSignatureFile(path string, params types.Parameters) (*types.Signature, uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	var envelope signatureFileJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, 0, fmt.Errorf("malformed signature file %s: %w", path, err)
	}
	raw, err := hex.DecodeString(envelope.Signature)
	if err != nil {
		return nil, 0, fmt.Errorf("malformed signature material in %s: %w", path, err)
	}
	flat, err := xmss.ParseSignatureBytes(raw, params)
	if err != nil {
		return nil, 0, err
	}
	return flat, envelope.Epoch, nil
}

// buildBatch assembles a verification batch from aligned signature and public
// key files, all under one parameter set, epoch, and message.
func buildBatch(set config.ParameterSet, epoch uint64, message []byte, sigPaths, pkPaths []string) (*types.VerificationBatch, error) {
	if len(sigPaths) != len(pkPaths) {
		return nil, fmt.Errorf("got %d signatures but %d public keys", len(sigPaths), len(pkPaths))
	}
	params := set.Parameters()

	agg := verify.NewAggregator(params, epoch, message, len(sigPaths))
	for i := range sigPaths {
		flatSig, sigEpoch, err := readSignatureFile(sigPaths[i], params)
		if err != nil {
			return nil, err
		}
		if uint64(sigEpoch) != epoch {
			return nil, fmt.Errorf("signature %s was created at epoch %d, batch epoch is %d",
				sigPaths[i], sigEpoch, epoch)
		}

		pk, pkSet, err := loadPublicKey(pkPaths[i])
		if err != nil {
			return nil, err
		}
		if pkSet != set {
			return nil, fmt.Errorf("public key %s uses set %s, batch uses %s",
				pkPaths[i], pkSet.Metadata().Name, set.Metadata().Name)
		}
		flatPK, err := xmss.PublicKeyToWire(pk.Inner)
		if err != nil {
			return nil, err
		}

		if err := agg.Add(*flatSig, *flatPK); err != nil {
			return nil, err
		}
	}
	return agg.Batch(), nil
}
