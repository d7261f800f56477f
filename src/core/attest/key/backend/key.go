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

// go/src/core/attest/key/backend/key.go
package key

import (
	"errors"

	"github.com/kasperdi/SPHINCSPLUS-golang/sphincs"

	params "github.com/hypercube-core/go/src/core/attest/config"
)

// KeyManager is responsible for managing attestation key generation using
// SPHINCS+ parameters.
type KeyManager struct {
	Params *params.SPHINCSParameters
}

// NewKeyManager initializes a new KeyManager instance using SPHINCS+ parameters.
func NewKeyManager() (*KeyManager, error) {
	spxParams, err := params.NewSPHINCSParameters()
	if err != nil {
		return nil, err
	}
	return &KeyManager{Params: spxParams}, nil
}

// GetSPHINCSParameters returns the manager's SPHINCS+ parameters.
func (km *KeyManager) GetSPHINCSParameters() *params.SPHINCSParameters {
	return km.Params
}

// GenerateKey generates a new SPHINCS+ private and public key pair for
// receipt signing.
func (km *KeyManager) GenerateKey() (*sphincs.SPHINCS_SK, *sphincs.SPHINCS_PK, error) {
	if km.Params == nil || km.Params.Params == nil {
		return nil, nil, errors.New("missing SPHINCS+ parameters in KeyManager")
	}

	sk, pk := sphincs.Spx_keygen(km.Params.Params)
	if sk == nil || pk == nil {
		return nil, nil, errors.New("key generation failed: returned nil for SK or PK")
	}

	if len(sk.SKseed) == 0 || len(pk.PKseed) == 0 {
		return nil, nil, errors.New("key generation failed: empty key fields")
	}

	return sk, pk, nil
}

// SerializeKeyPair serializes a SPHINCS private and public key pair to byte slices.
func (km *KeyManager) SerializeKeyPair(sk *sphincs.SPHINCS_SK, pk *sphincs.SPHINCS_PK) ([]byte, []byte, error) {
	if sk == nil || pk == nil {
		return nil, nil, errors.New("private or public key is nil")
	}

	skBytes, err := sk.SerializeSK()
	if err != nil {
		return nil, nil, errors.New("failed to serialize private key: " + err.Error())
	}

	pkBytes, err := pk.SerializePK()
	if err != nil {
		return nil, nil, errors.New("failed to serialize public key: " + err.Error())
	}

	return skBytes, pkBytes, nil
}

// DeserializeKeyPair reconstructs a SPHINCS private and public key pair from byte slices.
func (km *KeyManager) DeserializeKeyPair(skBytes, pkBytes []byte) (*sphincs.SPHINCS_SK, *sphincs.SPHINCS_PK, error) {
	if km.Params == nil || km.Params.Params == nil {
		return nil, nil, errors.New("missing parameters in KeyManager")
	}

	sk, err := sphincs.DeserializeSK(km.Params.Params, skBytes)
	if err != nil {
		return nil, nil, errors.New("failed to deserialize private key: " + err.Error())
	}

	pk, err := sphincs.DeserializePK(km.Params.Params, pkBytes)
	if err != nil {
		return nil, nil, errors.New("failed to deserialize public key: " + err.Error())
	}

	return sk, pk, nil
}

// DeserializePublicKey deserializes only the public key from bytes.
func (km *KeyManager) DeserializePublicKey(pkBytes []byte) (*sphincs.SPHINCS_PK, error) {
	if km.Params == nil || km.Params.Params == nil {
		return nil, errors.New("missing parameters in KeyManager")
	}

	pk, err := sphincs.DeserializePK(km.Params.Params, pkBytes)
	if err != nil {
		return nil, errors.New("failed to deserialize public key: " + err.Error())
	}

	return pk, nil
}
