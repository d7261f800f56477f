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

// go/src/core/xmss/wrapper.go
package xmss

import (
	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hypercube"
	"github.com/hypercube-core/go/src/core/types"
	"github.com/hypercube-core/go/src/core/verify"
	"github.com/hypercube-core/go/src/core/xmss/config"
)

// WrappedPublicKey carries an opaque signer-library public key together with
// its parameter-set metadata.
type WrappedPublicKey struct {
	Inner  *hypercube.PublicKey
	Params config.ParameterMetadata
}

// WrappedSecretKey carries an opaque signer-library secret key together with
// the epoch window fixed at generation. The window never changes afterwards;
// it is the sole authority for epoch legality.
type WrappedSecretKey struct {
	inner           *hypercube.SecretKey
	activationEpoch uint32
	numActiveEpochs uint32
	params          config.ParameterMetadata
}

// WrappedSignature carries an opaque signature and the epoch it was created
// at.
type WrappedSignature struct {
	Inner *hypercube.Signature
	Epoch uint32
}

// Window reports the secret key's active epoch range.
func (sk *WrappedSecretKey) Window() types.EpochWindow {
	return types.EpochWindow{
		ActivationEpoch: sk.activationEpoch,
		NumActiveEpochs: sk.numActiveEpochs,
	}
}

// KeyGen generates a wrapped key pair valid for epochs
// [activationEpoch, activationEpoch+numActiveEpochs). The window is checked
// against the parameter set's lifetime before any key material is derived.
// Seed sourcing is the caller's policy; the same seed yields the same keys.
func KeyGen(set config.ParameterSet, seed []byte, activationEpoch, numActiveEpochs uint32) (*WrappedPublicKey, *WrappedSecretKey, error) {
	md := set.Metadata()
	if err := ValidateEpochRange(activationEpoch, numActiveEpochs, md.Lifetime); err != nil {
		return nil, nil, err
	}

	pk, sk, err := hypercube.KeyGen(set.Parameters(), seed, activationEpoch, numActiveEpochs)
	if err != nil {
		return nil, nil, err
	}
	return &WrappedPublicKey{Inner: pk, Params: md},
		&WrappedSecretKey{
			inner:           sk,
			activationEpoch: activationEpoch,
			numActiveEpochs: numActiveEpochs,
			params:          md,
		}, nil
}

// Sign validates the epoch against the key's window, reduces the message to
// its fixed 32-byte digest, and produces a wrapped signature. The secret key
// is not mutated: there is no hidden epoch counter, so the caller must
// persist which epochs it has spent.
func Sign(sk *WrappedSecretKey, epoch uint32, message []byte) (*WrappedSignature, error) {
	if err := ValidateEpoch(epoch, sk.activationEpoch, sk.numActiveEpochs); err != nil {
		return nil, err
	}
	digest := hasher.PreprocessMessage(message)
	sig, err := sk.inner.Sign(epoch, digest)
	if err != nil {
		return nil, err
	}
	return &WrappedSignature{Inner: sig, Epoch: epoch}, nil
}

// Verify checks one wrapped signature against a wrapped public key. Invalid
// signatures report false, not an error; errors are reserved for parameter
// configuration and conversion failures.
func Verify(pk *WrappedPublicKey, epoch uint32, message []byte, sig *WrappedSignature) (bool, error) {
	set, err := parameterSetFor(pk.Params)
	if err != nil {
		return false, err
	}
	params := set.Parameters()
	flatSig, err := SignatureToWire(sig.Inner, params)
	if err != nil {
		return false, err
	}
	flatPK, err := PublicKeyToWire(pk.Inner)
	if err != nil {
		return false, err
	}
	digest := hasher.PreprocessMessage(message)
	return verify.VerifyOne(params, digest, uint64(epoch), flatSig, flatPK)
}

// parameterSetFor resolves metadata back to the named parameter set.
func parameterSetFor(md config.ParameterMetadata) (config.ParameterSet, error) {
	return config.ByName(md.Name)
}

// Serialize returns the secret key's stable binary form. The bytes embed the
// seed, parameters, and epoch window; LoadSecretKey reconstructs the full key
// from them.
func (sk *WrappedSecretKey) Serialize() []byte {
	return sk.inner.Serialize()
}

// Serialize returns the public key's stable binary form.
func (pk *WrappedPublicKey) Serialize() []byte {
	return pk.Inner.Serialize()
}

// LoadSecretKey reconstructs a wrapped secret key from its serialized form.
// The named set must match the parameters embedded in the bytes.
func LoadSecretKey(set config.ParameterSet, data []byte) (*WrappedSecretKey, error) {
	inner, err := hypercube.DeserializeSecretKey(data)
	if err != nil {
		return nil, err
	}
	if inner.Params() != set.Parameters() {
		return nil, &types.ParameterError{
			Reason: "serialized key parameters do not match set " + set.Metadata().Name,
		}
	}
	activation, num := inner.ActiveWindow()
	return &WrappedSecretKey{
		inner:           inner,
		activationEpoch: activation,
		numActiveEpochs: num,
		params:          set.Metadata(),
	}, nil
}

// LoadPublicKey reconstructs a wrapped public key from its serialized form.
func LoadPublicKey(set config.ParameterSet, data []byte) (*WrappedPublicKey, error) {
	inner, err := hypercube.DeserializePublicKey(data)
	if err != nil {
		return nil, err
	}
	return &WrappedPublicKey{Inner: inner, Params: set.Metadata()}, nil
}
