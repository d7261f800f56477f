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

// go/src/core/hypercube/serialize.go
//
// Stable binary layouts for the opaque key and signature types. The wrapper
// layer converts to the flat wire structures by parsing these bytes, so the
// layouts documented here are a contract, not an implementation detail.
//
//	PublicKey:  [version u8] [root 32] [parameter_seed 32]
//	Signature:  [version u8] [leaf_index le32] [randomness 32]
//	            [chain_count le32] [32 bytes each]
//	            [path_count le32] [32 bytes each]
//	SecretKey:  [version u8] [w le16] [v le16] [d0 le32] [security le16]
//	            [height le16] [activation le32] [active_count le32]
//	            [seed_len le32] [seed]
package hypercube

import (
	"encoding/binary"
	"errors"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/types"
)

// SerializeVersion is the version byte leading every serialized object.
const SerializeVersion = 1

// PublicKeySize is the byte size of a serialized public key.
const PublicKeySize = 1 + 2*hasher.DigestSize

// Serialize encodes the public key.
func (pk *PublicKey) Serialize() []byte {
	buf := make([]byte, 0, PublicKeySize)
	buf = append(buf, SerializeVersion)
	buf = append(buf, pk.root[:]...)
	buf = append(buf, pk.parameterSeed[:]...)
	return buf
}

// DeserializePublicKey parses a serialized public key.
func DeserializePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != PublicKeySize {
		return nil, errors.New("hypercube: bad public key length")
	}
	if data[0] != SerializeVersion {
		return nil, errors.New("hypercube: unsupported public key version")
	}
	var pk PublicKey
	copy(pk.root[:], data[1:1+hasher.DigestSize])
	copy(pk.parameterSeed[:], data[1+hasher.DigestSize:])
	return &pk, nil
}

// Serialize encodes the signature.
func (sig *Signature) Serialize() []byte {
	size := 1 + 4 + hasher.DigestSize + 4 + len(sig.chainValues)*hasher.DigestSize +
		4 + len(sig.authPath)*hasher.DigestSize
	buf := make([]byte, 0, size)
	buf = append(buf, SerializeVersion)
	buf = binary.LittleEndian.AppendUint32(buf, sig.leafIndex)
	buf = append(buf, sig.randomness[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sig.chainValues)))
	for _, cv := range sig.chainValues {
		buf = append(buf, cv[:]...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sig.authPath)))
	for _, ap := range sig.authPath {
		buf = append(buf, ap...)
	}
	return buf
}

// DeserializeSignature parses a serialized signature.
func DeserializeSignature(data []byte) (*Signature, error) {
	if len(data) < 1+4+hasher.DigestSize+4 {
		return nil, errors.New("hypercube: signature truncated")
	}
	if data[0] != SerializeVersion {
		return nil, errors.New("hypercube: unsupported signature version")
	}
	pos := 1
	var sig Signature
	sig.leafIndex = binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	copy(sig.randomness[:], data[pos:pos+hasher.DigestSize])
	pos += hasher.DigestSize

	nchain := binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	if len(data)-pos < int(nchain)*hasher.DigestSize+4 {
		return nil, errors.New("hypercube: signature truncated in chain values")
	}
	sig.chainValues = make([][hasher.DigestSize]byte, nchain)
	for i := uint32(0); i < nchain; i++ {
		copy(sig.chainValues[i][:], data[pos:pos+hasher.DigestSize])
		pos += hasher.DigestSize
	}

	npath := binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	if len(data)-pos != int(npath)*hasher.DigestSize {
		return nil, errors.New("hypercube: signature truncated in auth path")
	}
	sig.authPath = make([][]byte, npath)
	for i := uint32(0); i < npath; i++ {
		ap := make([]byte, hasher.DigestSize)
		copy(ap, data[pos:pos+hasher.DigestSize])
		sig.authPath[i] = ap
		pos += hasher.DigestSize
	}
	return &sig, nil
}

// Serialize encodes the secret key. The tree is not serialized; it is
// regenerated from the seed on deserialization.
func (sk *SecretKey) Serialize() []byte {
	buf := make([]byte, 0, 1+2+2+4+2+2+4+4+4+len(sk.seed))
	buf = append(buf, SerializeVersion)
	buf = binary.LittleEndian.AppendUint16(buf, sk.params.W)
	buf = binary.LittleEndian.AppendUint16(buf, sk.params.V)
	buf = binary.LittleEndian.AppendUint32(buf, sk.params.D0)
	buf = binary.LittleEndian.AppendUint16(buf, sk.params.SecurityBits)
	buf = binary.LittleEndian.AppendUint16(buf, sk.params.TreeHeight)
	buf = binary.LittleEndian.AppendUint32(buf, sk.activationEpoch)
	buf = binary.LittleEndian.AppendUint32(buf, sk.numActiveEpochs)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sk.seed)))
	buf = append(buf, sk.seed...)
	return buf
}

// DeserializeSecretKey rebuilds a secret key, including its tree, from the
// serialized seed and parameters.
func DeserializeSecretKey(data []byte) (*SecretKey, error) {
	const header = 1 + 2 + 2 + 4 + 2 + 2 + 4 + 4 + 4
	if len(data) < header {
		return nil, errors.New("hypercube: secret key truncated")
	}
	if data[0] != SerializeVersion {
		return nil, errors.New("hypercube: unsupported secret key version")
	}
	params := types.Parameters{
		W:            binary.LittleEndian.Uint16(data[1:]),
		V:            binary.LittleEndian.Uint16(data[3:]),
		D0:           binary.LittleEndian.Uint32(data[5:]),
		SecurityBits: binary.LittleEndian.Uint16(data[9:]),
		TreeHeight:   binary.LittleEndian.Uint16(data[11:]),
	}
	activation := binary.LittleEndian.Uint32(data[13:])
	numActive := binary.LittleEndian.Uint32(data[17:])
	seedLen := binary.LittleEndian.Uint32(data[21:])
	if len(data)-header != int(seedLen) {
		return nil, errors.New("hypercube: secret key truncated in seed")
	}
	seed := make([]byte, seedLen)
	copy(seed, data[header:])

	_, sk, err := KeyGen(params, seed, activation, numActive)
	if err != nil {
		return nil, err
	}
	return sk, nil
}
