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

// go/src/core/xmss/convert.go
//
// Conversion between the opaque signer-library representation and the flat
// wire structures. The opaque types expose no field accessors, so conversion
// goes through their stable binary serialization: serialize, then parse the
// bytes against the documented layout. A layout that does not match the
// schema (for example after a signer-library version change) fails with a
// descriptive error naming the expectation that was violated; fields are
// never zero-filled to paper over a mismatch.
package xmss

import (
	"encoding/binary"
	"fmt"

	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/hypercube"
	"github.com/hypercube-core/go/src/core/types"
)

// SignatureToWire converts an opaque signature into the flat wire form by
// reparsing its serialized bytes. params supplies the lane and path counts
// the layout is checked against.
func SignatureToWire(sig *hypercube.Signature, params types.Parameters) (*types.Signature, error) {
	data := sig.Serialize()
	const fixed = 1 + 4 + hasher.DigestSize + 4
	if len(data) < fixed {
		return nil, &types.ConversionError{
			Field:    "signature",
			Expected: fmt.Sprintf("at least %d bytes", fixed),
			Found:    fmt.Sprintf("%d bytes", len(data)),
		}
	}
	if data[0] != hypercube.SerializeVersion {
		return nil, &types.ConversionError{
			Field:    "signature.version",
			Expected: fmt.Sprintf("%d", hypercube.SerializeVersion),
			Found:    fmt.Sprintf("%d", data[0]),
		}
	}
	pos := 1
	flat := &types.Signature{}
	flat.LeafIndex = binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	flat.Randomness = append([]byte(nil), data[pos:pos+hasher.DigestSize]...)
	pos += hasher.DigestSize

	nchain := binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	if nchain != uint32(params.V) {
		return nil, &types.ConversionError{
			Field:    "signature.chain_values.len",
			Expected: fmt.Sprintf("%d", params.V),
			Found:    fmt.Sprintf("%d", nchain),
		}
	}
	if len(data)-pos < int(nchain)*hasher.DigestSize+4 {
		return nil, &types.ConversionError{
			Field:    "signature.chain_values",
			Expected: fmt.Sprintf("%d bytes", int(nchain)*hasher.DigestSize+4),
			Found:    fmt.Sprintf("%d bytes", len(data)-pos),
		}
	}
	flat.ChainValues = make([][]byte, nchain)
	for i := uint32(0); i < nchain; i++ {
		flat.ChainValues[i] = append([]byte(nil), data[pos:pos+hasher.DigestSize]...)
		pos += hasher.DigestSize
	}

	npath := binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	if npath != uint32(params.TreeHeight) {
		return nil, &types.ConversionError{
			Field:    "signature.auth_path.len",
			Expected: fmt.Sprintf("%d", params.TreeHeight),
			Found:    fmt.Sprintf("%d", npath),
		}
	}
	if len(data)-pos != int(npath)*hasher.DigestSize {
		return nil, &types.ConversionError{
			Field:    "signature.auth_path",
			Expected: fmt.Sprintf("%d bytes", int(npath)*hasher.DigestSize),
			Found:    fmt.Sprintf("%d bytes", len(data)-pos),
		}
	}
	flat.AuthPath = make([][]byte, npath)
	for i := uint32(0); i < npath; i++ {
		flat.AuthPath[i] = append([]byte(nil), data[pos:pos+hasher.DigestSize]...)
		pos += hasher.DigestSize
	}
	return flat, nil
}

// PublicKeyToWire converts an opaque public key into the flat wire form.
func PublicKeyToWire(pk *hypercube.PublicKey) (*types.PublicKey, error) {
	data := pk.Serialize()
	if len(data) != hypercube.PublicKeySize {
		return nil, &types.ConversionError{
			Field:    "public_key",
			Expected: fmt.Sprintf("%d bytes", hypercube.PublicKeySize),
			Found:    fmt.Sprintf("%d bytes", len(data)),
		}
	}
	if data[0] != hypercube.SerializeVersion {
		return nil, &types.ConversionError{
			Field:    "public_key.version",
			Expected: fmt.Sprintf("%d", hypercube.SerializeVersion),
			Found:    fmt.Sprintf("%d", data[0]),
		}
	}
	return &types.PublicKey{
		Root:          append([]byte(nil), data[1:1+hasher.DigestSize]...),
		ParameterSeed: append([]byte(nil), data[1+hasher.DigestSize:]...),
	}, nil
}

// WireToSignature reconstructs the opaque signature from the flat form by
// rebuilding the serialized layout and reparsing it through the signer
// library. Supported because the signature layout is part of the wire
// contract.
func WireToSignature(flat *types.Signature) (*hypercube.Signature, error) {
	if len(flat.Randomness) != hasher.DigestSize {
		return nil, &types.ConversionError{
			Field:    "signature.randomness",
			Expected: fmt.Sprintf("%d bytes", hasher.DigestSize),
			Found:    fmt.Sprintf("%d bytes", len(flat.Randomness)),
		}
	}
	buf := make([]byte, 0, 1+4+hasher.DigestSize+8+(len(flat.ChainValues)+len(flat.AuthPath))*hasher.DigestSize)
	buf = append(buf, hypercube.SerializeVersion)
	buf = binary.LittleEndian.AppendUint32(buf, flat.LeafIndex)
	buf = append(buf, flat.Randomness...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(flat.ChainValues)))
	for i, cv := range flat.ChainValues {
		if len(cv) != hasher.DigestSize {
			return nil, &types.ConversionError{
				Field:    fmt.Sprintf("signature.chain_values[%d]", i),
				Expected: fmt.Sprintf("%d bytes", hasher.DigestSize),
				Found:    fmt.Sprintf("%d bytes", len(cv)),
			}
		}
		buf = append(buf, cv...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(flat.AuthPath)))
	for i, ap := range flat.AuthPath {
		if len(ap) != hasher.DigestSize {
			return nil, &types.ConversionError{
				Field:    fmt.Sprintf("signature.auth_path[%d]", i),
				Expected: fmt.Sprintf("%d bytes", hasher.DigestSize),
				Found:    fmt.Sprintf("%d bytes", len(ap)),
			}
		}
		buf = append(buf, ap...)
	}
	sig, err := hypercube.DeserializeSignature(buf)
	if err != nil {
		return nil, &types.ConversionError{
			Field:    "signature",
			Expected: "signer-library signature layout",
			Found:    err.Error(),
		}
	}
	return sig, nil
}

// WireToPublicKey reconstructs the opaque public key from the flat form.
func WireToPublicKey(flat *types.PublicKey) (*hypercube.PublicKey, error) {
	if len(flat.Root) != hasher.DigestSize || len(flat.ParameterSeed) != hasher.DigestSize {
		return nil, &types.ConversionError{
			Field:    "public_key",
			Expected: fmt.Sprintf("two %d-byte fields", hasher.DigestSize),
			Found:    fmt.Sprintf("root %d bytes, parameter_seed %d bytes", len(flat.Root), len(flat.ParameterSeed)),
		}
	}
	buf := make([]byte, 0, hypercube.PublicKeySize)
	buf = append(buf, hypercube.SerializeVersion)
	buf = append(buf, flat.Root...)
	buf = append(buf, flat.ParameterSeed...)
	pk, err := hypercube.DeserializePublicKey(buf)
	if err != nil {
		return nil, &types.ConversionError{
			Field:    "public_key",
			Expected: "signer-library public key layout",
			Found:    err.Error(),
		}
	}
	return pk, nil
}

// ParseSignatureBytes converts a serialized opaque signature directly into
// the flat wire form, validating the layout against params.
func ParseSignatureBytes(data []byte, params types.Parameters) (*types.Signature, error) {
	sig, err := hypercube.DeserializeSignature(data)
	if err != nil {
		return nil, &types.ConversionError{
			Field:    "signature",
			Expected: "signer-library signature layout",
			Found:    err.Error(),
		}
	}
	return SignatureToWire(sig, params)
}

// WireToSecretKey is deliberately unsupported: the wire structures carry no
// secret material, and the signer library's secret layout is not part of the
// wire contract, so reconstruction is refused rather than guessed at.
func WireToSecretKey() (*hypercube.SecretKey, error) {
	return nil, types.ErrUnsupportedConversion
}
