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

// go/src/core/types/codec.go
//
// Versioned flat byte encoding for batches and outcomes. Numeric fields are
// fixed-width little-endian, variable-length sequences are length-prefixed
// with a uint32 count. The layout is the real interface to external
// collaborators; decode failures identify the field that violated it.
package types

import (
	"encoding/binary"
	"fmt"
)

// WireVersion is the current batch encoding version.
const WireVersion = 1

// OutcomeSize is the byte size of an encoded outcome: bool-as-uint32,
// count-as-uint32, and the 32-byte commitment.
const OutcomeSize = 4 + 4 + 32

// EncodeBatch serializes a batch into the versioned flat byte layout.
func EncodeBatch(b *VerificationBatch) []byte {
	buf := make([]byte, 0, 1+14+batchPayloadSize(b))
	buf = append(buf, WireVersion)
	buf = binary.LittleEndian.AppendUint16(buf, b.Params.W)
	buf = binary.LittleEndian.AppendUint16(buf, b.Params.V)
	buf = binary.LittleEndian.AppendUint32(buf, b.Params.D0)
	buf = binary.LittleEndian.AppendUint16(buf, b.Params.SecurityBits)
	buf = binary.LittleEndian.AppendUint16(buf, b.Params.TreeHeight)

	buf = binary.LittleEndian.AppendUint32(buf, b.Statement.K)
	buf = binary.LittleEndian.AppendUint64(buf, b.Statement.Epoch)
	buf = appendBytes(buf, b.Statement.MessageDigest)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Statement.PublicKeys)))
	for _, pk := range b.Statement.PublicKeys {
		buf = appendBytes(buf, pk.Root)
		buf = appendBytes(buf, pk.ParameterSeed)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Signatures)))
	for _, sig := range b.Signatures {
		buf = binary.LittleEndian.AppendUint32(buf, sig.LeafIndex)
		buf = appendBytes(buf, sig.Randomness)
		buf = appendByteSeq(buf, sig.ChainValues)
		buf = appendByteSeq(buf, sig.AuthPath)
	}
	return buf
}

// DecodeBatch parses the versioned flat byte layout back into a batch.
func DecodeBatch(data []byte) (*VerificationBatch, error) {
	r := wireReader{data: data}
	ver, err := r.u8("version")
	if err != nil {
		return nil, err
	}
	if ver != WireVersion {
		return nil, &ConversionError{
			Field:    "version",
			Expected: fmt.Sprintf("%d", WireVersion),
			Found:    fmt.Sprintf("%d", ver),
		}
	}

	var b VerificationBatch
	if b.Params.W, err = r.u16("params.w"); err != nil {
		return nil, err
	}
	if b.Params.V, err = r.u16("params.v"); err != nil {
		return nil, err
	}
	if b.Params.D0, err = r.u32("params.d0"); err != nil {
		return nil, err
	}
	if b.Params.SecurityBits, err = r.u16("params.security_bits"); err != nil {
		return nil, err
	}
	if b.Params.TreeHeight, err = r.u16("params.tree_height"); err != nil {
		return nil, err
	}

	if b.Statement.K, err = r.u32("statement.k"); err != nil {
		return nil, err
	}
	if b.Statement.Epoch, err = r.u64("statement.epoch"); err != nil {
		return nil, err
	}
	if b.Statement.MessageDigest, err = r.bytes("statement.message_digest"); err != nil {
		return nil, err
	}
	npk, err := r.u32("statement.public_keys.len")
	if err != nil {
		return nil, err
	}
	// Each public key occupies at least two u32 length prefixes. Bounding the
	// declared count against the remaining input keeps a forged header from
	// driving the pre-allocation below.
	if err := r.boundCount("statement.public_keys.len", npk, 8); err != nil {
		return nil, err
	}
	b.Statement.PublicKeys = make([]PublicKey, 0, npk)
	for i := uint32(0); i < npk; i++ {
		var pk PublicKey
		if pk.Root, err = r.bytes("public_key.root"); err != nil {
			return nil, err
		}
		if pk.ParameterSeed, err = r.bytes("public_key.parameter_seed"); err != nil {
			return nil, err
		}
		b.Statement.PublicKeys = append(b.Statement.PublicKeys, pk)
	}

	nsig, err := r.u32("signatures.len")
	if err != nil {
		return nil, err
	}
	// A signature needs its leaf index plus three length prefixes.
	if err := r.boundCount("signatures.len", nsig, 16); err != nil {
		return nil, err
	}
	b.Signatures = make([]Signature, 0, nsig)
	for i := uint32(0); i < nsig; i++ {
		var sig Signature
		if sig.LeafIndex, err = r.u32("signature.leaf_index"); err != nil {
			return nil, err
		}
		if sig.Randomness, err = r.bytes("signature.randomness"); err != nil {
			return nil, err
		}
		if sig.ChainValues, err = r.byteSeq("signature.chain_values"); err != nil {
			return nil, err
		}
		if sig.AuthPath, err = r.byteSeq("signature.auth_path"); err != nil {
			return nil, err
		}
		b.Signatures = append(b.Signatures, sig)
	}
	if r.pos != len(r.data) {
		return nil, &ConversionError{
			Field:    "batch",
			Expected: fmt.Sprintf("%d bytes", r.pos),
			Found:    fmt.Sprintf("%d bytes (trailing data)", len(r.data)),
		}
	}
	return &b, nil
}

// Encode serializes the outcome as three public output fields: bool-as-uint32,
// count-as-uint32, and eight little-endian commitment words.
func (o *Outcome) Encode() []byte {
	buf := make([]byte, OutcomeSize)
	if o.AllValid {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
	}
	binary.LittleEndian.PutUint32(buf[4:8], o.VerifiedCount)
	copy(buf[8:], o.Commitment[:])
	return buf
}

// DecodeOutcome parses an encoded outcome.
func DecodeOutcome(data []byte) (*Outcome, error) {
	if len(data) != OutcomeSize {
		return nil, &ConversionError{
			Field:    "outcome",
			Expected: fmt.Sprintf("%d bytes", OutcomeSize),
			Found:    fmt.Sprintf("%d bytes", len(data)),
		}
	}
	var o Outcome
	o.AllValid = binary.LittleEndian.Uint32(data[0:4]) == 1
	o.VerifiedCount = binary.LittleEndian.Uint32(data[4:8])
	copy(o.Commitment[:], data[8:])
	return &o, nil
}

func batchPayloadSize(b *VerificationBatch) int {
	n := 4 + 8 + 4 + len(b.Statement.MessageDigest) + 4
	for _, pk := range b.Statement.PublicKeys {
		n += 8 + len(pk.Root) + len(pk.ParameterSeed)
	}
	n += 4
	for _, sig := range b.Signatures {
		n += 4 + 4 + len(sig.Randomness) + 4 + 4
		for _, cv := range sig.ChainValues {
			n += 4 + len(cv)
		}
		for _, ap := range sig.AuthPath {
			n += 4 + len(ap)
		}
	}
	return n
}

func appendBytes(buf, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func appendByteSeq(buf []byte, seq [][]byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(seq)))
	for _, b := range seq {
		buf = appendBytes(buf, b)
	}
	return buf
}

// wireReader is a cursor over an encoded batch that turns short reads into
// descriptive conversion errors instead of panics.
type wireReader struct {
	data []byte
	pos  int
}

func (r *wireReader) need(field string, n int) error {
	if len(r.data)-r.pos < n {
		return &ConversionError{
			Field:    field,
			Expected: fmt.Sprintf("%d bytes", n),
			Found:    fmt.Sprintf("%d bytes", len(r.data)-r.pos),
		}
	}
	return nil
}

// boundCount rejects a declared element count that the remaining input could
// not possibly hold, given a minimum encoded size per element. Counts come
// straight off the wire, so they must never size an allocation on their own.
func (r *wireReader) boundCount(field string, count uint32, minElemSize int) error {
	if int64(count)*int64(minElemSize) > int64(len(r.data)-r.pos) {
		return &ConversionError{
			Field:    field,
			Expected: fmt.Sprintf("at most %d elements", (len(r.data)-r.pos)/minElemSize),
			Found:    fmt.Sprintf("%d", count),
		}
	}
	return nil
}

func (r *wireReader) u8(field string) (byte, error) {
	if err := r.need(field, 1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *wireReader) u16(field string) (uint16, error) {
	if err := r.need(field, 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *wireReader) u32(field string) (uint32, error) {
	if err := r.need(field, 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *wireReader) u64(field string) (uint64, error) {
	if err := r.need(field, 8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *wireReader) bytes(field string) ([]byte, error) {
	n, err := r.u32(field + ".len")
	if err != nil {
		return nil, err
	}
	if err := r.need(field, int(n)); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return b, nil
}

func (r *wireReader) byteSeq(field string) ([][]byte, error) {
	n, err := r.u32(field + ".len")
	if err != nil {
		return nil, err
	}
	seq := make([][]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		b, err := r.bytes(field)
		if err != nil {
			return nil, err
		}
		seq = append(seq, b)
	}
	return seq, nil
}
