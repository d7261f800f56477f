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

// go/src/core/hasher/hasher.go
package hasher

import (
	"crypto/sha256"
	"encoding/binary"
)

// DigestSize is the output size of the digest primitive in bytes.
const DigestSize = 32

// nodeTag is the one-byte domain tag for Merkle node hashing. Chain-step
// hashing is untagged; the tag keeps tree nodes and chain values in disjoint
// hash domains.
const nodeTag = 0x01

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [DigestSize]byte {
	return sha256.Sum256(data)
}

// ChainStep advances a one-time-signature chain value by a single hash
// application. The encoding is a bare hash of the 32-byte value, matching the
// convention of the paired signer.
func ChainStep(value [DigestSize]byte) [DigestSize]byte {
	return sha256.Sum256(value[:])
}

// PreprocessMessage reduces an arbitrary-length message to a fixed 32-byte
// digest. The reduction is unconditional: a message that already happens to
// be 32 bytes long is hashed like any other.
func PreprocessMessage(message []byte) [DigestSize]byte {
	return sha256.Sum256(message)
}

// EncodingIndex derives the 64-bit vertex-encoding index for a statement.
// It hashes epoch (little-endian uint64) followed by the 32-byte message
// digest and reads the first 8 bytes of the result as a little-endian uint64.
func EncodingIndex(messageDigest [DigestSize]byte, epoch uint64) uint64 {
	buf := make([]byte, 8+DigestSize)
	binary.LittleEndian.PutUint64(buf[:8], epoch)
	copy(buf[8:], messageDigest[:])
	h := sha256.Sum256(buf)
	return binary.LittleEndian.Uint64(h[:8])
}

// NodeHash computes a domain-separated Merkle tree node digest:
//
//	H(0x01 || parameterSeed || height_be32 || parentIndex_be32 || left || right)
//
// Height and parent index use fixed-width big-endian encodings so the input
// layout is unambiguous at every level.
func NodeHash(parameterSeed []byte, height, parentIndex uint32, left, right [DigestSize]byte) [DigestSize]byte {
	buf := make([]byte, 0, 1+len(parameterSeed)+4+4+2*DigestSize)
	buf = append(buf, nodeTag)
	buf = append(buf, parameterSeed...)
	buf = binary.BigEndian.AppendUint32(buf, height)
	buf = binary.BigEndian.AppendUint32(buf, parentIndex)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}

// LeafDigest aggregates the ordered one-time-signature chain ends into a
// single leaf digest with one hash of their concatenation. The scheme uses
// this one-level aggregation instead of an L-tree; the byte layout is a
// protocol-compatibility detail shared with the signer.
func LeafDigest(chainEnds [][DigestSize]byte) [DigestSize]byte {
	buf := make([]byte, 0, len(chainEnds)*DigestSize)
	for _, e := range chainEnds {
		buf = append(buf, e[:]...)
	}
	return sha256.Sum256(buf)
}
