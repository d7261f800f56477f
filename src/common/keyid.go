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

// go/src/common/keyid.go
package common

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Prefix byte for key identifiers
const prefixByte = 0x68 // ASCII 'h'

// pubKeyToHash hashes the encoded public key twice using SHAKE-256
func pubKeyToHash(pubKey []byte) []byte {
	firstHash := make([]byte, 32)
	sha3.ShakeSum256(firstHash, pubKey)
	secondHash := make([]byte, 32)
	sha3.ShakeSum256(secondHash, firstHash)
	return secondHash
}

// shakeToRipemd160 applies RIPEMD-160 hashing to the SHAKE-256 result
func shakeToRipemd160(hashPubKey []byte) []byte {
	ripemd160Hash := ripemd160.New()
	ripemd160Hash.Write(hashPubKey)
	return ripemd160Hash.Sum(nil)
}

// ripemd160ToBase58 encodes the RIPEMD-160 hash with the prefix byte and applies Base58 encoding
func ripemd160ToBase58(ripemd160PubKey []byte) string {
	idBytes := append([]byte{prefixByte}, ripemd160PubKey...)
	return base58.Encode(idBytes)
}

// KeyID derives a short, human-readable identifier from a serialized public
// key by applying double SHAKE-256, RIPEMD-160, and Base58 encoding. The same
// key bytes always yield the same identifier.
func KeyID(pubKey []byte) string {
	hashedPubKey := pubKeyToHash(pubKey)
	ripemd160PubKey := shakeToRipemd160(hashedPubKey)
	return ripemd160ToBase58(ripemd160PubKey)
}

// DecodeKeyID decodes a Base58 encoded identifier and checks for the correct
// prefix byte, returning the raw RIPEMD-160 fingerprint.
func DecodeKeyID(encodedID string) ([]byte, error) {
	idBytes := base58.Decode(encodedID)

	if len(idBytes) == 0 {
		return nil, fmt.Errorf("invalid key id: %s", encodedID)
	}

	if idBytes[0] != prefixByte {
		return nil, fmt.Errorf("invalid key id prefix")
	}

	return idBytes[1:], nil
}
