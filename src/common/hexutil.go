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

// go/src/common/hexutil.go
package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Bytes2Hex converts bytes to hexadecimal string
func Bytes2Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Hex2Bytes converts hexadecimal string to bytes
func Hex2Bytes(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// FormatHash formats a byte slice as a 64-character hex hash string
func FormatHash(hash []byte) string {
	return fmt.Sprintf("%064x", hash)
}

// FormatNonce formats a uint64 nonce as a 16-character hex string
func FormatNonce(nonce uint64) string {
	return fmt.Sprintf("%016x", nonce)
}

// ParseNonce converts a hex nonce string back to uint64
func ParseNonce(nonceStr string) (uint64, error) {
	return strconv.ParseUint(nonceStr, 16, 64)
}

// GenerateRandomNonce generates a cryptographically secure random request nonce
func GenerateRandomNonce() (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return FormatNonce(binary.BigEndian.Uint64(randomBytes)), nil
}

// ValidateNonceFormat validates if a nonce string is properly formatted
func ValidateNonceFormat(nonce string) error {
	if len(nonce) != 16 {
		return fmt.Errorf("nonce must be 16 characters long, got %d", len(nonce))
	}

	if _, err := hex.DecodeString(nonce); err != nil {
		return fmt.Errorf("nonce must be valid hex: %w", err)
	}

	return nil
}
