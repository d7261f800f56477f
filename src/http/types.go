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

// go/src/http/types.go
package http

// VerifyRequest submits a batch for verification. Batch is the hex-encoded
// canonical wire form of a verification batch. Attest asks the server to sign
// and store a receipt for the outcome when an attestation key is configured.
// Nonce is an optional 16-character hex request identifier echoed back in the
// response and carried through the server logs.
type VerifyRequest struct {
	Batch  string `json:"batch"`
	Attest bool   `json:"attest,omitempty"`
	Nonce  string `json:"nonce,omitempty"`
}

// VerifyResponse reports the public outputs of a batch verification.
type VerifyResponse struct {
	AllValid      bool       `json:"all_valid"`
	VerifiedCount uint32     `json:"verified_count"`
	Commitment    string     `json:"commitment"`
	PublicWords   [10]uint32 `json:"public_words"`
	Cached        bool       `json:"cached"`
	Nonce         string     `json:"nonce,omitempty"`
}

// Config holds the HTTP server configuration.
type Config struct {
	Address         string `json:"address"`
	MetricsAddress  string `json:"metrics_address"`
	Workers         int    `json:"workers"`
	CacheTTLSeconds uint16 `json:"cache_ttl_seconds"`
}
