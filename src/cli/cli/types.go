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

// go/src/cli/cli/types.go
package cli

// keyFileJSON is the on-disk envelope for serialized key material. The key
// bytes themselves use the signer library's stable binary layout; the
// envelope records which parameter set they belong to.
type keyFileJSON struct {
	Set   string `json:"set"`
	KeyID string `json:"key_id,omitempty"`
	Key   string `json:"key"` // hex of the serialized key
}

// signatureFileJSON is the on-disk envelope for a serialized signature.
type signatureFileJSON struct {
	Set       string `json:"set"`
	Epoch     uint32 `json:"epoch"`
	Signature string `json:"signature"` // hex of the serialized signature
}

// OutcomeJSON is the printable form of a verification outcome.
type OutcomeJSON struct {
	AllValid      bool       `json:"all_valid"`
	VerifiedCount uint32     `json:"verified_count"`
	Commitment    string     `json:"commitment"`
	PublicWords   [10]uint32 `json:"public_words"`
}
