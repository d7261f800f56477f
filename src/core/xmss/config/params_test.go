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

// go/src/core/xmss/config/params_test.go
package config

import (
	"errors"
	"testing"

	"github.com/hypercube-core/go/src/core/types"
)

func TestMetadataConsistency(t *testing.T) {
	for _, set := range Sets() {
		md := set.Metadata()
		params := set.Parameters()

		if md.Lifetime != uint32(1)<<md.TreeHeight {
			t.Errorf("%s: lifetime %d does not match height %d", md.Name, md.Lifetime, md.TreeHeight)
		}
		if md.Lifetime != set.Lifetime() || md.Lifetime != params.Lifetime() {
			t.Errorf("%s: lifetime accessors disagree", md.Name)
		}
		if params.W != md.ChainParameter || params.TreeHeight != md.TreeHeight {
			t.Errorf("%s: parameters disagree with metadata", md.Name)
		}
		// Lane count covers the full 18-byte message hash.
		if uint32(params.V)*uint32(params.W) != 18*8 {
			t.Errorf("%s: v=%d w=%d does not cover the message hash", md.Name, params.V, params.W)
		}
		if params.D0 > uint32(params.V)*uint32(params.W-1) {
			t.Errorf("%s: target weight %d exceeds the maximum", md.Name, params.D0)
		}
		wantSig := 4 + 32 + int(params.V)*32 + int(md.TreeHeight)*32
		if md.SignatureSizeBytes != wantSig {
			t.Errorf("%s: signature size %d, want %d", md.Name, md.SignatureSizeBytes, wantSig)
		}
		if md.PublicKeySizeBytes != 64 {
			t.Errorf("%s: public key size %d, want 64", md.Name, md.PublicKeySizeBytes)
		}
	}
}

func TestByName(t *testing.T) {
	for _, set := range Sets() {
		resolved, err := ByName(set.Metadata().Name)
		if err != nil {
			t.Fatalf("ByName(%s): %v", set.Metadata().Name, err)
		}
		if resolved != set {
			t.Fatalf("ByName(%s) resolved to %v", set.Metadata().Name, resolved)
		}
	}

	var paramErr *types.ParameterError
	if _, err := ByName("SHA256-H99-W2"); !errors.As(err, &paramErr) {
		t.Fatalf("unknown name: error is %T, want *ParameterError", err)
	}
}

func TestShortLifetimeSet(t *testing.T) {
	md := SHA256H4W4.Metadata()
	if md.Lifetime != 16 || md.TreeHeight != 4 || md.ChainParameter != 4 {
		t.Fatalf("short set metadata: %+v", md)
	}
}
