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

// go/src/core/xmss/epoch_test.go
package xmss

import (
	"errors"
	"math"
	"testing"

	"github.com/hypercube-core/go/src/core/types"
)

func TestValidateEpochRange(t *testing.T) {
	const lifetime = 16

	if err := ValidateEpochRange(0, lifetime, lifetime); err != nil {
		t.Fatalf("full-lifetime window: %v", err)
	}
	if err := ValidateEpochRange(15, 1, lifetime); err != nil {
		t.Fatalf("last single-epoch window: %v", err)
	}
	if err := ValidateEpochRange(0, 0, lifetime); err != nil {
		t.Fatalf("empty window: %v", err)
	}

	var rangeErr *types.EpochOutOfRangeError
	if err := ValidateEpochRange(1, lifetime, lifetime); !errors.As(err, &rangeErr) {
		t.Fatalf("window past lifetime: error is %T, want *EpochOutOfRangeError", err)
	}
	if rangeErr.Lifetime != lifetime {
		t.Fatalf("range error carries lifetime %d, want %d", rangeErr.Lifetime, lifetime)
	}

	// The end sum is computed in 64 bits; a wrapping uint32 sum must be
	// rejected, not silently truncated into a small in-range value.
	if err := ValidateEpochRange(math.MaxUint32, 2, lifetime); !errors.As(err, &rangeErr) {
		t.Fatalf("wrapping window: error is %T, want *EpochOutOfRangeError", err)
	}
}

func TestValidateEpoch(t *testing.T) {
	if err := ValidateEpoch(4, 4, 3); err != nil {
		t.Fatalf("activation epoch: %v", err)
	}
	if err := ValidateEpoch(6, 4, 3); err != nil {
		t.Fatalf("last active epoch: %v", err)
	}

	var rangeErr *types.EpochOutOfRangeError
	if err := ValidateEpoch(3, 4, 3); !errors.As(err, &rangeErr) {
		t.Fatal("epoch before activation accepted")
	}
	// Upper bound is exclusive.
	if err := ValidateEpoch(7, 4, 3); !errors.As(err, &rangeErr) {
		t.Fatal("epoch at window end accepted")
	}
	if rangeErr.Epoch != 7 || rangeErr.ActivationEpoch != 4 || rangeErr.EndEpoch != 7 {
		t.Fatalf("range error carries %+v", rangeErr)
	}
	if err := ValidateEpoch(0, 0, 0); !errors.As(err, &rangeErr) {
		t.Fatal("empty window accepted an epoch")
	}
	if err := ValidateEpoch(5, math.MaxUint32, math.MaxUint32); !errors.As(err, &rangeErr) {
		t.Fatal("wrapping window accepted an epoch")
	}
}
