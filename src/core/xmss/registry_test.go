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

// go/src/core/xmss/registry_test.go
package xmss

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hypercube-core/go/src/core/types"
)

func registryKey(t *testing.T, id byte, activation, num uint32) *WrappedPublicKey {
	t.Helper()
	pk, _, err := KeyGen(testSet, []byte{'r', 'e', 'g', id}, activation, num)
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	return pk
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	pk := registryKey(t, 1, 0, 8)
	window := types.EpochWindow{ActivationEpoch: 0, NumActiveEpochs: 8}

	if err := reg.Register("validator-1", pk, window); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", reg.Len())
	}

	entry, ok := reg.Lookup("validator-1")
	if !ok {
		t.Fatal("registered key not found")
	}
	if entry.Window != window {
		t.Fatalf("entry window: got %+v, want %+v", entry.Window, window)
	}
	if _, ok := reg.Lookup("validator-2"); ok {
		t.Fatal("unregistered id found")
	}

	var paramErr *types.ParameterError
	if err := reg.Register("validator-1", pk, window); !errors.As(err, &paramErr) {
		t.Fatalf("duplicate registration: error is %T, want *ParameterError", err)
	}
}

func TestRegistryValidatesWindow(t *testing.T) {
	reg := NewRegistry()
	pk := registryKey(t, 2, 0, 8)

	var rangeErr *types.EpochOutOfRangeError
	window := types.EpochWindow{ActivationEpoch: 1, NumActiveEpochs: testSet.Lifetime()}
	if err := reg.Register("oversized", pk, window); !errors.As(err, &rangeErr) {
		t.Fatalf("oversized window: error is %T, want *EpochOutOfRangeError", err)
	}
	if reg.Len() != 0 {
		t.Fatal("rejected key was stored")
	}
}

func TestRegistryLookupForEpoch(t *testing.T) {
	reg := NewRegistry()
	pk := registryKey(t, 3, 4, 3)
	if err := reg.Register("windowed", pk, types.EpochWindow{ActivationEpoch: 4, NumActiveEpochs: 3}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := reg.LookupForEpoch("windowed", 5); err != nil {
		t.Fatalf("in-window lookup: %v", err)
	}

	var rangeErr *types.EpochOutOfRangeError
	if _, err := reg.LookupForEpoch("windowed", 7); !errors.As(err, &rangeErr) {
		t.Fatalf("window-end lookup: error is %T, want *EpochOutOfRangeError", err)
	}
	var paramErr *types.ParameterError
	if _, err := reg.LookupForEpoch("missing", 5); !errors.As(err, &paramErr) {
		t.Fatalf("missing id: error is %T, want *ParameterError", err)
	}
}

func TestRegistryActiveAtOrder(t *testing.T) {
	reg := NewRegistry()
	windows := []types.EpochWindow{
		{ActivationEpoch: 0, NumActiveEpochs: 4},
		{ActivationEpoch: 2, NumActiveEpochs: 4},
		{ActivationEpoch: 8, NumActiveEpochs: 4},
	}
	for i, w := range windows {
		id := fmt.Sprintf("key-%d", i)
		if err := reg.Register(id, registryKey(t, byte(10+i), w.ActivationEpoch, w.NumActiveEpochs), w); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}

	got := reg.ActiveAt(3)
	want := []string{"key-0", "key-1"}
	if len(got) != len(want) {
		t.Fatalf("ActiveAt(3): got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ActiveAt(3): got %v, want %v (registration order)", got, want)
		}
	}
	if ids := reg.ActiveAt(15); ids != nil {
		t.Fatalf("ActiveAt(15): got %v, want none", ids)
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	pk := registryKey(t, 4, 0, 4)
	if err := reg.Register("gone", pk, types.EpochWindow{NumActiveEpochs: 4}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Remove("gone") {
		t.Fatal("Remove reported a missing key")
	}
	if reg.Remove("gone") {
		t.Fatal("Remove reported success twice")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len after Remove: got %d, want 0", reg.Len())
	}
}
