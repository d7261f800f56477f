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

// go/src/core/xmss/registry.go
package xmss

import (
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/hypercube-core/go/src/core/types"
)

// RegistryEntry pairs a registered public key with the epoch window it is
// allowed to sign in.
type RegistryEntry struct {
	PublicKey *WrappedPublicKey
	Window    types.EpochWindow
}

// Registry tracks public keys by identifier together with their active epoch
// windows. Iteration order is registration order, so listings and audits are
// reproducible across runs. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries *orderedmap.OrderedMap[string, RegistryEntry]
}

// NewRegistry returns an empty key registry.
func NewRegistry() *Registry {
	return &Registry{entries: orderedmap.NewOrderedMap[string, RegistryEntry]()}
}

// Register adds a public key under id. The window is validated against the
// key's parameter lifetime before it is accepted. Re-registering an existing
// id is refused; keys rotate by registering under a new id.
func (r *Registry) Register(id string, pk *WrappedPublicKey, window types.EpochWindow) error {
	if err := ValidateEpochRange(window.ActivationEpoch, window.NumActiveEpochs, pk.Params.Lifetime); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries.Get(id); ok {
		return &types.ParameterError{Reason: fmt.Sprintf("key id %q already registered", id)}
	}
	r.entries.Set(id, RegistryEntry{PublicKey: pk, Window: window})
	return nil
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Get(id)
}

// LookupForEpoch returns the entry under id only if epoch falls inside its
// registered window.
func (r *Registry) LookupForEpoch(id string, epoch uint32) (RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries.Get(id)
	if !ok {
		return RegistryEntry{}, &types.ParameterError{Reason: fmt.Sprintf("key id %q not registered", id)}
	}
	if err := ValidateEpoch(epoch, entry.Window.ActivationEpoch, entry.Window.NumActiveEpochs); err != nil {
		return RegistryEntry{}, err
	}
	return entry, nil
}

// ActiveAt returns the ids of all keys whose window contains epoch, in
// registration order.
func (r *Registry) ActiveAt(epoch uint32) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for el := r.entries.Front(); el != nil; el = el.Next() {
		w := el.Value.Window
		if epoch >= w.ActivationEpoch && epoch < w.ActivationEpoch+w.NumActiveEpochs {
			ids = append(ids, el.Key)
		}
	}
	return ids
}

// Remove deletes the entry under id, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Delete(id)
}

// Len reports the number of registered keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Len()
}
