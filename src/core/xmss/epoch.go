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

// go/src/core/xmss/epoch.go
//
// Epoch-window validation. These two checks are the mechanism preventing a
// one-time key from being used across more than one epoch: both run before
// any signing operation and before any verification that carries
// epoch-window metadata. Both are pure functions of their arguments.
package xmss

import (
	"math"

	"github.com/hypercube-core/go/src/core/types"
)

// ValidateEpochRange checks the window declared at key generation:
// activation_epoch + num_active_epochs must not exceed the parameter set's
// lifetime. The addition is checked; a wrapping sum is rejected, never
// silently truncated.
func ValidateEpochRange(activationEpoch, numActiveEpochs, lifetime uint32) error {
	end := uint64(activationEpoch) + uint64(numActiveEpochs)
	if end > uint64(math.MaxUint32) {
		return &types.EpochOutOfRangeError{
			Epoch:           activationEpoch,
			ActivationEpoch: activationEpoch,
			EndEpoch:        math.MaxUint32,
			Lifetime:        lifetime,
		}
	}
	if end > uint64(lifetime) {
		return &types.EpochOutOfRangeError{
			Epoch:           uint32(end),
			ActivationEpoch: activationEpoch,
			EndEpoch:        uint32(end),
			Lifetime:        lifetime,
		}
	}
	return nil
}

// ValidateEpoch checks that a signing or verification epoch lies inside a
// key's active window. The lower bound is inclusive and the upper bound
// exclusive: epoch == activation_epoch + num_active_epochs is invalid.
func ValidateEpoch(epoch, activationEpoch, numActiveEpochs uint32) error {
	end := uint64(activationEpoch) + uint64(numActiveEpochs)
	if end > uint64(math.MaxUint32) {
		return &types.EpochOutOfRangeError{
			Epoch:           epoch,
			ActivationEpoch: activationEpoch,
			EndEpoch:        math.MaxUint32,
			Lifetime:        math.MaxUint32,
		}
	}
	if epoch < activationEpoch || uint64(epoch) >= end {
		return &types.EpochOutOfRangeError{
			Epoch:           epoch,
			ActivationEpoch: activationEpoch,
			EndEpoch:        uint32(end),
			Lifetime:        numActiveEpochs,
		}
	}
	return nil
}
