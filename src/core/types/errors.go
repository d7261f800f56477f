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

// go/src/core/types/errors.go
package types

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConversion is returned for flat-to-opaque conversions that
// are deliberately not implemented because the opaque layout is not part of
// the wire contract.
var ErrUnsupportedConversion = errors.New("conversion not supported: opaque layout is not reconstructible from wire form")

// StructuralMismatchError reports a batch whose shape violates an invariant.
// The whole batch is rejected before any hashing; no outcome is produced.
type StructuralMismatchError struct {
	Field    string
	Expected int
	Found    int
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("structural mismatch in %s: expected %d, found %d", e.Field, e.Expected, e.Found)
}

// EpochOutOfRangeError reports an epoch outside a key's active window. It
// carries the requested epoch, the window bounds, and the lifetime constant
// for diagnostics.
type EpochOutOfRangeError struct {
	Epoch           uint32
	ActivationEpoch uint32
	EndEpoch        uint32
	Lifetime        uint32
}

func (e *EpochOutOfRangeError) Error() string {
	return fmt.Sprintf("epoch %d outside valid range [%d, %d) for lifetime %d",
		e.Epoch, e.ActivationEpoch, e.EndEpoch, e.Lifetime)
}

// EncodingOverflowError reports that the vertex encoder's counting domain
// cannot represent the configured parameters. This is a configuration error,
// not a per-signature verification failure.
type EncodingOverflowError struct {
	W  uint16
	V  uint16
	D0 uint32
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("vertex layer size overflows counting domain for w=%d v=%d d0=%d", e.W, e.V, e.D0)
}

// ConversionError reports a failed translation between an opaque signer
// representation and the flat wire structures, identifying the layout
// expectation that was violated.
type ConversionError struct {
	Field    string
	Expected string
	Found    string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed at %s: expected %s, found %s", e.Field, e.Expected, e.Found)
}

// ParameterError reports an invalid parameter configuration.
type ParameterError struct {
	Reason string
}

func (e *ParameterError) Error() string {
	return "invalid parameter configuration: " + e.Reason
}
