// Copyright 2025 go-spmd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package spmd provides a software emulation of the SPMD (single program,
// multiple data) execution model used by shader and ISPC-style compilers.
//
// A Varying value holds one element per lane. Every Varying operation is
// predicated by the execution mask of a Gang: mutations only touch active
// lanes, and elementwise operators produce the zero value for inactive lanes.
// Divergent control flow is written with If, IfElse, While, For and Foreach,
// which narrow the mask for their bodies and restore it on exit.
//
// Basic usage:
//
//	g := spmd.NewGang()
//	x := spmd.IndexOf[float32]()          // {0, 1, 2, 3}
//	y := spmd.Broadcast[float32](g, 10)
//
//	spmd.If(g, spmd.Less(g, x, spmd.Broadcast[float32](g, 2)), func() {
//	    y.Assign(g, spmd.Mul(g, x, x))
//	})
//	// y == {0, 1, 10, 10}
//
// A Gang is not safe for concurrent use. Goroutines that run SPMD code
// concurrently must each use their own Gang.
package spmd

import (
	"fmt"
	"strings"
)

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Signed is a constraint for types that support unary negation.
type Signed interface {
	SignedInts | Floats
}

// Numbers is a constraint for types that support + - * /.
type Numbers interface {
	Integers | Floats
}

// Varying holds one value of type T per lane.
//
// The zero value has every lane set to the zero value of T. A Varying always
// has exactly ProgramCount lanes. Lanes are only modified through the masked
// mutation methods and functions of this package.
type Varying[T any] struct {
	lanes [ProgramCount]T
}

// Mask is a Varying of booleans. The current Mask of a Gang marks which lanes
// are active.
type Mask = Varying[bool]

// FromArray creates a Varying from raw per-lane values.
// It does not consult any mask.
func FromArray[T any](values [ProgramCount]T) Varying[T] {
	return Varying[T]{lanes: values}
}

// Load creates a Varying from the first ProgramCount elements of src.
// Missing trailing elements are left as zero. Like FromArray, Load is unmasked.
func Load[T any](src []T) Varying[T] {
	var v Varying[T]
	copy(v.lanes[:], src)
	return v
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Varying[T]) NumLanes() int {
	return ProgramCount
}

// Lanes returns a copy of the per-lane values.
func (v Varying[T]) Lanes() [ProgramCount]T {
	return v.lanes
}

// Extract returns the value of lane i.
// Out of range lanes return the zero value.
func (v Varying[T]) Extract(i int) T {
	if i < 0 || i >= ProgramCount {
		var zero T
		return zero
	}
	return v.lanes[i]
}

// Store writes the lanes to dst, ignoring any mask.
// At most min(len(dst), ProgramCount) elements are written.
func (v Varying[T]) Store(dst []T) {
	copy(dst, v.lanes[:])
}

// String renders all lanes without mask information, e.g. "{ 1, 2, 3, 4 }".
// Use Sprint to render relative to a Gang's mask.
func (v Varying[T]) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i := range ProgramCount {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v.lanes[i])
	}
	sb.WriteString(" }")
	return sb.String()
}

// AllOn returns a mask with every lane active.
func AllOn() Mask {
	var m Mask
	for i := range m.lanes {
		m.lanes[i] = true
	}
	return m
}

// TailMask returns a mask with the first count lanes active.
// count is clamped to [0, ProgramCount].
func TailMask(count int) Mask {
	var m Mask
	for i := 0; i < count && i < ProgramCount; i++ {
		m.lanes[i] = true
	}
	return m
}

// MaskOf builds a mask from per-lane booleans.
func MaskOf(bits ...bool) Mask {
	var m Mask
	copy(m.lanes[:], bits)
	return m
}

// AnyTrue returns true if at least one lane of m is set.
func AnyTrue(m Mask) bool {
	for _, bit := range m.lanes {
		if bit {
			return true
		}
	}
	return false
}

// maskAnd is the unpredicated lane-wise AND used by the control constructs.
func maskAnd(a, b Mask) Mask {
	var r Mask
	for i := range r.lanes {
		r.lanes[i] = a.lanes[i] && b.lanes[i]
	}
	return r
}

func maskNot(a Mask) Mask {
	var r Mask
	for i := range r.lanes {
		r.lanes[i] = !a.lanes[i]
	}
	return r
}
