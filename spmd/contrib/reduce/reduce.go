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

// Package reduce collapses Varying values to scalars.
//
// All, Any and None look at every lane, including lanes that are inactive in
// the current mask: a reduction answers a question about the whole vector,
// not about the current branch. The *Active variants and the numeric
// reductions only consider lanes active in a Gang's current mask.
package reduce

import (
	"cmp"

	"github.com/ajroetker/go-spmd/spmd"
)

// All returns true if every lane of m is set.
func All(m spmd.Mask) bool {
	for _, bit := range m.Lanes() {
		if !bit {
			return false
		}
	}
	return true
}

// Any returns true if at least one lane of m is set.
func Any(m spmd.Mask) bool {
	return spmd.AnyTrue(m)
}

// None returns true if no lane of m is set.
func None(m spmd.Mask) bool {
	return !Any(m)
}

// AllActive returns true if m is set in every active lane of g.
// It is true when no lane is active.
func AllActive(g *spmd.Gang, m spmd.Mask) bool {
	active := g.Mask().Lanes()
	for i, bit := range m.Lanes() {
		if active[i] && !bit {
			return false
		}
	}
	return true
}

// AnyActive returns true if m is set in at least one active lane of g.
func AnyActive(g *spmd.Gang, m spmd.Mask) bool {
	active := g.Mask().Lanes()
	for i, bit := range m.Lanes() {
		if active[i] && bit {
			return true
		}
	}
	return false
}

// NoneActive returns true if m is not set in any active lane of g.
func NoneActive(g *spmd.Gang, m spmd.Mask) bool {
	return !AnyActive(g, m)
}

// CountTrue returns the number of active lanes of g in which m is set.
func CountTrue(g *spmd.Gang, m spmd.Mask) int {
	active := g.Mask().Lanes()
	n := 0
	for i, bit := range m.Lanes() {
		if active[i] && bit {
			n++
		}
	}
	return n
}

// Sum adds the active lanes of v. It is zero when no lane is active.
func Sum[T spmd.Numbers](g *spmd.Gang, v spmd.Varying[T]) T {
	active := g.Mask().Lanes()
	var sum T
	for i, x := range v.Lanes() {
		if active[i] {
			sum += x
		}
	}
	return sum
}

// Min returns the minimum over the active lanes of v.
// ok is false when no lane is active.
func Min[T cmp.Ordered](g *spmd.Gang, v spmd.Varying[T]) (result T, ok bool) {
	return fold(g, v, func(a, b T) T { return min(a, b) })
}

// Max returns the maximum over the active lanes of v.
// ok is false when no lane is active.
func Max[T cmp.Ordered](g *spmd.Gang, v spmd.Varying[T]) (result T, ok bool) {
	return fold(g, v, func(a, b T) T { return max(a, b) })
}

func fold[T any](g *spmd.Gang, v spmd.Varying[T], f func(a, b T) T) (result T, ok bool) {
	active := g.Mask().Lanes()
	for i, x := range v.Lanes() {
		if !active[i] {
			continue
		}
		if !ok {
			result, ok = x, true
			continue
		}
		result = f(result, x)
	}
	return result, ok
}
