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

package spmd

import "cmp"

// This file provides the elementwise operators. Every operator is predicated
// by the Gang's current mask: active lanes hold the computed value, inactive
// lanes hold the zero value of the result type. Operands are never modified.

// Broadcast creates a vector with every active lane set to x.
// Inactive lanes are zero.
func Broadcast[T any](g *Gang, x T) Varying[T] {
	var v Varying[T]
	for i := range v.lanes {
		if g.mask.lanes[i] {
			v.lanes[i] = x
		}
	}
	return v
}

// Copy returns a copy of v in which inactive lanes are zero.
func Copy[T any](g *Gang, v Varying[T]) Varying[T] {
	var r Varying[T]
	for i := range r.lanes {
		if g.mask.lanes[i] {
			r.lanes[i] = v.lanes[i]
		}
	}
	return r
}

// Convert converts each active lane of v to To using Go conversion rules.
// Inactive lanes are zero.
func Convert[To, From Numbers](g *Gang, v Varying[From]) Varying[To] {
	var r Varying[To]
	for i := range r.lanes {
		if g.mask.lanes[i] {
			r.lanes[i] = To(v.lanes[i])
		}
	}
	return r
}

// ProgramIndex returns {0, 1, ..., ProgramCount-1}. It is not masked.
func ProgramIndex() Varying[int] {
	return IndexOf[int]()
}

// IndexOf returns the lane indices {0, 1, ..., ProgramCount-1} as type T.
// It is not masked.
func IndexOf[T Numbers]() Varying[T] {
	var v Varying[T]
	for i := range v.lanes {
		v.lanes[i] = T(i)
	}
	return v
}

// Map applies f to every active lane of v.
func Map[T, R any](g *Gang, v Varying[T], f func(T) R) Varying[R] {
	var r Varying[R]
	for i := range r.lanes {
		if g.mask.lanes[i] {
			r.lanes[i] = f(v.lanes[i])
		}
	}
	return r
}

// Map2 applies f lane-wise to every active lane of a and b.
func Map2[A, B, R any](g *Gang, a Varying[A], b Varying[B], f func(A, B) R) Varying[R] {
	var r Varying[R]
	for i := range r.lanes {
		if g.mask.lanes[i] {
			r.lanes[i] = f(a.lanes[i], b.lanes[i])
		}
	}
	return r
}

// Add performs element-wise addition.
func Add[T Numbers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x + y })
}

// Sub performs element-wise subtraction.
func Sub[T Numbers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x - y })
}

// Mul performs element-wise multiplication.
func Mul[T Numbers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x * y })
}

// Div performs element-wise division.
// Integer division by zero in an active lane panics, as in scalar Go.
func Div[T Numbers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x / y })
}

// Rem computes the element-wise remainder.
func Rem[T Integers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x % y })
}

// Neg negates all active lanes.
func Neg[T Signed](g *Gang, v Varying[T]) Varying[T] {
	return Map(g, v, func(x T) T { return -x })
}

// Plus is unary plus: a masked copy of v.
func Plus[T Numbers](g *Gang, v Varying[T]) Varying[T] {
	return Copy(g, v)
}

// Abs computes absolute value.
func Abs[T Signed](g *Gang, v Varying[T]) Varying[T] {
	return Map(g, v, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Min returns element-wise minimum.
func Min[T cmp.Ordered](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return min(x, y) })
}

// Max returns element-wise maximum.
func Max[T cmp.Ordered](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return max(x, y) })
}

// And performs element-wise bitwise AND.
func And[T Integers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x & y })
}

// Or performs element-wise bitwise OR.
func Or[T Integers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x | y })
}

// Xor performs element-wise bitwise XOR.
func Xor[T Integers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x ^ y })
}

// AndNot performs element-wise bit clear (a &^ b).
func AndNot[T Integers](g *Gang, a, b Varying[T]) Varying[T] {
	return Map2(g, a, b, func(x, y T) T { return x &^ y })
}

// Not performs element-wise bitwise NOT (ones complement).
func Not[T Integers](g *Gang, v Varying[T]) Varying[T] {
	return Map(g, v, func(x T) T { return ^x })
}

// Shl shifts each lane of v left by the matching lane of s.
// A negative shift count in an active lane panics.
func Shl[T, S Integers](g *Gang, v Varying[T], s Varying[S]) Varying[T] {
	return Map2(g, v, s, func(x T, n S) T { return x << n })
}

// Shr shifts each lane of v right by the matching lane of s.
// Signed types shift arithmetically, unsigned types logically.
func Shr[T, S Integers](g *Gang, v Varying[T], s Varying[S]) Varying[T] {
	return Map2(g, v, s, func(x T, n S) T { return x >> n })
}

// LogicalAnd performs element-wise boolean AND. Both operands are always
// evaluated; there is no per-lane short-circuit.
func LogicalAnd(g *Gang, a, b Mask) Mask {
	return Map2(g, a, b, func(x, y bool) bool { return x && y })
}

// LogicalOr performs element-wise boolean OR.
func LogicalOr(g *Gang, a, b Mask) Mask {
	return Map2(g, a, b, func(x, y bool) bool { return x || y })
}

// LogicalNot performs element-wise boolean negation.
// Inactive lanes are false, not true.
func LogicalNot(g *Gang, v Mask) Mask {
	return Map(g, v, func(x bool) bool { return !x })
}

// Equal performs element-wise equality comparison.
func Equal[T comparable](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x == y })
}

// NotEqual performs element-wise inequality comparison.
func NotEqual[T comparable](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x != y })
}

// Less performs element-wise less-than comparison.
func Less[T cmp.Ordered](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x < y })
}

// Greater performs element-wise greater-than comparison.
func Greater[T cmp.Ordered](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x > y })
}

// LessEqual performs element-wise less-than-or-equal comparison.
func LessEqual[T cmp.Ordered](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x <= y })
}

// GreaterEqual performs element-wise greater-than-or-equal comparison.
func GreaterEqual[T cmp.Ordered](g *Gang, a, b Varying[T]) Mask {
	return Map2(g, a, b, func(x, y T) bool { return x >= y })
}

// Select returns a where m is set and b elsewhere, for active lanes.
// Unlike IfElse, both a and b are already computed values.
func Select[T any](g *Gang, m Mask, a, b Varying[T]) Varying[T] {
	var r Varying[T]
	for i := range r.lanes {
		if g.mask.lanes[i] {
			if m.lanes[i] {
				r.lanes[i] = a.lanes[i]
			} else {
				r.lanes[i] = b.lanes[i]
			}
		}
	}
	return r
}
