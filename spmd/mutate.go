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

// Every function in this file writes lane i of its destination only when
// lane i of the Gang's current mask is active. Inactive lanes keep their
// previous value.

// Assign stores rhs into the active lanes of v.
func (v *Varying[T]) Assign(g *Gang, rhs Varying[T]) {
	for i := range v.lanes {
		if g.mask.lanes[i] {
			v.lanes[i] = rhs.lanes[i]
		}
	}
}

// AssignUniform stores x into the active lanes of v.
func (v *Varying[T]) AssignUniform(g *Gang, x T) {
	for i := range v.lanes {
		if g.mask.lanes[i] {
			v.lanes[i] = x
		}
	}
}

// Insert sets lane i to x without consulting any mask.
// Out of range lanes are ignored.
func (v *Varying[T]) Insert(i int, x T) {
	if i < 0 || i >= ProgramCount {
		return
	}
	v.lanes[i] = x
}

// Update replaces each active lane of v with f(v[i], rhs[i]).
func Update[T, U any](g *Gang, v *Varying[T], rhs Varying[U], f func(T, U) T) {
	for i := range v.lanes {
		if g.mask.lanes[i] {
			v.lanes[i] = f(v.lanes[i], rhs.lanes[i])
		}
	}
}

// AddAssign performs v += rhs on active lanes.
func AddAssign[T Numbers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x + y })
}

// SubAssign performs v -= rhs on active lanes.
func SubAssign[T Numbers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x - y })
}

// MulAssign performs v *= rhs on active lanes.
func MulAssign[T Numbers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x * y })
}

// DivAssign performs v /= rhs on active lanes.
func DivAssign[T Numbers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x / y })
}

// RemAssign performs v %= rhs on active lanes.
func RemAssign[T Integers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x % y })
}

// AndAssign performs v &= rhs on active lanes.
func AndAssign[T Integers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x & y })
}

// OrAssign performs v |= rhs on active lanes.
func OrAssign[T Integers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x | y })
}

// XorAssign performs v ^= rhs on active lanes.
func XorAssign[T Integers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x ^ y })
}

// AndNotAssign performs v &^= rhs on active lanes.
func AndNotAssign[T Integers](g *Gang, v *Varying[T], rhs Varying[T]) {
	Update(g, v, rhs, func(x, y T) T { return x &^ y })
}

// ShlAssign performs v <<= s on active lanes.
func ShlAssign[T, S Integers](g *Gang, v *Varying[T], s Varying[S]) {
	Update(g, v, s, func(x T, n S) T { return x << n })
}

// ShrAssign performs v >>= s on active lanes.
func ShrAssign[T, S Integers](g *Gang, v *Varying[T], s Varying[S]) {
	Update(g, v, s, func(x T, n S) T { return x >> n })
}

func step[T Numbers](v *Varying[T], g *Gang, delta T) {
	for i := range v.lanes {
		if g.mask.lanes[i] {
			v.lanes[i] += delta
		}
	}
}

// Inc increments the active lanes of v and returns the updated value
// (pre-increment). Inactive lanes of the result are zero.
func Inc[T Numbers](g *Gang, v *Varying[T]) Varying[T] {
	step(v, g, 1)
	return Copy(g, *v)
}

// Dec decrements the active lanes of v and returns the updated value
// (pre-decrement).
func Dec[T Numbers](g *Gang, v *Varying[T]) Varying[T] {
	step(v, g, T(0)-1)
	return Copy(g, *v)
}

// PostInc increments the active lanes of v and returns their prior value.
func PostInc[T Numbers](g *Gang, v *Varying[T]) Varying[T] {
	old := Copy(g, *v)
	step(v, g, 1)
	return old
}

// PostDec decrements the active lanes of v and returns their prior value.
func PostDec[T Numbers](g *Gang, v *Varying[T]) Varying[T] {
	old := Copy(g, *v)
	step(v, g, T(0)-1)
	return old
}
