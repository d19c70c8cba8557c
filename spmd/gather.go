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

import (
	"context"
	"log/slog"
)

// Ref is a masked reference to one address per lane, produced by
// dereferencing a Ptr or a Varying of pointers. Load gathers through the
// addresses and Store scatters into them; both only touch lanes that were
// active when the Ref was created.
//
// A Ref is meant to be consumed in the expression that created it.
type Ref[T any] struct {
	ptrs [ProgramCount]*T
	mask Mask
}

// Deref returns a Ref to the per-lane pointers of p, capturing the current
// mask. Nil pointers are treated as null lanes.
func Deref[T any](g *Gang, p Varying[*T]) Ref[T] {
	return Ref[T]{ptrs: p.lanes, mask: g.mask}
}

// Mask returns the mask captured when r was created.
func (r Ref[T]) Mask() Mask {
	return r.mask
}

// Load reads through the pointer of every active lane.
// Inactive lanes and null lanes are zero.
func (r Ref[T]) Load() Varying[T] {
	var v Varying[T]
	var bad []int
	for i, p := range r.ptrs {
		if !r.mask.lanes[i] {
			continue
		}
		if p == nil {
			bad = append(bad, i)
			continue
		}
		v.lanes[i] = *p
	}
	warnNullLanes("gather", bad)
	return v
}

// Store writes v through the pointer of every active lane. Inactive lanes and
// null lanes perform no write at all.
func (r Ref[T]) Store(v Varying[T]) {
	var bad []int
	for i, p := range r.ptrs {
		if !r.mask.lanes[i] {
			continue
		}
		if p == nil {
			bad = append(bad, i)
			continue
		}
		*p = v.lanes[i]
	}
	warnNullLanes("scatter", bad)
}

func warnNullLanes(op string, lanes []int) {
	if len(lanes) == 0 {
		return
	}
	if l := Logger(); l.Enabled(context.Background(), slog.LevelWarn) {
		l.Warn("spmd: active lanes have no valid address", "op", op, "lanes", lanes)
	}
}

// Ptr is a per-lane address into a shared base slice: lane i refers to
// base[offset[i]].
//
// A lane is null when it was inactive at PtrTo or at any Add that produced
// the Ptr; a null lane stays null. Non-null lanes may hold any offset,
// including negative ones or ones past the end of base, and move freely
// under Add. Bounds are only checked when the Ptr is dereferenced: an
// offset outside base then reads as a null address.
type Ptr[T any] struct {
	base []T
	off  Varying[int]
	set  Mask
}

// PtrTo returns a Ptr addressing base[offsets[i]] in active lanes.
// Inactive lanes are null.
func PtrTo[T any](g *Gang, base []T, offsets Varying[int]) Ptr[T] {
	return Ptr[T]{base: base, off: Copy(g, offsets), set: g.mask}
}

// Offsets returns the per-lane offsets of p. Null lanes are zero.
func (p Ptr[T]) Offsets() Varying[int] {
	return p.off
}

// NonNull returns the lanes of p that are not null.
func (p Ptr[T]) NonNull() Mask {
	return p.set
}

// valid reports whether lane i is non-null and addresses an element of base.
func (p Ptr[T]) valid(i int) bool {
	o := p.off.lanes[i]
	return p.set.lanes[i] && o >= 0 && o < len(p.base)
}

// Add advances each active lane's address by the matching lane of d.
// Inactive lanes and null lanes of the result are null.
func (p Ptr[T]) Add(g *Gang, d Varying[int]) Ptr[T] {
	r := Ptr[T]{base: p.base, set: maskAnd(p.set, g.mask)}
	for i := range r.off.lanes {
		if r.set.lanes[i] {
			r.off.lanes[i] = p.off.lanes[i] + d.lanes[i]
		}
	}
	return r
}

// Deref returns a Ref to the elements p addresses, capturing the current mask.
func (p Ptr[T]) Deref(g *Gang) Ref[T] {
	r := Ref[T]{mask: g.mask}
	for i := range r.ptrs {
		if p.valid(i) {
			r.ptrs[i] = &p.base[p.off.lanes[i]]
		}
	}
	return r
}

// Index is p.Add(g, idx).Deref(g): the per-lane element p[idx].
func (p Ptr[T]) Index(g *Gang, idx Varying[int]) Ref[T] {
	return p.Add(g, idx).Deref(g)
}

// Gather loads src[idx[i]] for every active lane.
// Inactive lanes and out of range indices give zero.
func Gather[T any, I Integers](g *Gang, src []T, idx Varying[I]) Varying[T] {
	return PtrTo(g, src, Convert[int](g, idx)).Deref(g).Load()
}

// Scatter stores v[i] to dst[idx[i]] for every active lane.
// Inactive lanes and out of range indices are skipped.
func Scatter[T any, I Integers](g *Gang, dst []T, idx Varying[I], v Varying[T]) {
	PtrTo(g, dst, Convert[int](g, idx)).Deref(g).Store(v)
}
