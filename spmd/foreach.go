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
	"iter"
	"log/slog"
)

// Range is the half-open interval [start, finish) consumed in batches of
// ProgramCount consecutive values. A Range is a plain value: Next returns the
// remaining range instead of mutating the receiver.
type Range[T Integers] struct {
	cursor, finish T
}

// NewRange returns the range [start, finish). If finish <= start the range is
// empty.
func NewRange[T Integers](start, finish T) Range[T] {
	return Range[T]{cursor: start, finish: finish}
}

// Done reports whether the range is exhausted.
func (r Range[T]) Done() bool {
	return r.cursor >= r.finish
}

// Next returns the next batch of up to ProgramCount values, the mask of lanes
// that received a value, and the remaining range. Lanes past the end of the
// interval are zero and inactive in the returned mask.
func (r Range[T]) Next() (Varying[T], Mask, Range[T]) {
	var batch Varying[T]
	var mask Mask
	for i := 0; i < ProgramCount && r.cursor < r.finish; i++ {
		batch.lanes[i] = r.cursor
		mask.lanes[i] = true
		r.cursor++
	}
	return batch, mask, r
}

// Batches returns an iterator over the batches of r. See Next.
func (r Range[T]) Batches() iter.Seq2[Varying[T], Mask] {
	return func(yield func(Varying[T], Mask) bool) {
		for cur := r; !cur.Done(); {
			var batch Varying[T]
			var mask Mask
			batch, mask, cur = cur.Next()
			if !yield(batch, mask) {
				return
			}
		}
	}
}

// Foreach runs body once per batch of [start, finish).
//
// Foreach is an unmasked region: whatever mask is current when it is called,
// each batch runs with exactly the lanes that hold an index of the interval
// active. A trailing partial batch therefore needs no bounds checks in body.
// The previous mask is restored when Foreach returns.
func Foreach[T Integers](g *Gang, start, finish T, body func(i Varying[T])) {
	batches := 0
	// Batch lanes hold fresh indices, so they render as live whatever the
	// caller's mask was.
	g.unmasked(AllOn(), func() {
		for batch, mask := range NewRange(start, finish).Batches() {
			g.mask = mask
			body(batch)
			batches++
		}
	})
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("spmd: foreach done", "start", start, "finish", finish, "batches", batches)
	}
}

// ForeachSlice runs body over data in batches of ProgramCount elements. body
// receives the element indices and the gathered elements; lanes past the end
// of data are inactive.
func ForeachSlice[T any](g *Gang, data []T, body func(i Varying[int], x Varying[T])) {
	Foreach(g, 0, len(data), func(i Varying[int]) {
		body(i, Gather(g, data, i))
	})
}
