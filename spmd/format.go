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
	"fmt"
	"io"
	"strings"
)

// Sprint renders v relative to g, e.g. "{ 11, (0), (0), 11 }".
//
// Lanes that do not hold live data are parenthesized. A lane is live when it
// is active in the current mask and was also active when the innermost
// enclosing Unmasked region was entered, so values left behind by masked-off
// lanes stay marked as stale inside unmasked code. Inside Foreach, a lane is
// live when it holds an index of the current batch.
func Sprint[T any](g *Gang, v Varying[T]) string {
	var sb strings.Builder
	_, _ = Fprint(&sb, g, v)
	return sb.String()
}

// Fprint writes the rendering of Sprint to w.
func Fprint[T any](w io.Writer, g *Gang, v Varying[T]) (int, error) {
	live := g.visible()
	var sb strings.Builder
	sb.WriteString("{ ")
	for i := range ProgramCount {
		if i > 0 {
			sb.WriteString(", ")
		}
		if live.lanes[i] {
			fmt.Fprint(&sb, v.lanes[i])
		} else {
			fmt.Fprintf(&sb, "(%v)", v.lanes[i])
		}
	}
	sb.WriteString(" }")
	return io.WriteString(w, sb.String())
}
