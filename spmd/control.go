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

// Condition is the type of a branch or loop condition.
//
// A bool is a uniform condition: every lane agrees, so the construct behaves
// like ordinary Go control flow and the mask is not touched. A Mask is a
// varying condition: lanes may diverge, and the construct narrows the mask
// for each body instead of skipping it.
type Condition interface {
	bool | Mask
}

// branch is the state of one varying if/else. The then-mask is old AND cond,
// the else-mask is old AND NOT cond, and exit restores old.
type branch struct {
	g    *Gang
	cond Mask
	old  Mask
}

func enterBranch(g *Gang, cond Mask) branch {
	b := branch{g: g, cond: cond, old: g.mask}
	b.g.mask = maskAnd(b.old, b.cond)
	return b
}

func (b *branch) enterElse() {
	b.cond = maskNot(b.cond)
	b.g.mask = maskAnd(b.old, b.cond)
}

func (b *branch) exit() {
	b.g.mask = b.old
}

// If runs then for the lanes where cond holds.
// See IfElse for the semantics of uniform and varying conditions.
func If[C Condition](g *Gang, cond C, then func()) {
	IfElse(g, cond, then, nil)
}

// IfElse runs then for the lanes where cond holds and els for the others.
//
// With a uniform (bool) condition exactly one of then and els runs and the
// mask is unchanged.
//
// With a varying (Mask) condition both bodies always run, then before els.
// then runs with mask old AND cond, els with mask old AND NOT cond, where old
// is the mask on entry; lanes outside a body's mask are unaffected by it.
// The mask is restored to old when IfElse returns, even if a body panics.
// A nil body is skipped.
func IfElse[C Condition](g *Gang, cond C, then, els func()) {
	switch c := any(cond).(type) {
	case bool:
		if c {
			call(then)
		} else {
			call(els)
		}
	case Mask:
		b := enterBranch(g, c)
		defer b.exit()
		call(then)
		b.enterElse()
		call(els)
	}
}

// While runs body while cond holds.
//
// With a uniform condition this is an ordinary loop. With a varying
// condition, each iteration ANDs the current mask with cond() and stops once
// no lane is active; a lane whose condition is false once stays inactive for
// the rest of the loop. All lanes step through the loop together, but each
// lane's body effects happen exactly as many times as its own condition held.
// The mask in effect before the loop is restored when While returns.
func While[C Condition](g *Gang, cond func() C, body func()) {
	var zero C
	switch any(zero).(type) {
	case bool:
		for any(cond()).(bool) {
			call(body)
		}
	case Mask:
		defer g.restore(g.mask)
		for {
			g.mask = maskAnd(g.mask, any(cond()).(Mask))
			if !AnyTrue(g.mask) {
				return
			}
			call(body)
		}
	}
}

// For is While with a post statement: step runs after body on every
// iteration, under the same mask as body.
func For[C Condition](g *Gang, cond func() C, step, body func()) {
	While(g, cond, func() {
		call(body)
		call(step)
	})
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
