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
	"sync"
	"testing"
)

func TestNewGangAllActive(t *testing.T) {
	g := NewGang()
	if g.Mask() != AllOn() {
		t.Errorf("NewGang mask: got %v, want all on", g.Mask())
	}
	for i := range ProgramCount {
		if !g.Active(i) {
			t.Errorf("Active(%d) = false, want true", i)
		}
	}
	if g.Active(-1) || g.Active(ProgramCount) {
		t.Error("Active out of range = true, want false")
	}
}

func TestPreserveRestores(t *testing.T) {
	g := NewGang()
	outer := alternating()
	g.SetMask(outer)

	g.Preserve(func() {
		g.SetMask(TailMask(1))
		g.Preserve(func() {
			g.SetMask(Mask{})
		})
		if g.Mask() != TailMask(1) {
			t.Errorf("inner Preserve restored %v, want %v", g.Mask(), TailMask(1))
		}
	})
	if g.Mask() != outer {
		t.Errorf("Preserve restored %v, want %v", g.Mask(), outer)
	}
}

func TestNarrow(t *testing.T) {
	g := NewGang()
	g.SetMask(alternating())
	low := TailMask(ProgramCount / 2)

	g.Narrow(low, func() {
		want := maskAnd(alternating(), low)
		if g.Mask() != want {
			t.Errorf("Narrow mask: got %v, want %v", g.Mask(), want)
		}
	})
	if g.Mask() != alternating() {
		t.Errorf("Narrow restored %v, want %v", g.Mask(), alternating())
	}
}

func TestUnmasked(t *testing.T) {
	g := NewGang()
	g.SetMask(TailMask(1))

	v := Broadcast[int](NewGang(), 3)
	g.Unmasked(func() {
		if g.Mask() != AllOn() {
			t.Errorf("Unmasked mask: got %v, want all on", g.Mask())
		}
		v.AssignUniform(g, 9)
	})
	for i := range ProgramCount {
		if v.lanes[i] != 9 {
			t.Errorf("Unmasked assign: lane %d: got %v, want 9", i, v.lanes[i])
		}
	}
	if g.Mask() != TailMask(1) {
		t.Errorf("Unmasked restored %v, want %v", g.Mask(), TailMask(1))
	}
	if g.live != AllOn() {
		t.Errorf("Unmasked left live mask %v", g.live)
	}
}

func TestScopesRestoreOnPanic(t *testing.T) {
	scopes := map[string]func(g *Gang, fn func()){
		"Preserve": func(g *Gang, fn func()) { g.Preserve(fn) },
		"Narrow":   func(g *Gang, fn func()) { g.Narrow(TailMask(1), fn) },
		"Unmasked": func(g *Gang, fn func()) { g.Unmasked(fn) },
		"If":       func(g *Gang, fn func()) { If(g, TailMask(1), fn) },
		"IfElse": func(g *Gang, fn func()) {
			IfElse(g, TailMask(1), func() {}, fn)
		},
		"While": func(g *Gang, fn func()) {
			While(g, func() Mask { return TailMask(1) }, fn)
		},
		"Foreach": func(g *Gang, fn func()) {
			Foreach(g, 0, 100, func(Varying[int]) { fn() })
		},
	}

	for name, scope := range scopes {
		t.Run(name, func(t *testing.T) {
			g := NewGang()
			entry := alternating()
			g.SetMask(entry)

			func() {
				defer func() {
					if r := recover(); r != "boom" {
						t.Errorf("recovered %v, want boom", r)
					}
				}()
				scope(g, func() {
					g.SetMask(Mask{})
					panic("boom")
				})
			}()

			if g.Mask() != entry {
				t.Errorf("%s: mask after panic: got %v, want %v", name, g.Mask(), entry)
			}
			if g.live != AllOn() {
				t.Errorf("%s: live mask after panic: got %v", name, g.live)
			}
		})
	}
}

// narrowAndReturn leaves its scope early from a nested construct.
func narrowAndReturn(g *Gang, seen *Mask) int {
	result := 0
	g.Narrow(TailMask(1), func() {
		If(g, alternating(), func() {
			*seen = g.Mask()
			if result == 0 {
				result = 1
				return
			}
			result = 2
		})
	})
	return result
}

func TestEarlyReturnRestores(t *testing.T) {
	g := NewGang()
	var seen Mask
	if narrowAndReturn(g, &seen) != 1 {
		t.Fatal("body did not run")
	}
	if seen != TailMask(1) {
		t.Errorf("nested mask: got %v, want %v", seen, TailMask(1))
	}
	if g.Mask() != AllOn() {
		t.Errorf("mask after return: got %v, want all on", g.Mask())
	}
}

func TestGangContext(t *testing.T) {
	if _, ok := GangFrom(context.Background()); ok {
		t.Error("GangFrom(Background) ok = true, want false")
	}
	g := NewGang()
	ctx := WithGang(context.Background(), g)
	got, ok := GangFrom(ctx)
	if !ok || got != g {
		t.Errorf("GangFrom: got %p, %v, want %p, true", got, ok, g)
	}
}

// TestGangsAreIndependent runs one gang per goroutine; masks must not leak
// between them.
func TestGangsAreIndependent(t *testing.T) {
	const workers = 8
	results := make([]Varying[int], workers)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := NewGang()
			n := Add(g, IndexOf[int](), Broadcast(g, w))
			var steps Varying[int]
			While(g, func() Mask { return Greater(g, n, Broadcast(g, 0)) }, func() {
				SubAssign(g, &n, Broadcast(g, 1))
				AddAssign(g, &steps, Broadcast(g, 1))
			})
			if g.Mask() != AllOn() {
				t.Errorf("worker %d: mask not restored: %v", w, g.Mask())
			}
			results[w] = steps
		}()
	}
	wg.Wait()

	for w, steps := range results {
		for i := range ProgramCount {
			if steps.lanes[i] != i+w {
				t.Errorf("worker %d: lane %d: got %d steps, want %d", w, i, steps.lanes[i], i+w)
			}
		}
	}
}
