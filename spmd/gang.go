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

// Gang is one SPMD execution context: a group of ProgramCount program
// instances sharing a single current execution mask.
//
// The mask starts with every lane active. Control constructs narrow it for
// the duration of their bodies and restore it when they return, including
// when a body panics.
//
// Gang instances should not be created directly; use NewGang instead.
// A Gang must not be used by more than one goroutine at a time.
type Gang struct {
	// mask is the current execution mask.
	mask Mask

	// live marks lanes the surrounding predicated code still considers
	// meaningful. It only differs from all-on inside Unmasked regions and is
	// used for rendering.
	live Mask
}

// NewGang returns a Gang whose mask has all lanes active.
func NewGang() *Gang {
	g := &Gang{mask: AllOn(), live: AllOn()}
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("spmd: gang created",
			"lanes", ProgramCount,
			"target", CurrentName(),
			"native", NativeFit[int32]())
	}
	return g
}

// Mask returns the current execution mask.
func (g *Gang) Mask() Mask {
	return g.mask
}

// SetMask replaces the current execution mask.
//
// Prefer Narrow, If or While, which restore the previous mask automatically.
// SetMask inside those constructs only lasts until the construct exits.
func (g *Gang) SetMask(m Mask) {
	g.mask = m
}

// Active reports whether lane i is active in the current mask.
func (g *Gang) Active(i int) bool {
	return g.mask.Extract(i)
}

// Preserve runs fn and then restores the mask that was current when Preserve
// was called, whatever fn did to it.
func (g *Gang) Preserve(fn func()) {
	defer g.restore(g.mask)
	fn()
}

// Narrow runs fn with the current mask ANDed with m, then restores it.
func (g *Gang) Narrow(m Mask, fn func()) {
	defer g.restore(g.mask)
	g.mask = maskAnd(g.mask, m)
	fn()
}

// Unmasked runs fn with every lane active, then restores the previous mask.
// Inside fn, Varying operations behave as if no predication were in effect.
func (g *Gang) Unmasked(fn func()) {
	g.unmasked(maskAnd(g.live, g.mask), fn)
}

// unmasked runs fn with every lane active and the given liveness mask.
func (g *Gang) unmasked(live Mask, fn func()) {
	defer g.restoreLive(g.mask, g.live)
	g.live = live
	g.mask = AllOn()
	fn()
}

func (g *Gang) restore(m Mask) {
	g.mask = m
}

func (g *Gang) restoreLive(m, live Mask) {
	g.mask = m
	g.live = live
}

// visible returns the lanes rendered as live data.
func (g *Gang) visible() Mask {
	return maskAnd(g.mask, g.live)
}

type gangKey struct{}

// WithGang returns a copy of ctx carrying g.
func WithGang(ctx context.Context, g *Gang) context.Context {
	return context.WithValue(ctx, gangKey{}, g)
}

// GangFrom returns the Gang stored in ctx by WithGang.
func GangFrom(ctx context.Context) (*Gang, bool) {
	g, ok := ctx.Value(gangKey{}).(*Gang)
	return g, ok && g != nil
}
