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
	"bytes"
	"testing"
)

// TestMaskedArithmeticScenario walks through broadcast, masked assignment,
// masked arithmetic and rendering inside an unmasked region.
func TestMaskedArithmeticScenario(t *testing.T) {
	requireWidth(t, 4)
	g := NewGang()
	a := Broadcast[float32](g, 4)
	b := Broadcast[float32](g, 7)
	if got := Sprint(g, a); got != "{ 4, 4, 4, 4 }" {
		t.Errorf("a: got %s", got)
	}

	g.SetMask(MaskOf(true, false, true, true))
	a.Assign(g, b)
	if got, want := Sprint(g, a), "{ 7, (4), 7, 7 }"; got != want {
		t.Errorf("a = b: got %s, want %s", got, want)
	}

	g.SetMask(MaskOf(true, false, false, true))
	c := Sub(g, Mul(g, a, Broadcast[float32](g, 2)), Broadcast[float32](g, 3))
	if want := Load([]float32{11, 0, 0, 11}); c != want {
		t.Errorf("c: got %v, want %v", c, want)
	}

	g.Unmasked(func() {
		if got, want := Sprint(g, c), "{ 11, (0), (0), 11 }"; got != want {
			t.Errorf("c in unmasked region: got %s, want %s", got, want)
		}
		// Operations inside the region see every lane.
		m := maxOf(g, a, c)
		if want := Load([]float32{11, 4, 7, 11}); m != want {
			t.Errorf("max(a, c): got %v, want %v", m, want)
		}
		// Nested narrowing keeps the outer stale lanes marked.
		If(g, MaskOf(true, true, false, false), func() {
			if got, want := Sprint(g, c), "{ 11, (0), (0), (11) }"; got != want {
				t.Errorf("c in nested If: got %s, want %s", got, want)
			}
		})
	})

	d := Copy(g, a)
	if got, want := Sprint(g, d), "{ 7, (0), (0), 7 }"; got != want {
		t.Errorf("d: got %s, want %s", got, want)
	}
}

func TestFprint(t *testing.T) {
	requireWidth(t, 4)
	g := NewGang()
	g.SetMask(MaskOf(false, true, true, true))
	var buf bytes.Buffer
	n, err := Fprint(&buf, g, Load([]string{"a", "b", "c", "d"}))
	if err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	if want := "{ (a), b, c, d }"; buf.String() != want {
		t.Errorf("Fprint: got %q, want %q", buf.String(), want)
	}
	if n != buf.Len() {
		t.Errorf("Fprint returned %d, wrote %d", n, buf.Len())
	}
}
