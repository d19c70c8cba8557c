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

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-spmd/spmd"
)

func TestRunDefaultScenario(t *testing.T) {
	if spmd.ProgramCount != 4 {
		t.Skipf("expected output is written for 4 lanes, have %d", spmd.ProgramCount)
	}
	var buf bytes.Buffer
	run(&buf, defaultScenario())

	want := []string{
		"a:       { 4, 4, 4, 4 }",
		"b:       { 7, 7, 7, 7 }",
		"a = b:   { 7, (4), 7, 7 }",
		"c:       { 11, (0), (0), 11 }",
		"max:     { 11, (4), (7), 11 }",
		"d:       { 7, (0), (0), 7 }",
		"offsets: { 0, (0), (0), 3 }",
		"i:       { 0, 1, 2, 3 }",
		"data[i]: { 1, 2, 3, 4 }",
		"i:       { 4, 5, 6, (0) }",
		"data[i]: { 5, 6, 7, (0) }",
		"sum:     28",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunSumIgnoresMask(t *testing.T) {
	sc := defaultScenario()
	sc.DisableBeforeAssign = []int{0}
	sc.Range = RangeSpec{Start: 2, Finish: 5}

	var buf bytes.Buffer
	run(&buf, sc)
	// Foreach runs every batch unmasked, so the disabled lanes do not matter.
	if !strings.HasSuffix(buf.String(), "sum:     12\n") {
		t.Errorf("got output:\n%s\nwant it to end with sum 12", buf.String())
	}
}

func TestDecodeScenario(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    func(sc *Scenario)
		wantErr bool
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			want:  func(*Scenario) {},
		},
		{
			name:  "partial override",
			input: "a: 1.5\nrange:\n  finish: 3\n",
			want: func(sc *Scenario) {
				sc.A = 1.5
				sc.Range.Finish = 3
			},
		},
		{
			name:  "lane lists",
			input: "disable_before_assign: []\ndisable_before_arith: [0, 1]\n",
			want: func(sc *Scenario) {
				sc.DisableBeforeAssign = []int{}
				sc.DisableBeforeArith = []int{0, 1}
			},
		},
		{name: "unknown field", input: "lanes: 4\n", wantErr: true},
		{name: "lane out of range", input: "disable_before_arith: [-1]\n", wantErr: true},
		{name: "inverted range", input: "range: {start: 5, finish: 2}\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := defaultScenario()
			err := decodeScenario(strings.NewReader(tt.input), &sc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("got nil error, want one")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeScenario: %v", err)
			}
			want := defaultScenario()
			tt.want(&want)
			if diff := cmp.Diff(want, sc); diff != "" {
				t.Errorf("scenario mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()

	sc, err := loadScenario("")
	if err != nil {
		t.Fatalf("loadScenario(\"\"): %v", err)
	}
	if diff := cmp.Diff(defaultScenario(), sc); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	_, err = loadScenario(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}

	custom := defaultScenario()
	custom.B = 9
	custom.Data = []float32{3, 1, 4}
	data, err := encodeScenario(custom)
	if err != nil {
		t.Fatalf("encodeScenario: %v", err)
	}
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := loadScenario(path)
	if err != nil {
		t.Fatalf("loadScenario: %v", err)
	}
	if diff := cmp.Diff(custom, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestDumpScenario(t *testing.T) {
	var buf bytes.Buffer
	if err := dumpScenario(&buf, defaultScenario()); err != nil {
		t.Fatalf("dumpScenario: %v", err)
	}
	sc := defaultScenario()
	sc.A = 0
	if err := decodeScenario(&buf, &sc); err != nil {
		t.Fatalf("decoding dumped scenario: %v", err)
	}
	if diff := cmp.Diff(defaultScenario(), sc); diff != "" {
		t.Errorf("dumped scenario mismatch (-want +got):\n%s", diff)
	}

	errClosed := errors.New("stdout closed")
	if err := dumpScenario(failingWriter{errClosed}, defaultScenario()); !errors.Is(err, errClosed) {
		t.Errorf("dumpScenario to a failing writer: got %v, want %v", err, errClosed)
	}
}
