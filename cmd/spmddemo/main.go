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

// Command spmddemo walks through masked execution on a single gang.
//
// Usage:
//
//	spmddemo                          # built-in scenario
//	spmddemo -scenario demo.yaml -v   # custom inputs, debug logging
//	spmddemo -dump > demo.yaml        # write the effective scenario
//
// Each step prints the affected vector with lanes that are not live shown
// in parentheses, for example { 7, (4), 7, 7 }.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ajroetker/go-spmd/spmd"
	"github.com/ajroetker/go-spmd/spmd/contrib/reduce"
)

var (
	scenarioFile = flag.String("scenario", "", "YAML scenario file (default: built-in scenario)")
	verbose      = flag.Bool("v", false, "Log gang activity at debug level to stderr")
	dump         = flag.Bool("dump", false, "Print the effective scenario as YAML and exit")
)

func main() {
	flag.Parse()

	if *verbose {
		spmd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	sc, err := loadScenario(*scenarioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		if err := dumpScenario(os.Stdout, sc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("target: %s (%d bytes), lanes: %d\n", spmd.CurrentName(), spmd.CurrentWidth(), spmd.ProgramCount)
	run(os.Stdout, sc)
}

// maxOf returns a with every lane where b > a replaced by b.
func maxOf(g *spmd.Gang, a, b spmd.Varying[float32]) spmd.Varying[float32] {
	spmd.If(g, spmd.Greater(g, b, a), func() {
		a.Assign(g, b)
	})
	return a
}

func disable(g *spmd.Gang, lanes []int) {
	m := g.Mask()
	for _, lane := range lanes {
		m.Insert(lane, false)
	}
	g.SetMask(m)
}

// run executes sc on a fresh gang, printing one line per step.
// sc must already be validated.
func run(w io.Writer, sc Scenario) {
	g := spmd.NewGang()
	show := func(label, s string) {
		fmt.Fprintf(w, "%-8s %s\n", label+":", s)
	}

	a := spmd.Broadcast(g, sc.A)
	b := spmd.Broadcast(g, sc.B)
	show("a", spmd.Sprint(g, a))
	show("b", spmd.Sprint(g, b))

	disable(g, sc.DisableBeforeAssign)
	a.Assign(g, b)
	show("a = b", spmd.Sprint(g, a))

	disable(g, sc.DisableBeforeArith)
	two := spmd.Broadcast(g, float32(2))
	three := spmd.Broadcast(g, float32(3))
	c := spmd.Sub(g, spmd.Mul(g, a, two), three)

	g.Unmasked(func() {
		show("c", spmd.Sprint(g, c))
		show("max", spmd.Sprint(g, maxOf(g, a, c)))
	})

	d := spmd.Copy(g, a)
	show("d", spmd.Sprint(g, d))

	p := spmd.PtrTo(g, sc.Data, spmd.ProgramIndex())
	show("offsets", spmd.Sprint(g, p.Offsets()))

	var total float32
	spmd.Foreach(g, sc.Range.Start, sc.Range.Finish, func(i spmd.Varying[int]) {
		base := spmd.PtrTo(g, sc.Data, spmd.Varying[int]{})
		lane := base.Index(g, i).Load()
		show("i", spmd.Sprint(g, i))
		show("data[i]", spmd.Sprint(g, lane))
		total += reduce.Sum(g, lane)
	})
	show("sum", fmt.Sprint(total))
}
