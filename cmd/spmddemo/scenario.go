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
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-spmd/spmd"
)

// Scenario holds the inputs of a demo run.
// Fields missing from a scenario file keep their default values.
type Scenario struct {
	A float32 `yaml:"a"`
	B float32 `yaml:"b"`

	// DisableBeforeAssign lists the lanes switched off before a = b.
	DisableBeforeAssign []int `yaml:"disable_before_assign"`
	// DisableBeforeArith lists the lanes switched off before c = a*2 - 3.
	DisableBeforeArith []int `yaml:"disable_before_arith"`

	Range RangeSpec `yaml:"range"`
	Data  []float32 `yaml:"data"`
}

// RangeSpec is the half-open index range walked by the foreach step.
type RangeSpec struct {
	Start  int `yaml:"start"`
	Finish int `yaml:"finish"`
}

func defaultScenario() Scenario {
	return Scenario{
		A:                   4,
		B:                   7,
		DisableBeforeAssign: []int{1},
		DisableBeforeArith:  []int{2},
		Range:               RangeSpec{Start: 0, Finish: 7},
		Data:                []float32{1, 2, 3, 4, 5, 6, 7, 8},
	}
}

func (sc Scenario) validate() error {
	for _, lanes := range [][]int{sc.DisableBeforeAssign, sc.DisableBeforeArith} {
		for _, lane := range lanes {
			if lane < 0 || lane >= spmd.ProgramCount {
				return fmt.Errorf("lane %d out of range [0, %d)", lane, spmd.ProgramCount)
			}
		}
	}
	if sc.Range.Start > sc.Range.Finish {
		return fmt.Errorf("range start %d is after finish %d", sc.Range.Start, sc.Range.Finish)
	}
	return nil
}

// loadScenario reads the scenario at path on top of the defaults.
// An empty path returns the defaults.
func loadScenario(path string) (Scenario, error) {
	sc := defaultScenario()
	if path == "" {
		return sc, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return sc, fmt.Errorf("scenario: open %s: %w", path, err)
	}
	defer file.Close()

	if err := decodeScenario(file, &sc); err != nil {
		return sc, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return sc, nil
}

func decodeScenario(r io.Reader, sc *Scenario) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return sc.validate()
}

// encodeScenario renders sc in the same format loadScenario reads.
func encodeScenario(sc Scenario) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, fmt.Errorf("scenario: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scenario: encoder close: %w", err)
	}
	return buf.Bytes(), nil
}

// dumpScenario writes sc to w as YAML.
func dumpScenario(w io.Writer, sc Scenario) error {
	data, err := encodeScenario(sc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("scenario: write: %w", err)
	}
	return nil
}
