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
	"os"
	"strconv"
	"unsafe"
)

// TargetLevel names the vector unit found on the host. Lanes always run as
// scalar Go code; the level only tells a caller which lane width (build tags
// spmd8, spmd16) would map onto one register of that machine.
type TargetLevel int

const (
	TargetScalar TargetLevel = iota // no vector unit, or SPMD_NO_SIMD set
	TargetSSE2                      // 128-bit, amd64 baseline
	TargetAVX2                      // 256-bit
	TargetAVX512                    // 512-bit
	TargetNEON                      // 128-bit, arm64 baseline
	TargetSVE                       // scalable, at least 128-bit
)

var targetNames = [...]string{
	TargetScalar: "scalar",
	TargetSSE2:   "sse2",
	TargetAVX2:   "avx2",
	TargetAVX512: "avx512",
	TargetNEON:   "neon",
	TargetSVE:    "sve",
}

func (t TargetLevel) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return "unknown"
	}
	return targetNames[t]
}

// hostTarget is the detected vector unit and its register width in bytes.
type hostTarget struct {
	level TargetLevel
	width int
}

// scalarHost is reported when no vector unit is usable. Its width is the
// smallest register any supported ISA has.
var scalarHost = hostTarget{level: TargetScalar, width: 16}

// host is filled in by the per-architecture init in target_*.go.
var host hostTarget

// CurrentLevel returns the detected host target.
func CurrentLevel() TargetLevel { return host.level }

// CurrentWidth returns the host register width in bytes.
func CurrentWidth() int { return host.width }

// CurrentName is CurrentLevel().String().
func CurrentName() string { return host.level.String() }

// noSimdVar hides the host vector unit when set to a true value.
// Any value that does not parse as a bool counts as true.
const noSimdVar = "SPMD_NO_SIMD"

// NoSimdEnv reports whether SPMD_NO_SIMD asks for the scalar target.
func NoSimdEnv() bool {
	val := os.Getenv(noSimdVar)
	if val == "" {
		return false
	}
	on, err := strconv.ParseBool(val)
	return on || err != nil
}

// NativeFit reports whether a Varying[T] fits in one host register.
func NativeFit[T any]() bool {
	var lane T
	size := int(unsafe.Sizeof(lane))
	return size > 0 && size*ProgramCount <= host.width
}
