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

//go:build arm64

package spmd

import "golang.org/x/sys/cpu"

// x/sys/cpu does not expose the SVE vector length, so SVE is reported at its
// 128-bit minimum.
func init() {
	switch {
	case NoSimdEnv():
		host = scalarHost
	case cpu.ARM64.HasSVE:
		host = hostTarget{level: TargetSVE, width: 16}
	case cpu.ARM64.HasASIMD:
		host = hostTarget{level: TargetNEON, width: 16}
	default:
		host = scalarHost
	}
}
