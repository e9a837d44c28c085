// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metadata records information about a sweep session: flags, environment
// and platform characteristics of the machine running the benchmarks.
package metadata

// Predefined kinds of metadata.
// Kind groups metadata by their common characteristics: flags given to the
// sweep, SWEEP_ environment, platform characteristics or the sweep definition.
const (
	TypeEmpty    = ""
	TypeFlags    = "flags"
	TypeEnviron  = "environ"
	TypePlatform = "platform"
	TypeSweep    = "sweep"
	TypeSummary  = "summary"
)

// Metadata stores key/value information associated with a sweep session.
type Metadata interface {
	// Record stores a key and value and associates it with the session.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates it with the session.
	RecordMap(metadata map[string]string, kind string) error
}
