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

package metadata

import (
	"os"
	"strings"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/conf"
	"github.com/pkg/errors"
)

// RecordRuntimeEnv stores flags, SWEEP_ environment, host, start time and platform.
func RecordRuntimeEnv(metadata Metadata, start time.Time) error {
	err := metadata.RecordMap(conf.GetFlags(), TypeFlags)
	if err != nil {
		return err
	}

	err = metadata.RecordMap(environ(conf.EnvPrefix+"_"), TypeEnviron)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}
	err = metadata.RecordMap(map[string]string{"time": start.Format(time.RFC822Z), "host": hostname}, TypeEmpty)
	if err != nil {
		return err
	}

	return metadata.RecordMap(GetPlatformMetrics(), TypePlatform)
}

// environ returns environment variables starting with prefix.
func environ(prefix string) map[string]string {
	variables := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			variables[fields[0]] = fields[1]
		}
	}
	return variables
}
