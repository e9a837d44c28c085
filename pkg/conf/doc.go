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

/*
Package conf wraps kingpin to provide:
- flags which can be given on the command line or as SWEEP_<NAME> environment variables,
- typed flag definitions (string, int, bool, duration, slice) safe to declare from many packages,
- struct tag processing to expose config structs as flags (Process),
- configuration dump as a sourceable environment script,
- predefined log level flag (logrus integration).
*/
package conf
