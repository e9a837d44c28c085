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
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// CPUModelNameKey defines a key in the platform metrics map
	CPUModelNameKey = "cpu_model"
	// KernelVersionKey defines a key in the platform metrics map
	KernelVersionKey = "kernel_version"
	// CPUTopologyKey defines a key in the platform metrics map
	CPUTopologyKey = "cpu_topology"
	// PowerGovernorKey defines a key in the platform metrics map
	PowerGovernorKey = "power_governor"
	// SGXDevicesKey defines a key in the platform metrics map
	SGXDevicesKey = "sgx_devices"
	// CMakeVersionKey defines a key in the platform metrics map
	CMakeVersionKey = "cmake_version"
)

var sgxDevices = []string{"/dev/sgx_enclave", "/dev/sgx_provision", "/dev/isgx"}

// GetPlatformMetrics returns map of strings with platform metrics.
// If metric could not be retrieved value for the key is empty string.
func GetPlatformMetrics() map[string]string {
	getters := map[string]func() (string, error){
		CPUModelNameKey:  CPUModelName,
		KernelVersionKey: KernelVersion,
		CPUTopologyKey:   CPUTopology,
		PowerGovernorKey: PowerGovernor,
		SGXDevicesKey:    SGXDevices,
		CMakeVersionKey:  CMakeVersion,
	}

	platformMetrics := make(map[string]string, len(getters))
	for key, get := range getters {
		item, err := get()
		if err != nil {
			logrus.Warnf("GetPlatformMetrics: Failed to get %s metric. Skipping. Error: %s", key, err.Error())
		}
		platformMetrics[key] = item
	}
	return platformMetrics
}

// CPUModelName reads /proc/cpuinfo and returns value of the first 'model name' line.
func CPUModelName() (string, error) {
	file, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return "", errors.Wrapf(err, "Cannot open /proc/cpuinfo file.")
	}
	defer file.Close()

	procScanner := bufio.NewScanner(file)
	for procScanner.Scan() {
		chunks := strings.SplitN(procScanner.Text(), ":", 2)
		if len(chunks) != 2 {
			continue
		}
		if strings.TrimSpace(chunks[0]) == "model name" {
			return strings.TrimSpace(chunks[1]), nil
		}
	}
	err = procScanner.Err()
	if err == nil {
		err = errors.New("Did not find phrase 'model name' in /proc/cpuinfo")
	}
	return "", err
}

// KernelVersion return kernel version as stated in /proc/version
func KernelVersion() (string, error) {
	return readContents("/proc/version")
}

// CPUTopology returns the whole output of 'lscpu -e'.
func CPUTopology() (string, error) {
	return commandOutput("lscpu", "-e")
}

// CMakeVersion returns the first line of 'cmake --version'.
func CMakeVersion() (string, error) {
	output, err := commandOutput("cmake", "--version")
	if err != nil {
		return "", err
	}
	return strings.SplitN(output, "\n", 2)[0], nil
}

// SGXDevices returns comma separated list of SGX device nodes present on the host.
// Empty string means the enclave modes cannot run here.
func SGXDevices() (string, error) {
	present := []string{}
	for _, device := range sgxDevices {
		if _, err := os.Stat(device); err == nil {
			present = append(present, device)
		}
	}
	return strings.Join(present, ","), nil
}

// PowerGovernor returns a comma separated list of CPU:power_policy.
// Example (snippet):
//
//	"0:performance,1:performance,10:performance"
func PowerGovernor() (string, error) {
	dir := "/sys/devices/system/cpu"
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to scan sysfs for CPU devices")
	}

	re := regexp.MustCompile("^cpu[0-9]+$")
	output := []string{}
	for _, file := range files {
		if file.IsDir() && re.MatchString(file.Name()) {
			gov, err := readContents(path.Join(dir, file.Name(), "cpufreq/scaling_governor"))
			if err != nil {
				return "", err
			}
			output = append(output, fmt.Sprintf("%s:%s", strings.TrimPrefix(file.Name(), "cpu"), gov))
		}
	}
	return strings.Join(output, ","), nil
}

func commandOutput(name string, args ...string) (string, error) {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", errors.Wrapf(err, "Failed to get output from %s %s", name, strings.Join(args, " "))
	}
	return strings.TrimSpace(string(output)), nil
}

func readContents(name string) (string, error) {
	content, err := ioutil.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to read %s", name)
	}
	return strings.TrimSpace(string(content)), nil
}
