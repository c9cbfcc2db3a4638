// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggerSection struct {
	Level string `mapstructure:"level"`
}

type wmiSection struct {
	Active    bool   `mapstructure:"active"`
	Namespace string `mapstructure:"namespace"`
	Within    string `mapstructure:"within"`
}

type processSection struct {
	HeartbeatPeriod string      `mapstructure:"heartbeat_period"`
	WMI             *wmiSection `mapstructure:"wmi"`
}

type guardSection struct {
	Processes []string `mapstructure:"processes"`
	KillTTL   string   `mapstructure:"kill_ttl"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		logger  loggerSection
		process processSection
		guard   guardSection
	}{
		{
			name:    "defaults",
			logger:  loggerSection{Level: "INFO"},
			process: processSection{HeartbeatPeriod: "1m", WMI: &wmiSection{Active: true, Namespace: `ROOT\CIMV2`, Within: "2s"}},
			guard:   guardSection{Processes: []string{"CompatTelRunner.exe", "notepad.exe"}, KillTTL: "30s"},
		},
		{
			name: "env set",
			env: map[string]string{
				"TEST_PROCGUARD_LOGGER_LEVEL": "debug",
				"TEST_PROCGUARD_WMI_ACTIVE":   "false",
				"TEST_PROCGUARD_DENIED":       "updater.exe",
				"TEST_PROCGUARD_TTL":          "5",
			},
			logger:  loggerSection{Level: "debug"},
			process: processSection{HeartbeatPeriod: "1m", WMI: &wmiSection{Active: false, Namespace: `ROOT\CIMV2`, Within: "2s"}},
			guard:   guardSection{Processes: []string{"updater.exe", "notepad.exe"}, KillTTL: "5s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			conf, err := Load("testdata/procguard.yaml")
			require.NoError(t, err)
			assert.Equal(t, []string{"guard", "logger", "process_discovery"}, conf.GetTopLevelKeys())

			logger := loggerSection{}
			require.NoError(t, conf.UnMarshalWithKey("logger", &logger))
			assert.Equal(t, tt.logger, logger)

			process := processSection{}
			require.NoError(t, conf.UnMarshalWithKey("process_discovery", &process))
			assert.Equal(t, tt.process, process)

			guard := guardSection{}
			require.NoError(t, conf.UnMarshalWithKey("guard", &guard))
			assert.Equal(t, tt.guard, guard)
		})
	}
}

func TestLoadFailures(t *testing.T) {
	_, err := Load("testdata/not-exist.yaml")
	assert.Error(t, err)

	_, err = Parse([]byte("logger: [level"))
	assert.Error(t, err)
}
