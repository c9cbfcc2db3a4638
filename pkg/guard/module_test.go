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

package guard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/module"
	"github.com/procguard/procguard/pkg/process"
	"github.com/procguard/procguard/pkg/process/finders/scanner"
)

func startProcessModule(t *testing.T) *module.Manager {
	processModule := process.NewModule()
	conf := processModule.Config().(*process.Config)
	conf.HeartbeatPeriod = "1m"
	conf.Scanner = &scanner.Config{Active: true, Period: "1h"}
	require.NoError(t, processModule.Start(context.Background(), nil))
	t.Cleanup(func() { _ = processModule.Shutdown(context.Background(), nil) })
	return module.NewManager([]module.Module{processModule}, nil)
}

func TestModuleTerminatesDeniedRunningProcess(t *testing.T) {
	mgr := startProcessModule(t)
	self, err := os.Executable()
	require.NoError(t, err)

	terminator := &recordingTerminator{}
	m := NewModule()
	m.terminator = terminator
	m.config.Active = true
	m.config.Processes = []string{filepath.Base(self)}
	assert.True(t, m.Config().IsActive())
	assert.Equal(t, []string{process.ModuleName}, m.RequiredModules())

	require.NoError(t, m.Start(context.Background(), mgr))
	mgr.FindModule(process.ModuleName).NotifyStartSuccess()
	m.NotifyStartSuccess()

	pid := int32(os.Getpid())
	assert.Eventually(t, func() bool {
		for _, terminated := range terminator.terminated() {
			if terminated == pid {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	// forgotten after the kill so a restart with the same pid is reported again
	processModule := mgr.FindModule(process.ModuleName).(*process.Module)
	assert.Eventually(t, func() bool {
		return len(processModule.FindProcessByPID(pid)) == 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.NoError(t, m.Shutdown(context.Background(), mgr))
}

func TestModuleReloadsDenyListFile(t *testing.T) {
	reloadDebounce = 10 * time.Millisecond
	mgr := startProcessModule(t)
	file := filepath.Join(t.TempDir(), "deny.json")

	m := NewModule()
	m.terminator = &recordingTerminator{}
	m.config.DenyListFile = file
	m.config.WatchDenyList = true
	require.NoError(t, m.Start(context.Background(), mgr))
	defer func() { assert.NoError(t, m.Shutdown(context.Background(), mgr)) }()

	// created with the defaults
	assert.True(t, m.guard.DenyList().Match("CompatTelRunner.exe"))

	require.NoError(t, os.WriteFile(file, []byte(`{"processes": ["updater.exe"]}`), 0o600))
	assert.Eventually(t, func() bool {
		return m.guard.DenyList().Match("updater.exe")
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, m.guard.DenyList().Match("CompatTelRunner.exe"))

	// a broken file keeps the previous deny-list
	require.NoError(t, os.WriteFile(file, []byte(`{broken`), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, m.guard.DenyList().Match("updater.exe"))
}

func TestModuleStartFailures(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		mgr    *module.Manager
	}{
		{name: "illegal ttl", config: &Config{KillTTL: "soon"}, mgr: module.NewManager(nil, nil)},
		{name: "negative ttl", config: &Config{KillTTL: "-1s"}, mgr: module.NewManager(nil, nil)},
		{name: "illegal pattern", config: &Config{Processes: []string{"[a-"}}, mgr: module.NewManager(nil, nil)},
		{name: "no process module", config: &Config{}, mgr: module.NewManager(nil, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModule()
			m.config = tt.config
			assert.Error(t, m.Start(context.Background(), tt.mgr))
			assert.NoError(t, m.Shutdown(context.Background(), tt.mgr))
		})
	}
}
