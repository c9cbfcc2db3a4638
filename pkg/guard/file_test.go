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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDenyListFileCreatesDefaults(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contains string
	}{
		{name: "json", file: "deny.json", contains: `"processes"`},
		{name: "yaml", file: "deny.yaml", contains: "processes:\n"},
		{name: "no extension", file: "deny", contains: `"processes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "conf", tt.file)
			processes, err := LoadDenyListFile(file, DefaultProcesses)
			require.NoError(t, err)
			assert.Equal(t, DefaultProcesses, processes)

			data, err := os.ReadFile(file)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
			assert.Contains(t, string(data), "CompatTelRunner.exe")

			// read back what was written
			processes, err = LoadDenyListFile(file, nil)
			require.NoError(t, err)
			assert.Equal(t, DefaultProcesses, processes)
		})
	}
}

func TestLoadDenyListFileExisting(t *testing.T) {
	file := filepath.Join(t.TempDir(), "deny.yaml")
	require.NoError(t, os.WriteFile(file, []byte("processes:\n  - a.exe\n  - b\n"), 0o600))
	processes, err := LoadDenyListFile(file, DefaultProcesses)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.exe", "b"}, processes)

	broken := filepath.Join(t.TempDir(), "deny.json")
	require.NoError(t, os.WriteFile(broken, []byte("{processes"), 0o600))
	_, err = LoadDenyListFile(broken, DefaultProcesses)
	assert.Error(t, err)
}

func TestWatchFile(t *testing.T) {
	reloadDebounce = 10 * time.Millisecond
	dir := t.TempDir()
	file := filepath.Join(dir, "deny.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"processes": []}`), 0o600))

	var changes int32
	watcher, err := WatchFile(file, func() { atomic.AddInt32(&changes, 1) })
	require.NoError(t, err)
	defer func() { assert.NoError(t, watcher.Close()) }()

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&changes))

	require.NoError(t, os.WriteFile(file, []byte(`{"processes": ["a.exe"]}`), 0o600))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&changes) >= 1 }, 2*time.Second, 10*time.Millisecond)
}
