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

package finders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/process/api"
)

type testProcess struct {
	pid  int32
	name string
}

func (t *testProcess) Pid() int32             { return t.pid }
func (t *testProcess) ParentPid() int32       { return 1 }
func (t *testProcess) Name() string           { return t.name }
func (t *testProcess) ExecutablePath() string { return "" }
func (t *testProcess) CommandLine() string    { return t.name }

func detected(pid int32, name string) api.DetectedProcess {
	return &testProcess{pid: pid, name: name}
}

type recordingListener struct {
	mutex    sync.Mutex
	added    []string
	removed  []string
	rechecks []map[int32][]api.ProcessInterface
}

func (r *recordingListener) AddNewProcess(pid int32, entities []api.ProcessInterface) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, e := range entities {
		r.added = append(r.added, e.Name())
	}
}

func (r *recordingListener) RemoveProcess(pid int32, entities []api.ProcessInterface) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, e := range entities {
		r.removed = append(r.removed, e.Name())
	}
}

func (r *recordingListener) RecheckAllProcesses(processes map[int32][]api.ProcessInterface) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.rechecks = append(r.rechecks, processes)
}

func (r *recordingListener) snapshot() (added, removed []string, rechecks int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.added...), append([]string(nil), r.removed...), len(r.rechecks)
}

func alwaysAlive(context.Context, int32) (bool, error) {
	return true, nil
}

func startStorage(t *testing.T, pidExists PidExistsFunc) (*ProcessStorage, *recordingListener) {
	storage := NewProcessStorage(context.Background(), time.Hour, pidExists)
	listener := &recordingListener{}
	storage.AddListener(listener)
	storage.Start()
	t.Cleanup(func() { _ = storage.Stop() })
	return storage, listener
}

func TestStorageAddProcesses(t *testing.T) {
	storage, listener := startStorage(t, alwaysAlive)

	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(10, "a.exe"), detected(11, "b.exe")})
	// same process reported twice
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(10, "a.exe")})
	// the pid is reused by another program
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(11, "c.exe")})

	assert.Eventually(t, func() bool {
		added, removed, rechecks := listener.snapshot()
		return len(added) == 3 && len(removed) == 1 && rechecks == 1
	}, time.Second, 5*time.Millisecond)
	added, removed, rechecks := listener.snapshot()
	assert.ElementsMatch(t, []string{"a.exe", "b.exe", "c.exe"}, added)
	assert.Equal(t, []string{"b.exe"}, removed)
	assert.Equal(t, 1, rechecks)

	assert.Len(t, storage.GetAllProcesses(), 2)
	found := storage.FindProcessByPID(11)
	require.Len(t, found, 1)
	assert.Equal(t, "c.exe", found[0].Name())
	assert.Equal(t, api.WMI, found[0].DetectType())
	assert.False(t, found[0].DetectedTime().IsZero())
	assert.Empty(t, storage.FindProcessByPID(99))
}

func TestStorageSyncAllProcessInFinder(t *testing.T) {
	storage, listener := startStorage(t, alwaysAlive)

	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(5, "wmi.exe")})
	storage.SyncAllProcessInFinder(api.Scanner, []api.DetectedProcess{detected(10, "a.exe"), detected(11, "b.exe")})
	storage.SyncAllProcessInFinder(api.Scanner, []api.DetectedProcess{detected(10, "a.exe")})

	assert.Eventually(t, func() bool {
		_, removed, _ := listener.snapshot()
		return len(removed) == 1
	}, time.Second, 5*time.Millisecond)
	_, removed, _ := listener.snapshot()
	assert.Equal(t, []string{"b.exe"}, removed)
	// processes of other finders are kept
	assert.Len(t, storage.GetAllProcesses(), 2)
	assert.Len(t, storage.FindProcessByPID(5), 1)
}

func TestStorageRemoveDeadProcesses(t *testing.T) {
	var mutex sync.Mutex
	dead := map[int32]bool{}
	pidExists := func(_ context.Context, pid int32) (bool, error) {
		mutex.Lock()
		defer mutex.Unlock()
		return !dead[pid], nil
	}
	storage, listener := startStorage(t, pidExists)
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(10, "a.exe"), detected(11, "b.exe")})

	mutex.Lock()
	dead[11] = true
	mutex.Unlock()
	storage.removeDeadProcesses()

	assert.Eventually(t, func() bool {
		_, removed, _ := listener.snapshot()
		return len(removed) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, storage.GetAllProcesses(), 1)
	assert.Empty(t, storage.FindProcessByPID(11))
}

func TestStorageDeleteListener(t *testing.T) {
	storage, listener := startStorage(t, alwaysAlive)
	assert.Eventually(t, func() bool {
		_, _, rechecks := listener.snapshot()
		return rechecks == 1
	}, time.Second, 5*time.Millisecond)

	storage.DeleteListener(listener)
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(10, "a.exe")})
	// the event is consumed without any listener
	assert.Eventually(t, func() bool { return len(storage.eventQueue) == 0 }, time.Second, 5*time.Millisecond)
	added, _, _ := listener.snapshot()
	assert.Empty(t, added)
}

func TestStorageDeleteProcess(t *testing.T) {
	storage, listener := startStorage(t, alwaysAlive)

	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(20, "x.exe")})
	found := storage.FindProcessByPID(20)
	require.Len(t, found, 1)
	killed := found[0]

	assert.True(t, storage.DeleteProcess(killed))
	assert.False(t, storage.DeleteProcess(killed))
	assert.Empty(t, storage.FindProcessByPID(20))

	// restarted with the same pid and name
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(20, "x.exe")})
	assert.Eventually(t, func() bool {
		added, removed, _ := listener.snapshot()
		return len(added) == 2 && len(removed) == 1
	}, time.Second, 5*time.Millisecond)
	added, removed, _ := listener.snapshot()
	assert.Equal(t, []string{"x.exe", "x.exe"}, added)
	assert.Equal(t, []string{"x.exe"}, removed)

	// the pid now belongs to another program, which must be kept
	storage.AddProcesses(api.WMI, []api.DetectedProcess{detected(20, "y.exe")})
	assert.False(t, storage.DeleteProcess(killed))
	found = storage.FindProcessByPID(20)
	require.Len(t, found, 1)
	assert.Equal(t, "y.exe", found[0].Name())
}
