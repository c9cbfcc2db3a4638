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

package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/process/api"
)

type syncingManager struct {
	mutex sync.Mutex
	syncs [][]api.DetectedProcess
}

func (s *syncingManager) SyncAllProcessInFinder(processes []api.DetectedProcess) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.syncs = append(s.syncs, processes)
}

func (s *syncingManager) AddDetectedProcess([]api.DetectedProcess) {
}

func (s *syncingManager) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.syncs)
}

func TestFinderSyncsPeriodically(t *testing.T) {
	var calls int32
	list := func(ctx context.Context) ([]api.DetectedProcess, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return nil, errors.New("access denied")
		}
		return []api.DetectedProcess{NewProcess(10, 1, "a.exe", `C:\a.exe`, "a.exe")}, nil
	}
	manager := &syncingManager{}
	finder := NewProcessFinderWithList(list)
	require.NoError(t, finder.Init(context.Background(), &Config{Active: true, Period: "10ms"}, manager))
	finder.Start()

	// the failed listing is skipped and the next one still syncs
	assert.Eventually(t, func() bool { return manager.count() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, finder.Stop())

	manager.mutex.Lock()
	first := manager.syncs[0][0]
	manager.mutex.Unlock()
	assert.Equal(t, "a.exe", first.Name())
	assert.Equal(t, int32(1), first.ParentPid())
	assert.Equal(t, `C:\a.exe`, first.ExecutablePath())
}

func TestFinderConfig(t *testing.T) {
	finder := NewProcessFinder()
	assert.Error(t, finder.Init(context.Background(), &Config{Active: true}, &syncingManager{}))
	assert.Error(t, finder.Init(context.Background(), &Config{Active: true, Period: "0s"}, &syncingManager{}))
	assert.NoError(t, finder.Stop())
	assert.Equal(t, api.Scanner, finder.DetectType())
	assert.False(t, (&Config{}).ActiveFinder())
}

func TestListProcessesFindsItself(t *testing.T) {
	processes, err := ListProcesses(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, processes)
}
