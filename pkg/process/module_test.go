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

package process

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/process/finders/scanner"
)

func TestModuleStartFailures(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "missing heartbeat", config: &Config{Scanner: &scanner.Config{Active: true, Period: "1s"}}},
		{name: "negative heartbeat", config: &Config{HeartbeatPeriod: "-1s", Scanner: &scanner.Config{Active: true, Period: "1s"}}},
		{name: "no finder", config: &Config{HeartbeatPeriod: "1m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModule()
			m.config = tt.config
			assert.Error(t, m.Start(context.Background(), nil))
			assert.NoError(t, m.Shutdown(context.Background(), nil))
		})
	}
}

func TestModuleDiscoversCurrentProcess(t *testing.T) {
	m := NewModule()
	assert.Equal(t, ModuleName, m.Name())
	assert.Equal(t, []string{logger.ModuleName}, m.RequiredModules())
	assert.True(t, m.Config().IsActive())

	m.config.HeartbeatPeriod = "1m"
	m.config.Scanner = &scanner.Config{Active: true, Period: "50ms"}
	require.NoError(t, m.Start(context.Background(), nil))
	m.NotifyStartSuccess()
	defer func() {
		assert.NoError(t, m.Shutdown(context.Background(), nil))
	}()

	pid := int32(os.Getpid())
	assert.Eventually(t, func() bool {
		return len(m.FindProcessByPID(pid)) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotEmpty(t, m.GetAllProcesses())
}
