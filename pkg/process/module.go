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
	"fmt"
	"time"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/module"
	"github.com/procguard/procguard/pkg/process/api"
	"github.com/procguard/procguard/pkg/process/finders"
)

const ModuleName = "process_discovery"

type Module struct {
	config *Config

	manager *finders.ProcessManager
}

func NewModule() *Module {
	return &Module{config: &Config{}}
}

func (m *Module) Name() string {
	return ModuleName
}

func (m *Module) RequiredModules() []string {
	return []string{logger.ModuleName}
}

func (m *Module) Config() module.ConfigInterface {
	return m.config
}

func (m *Module) Start(ctx context.Context, mgr *module.Manager) error {
	period, err := time.ParseDuration(m.config.HeartbeatPeriod)
	if err != nil {
		return fmt.Errorf("the heartbeat period is illegal: %v", err)
	}
	if period <= 0 {
		return fmt.Errorf("the heartbeat period must be positive: %s", m.config.HeartbeatPeriod)
	}
	processManager, err := finders.NewProcessManager(ctx, period, nil, m.config.WMI, m.config.Scanner)
	if err != nil {
		return err
	}
	m.manager = processManager

	return nil
}

func (m *Module) NotifyStartSuccess() {
	// notify all finder to report processes
	m.manager.Start()
}

func (m *Module) Shutdown(ctx context.Context, mgr *module.Manager) error {
	if m.manager == nil {
		return nil
	}
	return m.manager.Shutdown()
}

func (m *Module) GetAllProcesses() []api.ProcessInterface {
	return m.manager.GetAllProcesses()
}

func (m *Module) FindProcessByPID(pid int32) []api.ProcessInterface {
	return m.manager.FindProcessByPID(pid)
}

// DeleteProcess forgets a process which has been terminated
func (m *Module) DeleteProcess(pi api.ProcessInterface) bool {
	return m.manager.DeleteProcess(pi)
}

func (m *Module) AddListener(listener api.ProcessListener) {
	m.manager.AddListener(listener)
}

func (m *Module) DeleteListener(listener api.ProcessListener) {
	m.manager.DeleteListener(listener)
}
