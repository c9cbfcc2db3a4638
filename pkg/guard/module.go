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
	"fmt"

	"github.com/procguard/procguard/pkg/module"
	"github.com/procguard/procguard/pkg/process"
	"github.com/procguard/procguard/pkg/process/api"
)

const ModuleName = "guard"

type Module struct {
	config *Config

	guard      *Guard
	process    *process.Module
	watcher    *FileWatcher
	terminator Terminator
}

func NewModule() *Module {
	return &Module{config: &Config{}, terminator: NewTerminator()}
}

func (m *Module) Name() string {
	return ModuleName
}

func (m *Module) RequiredModules() []string {
	return []string{process.ModuleName}
}

func (m *Module) Config() module.ConfigInterface {
	return m.config
}

func (m *Module) Start(ctx context.Context, mgr *module.Manager) error {
	ttl, err := m.config.killTTL()
	if err != nil {
		return err
	}
	denyList, err := m.loadDenyList()
	if err != nil {
		return err
	}
	processModule, ok := mgr.FindModule(process.ModuleName).(*process.Module)
	if !ok {
		return fmt.Errorf("the %s module is not started", process.ModuleName)
	}

	m.guard = NewGuard(ctx, denyList, m.terminator, m.config.DryRun, ttl)
	m.guard.OnTerminated(func(pi api.ProcessInterface) {
		processModule.DeleteProcess(pi)
	})
	if m.config.DenyListFile != "" && m.config.WatchDenyList {
		watcher, err := WatchFile(m.config.DenyListFile, m.reloadDenyList)
		if err != nil {
			m.guard.Close()
			return err
		}
		m.watcher = watcher
	}
	m.process = processModule
	log.Infof("guarding %d processes: %v", denyList.Len(), denyList.Entries())
	return nil
}

func (m *Module) NotifyStartSuccess() {
	m.process.AddListener(m.guard)
}

func (m *Module) Shutdown(ctx context.Context, mgr *module.Manager) error {
	if m.process != nil {
		m.process.DeleteListener(m.guard)
	}
	var err error
	if m.watcher != nil {
		err = m.watcher.Close()
	}
	if m.guard != nil {
		m.guard.Close()
	}
	return err
}

func (m *Module) loadDenyList() (*DenyList, error) {
	processes := m.config.processes()
	if m.config.DenyListFile != "" {
		loaded, err := LoadDenyListFile(m.config.DenyListFile, processes)
		if err != nil {
			return nil, err
		}
		processes = loaded
	}
	return NewDenyList(processes)
}

func (m *Module) reloadDenyList() {
	denyList, err := m.loadDenyList()
	if err != nil {
		log.Warnf("reload the deny-list failure, keep the previous one: %v", err)
		return
	}
	m.guard.SetDenyList(denyList)
	log.Infof("the deny-list reloaded, guarding %d processes: %v", denyList.Len(), denyList.Entries())
}
