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
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/process/api"
	"github.com/procguard/procguard/pkg/process/finders/base"
)

var log = logger.GetLogger("process", "finder")

// ProcessManager means Manage all Process
type ProcessManager struct {
	// finders
	finders map[base.FinderBaseConfig]base.ProcessFinder
	// process storage
	storage *ProcessStorage
}

type ProcessManagerWithFinder struct {
	*ProcessManager
	finderType api.ProcessDetectType
}

func NewProcessManager(ctx context.Context, recheckInterval time.Duration, pidExists PidExistsFunc,
	configs ...base.FinderBaseConfig) (*ProcessManager, error) {
	// locate all finders
	confinedFinders := make(map[base.FinderBaseConfig]base.ProcessFinder)
	for _, conf := range configs {
		if isNil(conf) || !conf.ActiveFinder() {
			continue
		}
		finder := getFinder(conf)
		if finder == nil {
			return nil, fmt.Errorf("no process finder registered for %T", conf)
		}
		confinedFinders[conf] = finder
	}
	if len(confinedFinders) == 0 {
		return nil, fmt.Errorf("no process finder found")
	}

	manager := &ProcessManager{
		finders: confinedFinders,
		storage: NewProcessStorage(ctx, recheckInterval, pidExists),
	}
	// init all finders
	for conf, finder := range confinedFinders {
		processManager := &ProcessManagerWithFinder{ProcessManager: manager, finderType: finder.DetectType()}
		if err := finder.Init(ctx, conf, processManager); err != nil {
			_ = manager.Shutdown()
			return nil, fmt.Errorf("starting %s finder failure: %v", finder.DetectType().Name(), err)
		}
	}

	return manager, nil
}

func (m *ProcessManager) Start() {
	// start storage first, the finders report into it
	m.storage.Start()
	// start all finders
	for _, finder := range m.finders {
		finder.Start()
	}
}

func (m *ProcessManager) Shutdown() error {
	var result error
	// stop finders
	for _, finder := range m.finders {
		if err := finder.Stop(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	// stop storage
	if err := m.storage.Stop(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

func (p *ProcessManagerWithFinder) SyncAllProcessInFinder(processes []api.DetectedProcess) {
	p.storage.SyncAllProcessInFinder(p.finderType, processes)
}

func (p *ProcessManagerWithFinder) AddDetectedProcess(processes []api.DetectedProcess) {
	p.storage.AddProcesses(p.finderType, processes)
}

func (m *ProcessManager) GetAllProcesses() []api.ProcessInterface {
	return m.storage.GetAllProcesses()
}

func (m *ProcessManager) FindProcessByPID(pid int32) []api.ProcessInterface {
	return m.storage.FindProcessByPID(pid)
}

func (m *ProcessManager) DeleteProcess(pi api.ProcessInterface) bool {
	return m.storage.DeleteProcess(pi)
}

func (m *ProcessManager) AddListener(listener api.ProcessListener) {
	m.storage.AddListener(listener)
}

func (m *ProcessManager) DeleteListener(listener api.ProcessListener) {
	m.storage.DeleteListener(listener)
}

func isNil(conf base.FinderBaseConfig) bool {
	if conf == nil {
		return true
	}
	v := reflect.ValueOf(conf)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
