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

package module

import (
	"sync"
)

// Manager gives started modules access to each other and to the shutdown trigger.
type Manager struct {
	modules      map[string]Module
	shutdownOnce sync.Once
	shutdown     func(err error)
}

func NewManager(modules []Module, shutdown func(err error)) *Manager {
	m := &Manager{modules: make(map[string]Module, len(modules)), shutdown: shutdown}
	for _, mod := range modules {
		m.modules[mod.Name()] = mod
	}
	return m
}

// FindModule returns the active module with the name, or nil.
func (m *Manager) FindModule(name string) Module {
	return m.modules[name]
}

// ShutdownModules asks the starter to stop every module, only the first call is honored.
func (m *Manager) ShutdownModules(err error) {
	m.shutdownOnce.Do(func() {
		if m.shutdown != nil {
			m.shutdown(err)
		}
	})
}
