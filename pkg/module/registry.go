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

import "sync"

var (
	registry     = make(map[string]Module)
	registryLock sync.RWMutex
)

// Register makes modules available to the starter, a later registration replaces an earlier one.
func Register(modules ...Module) {
	registryLock.Lock()
	defer registryLock.Unlock()
	for _, mod := range modules {
		registry[mod.Name()] = mod
	}
}

// FindModule returns the registered module with the name, or nil.
func FindModule(name string) Module {
	registryLock.RLock()
	defer registryLock.RUnlock()
	return registry[name]
}
