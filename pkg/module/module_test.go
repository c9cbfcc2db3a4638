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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedModule struct {
	name string
}

func (n *namedModule) Name() string                             { return n.name }
func (n *namedModule) RequiredModules() []string                { return nil }
func (n *namedModule) Config() ConfigInterface                  { return &Config{Active: true} }
func (n *namedModule) Start(context.Context, *Manager) error    { return nil }
func (n *namedModule) NotifyStartSuccess()                      {}
func (n *namedModule) Shutdown(context.Context, *Manager) error { return nil }

func TestManager(t *testing.T) {
	var reasons []error
	mgr := NewManager([]Module{&namedModule{name: "a"}, &namedModule{name: "b"}}, func(err error) {
		reasons = append(reasons, err)
	})

	assert.Equal(t, "b", mgr.FindModule("b").Name())
	assert.Nil(t, mgr.FindModule("c"))

	first := errors.New("first")
	mgr.ShutdownModules(first)
	mgr.ShutdownModules(errors.New("second"))
	assert.Equal(t, []error{first}, reasons)
}

func TestRegistry(t *testing.T) {
	replaced := &namedModule{name: "registry-test"}
	Register(&namedModule{name: "registry-test"}, replaced)
	assert.Same(t, replaced, FindModule("registry-test"))
	assert.Nil(t, FindModule("missing"))
}

func TestConfig(t *testing.T) {
	assert.False(t, (&Config{}).IsActive())
	assert.True(t, (&Config{Active: true}).IsActive())
}
