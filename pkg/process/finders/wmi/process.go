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

package wmi

import (
	"github.com/procguard/procguard/pkg/wmi/win32"
)

// Process is a process reported by a creation event
type Process struct {
	original *win32.Process
}

func NewProcess(original *win32.Process) *Process {
	return &Process{original: original}
}

func (p *Process) Pid() int32 {
	return p.original.ProcessID
}

func (p *Process) ParentPid() int32 {
	return p.original.ParentProcessID
}

func (p *Process) Name() string {
	return p.original.Name
}

func (p *Process) ExecutablePath() string {
	return p.original.ExecutablePath
}

func (p *Process) CommandLine() string {
	return p.original.CommandLine
}

// Original is the full record of the created instance
func (p *Process) Original() *win32.Process {
	return p.original
}
