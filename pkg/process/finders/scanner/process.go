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

	"github.com/shirou/gopsutil/process"

	"github.com/procguard/procguard/pkg/process/api"
)

// Process is a process found by listing the process table
type Process struct {
	pid     int32
	ppid    int32
	name    string
	exe     string
	cmdline string
}

func NewProcess(pid, ppid int32, name, exe, cmdline string) *Process {
	return &Process{pid: pid, ppid: ppid, name: name, exe: exe, cmdline: cmdline}
}

func (p *Process) Pid() int32 {
	return p.pid
}

func (p *Process) ParentPid() int32 {
	return p.ppid
}

func (p *Process) Name() string {
	return p.name
}

func (p *Process) ExecutablePath() string {
	return p.exe
}

func (p *Process) CommandLine() string {
	return p.cmdline
}

// ListProcesses reads the process table of the host
func ListProcesses(ctx context.Context) ([]api.DetectedProcess, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]api.DetectedProcess, 0, len(processes))
	for _, ps := range processes {
		name, err := ps.NameWithContext(ctx)
		if err != nil {
			// the process has exited or is not readable
			log.Debugf("read the name of process failure, pid: %d: %v", ps.Pid, err)
			continue
		}
		ppid, _ := ps.PpidWithContext(ctx)
		exe, _ := ps.ExeWithContext(ctx)
		cmdline, _ := ps.CmdlineWithContext(ctx)
		result = append(result, NewProcess(ps.Pid, ppid, name, exe, cmdline))
	}
	return result, nil
}
