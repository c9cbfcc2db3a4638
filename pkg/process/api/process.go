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

package api

import (
	"fmt"
	"time"
)

type ProcessDetectType int8

const (
	_ ProcessDetectType = iota
	WMI
	Scanner
)

func (d ProcessDetectType) Name() string {
	if d == WMI {
		return "WMI"
	} else if d == Scanner {
		return "Scanner"
	}
	return "not matched"
}

// DetectedProcess is what a finder knows about one process
type DetectedProcess interface {
	// Pid of process
	Pid() int32
	// ParentPid of process, zero when unknown
	ParentPid() int32
	// Name is the executable file name, such as "notepad.exe"
	Name() string
	// ExecutablePath is the full path of the executable file, may be empty
	ExecutablePath() string
	// CommandLine of process, may be empty
	CommandLine() string
}

type ProcessInterface interface {
	DetectedProcess
	// DetectType of process, it decide how to find this process
	DetectType() ProcessDetectType
	// DetectedTime is when the process has been found
	DetectedTime() time.Time
}

// Describe formats the process for logs.
func Describe(p DetectedProcess) string {
	return fmt.Sprintf("%s(pid: %d, parent: %d)", p.Name(), p.Pid(), p.ParentPid())
}
