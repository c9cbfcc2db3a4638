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
	"time"

	"github.com/procguard/procguard/pkg/process/api"
)

type ProcessContext struct {
	// detectProcess from finder
	detectProcess api.DetectedProcess
	detectType    api.ProcessDetectType
	detectedTime  time.Time
}

func (p *ProcessContext) Pid() int32 {
	return p.detectProcess.Pid()
}

func (p *ProcessContext) ParentPid() int32 {
	return p.detectProcess.ParentPid()
}

func (p *ProcessContext) Name() string {
	return p.detectProcess.Name()
}

func (p *ProcessContext) ExecutablePath() string {
	return p.detectProcess.ExecutablePath()
}

func (p *ProcessContext) CommandLine() string {
	return p.detectProcess.CommandLine()
}

func (p *ProcessContext) DetectType() api.ProcessDetectType {
	return p.detectType
}

func (p *ProcessContext) DetectedTime() time.Time {
	return p.detectedTime
}

// sameWith checks the detected process is the one already stored, a reused pid carries another name
func (p *ProcessContext) sameWith(other api.DetectedProcess) bool {
	return p.Pid() == other.Pid() && p.Name() == other.Name()
}
