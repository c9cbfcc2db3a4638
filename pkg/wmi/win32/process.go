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

// Package win32 maps decoded objects onto typed records of the Win32 classes.
package win32

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/procguard/procguard/pkg/wmi/object"
)

// ProcessClass is the class name of Process.
const ProcessClass = "Win32_Process"

var ErrNoProperties = errors.New("the object has no properties")

// Process is one Win32_Process instance. The service reports 64-bit counters as
// strings and 32-bit counters as signed integers, the fields keep those types.
type Process struct {
	Caption                    string `wmi:"Caption"`
	CreationDate               string `wmi:"CreationDate"`
	CSCreationClassName        string `wmi:"CSCreationClassName"`
	Description                string `wmi:"Description"`
	CSName                     string `wmi:"CSName"`
	VirtualSize                string `wmi:"VirtualSize"`
	MaximumWorkingSetSize      int32  `wmi:"MaximumWorkingSetSize"`
	QuotaNonPagedPoolUsage     int32  `wmi:"QuotaNonPagedPoolUsage"`
	ReadOperationCount         string `wmi:"ReadOperationCount"`
	ExecutablePath             string `wmi:"ExecutablePath"`
	ParentProcessID            int32  `wmi:"ParentProcessId"`
	ReadTransferCount          string `wmi:"ReadTransferCount"`
	PeakWorkingSetSize         int32  `wmi:"PeakWorkingSetSize"`
	UserModeTime               string `wmi:"UserModeTime"`
	PageFileUsage              int32  `wmi:"PageFileUsage"`
	OtherOperationCount        string `wmi:"OtherOperationCount"`
	Name                       string `wmi:"Name"`
	HandleCount                int32  `wmi:"HandleCount"`
	PrivatePageCount           string `wmi:"PrivatePageCount"`
	QuotaPeakNonPagedPoolUsage int32  `wmi:"QuotaPeakNonPagedPoolUsage"`
	MinimumWorkingSetSize      int32  `wmi:"MinimumWorkingSetSize"`
	PeakVirtualSize            string `wmi:"PeakVirtualSize"`
	QuotaPeakPagedPoolUsage    int32  `wmi:"QuotaPeakPagedPoolUsage"`
	SessionID                  int32  `wmi:"SessionId"`
	WorkingSetSize             string `wmi:"WorkingSetSize"`
	CreationClassName          string `wmi:"CreationClassName"`
	OSCreationClassName        string `wmi:"OSCreationClassName"`
	KernelModeTime             string `wmi:"KernelModeTime"`
	OtherTransferCount         string `wmi:"OtherTransferCount"`
	Handle                     string `wmi:"Handle"`
	PageFaults                 int32  `wmi:"PageFaults"`
	WriteOperationCount        string `wmi:"WriteOperationCount"`
	WriteTransferCount         string `wmi:"WriteTransferCount"`
	ProcessID                  int32  `wmi:"ProcessId"`
	ThreadCount                int32  `wmi:"ThreadCount"`
	OSName                     string `wmi:"OSName"`
	Priority                   int32  `wmi:"Priority"`
	QuotaPagedPoolUsage        int32  `wmi:"QuotaPagedPoolUsage"`
	PeakPageFileUsage          int32  `wmi:"PeakPageFileUsage"`
	WindowsVersion             string `wmi:"WindowsVersion"`
	CommandLine                string `wmi:"CommandLine"`
}

// ProcessFromObject reads every non-system property of the object into a Process.
func ProcessFromObject(obj *object.Object) (*Process, error) {
	bag, err := obj.Properties(true)
	if err != nil {
		return nil, err
	}
	if bag == nil {
		return nil, ErrNoProperties
	}
	defer bag.Release()

	process := &Process{}
	if err := Unmarshal(bag, process); err != nil {
		return nil, err
	}
	return process, nil
}

// WorkingSetBytes parses the working set counter.
func (p *Process) WorkingSetBytes() (uint64, error) {
	if p.WorkingSetSize == "" {
		return 0, nil
	}
	size, err := strconv.ParseUint(p.WorkingSetSize, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse the working set size %q failure: %v", p.WorkingSetSize, err)
	}
	return size, nil
}
