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

	"github.com/shirou/gopsutil/process"
)

// Terminator stops a running process
type Terminator interface {
	Terminate(ctx context.Context, pid int32) error
}

type processTerminator struct{}

func NewTerminator() Terminator {
	return &processTerminator{}
}

func (t *processTerminator) Terminate(ctx context.Context, pid int32) error {
	ps, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("open process %d failure: %v", pid, err)
	}
	if err := ps.KillWithContext(ctx); err != nil {
		return fmt.Errorf("terminate process %d failure: %v", pid, err)
	}
	return nil
}
