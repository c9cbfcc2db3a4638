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
	"time"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/process/api"
	"github.com/procguard/procguard/pkg/process/finders/base"
)

var log = logger.GetLogger("process", "finder", "scanner")

// ListFunc reads all processes of the host
type ListFunc func(ctx context.Context) ([]api.DetectedProcess, error)

// ProcessFinder lists the process table periodically, for hosts without the management service
type ProcessFinder struct {
	conf *Config
	list ListFunc

	manager   base.ProcessManager
	ctx       context.Context
	cancelCtx context.CancelFunc

	period time.Duration
}

func NewProcessFinder() *ProcessFinder {
	return NewProcessFinderWithList(ListProcesses)
}

func NewProcessFinderWithList(list ListFunc) *ProcessFinder {
	return &ProcessFinder{list: list}
}

func (p *ProcessFinder) Init(ctx context.Context, conf base.FinderBaseConfig, manager base.ProcessManager) error {
	p.conf = conf.(*Config)
	period, err := base.DurationMustNotNull(nil, "period", p.conf.Period)
	if err != nil {
		return err
	}
	p.period = period
	p.manager = manager
	p.ctx, p.cancelCtx = context.WithCancel(ctx)
	return nil
}

func (p *ProcessFinder) Start() {
	go p.startWatch()
}

func (p *ProcessFinder) Stop() error {
	if p.cancelCtx != nil {
		p.cancelCtx()
	}
	return nil
}

func (p *ProcessFinder) DetectType() api.ProcessDetectType {
	return api.Scanner
}

func (p *ProcessFinder) startWatch() {
	// find one time
	if err := p.findAndReportProcesses(); err != nil {
		log.Warnf("list all process failure, %v", err)
	}
	// schedule
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := p.findAndReportProcesses(); err != nil {
				log.Warnf("list all process failure, %v", err)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *ProcessFinder) findAndReportProcesses() error {
	processes, err := p.list(p.ctx)
	if err != nil {
		return err
	}
	p.manager.SyncAllProcessInFinder(processes)
	return nil
}
