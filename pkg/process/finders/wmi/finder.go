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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/process/api"
	"github.com/procguard/procguard/pkg/process/finders/base"
	"github.com/procguard/procguard/pkg/wmi/com"
	"github.com/procguard/procguard/pkg/wmi/query"
	"github.com/procguard/procguard/pkg/wmi/sink"
	"github.com/procguard/procguard/pkg/wmi/win32"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

var log = logger.GetLogger("process", "finder", "wmi")

// TargetInstanceProperty holds the created instance in a creation event
const TargetInstanceProperty = "TargetInstance"

// ProcessFinder subscribes the creation events of processes
type ProcessFinder struct {
	conf    *Config
	locator wire.Locator

	manager   base.ProcessManager
	ctx       context.Context
	cancelCtx context.CancelFunc

	connection *query.Connection
	receiver   *query.Receiver
	wg         sync.WaitGroup
}

func NewProcessFinder() *ProcessFinder {
	return NewProcessFinderWithLocator(com.NewLocator())
}

func NewProcessFinderWithLocator(locator wire.Locator) *ProcessFinder {
	return &ProcessFinder{locator: locator}
}

func (p *ProcessFinder) Init(ctx context.Context, conf base.FinderBaseConfig, manager base.ProcessManager) error {
	p.conf = conf.(*Config)
	if p.conf.ClassName == "" {
		p.conf.ClassName = win32.ProcessClass
	}
	within, err := base.DurationMustNotNull(nil, "within", p.conf.Within)
	if err != nil {
		return err
	}
	statement, err := query.InstanceCreationQuery(p.conf.ClassName, within)
	if err != nil {
		return err
	}

	p.manager = manager
	p.ctx, p.cancelCtx = context.WithCancel(ctx)

	// the subscription is registered here so a refused query fails the start
	connection, err := query.Connect(p.locator, &p.conf.Config)
	if err != nil {
		return err
	}
	receiver, err := connection.ExecNotificationQuery(statement)
	if err != nil {
		_ = connection.Close()
		return err
	}
	p.connection, p.receiver = connection, receiver
	return nil
}

func (p *ProcessFinder) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.consume()
	}()
}

func (p *ProcessFinder) Stop() error {
	if p.cancelCtx == nil {
		return nil
	}
	p.cancelCtx()
	var result error
	if p.receiver != nil {
		if err := p.receiver.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	p.wg.Wait()
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (p *ProcessFinder) DetectType() api.ProcessDetectType {
	return api.WMI
}

func (p *ProcessFinder) consume() {
	for {
		e, err := p.receiver.Recv(p.ctx)
		if err != nil {
			if errors.Is(err, sink.ErrClosed) {
				log.Infof("the subscription of %s creation events has ended", p.conf.ClassName)
			}
			return
		}
		ps, err := p.readProcess(e)
		if err != nil {
			log.Warnf("read the created process failure: %v", err)
			continue
		}
		p.manager.AddDetectedProcess([]api.DetectedProcess{ps})
	}
}

func (p *ProcessFinder) readProcess(e sink.Envelope) (*Process, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	defer e.Release()

	target, err := e.Object.EmbeddedObject(TargetInstanceProperty)
	if err != nil {
		return nil, err
	}
	defer target.Release()

	original, err := win32.ProcessFromObject(target)
	if err != nil {
		return nil, fmt.Errorf("map the %s instance failure: %v", p.conf.ClassName, err)
	}
	if log.Enable(logrus.DebugLevel) {
		workingSet, _ := original.WorkingSetBytes()
		log.Debugf("received the creation event of %s, working set: %s",
			original.Name, units.BytesSize(float64(workingSet)))
	}
	return NewProcess(original), nil
}
