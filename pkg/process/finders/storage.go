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
	"context"
	"strconv"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/shirou/gopsutil/process"

	"github.com/procguard/procguard/pkg/process/api"
)

// PidExistsFunc checks the process is still alive
type PidExistsFunc func(ctx context.Context, pid int32) (bool, error)

type ProcessStorage struct {
	// pid -> *ProcessContext
	processes cmap.ConcurrentMap
	// serialize the add and sync operations of finders
	mutex sync.Mutex

	// process listeners
	listeners       []api.ProcessListener
	listenerLock    sync.RWMutex
	eventQueue      chan *processEvent
	initListenQueue chan api.ProcessListener

	// dead process recheck
	recheckInterval time.Duration
	pidExists       PidExistsFunc

	ctx    context.Context
	cancel context.CancelFunc
}

func NewProcessStorage(ctx context.Context, recheckInterval time.Duration, pidExists PidExistsFunc) *ProcessStorage {
	if pidExists == nil {
		pidExists = process.PidExistsWithContext
	}
	ctx, cancel := context.WithCancel(ctx)
	return &ProcessStorage{
		processes:       cmap.New(),
		eventQueue:      make(chan *processEvent, 100),
		initListenQueue: make(chan api.ProcessListener, 100),
		recheckInterval: recheckInterval,
		pidExists:       pidExists,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (s *ProcessStorage) Start() {
	// remove the dead processes which the finders could not notice
	go func() {
		timeTicker := time.NewTicker(s.recheckInterval)
		defer timeTicker.Stop()
		for {
			select {
			case <-timeTicker.C:
				s.removeDeadProcesses()
			case <-s.ctx.Done():
				return
			}
		}
	}()

	// notify listeners
	go func() {
		timeTicker := time.NewTicker(s.recheckInterval)
		defer timeTicker.Stop()
		for {
			select {
			case <-timeTicker.C:
				s.notifyToRecheckAllProcesses(s.currentListeners())
			case e := <-s.eventQueue:
				s.consumeProcessEvent(s.currentListeners(), e)
			case l := <-s.initListenQueue:
				s.notifyToRecheckAllProcesses([]api.ProcessListener{l})
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *ProcessStorage) Stop() error {
	s.cancel()
	return nil
}

// AddProcesses stores the processes reported by the finder, the process already
// stored by any finder is ignored
func (s *ProcessStorage) AddProcesses(finder api.ProcessDetectType, processes []api.DetectedProcess) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	addBuilder := s.newProcessEventBuilder(ProcessOperateAdd)
	deleteBuilder := s.newProcessEventBuilder(ProcessOperateDelete)
	for _, ps := range processes {
		s.addProcess(finder, ps, addBuilder, deleteBuilder)
	}
	deleteBuilder.Send()
	addBuilder.Send()
}

// SyncAllProcessInFinder replaces all processes of the finder, the processes of
// the finder which are not in the list are recognized as dead
func (s *ProcessStorage) SyncAllProcessInFinder(finder api.ProcessDetectType, processes []api.DetectedProcess) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	addBuilder := s.newProcessEventBuilder(ProcessOperateAdd)
	deleteBuilder := s.newProcessEventBuilder(ProcessOperateDelete)
	alive := make(map[string]bool, len(processes))
	for _, ps := range processes {
		alive[pidKey(ps.Pid())] = true
		s.addProcess(finder, ps, addBuilder, deleteBuilder)
	}

	for key, value := range s.processes.Items() {
		pc := value.(*ProcessContext)
		if pc.detectType != finder || alive[key] {
			continue
		}
		s.processes.Remove(key)
		log.Debugf("the process has been recognized as dead, so deleted: %s", api.Describe(pc))
		deleteBuilder.AddProcess(pc.Pid(), pc)
	}
	deleteBuilder.Send()
	addBuilder.Send()
}

func (s *ProcessStorage) addProcess(finder api.ProcessDetectType, ps api.DetectedProcess,
	addBuilder, deleteBuilder *processEventBuilder) {
	key := pidKey(ps.Pid())
	if existing, ok := s.processes.Get(key); ok {
		pc := existing.(*ProcessContext)
		if pc.sameWith(ps) {
			return
		}
		// the pid has been reused by another process
		deleteBuilder.AddProcess(pc.Pid(), pc)
	}
	pc := &ProcessContext{detectProcess: ps, detectType: finder, detectedTime: time.Now()}
	s.processes.Set(key, pc)
	log.Debugf("detected new process by %s finder: %s", finder.Name(), api.Describe(ps))
	addBuilder.AddProcess(pc.Pid(), pc)
}

func (s *ProcessStorage) removeDeadProcesses() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	eventBuilder := s.newProcessEventBuilder(ProcessOperateDelete)
	for key, value := range s.processes.Items() {
		pc := value.(*ProcessContext)
		exists, err := s.pidExists(s.ctx, pc.Pid())
		if err != nil {
			log.Warnf("check the process is alive failure, pid: %d: %v", pc.Pid(), err)
			continue
		}
		if exists {
			continue
		}
		s.processes.Remove(key)
		log.Debugf("the process has been recognized as dead, so deleted: %s", api.Describe(pc))
		eventBuilder.AddProcess(pc.Pid(), pc)
	}
	eventBuilder.Send()
}

// DeleteProcess drops the stored process once it is known to be gone, so a later
// process reusing the same pid and name is reported again
func (s *ProcessStorage) DeleteProcess(pi api.ProcessInterface) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := pidKey(pi.Pid())
	existing, ok := s.processes.Get(key)
	if !ok {
		return false
	}
	pc := existing.(*ProcessContext)
	if !pc.sameWith(pi) {
		return false
	}
	s.processes.Remove(key)
	log.Debugf("the process has been deleted: %s", api.Describe(pc))
	eventBuilder := s.newProcessEventBuilder(ProcessOperateDelete)
	eventBuilder.AddProcess(pc.Pid(), pc)
	eventBuilder.Send()
	return true
}

func (s *ProcessStorage) GetAllProcesses() []api.ProcessInterface {
	result := make([]api.ProcessInterface, 0, s.processes.Count())
	for _, value := range s.processes.Items() {
		result = append(result, value.(*ProcessContext))
	}
	return result
}

func (s *ProcessStorage) FindProcessByPID(pid int32) []api.ProcessInterface {
	result := make([]api.ProcessInterface, 0)
	if value, ok := s.processes.Get(pidKey(pid)); ok {
		result = append(result, value.(*ProcessContext))
	}
	return result
}

func (s *ProcessStorage) AddListener(listener api.ProcessListener) {
	s.listenerLock.Lock()
	s.listeners = append(s.listeners, listener)
	s.listenerLock.Unlock()
	select {
	case s.initListenQueue <- listener:
	case <-s.ctx.Done():
	}
}

func (s *ProcessStorage) DeleteListener(listener api.ProcessListener) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	result := make([]api.ProcessListener, 0)
	for _, l := range s.listeners {
		if l != listener {
			result = append(result, l)
		}
	}
	s.listeners = result
}

func (s *ProcessStorage) currentListeners() []api.ProcessListener {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()
	return s.listeners
}

func pidKey(pid int32) string {
	return strconv.FormatInt(int64(pid), 10)
}

type ProcessOperate int

const (
	ProcessOperateAdd    = 1
	ProcessOperateDelete = 2
)

type processEventBuilder struct {
	processes map[int32][]api.ProcessInterface
	operate   ProcessOperate
	storage   *ProcessStorage
}

func (s *ProcessStorage) newProcessEventBuilder(operate ProcessOperate) *processEventBuilder {
	return &processEventBuilder{
		processes: make(map[int32][]api.ProcessInterface),
		operate:   operate,
		storage:   s,
	}
}

func (p *processEventBuilder) AddProcess(pid int32, pi api.ProcessInterface) {
	ps := p.processes[pid]
	ps = append(ps, pi)
	p.processes[pid] = ps
}

func (p *processEventBuilder) Send() {
	for pid, processes := range p.processes {
		select {
		case p.storage.eventQueue <- &processEvent{pid: pid, processes: processes, operate: p.operate}:
		case <-p.storage.ctx.Done():
			return
		}
	}
}

type processEvent struct {
	pid       int32
	processes []api.ProcessInterface
	operate   ProcessOperate
}

func (s *ProcessStorage) consumeProcessEvent(listeners []api.ProcessListener, e *processEvent) {
	for _, l := range listeners {
		if e.operate == ProcessOperateAdd {
			l.AddNewProcess(e.pid, e.processes)
		} else {
			l.RemoveProcess(e.pid, e.processes)
		}
	}
}

func (s *ProcessStorage) notifyToRecheckAllProcesses(listeners []api.ProcessListener) {
	if len(listeners) == 0 {
		return
	}
	all := make(map[int32][]api.ProcessInterface)
	for _, value := range s.processes.Items() {
		pc := value.(*ProcessContext)
		all[pc.Pid()] = append(all[pc.Pid()], pc)
	}
	for _, l := range listeners {
		l.RecheckAllProcesses(all)
	}
}
