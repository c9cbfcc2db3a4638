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
	"sync"
	"time"

	"github.com/zekroTJA/timedmap"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/process/api"
)

var log = logger.GetLogger("guard")

const DefaultKillTTL = 30 * time.Second

// Guard terminates the processes on the deny-list when the process discovery reports them
type Guard struct {
	ctx        context.Context
	terminator Terminator
	dryRun     bool
	killTTL    time.Duration

	denyList     *DenyList
	denyListLock sync.RWMutex

	// pid -> name, the recently terminated processes
	terminated *timedmap.TimedMap
	// called after the process has been terminated
	onTerminated func(api.ProcessInterface)
}

func NewGuard(ctx context.Context, denyList *DenyList, terminator Terminator, dryRun bool, killTTL time.Duration) *Guard {
	return &Guard{
		ctx:        ctx,
		terminator: terminator,
		dryRun:     dryRun,
		killTTL:    killTTL,
		denyList:   denyList,
		terminated: timedmap.New(killTTL),
	}
}

// SetDenyList replaces the deny-list, the processes already running are checked on the next recheck
func (g *Guard) SetDenyList(denyList *DenyList) {
	g.denyListLock.Lock()
	defer g.denyListLock.Unlock()
	g.denyList = denyList
}

// OnTerminated registers the callback invoked after each successful termination
func (g *Guard) OnTerminated(fn func(api.ProcessInterface)) {
	g.onTerminated = fn
}

func (g *Guard) DenyList() *DenyList {
	g.denyListLock.RLock()
	defer g.denyListLock.RUnlock()
	return g.denyList
}

func (g *Guard) AddNewProcess(pid int32, entities []api.ProcessInterface) {
	for _, entity := range entities {
		log.Infof("Started %s, %d", entity.Name(), pid)
		// a new detection of the pid is a new process
		g.terminated.Remove(pid)
		g.check(entity)
	}
}

func (g *Guard) RemoveProcess(pid int32, entities []api.ProcessInterface) {
	for _, entity := range entities {
		log.Debugf("process exited: %s", api.Describe(entity))
	}
}

func (g *Guard) RecheckAllProcesses(processes map[int32][]api.ProcessInterface) {
	for _, entities := range processes {
		for _, entity := range entities {
			g.check(entity)
		}
	}
}

func (g *Guard) Close() {
	g.terminated.StopCleaner()
}

func (g *Guard) check(entity api.ProcessInterface) {
	if !g.DenyList().Match(entity.Name()) {
		return
	}
	pid := entity.Pid()
	if g.terminated.Contains(pid) {
		return
	}
	if g.dryRun {
		g.terminated.Set(pid, entity.Name(), g.killTTL)
		log.Infof("%s is disallowed! (dry run, pid: %d)", entity.Name(), pid)
		return
	}
	if err := g.terminator.Terminate(g.ctx, pid); err != nil {
		log.Warnf("%s is disallowed, but terminate failure: %v", entity.Name(), err)
		return
	}
	g.terminated.Set(pid, entity.Name(), g.killTTL)
	log.Infof("%s is disallowed! Killed!", entity.Name())
	if g.onTerminated != nil {
		g.onTerminated(entity)
	}
}
