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
	"fmt"
	"time"

	"github.com/procguard/procguard/pkg/module"
)

// DefaultProcesses is the deny-list used when neither the config nor the deny-list file names any process
var DefaultProcesses = []string{"CompatTelRunner.exe"}

type Config struct {
	module.Config `mapstructure:",squash"`

	// Processes denied to run, the name of executable file or a glob pattern
	Processes []string `mapstructure:"processes"`
	// DenyListFile overrides the processes, it would be created with the processes when absent
	DenyListFile string `mapstructure:"deny_list_file"`
	// WatchDenyList reloads the deny-list file when it changes
	WatchDenyList bool `mapstructure:"watch_deny_list"`
	// DryRun only logs the denied processes
	DryRun bool `mapstructure:"dry_run"`
	// KillTTL is how long a terminated pid is not terminated again
	KillTTL string `mapstructure:"kill_ttl"`
}

func (c *Config) processes() []string {
	if len(c.Processes) == 0 {
		return DefaultProcesses
	}
	return c.Processes
}

func (c *Config) killTTL() (time.Duration, error) {
	if c.KillTTL == "" {
		return DefaultKillTTL, nil
	}
	ttl, err := time.ParseDuration(c.KillTTL)
	if err != nil {
		return 0, fmt.Errorf("the kill ttl is illegal: %v", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("the kill ttl must be positive: %s", c.KillTTL)
	}
	return ttl, nil
}
