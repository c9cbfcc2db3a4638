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
	"github.com/procguard/procguard/pkg/process/finders/base"
	"github.com/procguard/procguard/pkg/wmi/query"
)

type Config struct {
	base.FinderBaseConfig

	Active bool `mapstructure:"active"`

	// session settings
	query.Config `mapstructure:",squash"`

	// ClassName of the created instances, Win32_Process by default
	ClassName string `mapstructure:"class_name"`
	// Within is the polling interval of the service for new instances
	Within string `mapstructure:"within"`
}

func (c *Config) ActiveFinder() bool {
	return c.Active
}
