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

package query

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

const DefaultNamespace = `ROOT\CIMV2`

var classNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config of a session.
type Config struct {
	Namespace           string `mapstructure:"namespace"`
	User                string `mapstructure:"user"`
	Password            string `mapstructure:"password"`
	AuthenticationLevel string `mapstructure:"authentication_level"`
	ImpersonationLevel  string `mapstructure:"impersonation_level"`
}

// InstanceCreationQuery renders the notification query for new instances of the class,
// polled every within, rounded up to whole seconds.
func InstanceCreationQuery(className string, within time.Duration) (string, error) {
	if !classNamePattern.MatchString(className) {
		return "", fmt.Errorf("illegal class name: %q", className)
	}
	seconds := int64(math.Ceil(within.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("SELECT * FROM __InstanceCreationEvent WITHIN %d WHERE TargetInstance ISA '%s'",
		seconds, className), nil
}
