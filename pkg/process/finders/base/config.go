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

package base

import (
	"fmt"
	"time"
)

type FinderBaseConfig interface {
	// ActiveFinder to detect process
	ActiveFinder() bool
}

func StringMustNotNull(err error, confKey, confValue string) error {
	if err != nil {
		return err
	}
	if confValue == "" {
		return fmt.Errorf("the %s of process finder must be set", confKey)
	}
	return nil
}

func DurationMustNotNull(err error, confKey, confValue string) (time.Duration, error) {
	if err1 := StringMustNotNull(err, confKey, confValue); err1 != nil {
		return 0, err1
	}
	duration, err := time.ParseDuration(confValue)
	if err != nil {
		return 0, fmt.Errorf("the %s of process finder is illegal: %v", confKey, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("the %s of process finder must be positive", confKey)
	}
	return duration, nil
}
