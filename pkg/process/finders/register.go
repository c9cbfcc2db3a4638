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
	"reflect"

	"github.com/procguard/procguard/pkg/process/finders/base"
	"github.com/procguard/procguard/pkg/process/finders/scanner"
	"github.com/procguard/procguard/pkg/process/finders/wmi"
)

var finders = make(map[reflect.Type]func() base.ProcessFinder)

func init() {
	registerFinder(reflect.TypeOf(&wmi.Config{}), func() base.ProcessFinder { return wmi.NewProcessFinder() })
	registerFinder(reflect.TypeOf(&scanner.Config{}), func() base.ProcessFinder { return scanner.NewProcessFinder() })
}

func registerFinder(t reflect.Type, creator func() base.ProcessFinder) {
	finders[t] = creator
}

func getFinder(conf base.FinderBaseConfig) base.ProcessFinder {
	creator := finders[reflect.TypeOf(conf)]
	if creator == nil {
		return nil
	}
	return creator()
}
