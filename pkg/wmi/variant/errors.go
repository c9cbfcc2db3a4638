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

package variant

import (
	"errors"
	"fmt"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

var (
	// ErrUnsupportedType marks a tag outside the decodable set.
	ErrUnsupportedType = errors.New("unsupported variant type")
	// ErrNotObject marks an interface payload whose property is not declared as CIM_OBJECT.
	ErrNotObject = errors.New("value is not an embedded object")
)

// DecodeError describes a value that could not be decoded.
type DecodeError struct {
	// Name of the property, empty when decoding a detached value.
	Name    string
	Type    wire.VarType
	CIMType wire.CIMType
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("decode %s (cim type %d) failure: %v", e.Type, e.CIMType, e.Err)
	}
	return fmt.Sprintf("decode property %s as %s (cim type %d) failure: %v", e.Name, e.Type, e.CIMType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
