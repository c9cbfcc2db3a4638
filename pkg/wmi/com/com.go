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

// Package com reaches the management service through COM.
package com

import (
	"errors"
	"math"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

var log = logger.GetLogger("wmi", "com")

// ErrNotSupported is returned on platforms without the management service.
var ErrNotSupported = errors.New("the management service is only available on windows")

// variantOf converts an element copied out of a foreign array.
func variantOf(value interface{}) wire.Variant {
	switch v := value.(type) {
	case nil:
		return wire.Variant{Type: wire.VTEmpty}
	case string:
		return wire.Variant{Type: wire.VTBstr, Text: v}
	case bool:
		if v {
			return wire.Variant{Type: wire.VTBool, Bits: 0xFFFF}
		}
		return wire.Variant{Type: wire.VTBool}
	case int8:
		return wire.Variant{Type: wire.VTI1, Bits: uint64(int64(v))}
	case int16:
		return wire.Variant{Type: wire.VTI2, Bits: uint64(int64(v))}
	case int32:
		return wire.Variant{Type: wire.VTI4, Bits: uint64(int64(v))}
	case int64:
		return wire.Variant{Type: wire.VTI8, Bits: uint64(v)}
	case uint8:
		return wire.Variant{Type: wire.VTUI1, Bits: uint64(v)}
	case uint16:
		return wire.Variant{Type: wire.VTUI2, Bits: uint64(v)}
	case uint32:
		return wire.Variant{Type: wire.VTUI4, Bits: uint64(v)}
	case uint64:
		return wire.Variant{Type: wire.VTUI8, Bits: v}
	case float32:
		return wire.Variant{Type: wire.VTR4, Bits: uint64(math.Float32bits(v))}
	case float64:
		return wire.Variant{Type: wire.VTR8, Bits: math.Float64bits(v)}
	default:
		return wire.Variant{Type: wire.VTVoid}
	}
}
