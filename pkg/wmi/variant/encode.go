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
	"math"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

const variantTrue = 0xFFFF

// Encode renders a value as the service would report it, together with the
// CIM type the service would declare. Object payloads share the handle's reference.
func Encode(v Value) (wire.Variant, wire.CIMType) {
	switch val := v.(type) {
	case Text:
		return wire.Variant{Type: wire.VTBstr, Text: string(val)}, wire.CIMString
	case Int8:
		return wire.Variant{Type: wire.VTI1, Bits: uint64(int64(val))}, wire.CIMSInt8
	case Int16:
		return wire.Variant{Type: wire.VTI2, Bits: uint64(int64(val))}, wire.CIMSInt16
	case Int32:
		return wire.Variant{Type: wire.VTI4, Bits: uint64(int64(val))}, wire.CIMSInt32
	case Int64:
		return wire.Variant{Type: wire.VTI8, Bits: uint64(val)}, wire.CIMSInt64
	case Uint8:
		return wire.Variant{Type: wire.VTUI1, Bits: uint64(val)}, wire.CIMUInt8
	case Uint16:
		return wire.Variant{Type: wire.VTUI2, Bits: uint64(val)}, wire.CIMUInt16
	case Uint32:
		return wire.Variant{Type: wire.VTUI4, Bits: uint64(val)}, wire.CIMUInt32
	case Uint64:
		return wire.Variant{Type: wire.VTUI8, Bits: uint64(val)}, wire.CIMUInt64
	case Float32:
		return wire.Variant{Type: wire.VTR4, Bits: uint64(math.Float32bits(float32(val)))}, wire.CIMReal32
	case Float64:
		return wire.Variant{Type: wire.VTR8, Bits: math.Float64bits(float64(val))}, wire.CIMReal64
	case Bool:
		var bits uint64
		if val {
			bits = variantTrue
		}
		return wire.Variant{Type: wire.VTBool, Bits: bits}, wire.CIMBoolean
	case Object:
		return wire.Variant{Type: wire.VTUnknown, Unknown: handleUnknown{handle: val.Handle}}, wire.CIMObject
	case Array:
		items := make([]wire.Variant, len(val.Items))
		cim := cimTypeOf(val.Elem)
		for i, item := range val.Items {
			if item == nil {
				continue
			}
			items[i], cim = Encode(item)
		}
		return wire.Variant{Type: wire.VTArray | val.Elem, Array: wire.NewSliceArray(val.Elem, items)},
			cim | wire.CIMFlagArray
	default:
		return wire.Variant{Type: wire.VTNull}, wire.CIMEmpty
	}
}

type handleUnknown struct {
	handle *wire.Handle
}

func (u handleUnknown) QueryClassObject() (wire.ClassObject, error) {
	obj := u.handle.Object()
	obj.AddRef()
	return obj, nil
}

var cimTypes = map[wire.VarType]wire.CIMType{
	wire.VTBstr:    wire.CIMString,
	wire.VTI1:      wire.CIMSInt8,
	wire.VTI2:      wire.CIMSInt16,
	wire.VTI4:      wire.CIMSInt32,
	wire.VTI8:      wire.CIMSInt64,
	wire.VTUI1:     wire.CIMUInt8,
	wire.VTUI2:     wire.CIMUInt16,
	wire.VTUI4:     wire.CIMUInt32,
	wire.VTUI8:     wire.CIMUInt64,
	wire.VTR4:      wire.CIMReal32,
	wire.VTR8:      wire.CIMReal64,
	wire.VTBool:    wire.CIMBoolean,
	wire.VTUnknown: wire.CIMObject,
}

func cimTypeOf(vt wire.VarType) wire.CIMType {
	if cim, ok := cimTypes[vt]; ok {
		return cim
	}
	return wire.CIMEmpty
}
