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

// Decode converts one tagged value into a Value using its explicit tag,
// the declared CIM type only disambiguates interface payloads.
// A nil Value with a nil error means the property has no value.
func Decode(v wire.Variant, cim wire.CIMType) (Value, error) {
	if v.Type.IsArray() || v.Type == wire.VTSafeArray {
		return decodeArray(v, cim)
	}
	switch v.Type {
	case wire.VTEmpty, wire.VTNull:
		return nil, nil
	case wire.VTBstr:
		return Text(v.Text), nil
	case wire.VTI2:
		return Int16(int16(v.Bits)), nil
	case wire.VTI4, wire.VTInt:
		return Int32(int32(v.Bits)), nil
	case wire.VTI8:
		return Int64(int64(v.Bits)), nil
	case wire.VTUI1:
		return Uint8(uint8(v.Bits)), nil
	case wire.VTUI2:
		return Uint16(uint16(v.Bits)), nil
	case wire.VTUI4, wire.VTUInt:
		return Uint32(uint32(v.Bits)), nil
	case wire.VTUI8:
		return Uint64(v.Bits), nil
	case wire.VTR4:
		return Float32(math.Float32frombits(uint32(v.Bits))), nil
	case wire.VTR8:
		return Float64(math.Float64frombits(v.Bits)), nil
	case wire.VTBool:
		return Bool(uint16(v.Bits) != 0), nil
	case wire.VTUnknown:
		return decodeObject(v, cim)
	default:
		// VT_I1 lands here too, the service never reports sint8 with that tag
		return nil, &DecodeError{Type: v.Type, CIMType: cim, Err: ErrUnsupportedType}
	}
}

func decodeObject(v wire.Variant, cim wire.CIMType) (Value, error) {
	if cim.Elem() != wire.CIMObject || v.Unknown == nil {
		return nil, &DecodeError{Type: v.Type, CIMType: cim, Err: ErrNotObject}
	}
	obj, err := v.Unknown.QueryClassObject()
	if err != nil {
		return nil, &DecodeError{Type: v.Type, CIMType: cim, Err: err}
	}
	return Object{Handle: wire.Own(obj)}, nil
}

func decodeArray(v wire.Variant, cim wire.CIMType) (Value, error) {
	if v.Array == nil {
		return nil, &DecodeError{Type: v.Type, CIMType: cim, Err: ErrUnsupportedType}
	}
	elem := v.Array.ElemType()
	result := Array{Elem: elem}
	err := v.Array.Access(func(elems []wire.Variant) error {
		result.Items = make([]Value, 0, len(elems))
		for _, e := range elems {
			item, err := Decode(e, cim.Elem())
			if err != nil {
				return err
			}
			result.Items = append(result.Items, item)
		}
		return nil
	})
	if err != nil {
		Release(result)
		if _, ok := err.(*DecodeError); ok {
			return nil, err
		}
		return nil, &DecodeError{Type: v.Type, CIMType: cim, Err: err}
	}
	return result, nil
}
