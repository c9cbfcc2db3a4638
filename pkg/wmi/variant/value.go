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

// Package variant decodes the tagged values of the service into a closed set of Go values.
package variant

import "github.com/procguard/procguard/pkg/wmi/wire"

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindObject
	KindArray
)

var kindNames = map[Kind]string{
	KindText:    "Text",
	KindInt8:    "Int8",
	KindInt16:   "Int16",
	KindInt32:   "Int32",
	KindInt64:   "Int64",
	KindUint8:   "Uint8",
	KindUint16:  "Uint16",
	KindUint32:  "Uint32",
	KindUint64:  "Uint64",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindBool:    "Bool",
	KindObject:  "Object",
	KindArray:   "Array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Value is a decoded property value. The set of implementations is closed,
// "no value" is represented by a nil Value.
type Value interface {
	Kind() Kind
	value()
}

type (
	Text    string
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64
	Bool    bool
)

// Object is an embedded class object, it owns one reference.
type Object struct {
	Handle *wire.Handle
}

// Array is an owned copy of a foreign array. Items hold nil for empty elements.
type Array struct {
	Elem  wire.VarType
	Items []Value
}

func (Text) Kind() Kind    { return KindText }
func (Int8) Kind() Kind    { return KindInt8 }
func (Int16) Kind() Kind   { return KindInt16 }
func (Int32) Kind() Kind   { return KindInt32 }
func (Int64) Kind() Kind   { return KindInt64 }
func (Uint8) Kind() Kind   { return KindUint8 }
func (Uint16) Kind() Kind  { return KindUint16 }
func (Uint32) Kind() Kind  { return KindUint32 }
func (Uint64) Kind() Kind  { return KindUint64 }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (Bool) Kind() Kind    { return KindBool }
func (Object) Kind() Kind  { return KindObject }
func (Array) Kind() Kind   { return KindArray }

func (Text) value()    {}
func (Int8) value()    {}
func (Int16) value()   {}
func (Int32) value()   {}
func (Int64) value()   {}
func (Uint8) value()   {}
func (Uint16) value()  {}
func (Uint32) value()  {}
func (Uint64) value()  {}
func (Float32) value() {}
func (Float64) value() {}
func (Bool) value()    {}
func (Object) value()  {}
func (Array) value()   {}

// Interface unwraps a value into its plain Go form. Objects unwrap to their
// handle and arrays to a slice of unwrapped items.
func Interface(v Value) interface{} {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int8:
		return int8(val)
	case Int16:
		return int16(val)
	case Int32:
		return int32(val)
	case Int64:
		return int64(val)
	case Uint8:
		return uint8(val)
	case Uint16:
		return uint16(val)
	case Uint32:
		return uint32(val)
	case Uint64:
		return uint64(val)
	case Float32:
		return float32(val)
	case Float64:
		return float64(val)
	case Bool:
		return bool(val)
	case Object:
		return val.Handle
	case Array:
		items := make([]interface{}, len(val.Items))
		for i, item := range val.Items {
			items[i] = Interface(item)
		}
		return items
	default:
		return nil
	}
}

// Release drops every object reference held by the value.
func Release(v Value) {
	switch val := v.(type) {
	case Object:
		if val.Handle != nil {
			val.Handle.Release()
		}
	case Array:
		for _, item := range val.Items {
			Release(item)
		}
	}
}
