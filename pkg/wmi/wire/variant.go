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

package wire

// Variant is one tagged value as produced by the service.
// Only the field selected by Type is meaningful.
type Variant struct {
	Type VarType
	// Bits holds the raw little-endian payload of numeric and boolean tags.
	Bits uint64
	// Text is a copy of a VT_BSTR payload.
	Text string
	// Unknown is the interface carried by a VT_UNKNOWN payload.
	Unknown Unknown
	// Array is the SAFEARRAY carried by a VT_ARRAY payload.
	Array SafeArray

	release func()
}

// OnRelease returns a copy of v that runs fn when released.
func (v Variant) OnRelease(fn func()) Variant {
	v.release = fn
	return v
}

// Release frees the foreign storage backing the variant, it must be called
// once after decoding and never before the decoded value is copied out.
func (v Variant) Release() {
	if v.release != nil {
		v.release()
	}
}

// Unknown is a foreign interface pointer of unknown shape.
type Unknown interface {
	// QueryClassObject asks for the class object interface, the result is a new reference.
	QueryClassObject() (ClassObject, error)
}

// SafeArray is a foreign array of variants.
type SafeArray interface {
	ElemType() VarType
	// Access locks the array data for the duration of fn,
	// the elements must not be retained after fn returns.
	Access(fn func(elems []Variant) error) error
}

// SliceArray is a SafeArray backed by Go memory.
type SliceArray struct {
	Elem  VarType
	Items []Variant
}

// NewSliceArray builds an in-memory array.
func NewSliceArray(elem VarType, items []Variant) *SliceArray {
	return &SliceArray{Elem: elem, Items: items}
}

func (a *SliceArray) ElemType() VarType {
	return a.Elem
}

func (a *SliceArray) Access(fn func(elems []Variant) error) error {
	return fn(a.Items)
}
