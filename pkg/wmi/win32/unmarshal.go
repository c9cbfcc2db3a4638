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

package win32

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/procguard/procguard/pkg/wmi/object"
	"github.com/procguard/procguard/pkg/wmi/variant"
)

// FieldTypeError reports a property whose decoded type does not match the record field.
type FieldTypeError struct {
	Field    string
	Property string
	Expected reflect.Type
	Actual   variant.Kind
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("the property %s decoded as %s cannot fill the field %s of type %s",
		e.Property, e.Actual, e.Field, e.Expected)
}

// Unmarshal fills the exported fields of the struct pointed to by dst from the bag.
// A field reads the property named by its wmi tag, or its own name without a tag,
// and "-" skips the field. Absent properties leave the zero value, a property of
// another type fails the whole record.
func Unmarshal(bag object.Bag, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("the destination must be a non-nil struct pointer, but got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("wmi")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		target := rv.Field(i)
		value, ok := bag[name]
		if !ok || value == nil {
			target.Set(reflect.Zero(field.Type))
			continue
		}
		if err := assign(target, value); err != nil {
			return &FieldTypeError{Field: field.Name, Property: name, Expected: field.Type, Actual: value.Kind()}
		}
	}
	return nil
}

func assign(target reflect.Value, value variant.Value) error {
	if array, ok := value.(variant.Array); ok && target.Kind() == reflect.Slice {
		items := reflect.MakeSlice(target.Type(), len(array.Items), len(array.Items))
		for i, item := range array.Items {
			if item == nil {
				continue
			}
			if err := assign(items.Index(i), item); err != nil {
				return err
			}
		}
		target.Set(items)
		return nil
	}

	native := reflect.ValueOf(variant.Interface(value))
	if !native.IsValid() || native.Type() != target.Type() {
		return errMismatch
	}
	target.Set(native)
	return nil
}

var errMismatch = errors.New("type mismatch")
