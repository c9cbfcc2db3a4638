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

// Package object reads the properties of class objects delivered by the service.
package object

import (
	"errors"
	"fmt"
	"strings"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/wmi/variant"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

var log = logger.GetLogger("wmi", "object")

// SystemPropertyPrefix starts the names of the properties every class carries.
const SystemPropertyPrefix = "__"

var ErrNotEmbeddedObject = errors.New("property is not an embedded object")

// Property is one named, decoded value.
type Property struct {
	Name  string
	Value variant.Value
}

// Bag holds the decoded properties of an object. It never contains nil values.
type Bag map[string]variant.Value

// Release drops every embedded object reference held by the bag.
func (b Bag) Release() {
	for _, v := range b {
		variant.Release(v)
	}
}

// Object owns one class object.
type Object struct {
	handle *wire.Handle
}

func New(handle *wire.Handle) *Object {
	return &Object{handle: handle}
}

// Handle exposes the owned handle, it stays owned by the object.
func (o *Object) Handle() *wire.Handle {
	return o.handle
}

// Release drops the object reference, it is safe to call more than once.
func (o *Object) Release() {
	o.handle.Release()
}

// PropertyNames lists every property name in the order of the service.
func (o *Object) PropertyNames() ([]string, error) {
	names, err := o.handle.Object().GetNames(wire.FlagAlways)
	if err != nil {
		return nil, fmt.Errorf("read property names failure: %w", err)
	}
	if names == nil {
		return []string{}, nil
	}
	return names, nil
}

// Property reads and decodes one property. A nil property means the value is
// empty or of a type that cannot be decoded.
func (o *Object) Property(name string) (*Property, error) {
	raw, cim, err := o.handle.Object().Get(name)
	if err != nil {
		return nil, fmt.Errorf("read property %s failure: %w", name, err)
	}
	defer raw.Release()

	value, err := variant.Decode(raw, cim)
	if err != nil {
		var decodeErr *variant.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Name = name
		}
		if errors.Is(err, variant.ErrUnsupportedType) {
			log.Warnf("ignore the property %s with unsupported type %s", name, raw.Type)
			return nil, nil
		}
		return nil, err
	}
	if value == nil {
		log.Debugf("the property %s has no value", name)
		return nil, nil
	}
	return &Property{Name: name, Value: value}, nil
}

// EmbeddedObject reads a property declared as CIM_OBJECT as an object of its own.
func (o *Object) EmbeddedObject(name string) (*Object, error) {
	raw, cim, err := o.handle.Object().Get(name)
	if err != nil {
		return nil, fmt.Errorf("read property %s failure: %w", name, err)
	}
	defer raw.Release()

	if cim != wire.CIMObject || raw.Type != wire.VTUnknown || raw.Unknown == nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotEmbeddedObject, name, raw.Type)
	}
	obj, err := raw.Unknown.QueryClassObject()
	if err != nil {
		return nil, fmt.Errorf("query embedded object %s failure: %w", name, err)
	}
	return New(wire.Own(obj)), nil
}

// Properties decodes every property into a bag, optionally without the system properties.
// A property that fails to decode is logged and left out, a nil bag means nothing was read.
func (o *Object) Properties(skipSystem bool) (Bag, error) {
	names, err := o.PropertyNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	bag := make(Bag, len(names))
	for _, name := range names {
		if skipSystem && strings.HasPrefix(name, SystemPropertyPrefix) {
			continue
		}
		property, err := o.Property(name)
		if err != nil {
			var decodeErr *variant.DecodeError
			if errors.As(err, &decodeErr) {
				log.Warnf("ignore the property %s: %v", name, err)
				continue
			}
			bag.Release()
			return nil, err
		}
		if property == nil {
			continue
		}
		bag[property.Name] = property.Value
	}
	if len(bag) == 0 {
		return nil, nil
	}
	return bag, nil
}
