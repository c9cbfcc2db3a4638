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

// Package wmitest provides an in-memory notification service for tests.
package wmitest

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/procguard/procguard/pkg/wmi/variant"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

type property struct {
	raw wire.Variant
	cim wire.CIMType
}

// Object is a class object with reference counting and leak accounting.
// It starts with one reference owned by the creator.
type Object struct {
	mutex    sync.Mutex
	names    []string
	props    map[string]property
	namesErr error
	getErrs  map[string]error

	refs        int32
	outstanding int32
}

func NewObject() *Object {
	return &Object{props: make(map[string]property), getErrs: make(map[string]error), refs: 1}
}

// Set stores an encoded value.
func (o *Object) Set(name string, v variant.Value) *Object {
	raw, cim := variant.Encode(v)
	return o.SetRaw(name, raw, cim)
}

// SetRaw stores a value exactly as the service would report it.
func (o *Object) SetRaw(name string, raw wire.Variant, cim wire.CIMType) *Object {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if _, exist := o.props[name]; !exist {
		o.names = append(o.names, name)
	}
	o.props[name] = property{raw: raw, cim: cim}
	return o
}

// SetEmbedded stores child as a CIM_OBJECT property.
func (o *Object) SetEmbedded(name string, child *Object) *Object {
	return o.SetRaw(name, wire.Variant{Type: wire.VTUnknown, Unknown: Unknown{Object: child}}, wire.CIMObject)
}

// FailNames makes GetNames return err.
func (o *Object) FailNames(err error) *Object {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.namesErr = err
	return o
}

// FailGet makes Get of the property return err.
func (o *Object) FailGet(name string, err error) *Object {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.getErrs[name] = err
	return o
}

func (o *Object) GetNames(flags wire.NameFlags) ([]string, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.namesErr != nil {
		return nil, o.namesErr
	}
	if len(o.names) == 0 {
		return nil, nil
	}
	result := make([]string, 0, len(o.names))
	for _, name := range o.names {
		if flags&wire.FlagNonSystemOnly != 0 && strings.HasPrefix(name, "__") {
			continue
		}
		result = append(result, name)
	}
	return result, nil
}

func (o *Object) Get(name string) (wire.Variant, wire.CIMType, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if err := o.getErrs[name]; err != nil {
		return wire.Variant{}, wire.CIMEmpty, err
	}
	prop, ok := o.props[name]
	if !ok {
		return wire.Variant{}, wire.CIMEmpty, wire.NewHResultError("IWbemClassObject::Get", wire.WBEMENotFound)
	}
	atomic.AddInt32(&o.outstanding, 1)
	var once sync.Once
	return prop.raw.OnRelease(func() {
		once.Do(func() {
			atomic.AddInt32(&o.outstanding, -1)
		})
	}), prop.cim, nil
}

func (o *Object) AddRef() {
	atomic.AddInt32(&o.refs, 1)
}

func (o *Object) Release() {
	atomic.AddInt32(&o.refs, -1)
}

// Refs is the current reference count.
func (o *Object) Refs() int32 {
	return atomic.LoadInt32(&o.refs)
}

// Outstanding counts values read with Get and not released yet.
func (o *Object) Outstanding() int32 {
	return atomic.LoadInt32(&o.outstanding)
}

// Unknown is an interface payload that resolves to a class object.
type Unknown struct {
	Object *Object
	Err    error
}

func (u Unknown) QueryClassObject() (wire.ClassObject, error) {
	if u.Err != nil {
		return nil, u.Err
	}
	u.Object.AddRef()
	return u.Object, nil
}
