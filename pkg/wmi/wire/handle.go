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

import (
	"runtime"
	"sync"
)

// ClassObject is an instance or class returned by the service.
type ClassObject interface {
	GetNames(flags NameFlags) ([]string, error)
	// Get reads one property. The returned variant must be released.
	Get(name string) (Variant, CIMType, error)
	AddRef()
	Release()
}

// Handle owns exactly one reference of a ClassObject.
type Handle struct {
	obj  ClassObject
	once sync.Once
}

// Own takes over a reference the caller already holds.
func Own(obj ClassObject) *Handle {
	h := &Handle{obj: obj}
	runtime.SetFinalizer(h, (*Handle).Release)
	return h
}

// Retain adds a reference to a borrowed object and owns it.
func Retain(obj ClassObject) *Handle {
	obj.AddRef()
	return Own(obj)
}

// Retain shares the object under a new, independently released handle.
func (h *Handle) Retain() *Handle {
	return Retain(h.obj)
}

// Object returns the borrowed object, valid until the handle is released.
func (h *Handle) Object() ClassObject {
	return h.obj
}

// Release drops the reference, calling it more than once has no effect.
func (h *Handle) Release() {
	h.once.Do(func() {
		runtime.SetFinalizer(h, nil)
		h.obj.Release()
	})
}
