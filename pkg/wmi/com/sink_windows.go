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

//go:build windows

package com

import (
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

// comSink is an IWbemObjectSink implemented in Go. Its layout starts with the
// vtable pointer so the service can call it like any other COM object.
type comSink struct {
	vtbl   *sinkVtbl
	refs   int32
	target wire.ObjectSink
}

type sinkVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
	Indicate       uintptr
	SetStatus      uintptr
}

var (
	sharedSinkVtbl = &sinkVtbl{
		QueryInterface: syscall.NewCallback(sinkQueryInterface),
		AddRef:         syscall.NewCallback(sinkAddRef),
		Release:        syscall.NewCallback(sinkRelease),
		Indicate:       syscall.NewCallback(sinkIndicate),
		SetStatus:      syscall.NewCallback(sinkSetStatus),
	}
	// liveSinks keeps every sink referenced by the service reachable for the collector.
	liveSinks sync.Map
)

func newComSink(target wire.ObjectSink) *comSink {
	s := &comSink{vtbl: sharedSinkVtbl, refs: 1, target: target}
	liveSinks.Store(s, struct{}{})
	return s
}

func (s *comSink) addRef() int32 {
	return atomic.AddInt32(&s.refs, 1)
}

func (s *comSink) release() int32 {
	refs := atomic.AddInt32(&s.refs, -1)
	if refs == 0 {
		liveSinks.Delete(s)
	}
	return refs
}

func sinkQueryInterface(this *comSink, iid *ole.GUID, object **comSink) uintptr {
	if object == nil {
		return uintptr(wire.EPointer)
	}
	if ole.IsEqualGUID(iid, ole.IID_IUnknown) || ole.IsEqualGUID(iid, iidIWbemObjectSink) {
		this.addRef()
		*object = this
		return uintptr(wire.SOK)
	}
	*object = nil
	return uintptr(wire.ENoInterface)
}

func sinkAddRef(this *comSink) uintptr {
	return uintptr(this.addRef())
}

func sinkRelease(this *comSink) uintptr {
	return uintptr(this.release())
}

func sinkIndicate(this *comSink, count uintptr, objects **ole.IUnknown) uintptr {
	n := int32(uint32(count))
	var batch []wire.ClassObject
	if n > 0 && objects != nil {
		pointers := unsafe.Slice(objects, n)
		batch = make([]wire.ClassObject, n)
		for i, p := range pointers {
			if p != nil {
				batch[i] = &classObject{unknown: p}
			}
		}
	}
	return uintptr(this.target.Indicate(n, batch))
}

func sinkSetStatus(this *comSink, flags uintptr, result uintptr, param *uint16, object *ole.IUnknown) uintptr {
	var obj wire.ClassObject
	if object != nil {
		obj = &classObject{unknown: object}
	}
	return uintptr(this.target.SetStatus(int32(uint32(flags)), wire.HResult(uint32(result)), ole.BstrToString(param), obj))
}
