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
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

const (
	classObjectGet      = 4
	classObjectGetNames = 7
)

// classObject is an IWbemClassObject pointer.
type classObject struct {
	unknown *ole.IUnknown
}

func (o *classObject) AddRef() {
	o.unknown.AddRef()
}

func (o *classObject) Release() {
	o.unknown.Release()
}

func (o *classObject) GetNames(flags wire.NameFlags) ([]string, error) {
	var names *ole.SafeArray
	hr, _, _ := syscall.SyscallN(vtable(o.unknown)[classObjectGetNames],
		uintptr(unsafe.Pointer(o.unknown)),
		0,
		uintptr(flags),
		0,
		uintptr(unsafe.Pointer(&names)))
	if hr != 0 {
		return nil, hresult("IWbemClassObject::GetNames", hr)
	}
	if names == nil {
		return nil, nil
	}
	conversion := &ole.SafeArrayConversion{Array: names}
	defer conversion.Release()
	return conversion.ToStringArray(), nil
}

func (o *classObject) Get(name string) (wire.Variant, wire.CIMType, error) {
	propertyName, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return wire.Variant{}, wire.CIMEmpty, err
	}
	raw := new(ole.VARIANT)
	ole.VariantInit(raw)
	var cim int32
	hr, _, _ := syscall.SyscallN(vtable(o.unknown)[classObjectGet],
		uintptr(unsafe.Pointer(o.unknown)),
		uintptr(unsafe.Pointer(propertyName)),
		0,
		uintptr(unsafe.Pointer(raw)),
		uintptr(unsafe.Pointer(&cim)),
		0)
	if hr != 0 {
		return wire.Variant{}, wire.CIMEmpty, hresult("IWbemClassObject::Get", hr)
	}
	return variantFromRaw(raw).OnRelease(func() {
		_ = ole.VariantClear(raw)
	}), wire.CIMType(cim), nil
}

// variantFromRaw copies the payload of a VARIANT, pointers stay owned by the VARIANT.
func variantFromRaw(raw *ole.VARIANT) wire.Variant {
	v := wire.Variant{Type: wire.VarType(raw.VT)}
	switch {
	case v.Type.IsArray() || v.Type == wire.VTSafeArray:
		if conversion := raw.ToArray(); conversion != nil && conversion.Array != nil {
			v.Array = &safeArray{conversion: conversion}
		}
	case v.Type == wire.VTBstr:
		v.Text = raw.ToString()
	case v.Type == wire.VTUnknown:
		if unknown := raw.ToIUnknown(); unknown != nil {
			v.Unknown = &unknownPayload{unknown: unknown}
		}
	default:
		v.Bits = uint64(raw.Val)
	}
	return v
}

type unknownPayload struct {
	unknown *ole.IUnknown
}

func (u *unknownPayload) QueryClassObject() (wire.ClassObject, error) {
	dispatch, err := u.unknown.QueryInterface(iidIWbemClassObject)
	if err != nil {
		return nil, err
	}
	return &classObject{unknown: (*ole.IUnknown)(unsafe.Pointer(dispatch))}, nil
}

// safeArray reads a SAFEARRAY owned by a VARIANT.
type safeArray struct {
	conversion *ole.SafeArrayConversion
}

func (a *safeArray) ElemType() wire.VarType {
	vt, err := a.conversion.GetType()
	if err != nil {
		return wire.VTEmpty
	}
	return wire.VarType(vt)
}

func (a *safeArray) Access(fn func(elems []wire.Variant) error) error {
	values := a.conversion.ToValueArray()
	elems := make([]wire.Variant, len(values))
	for i, value := range values {
		elems[i] = variantOf(value)
	}
	return fn(elems)
}
