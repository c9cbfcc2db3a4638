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
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

const (
	rpcCAuthnWinNT          = 10
	rpcCAuthzNone           = 0
	rpcCAuthnLevelDefault   = 0
	rpcCImpLevelImpersonate = 3
	eoacNone                = 0
	rpcEChangedMode         = 0x80010106

	locatorConnectServer           = 3
	servicesCancelAsyncCall        = 4
	servicesExecNotificationQueryA = 23
)

var (
	modole32                 = windows.NewLazySystemDLL("ole32.dll")
	procCoInitializeSecurity = modole32.NewProc("CoInitializeSecurity")
	procCoSetProxyBlanket    = modole32.NewProc("CoSetProxyBlanket")

	clsidWbemLocator    = ole.NewGUID("{4590F811-1D3A-11D0-891F-00AA004B2E24}")
	iidIWbemLocator     = ole.NewGUID("{DC12A687-737F-11CF-884D-00AA004B2E24}")
	iidIWbemClassObject = ole.NewGUID("{DC12A681-737F-11CF-884D-00AA004B2E24}")
	iidIWbemObjectSink  = ole.NewGUID("{7C857801-7381-11CF-884D-00AA004B2E24}")

	initOnce sync.Once
	errInit  error
)

// vtable exposes the method slots of a COM interface.
func vtable(unknown *ole.IUnknown) *[32]uintptr {
	return (*[32]uintptr)(unsafe.Pointer(unknown.RawVTable))
}

func hresult(op string, hr uintptr) error {
	return wire.NewHResultError(op, wire.HResult(uint32(hr)))
}

type locator struct{}

// NewLocator returns the COM locator of the management service.
func NewLocator() wire.Locator {
	return locator{}
}

// Initialize joins the multithreaded apartment and sets the default process security once.
func (locator) Initialize() error {
	initOnce.Do(func() {
		errInit = initialize()
	})
	return errInit
}

func initialize() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || (oleErr.Code() != uintptr(wire.SFalse) && oleErr.Code() != rpcEChangedMode) {
			return fmt.Errorf("initialize com failure: %v", err)
		}
		log.Debugf("com is already initialized on this thread: %v", err)
	}

	hr, _, _ := procCoInitializeSecurity.Call(
		0,
		^uintptr(0), // let COM choose the authentication services
		0,
		0,
		rpcCAuthnLevelDefault,
		rpcCImpLevelImpersonate,
		0,
		eoacNone,
		0)
	if hr != 0 && wire.HResult(uint32(hr)) != wire.RPCETooLate {
		return hresult("CoInitializeSecurity", hr)
	}
	return nil
}

func (locator) ConnectServer(namespace, user, password string) (wire.Services, error) {
	unknown, err := ole.CreateInstance(clsidWbemLocator, iidIWbemLocator)
	if err != nil {
		return nil, fmt.Errorf("create the locator failure: %v", err)
	}
	defer unknown.Release()

	bstrNamespace := ole.SysAllocString(namespace)
	defer ole.SysFreeString(bstrNamespace)
	var bstrUser, bstrPassword *int16
	if user != "" {
		bstrUser = ole.SysAllocString(user)
		defer ole.SysFreeString(bstrUser)
	}
	if password != "" {
		bstrPassword = ole.SysAllocString(password)
		defer ole.SysFreeString(bstrPassword)
	}

	var services *ole.IUnknown
	hr, _, _ := syscall.SyscallN(vtable(unknown)[locatorConnectServer],
		uintptr(unsafe.Pointer(unknown)),
		uintptr(unsafe.Pointer(bstrNamespace)),
		uintptr(unsafe.Pointer(bstrUser)),
		uintptr(unsafe.Pointer(bstrPassword)),
		0,
		0,
		0,
		0,
		uintptr(unsafe.Pointer(&services)))
	if hr != 0 {
		return nil, hresult("IWbemLocator::ConnectServer", hr)
	}
	return &servicesProxy{unknown: services, sinks: make(map[wire.ObjectSink]*comSink)}, nil
}

type servicesProxy struct {
	unknown *ole.IUnknown

	mutex sync.Mutex
	sinks map[wire.ObjectSink]*comSink
}

func (s *servicesProxy) SetProxyBlanket(authn wire.AuthnLevel, imp wire.ImpLevel) error {
	hr, _, _ := procCoSetProxyBlanket.Call(
		uintptr(unsafe.Pointer(s.unknown)),
		rpcCAuthnWinNT,
		rpcCAuthzNone,
		0,
		uintptr(authn),
		uintptr(imp),
		0,
		eoacNone)
	if hr != 0 {
		return hresult("CoSetProxyBlanket", hr)
	}
	return nil
}

func (s *servicesProxy) ExecNotificationQueryAsync(language, query string, flags int32, sink wire.ObjectSink) error {
	target := newComSink(sink)
	s.mutex.Lock()
	s.sinks[sink] = target
	s.mutex.Unlock()

	bstrLanguage := ole.SysAllocString(language)
	defer ole.SysFreeString(bstrLanguage)
	bstrQuery := ole.SysAllocString(query)
	defer ole.SysFreeString(bstrQuery)

	hr, _, _ := syscall.SyscallN(vtable(s.unknown)[servicesExecNotificationQueryA],
		uintptr(unsafe.Pointer(s.unknown)),
		uintptr(unsafe.Pointer(bstrLanguage)),
		uintptr(unsafe.Pointer(bstrQuery)),
		uintptr(flags),
		0,
		uintptr(unsafe.Pointer(target)))
	if hr != 0 {
		s.forget(sink)
		target.release()
		return hresult("IWbemServices::ExecNotificationQueryAsync", hr)
	}
	return nil
}

func (s *servicesProxy) CancelAsyncCall(sink wire.ObjectSink) error {
	target := s.forget(sink)
	if target == nil {
		return errors.New("the sink is not registered")
	}
	defer target.release()
	hr, _, _ := syscall.SyscallN(vtable(s.unknown)[servicesCancelAsyncCall],
		uintptr(unsafe.Pointer(s.unknown)),
		uintptr(unsafe.Pointer(target)))
	if hr != 0 {
		return hresult("IWbemServices::CancelAsyncCall", hr)
	}
	return nil
}

func (s *servicesProxy) Release() {
	s.unknown.Release()
}

func (s *servicesProxy) forget(sink wire.ObjectSink) *comSink {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	target := s.sinks[sink]
	delete(s.sinks, sink)
	return target
}
