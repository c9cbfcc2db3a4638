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
	"fmt"
	"strings"
)

// ObjectSink receives the batches and the final status of an async call.
// The objects of a batch are borrowed for the duration of Indicate.
type ObjectSink interface {
	Indicate(count int32, objects []ClassObject) HResult
	SetStatus(flags int32, result HResult, param string, obj ClassObject) HResult
}

// Locator opens sessions to a namespace.
type Locator interface {
	// Initialize runs the process wide initialization, it is safe to call repeatedly.
	Initialize() error
	ConnectServer(namespace, user, password string) (Services, error)
}

// Services is an open session.
type Services interface {
	SetProxyBlanket(authn AuthnLevel, imp ImpLevel) error
	ExecNotificationQueryAsync(language, query string, flags int32, sink ObjectSink) error
	CancelAsyncCall(sink ObjectSink) error
	Release()
}

// AuthnLevel is the RPC authentication level of a session proxy.
type AuthnLevel uint32

const (
	AuthnLevelDefault      AuthnLevel = 0
	AuthnLevelNone         AuthnLevel = 1
	AuthnLevelConnect      AuthnLevel = 2
	AuthnLevelCall         AuthnLevel = 3
	AuthnLevelPkt          AuthnLevel = 4
	AuthnLevelPktIntegrity AuthnLevel = 5
	AuthnLevelPktPrivacy   AuthnLevel = 6
)

// ImpLevel is the RPC impersonation level of a session proxy.
type ImpLevel uint32

const (
	ImpLevelDefault     ImpLevel = 0
	ImpLevelAnonymous   ImpLevel = 1
	ImpLevelIdentify    ImpLevel = 2
	ImpLevelImpersonate ImpLevel = 3
	ImpLevelDelegate    ImpLevel = 4
)

var authnLevels = map[string]AuthnLevel{
	"default":       AuthnLevelDefault,
	"none":          AuthnLevelNone,
	"connect":       AuthnLevelConnect,
	"call":          AuthnLevelCall,
	"pkt":           AuthnLevelPkt,
	"pkt_integrity": AuthnLevelPktIntegrity,
	"pkt_privacy":   AuthnLevelPktPrivacy,
}

var impLevels = map[string]ImpLevel{
	"default":     ImpLevelDefault,
	"anonymous":   ImpLevelAnonymous,
	"identify":    ImpLevelIdentify,
	"impersonate": ImpLevelImpersonate,
	"delegate":    ImpLevelDelegate,
}

// ParseAuthnLevel reads a level name, the empty name means call level.
func ParseAuthnLevel(name string) (AuthnLevel, error) {
	if name == "" {
		return AuthnLevelCall, nil
	}
	if level, ok := authnLevels[strings.ToLower(name)]; ok {
		return level, nil
	}
	return 0, fmt.Errorf("unknown authentication level: %s", name)
}

// ParseImpLevel reads a level name, the empty name means impersonate.
func ParseImpLevel(name string) (ImpLevel, error) {
	if name == "" {
		return ImpLevelImpersonate, nil
	}
	if level, ok := impLevels[strings.ToLower(name)]; ok {
		return level, nil
	}
	return 0, fmt.Errorf("unknown impersonation level: %s", name)
}
