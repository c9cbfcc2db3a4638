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

package wmitest

import (
	"regexp"
	"sync"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

var selectPattern = regexp.MustCompile(`(?is)^\s*SELECT\s+.+\s+FROM\s+\w+`)

// Locator hands out one shared Services.
type Locator struct {
	Services   *Services
	InitErr    error
	ConnectErr error

	mutex     sync.Mutex
	inits     int
	namespace string
	user      string
}

func NewLocator() *Locator {
	return &Locator{Services: NewServices()}
}

func (l *Locator) Initialize() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.inits++
	return l.InitErr
}

func (l *Locator) ConnectServer(namespace, user, _ string) (wire.Services, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.namespace, l.user = namespace, user
	if l.ConnectErr != nil {
		return nil, l.ConnectErr
	}
	return l.Services, nil
}

// Inits counts the Initialize calls.
func (l *Locator) Inits() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.inits
}

// Namespace is the namespace of the last connection.
func (l *Locator) Namespace() string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.namespace
}

// Services records subscriptions and lets tests push batches into them.
type Services struct {
	ProxyErr  error
	QueryErr  error
	CancelErr error
	// CancelBlock delays CancelAsyncCall until it is closed.
	CancelBlock chan struct{}

	mutex     sync.Mutex
	authn     wire.AuthnLevel
	imp       wire.ImpLevel
	queries   []string
	flags     []int32
	sinks     []wire.ObjectSink
	cancelled int
	released  int
}

func NewServices() *Services {
	return &Services{}
}

func (s *Services) SetProxyBlanket(authn wire.AuthnLevel, imp wire.ImpLevel) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.authn, s.imp = authn, imp
	return s.ProxyErr
}

func (s *Services) ExecNotificationQueryAsync(language, query string, flags int32, sink wire.ObjectSink) error {
	const op = "IWbemServices::ExecNotificationQueryAsync"
	if language != wire.QueryLanguage {
		return wire.NewHResultError(op, wire.WBEMEInvalidQueryType)
	}
	if s.QueryErr != nil {
		return s.QueryErr
	}
	if !selectPattern.MatchString(query) {
		return wire.NewHResultError(op, wire.WBEMEUnparsableQuery)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.queries = append(s.queries, query)
	s.flags = append(s.flags, flags)
	s.sinks = append(s.sinks, sink)
	return nil
}

// CancelAsyncCall reports the cancellation to the sink the way the service does.
func (s *Services) CancelAsyncCall(sink wire.ObjectSink) error {
	if s.CancelBlock != nil {
		<-s.CancelBlock
	}
	s.mutex.Lock()
	s.cancelled++
	s.mutex.Unlock()
	if s.CancelErr != nil {
		return s.CancelErr
	}
	sink.SetStatus(wire.StatusComplete, wire.WBEMECallCancelled, "", nil)
	return nil
}

func (s *Services) Release() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.released++
}

// Sink returns the sink registered by the i-th subscription.
func (s *Services) Sink(i int) wire.ObjectSink {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sinks[i]
}

// Queries lists the accepted queries.
func (s *Services) Queries() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.queries...)
}

// Flags lists the flags of the accepted queries.
func (s *Services) Flags() []int32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]int32(nil), s.flags...)
}

// Levels returns the proxy blanket levels last applied.
func (s *Services) Levels() (wire.AuthnLevel, wire.ImpLevel) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.authn, s.imp
}

// Cancelled counts CancelAsyncCall calls.
func (s *Services) Cancelled() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cancelled
}

// Released counts Release calls.
func (s *Services) Released() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.released
}

// Deliver pushes one batch to the i-th subscription and drops the references of
// the service afterwards, like the real service does once Indicate returns.
func (s *Services) Deliver(i int, objects ...*Object) wire.HResult {
	batch := make([]wire.ClassObject, len(objects))
	for idx, obj := range objects {
		if obj != nil {
			batch[idx] = obj
		}
	}
	result := s.Sink(i).Indicate(int32(len(batch)), batch)
	for _, obj := range objects {
		if obj != nil {
			obj.Release()
		}
	}
	return result
}

// DeliverRaw pushes a batch with an explicit count.
func (s *Services) DeliverRaw(i int, count int32, objects []wire.ClassObject) wire.HResult {
	return s.Sink(i).Indicate(count, objects)
}

// Complete ends the i-th subscription with the result.
func (s *Services) Complete(i int, result wire.HResult) wire.HResult {
	return s.Sink(i).SetStatus(wire.StatusComplete, result, "", nil)
}

// Progress reports an intermediate status to the i-th subscription.
func (s *Services) Progress(i int) wire.HResult {
	return s.Sink(i).SetStatus(wire.StatusProgress, wire.WBEMSNoError, "", nil)
}
