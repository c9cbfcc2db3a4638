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

// Package query opens sessions to the management service and turns notification
// queries into receivers that can be pulled from.
package query

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/wmi/sink"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

var log = logger.GetLogger("wmi", "query")

// session releases the services once the connection and every cancel request still
// in flight are done with it.
type session struct {
	services wire.Services
	refs     int32
}

func newSession(services wire.Services) *session {
	return &session{services: services, refs: 1}
}

func (s *session) retain() {
	atomic.AddInt32(&s.refs, 1)
}

func (s *session) release() {
	if atomic.AddInt32(&s.refs, -1) == 0 {
		s.services.Release()
	}
}

// Connection is an open session. Receivers created from it share the session.
// A receiver leaves the connection when it is closed, or when its subscription has
// ended and every envelope was received.
type Connection struct {
	session   *session
	services  wire.Services
	namespace string

	mutex     sync.Mutex
	receivers map[string]*Receiver
	closed    bool
}

// Connect initializes the process for the service, opens the session and secures its proxy.
func Connect(locator wire.Locator, conf *Config) (*Connection, error) {
	if conf == nil {
		conf = &Config{}
	}
	namespace := conf.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	authn, err := wire.ParseAuthnLevel(conf.AuthenticationLevel)
	if err != nil {
		return nil, &ConnectionError{Step: "config", Err: err}
	}
	imp, err := wire.ParseImpLevel(conf.ImpersonationLevel)
	if err != nil {
		return nil, &ConnectionError{Step: "config", Err: err}
	}

	if err := locator.Initialize(); err != nil {
		return nil, &ConnectionError{Step: "initialize", Err: err}
	}
	services, err := locator.ConnectServer(namespace, conf.User, conf.Password)
	if err != nil {
		return nil, &ConnectionError{Step: "connect server", Err: err}
	}
	if err := services.SetProxyBlanket(authn, imp); err != nil {
		services.Release()
		return nil, &ConnectionError{Step: "set proxy blanket", Err: err}
	}
	log.Infof("connected to the namespace %s", namespace)
	return &Connection{
		session:   newSession(services),
		services:  services,
		namespace: namespace,
		receivers: make(map[string]*Receiver),
	}, nil
}

// Namespace of the session.
func (c *Connection) Namespace() string {
	return c.namespace
}

// ExecNotificationQuery registers the query and returns the receiver of its results.
// A refused query returns a *QueryError and no receiver.
func (c *Connection) ExecNotificationQuery(query string) (*Receiver, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, &QueryError{Query: query, Err: ErrConnectionClosed}
	}

	channel := sink.NewChannel()
	s := sink.New(channel)
	if err := c.services.ExecNotificationQueryAsync(wire.QueryLanguage, query, wire.FlagSendStatus, s); err != nil {
		channel.Close()
		return nil, newQueryError(query, err)
	}
	receiver := newReceiver(c.session, s, c.forget)
	c.receivers[receiver.ID()] = receiver
	log.Infof("subscription %s is registered: %s", receiver.ID(), query)
	return receiver, nil
}

// Close closes every receiver still open and releases the session. A cancel request
// that outlived CancelTimeout keeps the session until the service answers it.
func (c *Connection) Close() error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return nil
	}
	c.closed = true
	receivers := make([]*Receiver, 0, len(c.receivers))
	for _, r := range c.receivers {
		receivers = append(receivers, r)
	}
	c.mutex.Unlock()

	var result error
	for _, r := range receivers {
		if err := r.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	c.session.release()
	log.Infof("disconnected from the namespace %s", c.namespace)
	return result
}

func (c *Connection) forget(r *Receiver) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.receivers, r.ID())
}
