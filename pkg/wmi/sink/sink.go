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

// Package sink receives the batches pushed by the service and forwards them to a Channel.
package sink

import (
	"errors"

	"github.com/procguard/procguard/pkg/logger"
	"github.com/procguard/procguard/pkg/wmi/object"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

var log = logger.GetLogger("wmi", "sink")

// ErrNullObject replaces a null entry of a delivered batch.
var ErrNullObject = errors.New("the service delivered a null object")

// Sink is the object registered with an async call.
type Sink struct {
	channel *Channel
}

func New(channel *Channel) *Sink {
	return &Sink{channel: channel}
}

// Indicate forwards a batch. The objects are borrowed, every forwarded one is retained first.
// The service always gets a success result, a closed channel only drops the rest of the batch.
func (s *Sink) Indicate(count int32, objects []wire.ClassObject) wire.HResult {
	if count <= 0 {
		return wire.WBEMSNoError
	}
	n := int(count)
	if n > len(objects) {
		log.Warnf("the batch declares %d objects but carries %d", n, len(objects))
		n = len(objects)
	}

	for i, obj := range objects[:n] {
		e := Envelope{Err: ErrNullObject}
		if obj != nil {
			e = Envelope{Object: object.New(wire.Retain(obj))}
		} else {
			log.Warnf("null object at index %d of the batch", i)
		}
		if err := s.channel.Send(e); err != nil {
			e.Release()
			log.Warnf("forward the batch failure, dropped %d objects: %v", n-i, err)
			break
		}
	}
	return wire.WBEMSNoError
}

// SetStatus closes the channel when the call completes, every other status is ignored.
func (s *Sink) SetStatus(flags int32, result wire.HResult, param string, _ wire.ClassObject) wire.HResult {
	if flags != wire.StatusComplete {
		return wire.WBEMSNoError
	}
	if result.Failed() && result != wire.WBEMECallCancelled {
		log.Warnf("the async call completed with %s: %s", result, param)
	}
	if s.channel.Close() {
		log.Debugf("end of the async result, the channel is closed")
	}
	return wire.WBEMSNoError
}

// Channel is the channel the sink forwards to.
func (s *Sink) Channel() *Channel {
	return s.channel
}
