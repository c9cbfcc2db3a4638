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

package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procguard/procguard/pkg/wmi/sink"
)

var ErrConnectionClosed = errors.New("the connection is closed")

// CancelTimeout bounds how long Close waits for the service to accept a cancel request.
var CancelTimeout = 5 * time.Second

// Receiver pulls the results of one notification query.
type Receiver struct {
	id      string
	session *session
	sink    *sink.Sink
	channel *sink.Channel
	onClose func(*Receiver)

	closeOnce sync.Once
}

func newReceiver(session *session, s *sink.Sink, onClose func(*Receiver)) *Receiver {
	return &Receiver{
		id:      uuid.New().String(),
		session: session,
		sink:    s,
		channel: s.Channel(),
		onClose: onClose,
	}
}

// ID identifies the subscription in logs.
func (r *Receiver) ID() string {
	return r.id
}

// Recv waits for the next envelope. It returns sink.ErrClosed once the subscription
// has ended and every buffered envelope was received.
func (r *Receiver) Recv(ctx context.Context) (sink.Envelope, error) {
	e, err := r.channel.Recv(ctx)
	if errors.Is(err, sink.ErrClosed) && r.onClose != nil {
		// nothing is left to release or cancel
		r.onClose(r)
	}
	return e, err
}

// Events streams the envelopes until the subscription ends or ctx is done.
func (r *Receiver) Events(ctx context.Context) <-chan sink.Envelope {
	events := make(chan sink.Envelope)
	go func() {
		defer close(events)
		for {
			e, err := r.Recv(ctx)
			if err != nil {
				return
			}
			select {
			case events <- e:
			case <-ctx.Done():
				e.Release()
				return
			}
		}
	}()
	return events
}

// Done is closed when the subscription ends, by the service or by Close.
func (r *Receiver) Done() <-chan struct{} {
	return r.channel.Done()
}

// Close ends the subscription: undelivered objects are released and the async call
// is cancelled. A refused or slow cancel is only logged, Close always returns nil.
func (r *Receiver) Close() error {
	r.closeOnce.Do(func() {
		dropped := r.channel.CloseAndDrain()
		for _, e := range dropped {
			e.Release()
		}
		if len(dropped) > 0 {
			log.Debugf("subscription %s dropped %d undelivered objects", r.id, len(dropped))
		}

		cancelled := make(chan error, 1)
		r.session.retain()
		go func() {
			defer r.session.release()
			cancelled <- r.session.services.CancelAsyncCall(r.sink)
		}()
		select {
		case err := <-cancelled:
			if err != nil {
				log.Warn(&CancellationError{Subscription: r.id, Err: err})
			}
		case <-time.After(CancelTimeout):
			log.Warn(&CancellationError{Subscription: r.id, Err: errors.New("timed out waiting for the service")})
		}

		if r.onClose != nil {
			r.onClose(r)
		}
		log.Infof("subscription %s is closed", r.id)
	})
	return nil
}
