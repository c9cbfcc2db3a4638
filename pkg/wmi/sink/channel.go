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

package sink

import (
	"context"
	"errors"
	"sync"

	"github.com/procguard/procguard/pkg/wmi/object"
)

// ErrClosed is returned by sends after the channel was closed and by
// receives once a closed channel is drained.
var ErrClosed = errors.New("notification channel is closed")

// Envelope carries one delivered object or the error that replaced it.
type Envelope struct {
	Object *object.Object
	Err    error
}

// Release drops the object reference of the envelope, if any.
func (e Envelope) Release() {
	if e.Object != nil {
		e.Object.Release()
	}
}

// Channel is an unbounded multi-producer queue. Sends never block, so the
// delivering thread of the service is never held up by a slow consumer.
type Channel struct {
	mutex  sync.Mutex
	queue  []Envelope
	closed bool

	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel() *Channel {
	return &Channel{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send appends the envelope, it fails with ErrClosed once the channel was closed.
func (c *Channel) Send(e Envelope) error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return ErrClosed
	}
	c.queue = append(c.queue, e)
	c.mutex.Unlock()
	c.notify()
	return nil
}

// Recv blocks until an envelope is available, the channel is closed and drained, or ctx is done.
func (c *Channel) Recv(ctx context.Context) (Envelope, error) {
	for {
		c.mutex.Lock()
		if len(c.queue) > 0 {
			e := c.queue[0]
			c.queue[0] = Envelope{}
			c.queue = c.queue[1:]
			remaining := len(c.queue)
			c.mutex.Unlock()
			if remaining > 0 {
				c.notify()
			}
			return e, nil
		}
		closed := c.closed
		c.mutex.Unlock()
		if closed {
			return Envelope{}, ErrClosed
		}

		select {
		case <-c.ready:
		case <-c.done:
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		}
	}
}

// Close stops accepting envelopes, the buffered ones can still be received.
// It reports whether this call closed the channel.
func (c *Channel) Close() bool {
	closed := false
	c.closeOnce.Do(func() {
		c.mutex.Lock()
		c.closed = true
		c.mutex.Unlock()
		close(c.done)
		closed = true
	})
	return closed
}

// CloseAndDrain closes the channel and hands back the undelivered envelopes.
func (c *Channel) CloseAndDrain() []Envelope {
	c.Close()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	drained := c.queue
	c.queue = nil
	return drained
}

// Done is closed when the channel is closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Len is the number of buffered envelopes.
func (c *Channel) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.queue)
}

func (c *Channel) notify() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}
