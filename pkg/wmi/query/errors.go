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
	"errors"
	"fmt"

	"github.com/procguard/procguard/pkg/wmi/wire"
)

var (
	ErrUnparsableQuery = errors.New("the query cannot be parsed")
	ErrInvalidQuery    = errors.New("the query is invalid")
)

// ConnectionError reports a failed step of opening a session.
type ConnectionError struct {
	Step string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to the management service failure, step: %s: %v", e.Step, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError reports a query the service refused to register.
type QueryError struct {
	Query string
	Err   error
}

func newQueryError(query string, err error) *QueryError {
	var hresult *wire.HResultError
	if errors.As(err, &hresult) {
		switch hresult.Code {
		case wire.WBEMEUnparsableQuery:
			err = fmt.Errorf("%w: %w", ErrUnparsableQuery, err)
		case wire.WBEMEInvalidQuery, wire.WBEMEInvalidQueryType, wire.WBEMEInvalidClass:
			err = fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
	}
	return &QueryError{Query: query, Err: err}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("register the query %q failure: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// CancellationError reports a cancel request the service did not accept.
// It is only logged, closing a receiver never fails.
type CancellationError struct {
	Subscription string
	Err          error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancel the subscription %s failure: %v", e.Subscription, e.Err)
}

func (e *CancellationError) Unwrap() error {
	return e.Err
}
