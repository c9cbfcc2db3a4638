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

import "fmt"

// HResult is a COM status code.
type HResult uint32

const (
	SOK                   HResult = 0x00000000
	SFalse                HResult = 0x00000001
	EPointer              HResult = 0x80004003
	ENoInterface          HResult = 0x80004002
	EFail                 HResult = 0x80004005
	RPCETooLate           HResult = 0x80010119
	WBEMSNoError          HResult = 0x00000000
	WBEMEFailed           HResult = 0x80041001
	WBEMENotFound         HResult = 0x80041002
	WBEMEAccessDenied     HResult = 0x80041003
	WBEMEInvalidClass     HResult = 0x80041010
	WBEMEInvalidQuery     HResult = 0x80041017
	WBEMEInvalidQueryType HResult = 0x80041018
	WBEMECallCancelled    HResult = 0x80041032
	WBEMEUnparsableQuery  HResult = 0x80041058
)

var hresultNames = map[HResult]string{
	SOK:                   "S_OK",
	SFalse:                "S_FALSE",
	EPointer:              "E_POINTER",
	ENoInterface:          "E_NOINTERFACE",
	EFail:                 "E_FAIL",
	RPCETooLate:           "RPC_E_TOO_LATE",
	WBEMEFailed:           "WBEM_E_FAILED",
	WBEMENotFound:         "WBEM_E_NOT_FOUND",
	WBEMEAccessDenied:     "WBEM_E_ACCESS_DENIED",
	WBEMEInvalidClass:     "WBEM_E_INVALID_CLASS",
	WBEMEInvalidQuery:     "WBEM_E_INVALID_QUERY",
	WBEMEInvalidQueryType: "WBEM_E_INVALID_QUERY_TYPE",
	WBEMECallCancelled:    "WBEM_E_CALL_CANCELLED",
	WBEMEUnparsableQuery:  "WBEM_E_UNPARSABLE_QUERY",
}

// Failed reports whether the severity bit is set.
func (h HResult) Failed() bool {
	return h&0x80000000 != 0
}

func (h HResult) String() string {
	if name, ok := hresultNames[h]; ok {
		return fmt.Sprintf("%s(0x%08X)", name, uint32(h))
	}
	return fmt.Sprintf("0x%08X", uint32(h))
}

// HResultError is a failed status returned by a foreign call.
type HResultError struct {
	Op   string
	Code HResult
}

// NewHResultError builds the error of a failed foreign call.
func NewHResultError(op string, code HResult) *HResultError {
	return &HResultError{Op: op, Code: code}
}

func (e *HResultError) Error() string {
	return fmt.Sprintf("%s failure: %s", e.Op, e.Code)
}
