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

// Package wire models the foreign contracts of the WMI notification service:
// the tagged VARIANT values it produces, the class objects it hands out and
// the interfaces a transport implements to reach it.
package wire

import "fmt"

// VarType is the tag of a VARIANT.
type VarType uint16

const (
	VTEmpty     VarType = 0
	VTNull      VarType = 1
	VTI2        VarType = 2
	VTI4        VarType = 3
	VTR4        VarType = 4
	VTR8        VarType = 5
	VTCy        VarType = 6
	VTDate      VarType = 7
	VTBstr      VarType = 8
	VTDispatch  VarType = 9
	VTError     VarType = 10
	VTBool      VarType = 11
	VTVariant   VarType = 12
	VTUnknown   VarType = 13
	VTI1        VarType = 16
	VTUI1       VarType = 17
	VTUI2       VarType = 18
	VTUI4       VarType = 19
	VTI8        VarType = 20
	VTUI8       VarType = 21
	VTInt       VarType = 22
	VTUInt      VarType = 23
	VTVoid      VarType = 24
	VTSafeArray VarType = 27
	VTArray     VarType = 0x2000
	VTByRef     VarType = 0x4000
)

var varTypeNames = map[VarType]string{
	VTEmpty:     "VT_EMPTY",
	VTNull:      "VT_NULL",
	VTI2:        "VT_I2",
	VTI4:        "VT_I4",
	VTR4:        "VT_R4",
	VTR8:        "VT_R8",
	VTCy:        "VT_CY",
	VTDate:      "VT_DATE",
	VTBstr:      "VT_BSTR",
	VTDispatch:  "VT_DISPATCH",
	VTError:     "VT_ERROR",
	VTBool:      "VT_BOOL",
	VTVariant:   "VT_VARIANT",
	VTUnknown:   "VT_UNKNOWN",
	VTI1:        "VT_I1",
	VTUI1:       "VT_UI1",
	VTUI2:       "VT_UI2",
	VTUI4:       "VT_UI4",
	VTI8:        "VT_I8",
	VTUI8:       "VT_UI8",
	VTInt:       "VT_INT",
	VTUInt:      "VT_UINT",
	VTVoid:      "VT_VOID",
	VTSafeArray: "VT_SAFEARRAY",
}

// IsArray reports whether the tag carries the VT_ARRAY flag.
func (t VarType) IsArray() bool {
	return t&VTArray != 0
}

// Elem strips the array and by-reference flags.
func (t VarType) Elem() VarType {
	return t &^ (VTArray | VTByRef)
}

func (t VarType) String() string {
	if t.IsArray() {
		return "VT_ARRAY|" + t.Elem().String()
	}
	if name, ok := varTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("VT_0x%04x", uint16(t))
}

// CIMType is the declared type of a class property.
type CIMType int32

const (
	CIMIllegal   CIMType = 0xfff
	CIMEmpty     CIMType = 0
	CIMSInt8     CIMType = 16
	CIMUInt8     CIMType = 17
	CIMSInt16    CIMType = 2
	CIMUInt16    CIMType = 18
	CIMSInt32    CIMType = 3
	CIMUInt32    CIMType = 19
	CIMSInt64    CIMType = 20
	CIMUInt64    CIMType = 21
	CIMReal32    CIMType = 4
	CIMReal64    CIMType = 5
	CIMBoolean   CIMType = 11
	CIMString    CIMType = 8
	CIMDateTime  CIMType = 101
	CIMReference CIMType = 102
	CIMChar16    CIMType = 103
	CIMObject    CIMType = 13
	CIMFlagArray CIMType = 0x2000
)

// IsArray reports whether the declared type is an array type.
func (c CIMType) IsArray() bool {
	return c&CIMFlagArray != 0
}

// Elem strips the array flag.
func (c CIMType) Elem() CIMType {
	return c &^ CIMFlagArray
}

// NameFlags selects which property names GetNames reports.
type NameFlags int32

const (
	FlagAlways        NameFlags = 0
	FlagNonSystemOnly NameFlags = 0x40
)

// Query flags and status codes used by the notification contract.
const (
	FlagSendStatus int32 = 0x80

	StatusComplete     int32 = 0
	StatusRequirements int32 = 1
	StatusProgress     int32 = 2
)

// QueryLanguage is the only language accepted by the notification query.
const QueryLanguage = "WQL"
