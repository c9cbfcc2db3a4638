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
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countedObject struct {
	refs int32
}

func (c *countedObject) GetNames(NameFlags) ([]string, error) { return nil, nil }
func (c *countedObject) Get(string) (Variant, CIMType, error) { return Variant{}, CIMEmpty, nil }
func (c *countedObject) AddRef()                              { atomic.AddInt32(&c.refs, 1) }
func (c *countedObject) Release()                             { atomic.AddInt32(&c.refs, -1) }

func TestHandleRetainAndRelease(t *testing.T) {
	obj := &countedObject{refs: 1}
	handle := Retain(obj)
	assert.Equal(t, int32(2), atomic.LoadInt32(&obj.refs))

	shared := handle.Retain()
	assert.Equal(t, int32(3), atomic.LoadInt32(&obj.refs))

	handle.Release()
	handle.Release()
	assert.Equal(t, int32(2), atomic.LoadInt32(&obj.refs))

	shared.Release()
	assert.Equal(t, int32(1), atomic.LoadInt32(&obj.refs))
	assert.Same(t, obj, shared.Object())
}

func TestVariantRelease(t *testing.T) {
	released := 0
	v := Variant{Type: VTBstr, Text: "x"}.OnRelease(func() { released++ })
	v.Release()
	assert.Equal(t, 1, released)

	// a variant without foreign storage is a no-op
	Variant{Type: VTI4}.Release()
}

func TestVarTypeString(t *testing.T) {
	tests := []struct {
		vt   VarType
		want string
	}{
		{VTBstr, "VT_BSTR"},
		{VTArray | VTI4, "VT_ARRAY|VT_I4"},
		{VarType(0x77), "VT_0x0077"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vt.String())
		})
	}
}

func TestHResult(t *testing.T) {
	assert.True(t, WBEMEInvalidQuery.Failed())
	assert.False(t, SFalse.Failed())
	assert.Equal(t, "WBEM_E_UNPARSABLE_QUERY(0x80041058)", WBEMEUnparsableQuery.String())
	assert.Equal(t, "0x8004FFFF", HResult(0x8004FFFF).String())
	assert.EqualError(t, NewHResultError("IWbemServices::ExecNotificationQueryAsync", EFail),
		"IWbemServices::ExecNotificationQueryAsync failure: E_FAIL(0x80004005)")
}

func TestParseLevels(t *testing.T) {
	authn, err := ParseAuthnLevel("")
	assert.NoError(t, err)
	assert.Equal(t, AuthnLevelCall, authn)

	authn, err = ParseAuthnLevel("PKT_Privacy")
	assert.NoError(t, err)
	assert.Equal(t, AuthnLevelPktPrivacy, authn)

	_, err = ParseAuthnLevel("loud")
	assert.Error(t, err)

	imp, err := ParseImpLevel("")
	assert.NoError(t, err)
	assert.Equal(t, ImpLevelImpersonate, imp)

	_, err = ParseImpLevel("everyone")
	assert.Error(t, err)
}
