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

package com

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/procguard/procguard/pkg/wmi/variant"
	"github.com/procguard/procguard/pkg/wmi/wire"
)

func TestVariantOf(t *testing.T) {
	tests := []struct {
		in   interface{}
		want variant.Value
	}{
		{in: "svchost.exe", want: variant.Text("svchost.exe")},
		{in: true, want: variant.Bool(true)},
		{in: false, want: variant.Bool(false)},
		{in: int16(-3), want: variant.Int16(-3)},
		{in: int32(-70000), want: variant.Int32(-70000)},
		{in: int64(math.MinInt64), want: variant.Int64(math.MinInt64)},
		{in: uint8(7), want: variant.Uint8(7)},
		{in: uint16(65535), want: variant.Uint16(65535)},
		{in: uint32(1 << 31), want: variant.Uint32(1 << 31)},
		{in: uint64(math.MaxUint64), want: variant.Uint64(math.MaxUint64)},
		{in: float32(0.5), want: variant.Float32(0.5)},
		{in: float64(-8.25), want: variant.Float64(-8.25)},
	}
	for _, tt := range tests {
		got, err := variant.Decode(variantOf(tt.in), wire.CIMEmpty)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	got, err := variant.Decode(variantOf(nil), wire.CIMEmpty)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = variant.Decode(variantOf(struct{}{}), wire.CIMEmpty)
	assert.ErrorIs(t, err, variant.ErrUnsupportedType)
}
