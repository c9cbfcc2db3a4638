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

package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/wmi/variant"
	"github.com/procguard/procguard/pkg/wmi/wire"
	"github.com/procguard/procguard/pkg/wmi/wmitest"
)

func newObject(fake *wmitest.Object) *Object {
	return New(wire.Own(fake))
}

func TestPropertyNames(t *testing.T) {
	fake := wmitest.NewObject().
		Set("__CLASS", variant.Text("Win32_Process")).
		Set("Name", variant.Text("notepad.exe")).
		Set("ProcessId", variant.Uint32(4242))
	obj := newObject(fake)

	names, err := obj.PropertyNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"__CLASS", "Name", "ProcessId"}, names)

	empty, err := newObject(wmitest.NewObject()).PropertyNames()
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	_, err = newObject(wmitest.NewObject().FailNames(errors.New("rpc down"))).PropertyNames()
	assert.Error(t, err)
}

func TestProperty(t *testing.T) {
	fake := wmitest.NewObject().
		Set("Name", variant.Text("notepad.exe")).
		SetRaw("Description", wire.Variant{Type: wire.VTNull}, wire.CIMString).
		SetRaw("CreationDate", wire.Variant{Type: wire.VTDate}, wire.CIMDateTime).
		SetRaw("Owner", wire.Variant{Type: wire.VTUnknown, Unknown: wmitest.Unknown{Object: wmitest.NewObject()}}, wire.CIMString)
	obj := newObject(fake)

	property, err := obj.Property("Name")
	require.NoError(t, err)
	assert.Equal(t, &Property{Name: "Name", Value: variant.Text("notepad.exe")}, property)

	property, err = obj.Property("Description")
	assert.NoError(t, err)
	assert.Nil(t, property)

	property, err = obj.Property("CreationDate")
	assert.NoError(t, err)
	assert.Nil(t, property)

	property, err = obj.Property("Owner")
	assert.Nil(t, property)
	assert.ErrorIs(t, err, variant.ErrNotObject)
	var decodeErr *variant.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "Owner", decodeErr.Name)

	_, err = obj.Property("Missing")
	assert.Error(t, err)

	// every value read from the object is released again
	assert.Equal(t, int32(0), fake.Outstanding())
}

func TestEmbeddedObject(t *testing.T) {
	target := wmitest.NewObject().Set("Name", variant.Text("CompatTelRunner.exe"))
	event := wmitest.NewObject().
		SetEmbedded("TargetInstance", target).
		Set("TIME_CREATED", variant.Uint64(1))
	obj := newObject(event)

	embedded, err := obj.EmbeddedObject("TargetInstance")
	require.NoError(t, err)
	assert.Equal(t, int32(2), target.Refs())
	name, err := embedded.Property("Name")
	require.NoError(t, err)
	assert.Equal(t, variant.Text("CompatTelRunner.exe"), name.Value)

	embedded.Release()
	embedded.Release()
	assert.Equal(t, int32(1), target.Refs())

	_, err = obj.EmbeddedObject("TIME_CREATED")
	assert.ErrorIs(t, err, ErrNotEmbeddedObject)
	assert.Equal(t, int32(0), event.Outstanding())
}

func TestProperties(t *testing.T) {
	fake := wmitest.NewObject().
		Set("__CLASS", variant.Text("Win32_Process")).
		Set("Name", variant.Text("notepad.exe")).
		Set("HandleCount", variant.Int32(12)).
		SetRaw("Description", wire.Variant{Type: wire.VTEmpty}, wire.CIMString).
		SetRaw("Status", wire.Variant{Type: wire.VTI1, Bits: 1}, wire.CIMSInt8).
		SetRaw("Owner", wire.Variant{Type: wire.VTUnknown, Unknown: wmitest.Unknown{Object: wmitest.NewObject()}}, wire.CIMString)
	obj := newObject(fake)

	bag, err := obj.Properties(true)
	require.NoError(t, err)
	assert.Equal(t, Bag{"Name": variant.Text("notepad.exe"), "HandleCount": variant.Int32(12)}, bag)

	bag, err = obj.Properties(false)
	require.NoError(t, err)
	assert.Equal(t, variant.Text("Win32_Process"), bag["__CLASS"])
	assert.Len(t, bag, 3)
	for name, value := range bag {
		assert.NotNil(t, value, name)
	}
}

func TestPropertiesEmpty(t *testing.T) {
	bag, err := newObject(wmitest.NewObject()).Properties(false)
	assert.NoError(t, err)
	assert.Nil(t, bag)

	onlySystem := wmitest.NewObject().Set("__PATH", variant.Text("x"))
	bag, err = newObject(onlySystem).Properties(true)
	assert.NoError(t, err)
	assert.Nil(t, bag)
}

func TestPropertiesTransportFailure(t *testing.T) {
	child := wmitest.NewObject()
	fake := wmitest.NewObject().
		SetEmbedded("Child", child).
		Set("Name", variant.Text("x")).
		FailGet("Name", errors.New("rpc down"))

	bag, err := newObject(fake).Properties(true)
	assert.Error(t, err)
	assert.Nil(t, bag)
	// the embedded object decoded before the failure was released
	assert.Equal(t, int32(1), child.Refs())
}

func TestBagRelease(t *testing.T) {
	child := wmitest.NewObject()
	fake := wmitest.NewObject().SetEmbedded("Child", child)
	bag, err := newObject(fake).Properties(true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), child.Refs())

	bag.Release()
	assert.Equal(t, int32(1), child.Refs())
}
