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

package win32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procguard/procguard/pkg/wmi/object"
	"github.com/procguard/procguard/pkg/wmi/variant"
	"github.com/procguard/procguard/pkg/wmi/wire"
	"github.com/procguard/procguard/pkg/wmi/wmitest"
)

func processObject() *wmitest.Object {
	return wmitest.NewObject().
		Set("__CLASS", variant.Text(ProcessClass)).
		Set("Name", variant.Text("CompatTelRunner.exe")).
		Set("ProcessId", variant.Int32(4242)).
		Set("ParentProcessId", variant.Int32(880)).
		Set("ExecutablePath", variant.Text(`C:\Windows\System32\CompatTelRunner.exe`)).
		Set("CommandLine", variant.Text("CompatTelRunner.exe -m:appraiser.dll")).
		Set("WorkingSetSize", variant.Text("7340032")).
		Set("ThreadCount", variant.Int32(5)).
		SetRaw("Description", wire.Variant{Type: wire.VTNull}, wire.CIMString)
}

func TestProcessFromObject(t *testing.T) {
	fake := processObject()
	process, err := ProcessFromObject(object.New(wire.Own(fake)))
	require.NoError(t, err)

	assert.Equal(t, "CompatTelRunner.exe", process.Name)
	assert.Equal(t, int32(4242), process.ProcessID)
	assert.Equal(t, int32(880), process.ParentProcessID)
	assert.Equal(t, `C:\Windows\System32\CompatTelRunner.exe`, process.ExecutablePath)
	assert.Equal(t, "CompatTelRunner.exe -m:appraiser.dll", process.CommandLine)
	assert.Equal(t, int32(5), process.ThreadCount)
	// absent and empty properties leave the zero value
	assert.Equal(t, "", process.Description)
	assert.Equal(t, int32(0), process.HandleCount)

	size, err := process.WorkingSetBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(7340032), size)
}

func TestProcessFromObjectMismatch(t *testing.T) {
	fake := processObject().Set("ProcessId", variant.Uint32(4242))
	process, err := ProcessFromObject(object.New(wire.Own(fake)))
	assert.Nil(t, process)

	var fieldErr *FieldTypeError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "ProcessID", fieldErr.Field)
	assert.Equal(t, "ProcessId", fieldErr.Property)
	assert.Equal(t, variant.KindUint32, fieldErr.Actual)
}

func TestProcessFromObjectEmpty(t *testing.T) {
	_, err := ProcessFromObject(object.New(wire.Own(wmitest.NewObject())))
	assert.ErrorIs(t, err, ErrNoProperties)
}

func TestUnmarshal(t *testing.T) {
	type record struct {
		Name     string
		Ignored  string   `wmi:"-"`
		Args     []string `wmi:"Arguments"`
		Priority int32
		hidden   string
	}
	bag := object.Bag{
		"Name":    variant.Text("a.exe"),
		"Ignored": variant.Text("nope"),
		"Arguments": variant.Array{Elem: wire.VTBstr, Items: []variant.Value{
			variant.Text("-x"), nil, variant.Text("-y"),
		}},
		"hidden": variant.Text("nope"),
	}

	dst := record{Priority: 8}
	require.NoError(t, Unmarshal(bag, &dst))
	assert.Equal(t, record{Name: "a.exe", Args: []string{"-x", "", "-y"}}, dst)

	bag["Arguments"] = variant.Array{Elem: wire.VTI4, Items: []variant.Value{variant.Int32(1)}}
	assert.Error(t, Unmarshal(bag, &dst))
}

func TestUnmarshalDestination(t *testing.T) {
	var process *Process
	assert.Error(t, Unmarshal(object.Bag{}, process))
	assert.Error(t, Unmarshal(object.Bag{}, Process{}))
	name := ""
	assert.Error(t, Unmarshal(object.Bag{}, &name))
}

func TestWorkingSetBytes(t *testing.T) {
	size, err := (&Process{}).WorkingSetBytes()
	assert.NoError(t, err)
	assert.Zero(t, size)

	_, err = (&Process{WorkingSetSize: "lots"}).WorkingSetBytes()
	assert.Error(t, err)
}

func TestProcessFromObjectWithoutParent(t *testing.T) {
	fake := wmitest.NewObject().
		Set("Name", variant.Text("notepad.exe")).
		Set("ProcessId", variant.Int32(1234))
	process, err := ProcessFromObject(object.New(wire.Own(fake)))
	require.NoError(t, err)

	assert.Equal(t, "notepad.exe", process.Name)
	assert.Equal(t, int32(1234), process.ProcessID)
	assert.Equal(t, int32(0), process.ParentProcessID)
}
