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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/procguard/procguard/pkg/config"
	"github.com/procguard/procguard/pkg/process"
	"github.com/procguard/procguard/pkg/process/api"
	"github.com/procguard/procguard/pkg/process/finders/base"
	"github.com/procguard/procguard/pkg/process/finders/wmi"
)

var newWMIFinder = func() base.ProcessFinder {
	return wmi.NewProcessFinder()
}

func newCheckCmd() *cobra.Command {
	configPath := ""
	outputFormat := ""
	duration := time.Duration(0)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "subscribe the process creation events and print them for a while",
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.Context(), cmd.OutOrStdout(), configPath, duration, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/procguard.yaml", "the procguard config file path")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 10*time.Second, "how long the events are printed")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "plain", "the check output format, support \"json\", \"plain\"")
	return cmd
}

func check(ctx context.Context, out io.Writer, configPath string, duration time.Duration, format string) error {
	if format != "plain" && format != "json" {
		return fmt.Errorf("unknown output format: %s", format)
	}
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config error: %s, %v", configPath, err)
	}
	processConf := &process.Config{}
	if err := conf.UnMarshalWithKey(process.ModuleName, processConf); err != nil {
		return fmt.Errorf("read %s module config error: %v", process.ModuleName, err)
	}
	if processConf.WMI == nil {
		return fmt.Errorf("the wmi finder is not declared in %s", configPath)
	}
	processConf.WMI.Active = true

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()
	printer := &eventPrinter{out: out, json: format == "json"}
	finder := newWMIFinder()
	if err := finder.Init(ctx, processConf.WMI, printer); err != nil {
		return fmt.Errorf("subscribe the process creation failure: %v", err)
	}
	finder.Start()
	<-ctx.Done()
	if err := finder.Stop(); err != nil {
		return err
	}
	printer.summary()
	return nil
}

type processEvent struct {
	Pid            int32  `json:"pid"`
	ParentPid      int32  `json:"parent_pid"`
	Name           string `json:"name"`
	ExecutablePath string `json:"executable_path,omitempty"`
	CommandLine    string `json:"command_line,omitempty"`
}

// eventPrinter writes the reported processes instead of storing them
type eventPrinter struct {
	mutex sync.Mutex
	out   io.Writer
	json  bool
	count int
}

func (e *eventPrinter) SyncAllProcessInFinder(processes []api.DetectedProcess) {
	e.AddDetectedProcess(processes)
}

func (e *eventPrinter) AddDetectedProcess(processes []api.DetectedProcess) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for _, p := range processes {
		e.count++
		if !e.json {
			fmt.Fprintf(e.out, "Started %s, %d\n", p.Name(), p.Pid())
			continue
		}
		_ = json.NewEncoder(e.out).Encode(&processEvent{
			Pid:            p.Pid(),
			ParentPid:      p.ParentPid(),
			Name:           p.Name(),
			ExecutablePath: p.ExecutablePath(),
			CommandLine:    p.CommandLine(),
		})
	}
}

func (e *eventPrinter) summary() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.json {
		fmt.Fprintf(e.out, "%d process creations received\n", e.count)
	}
}
