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
	"fmt"

	"github.com/spf13/cobra"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

// SetVersion overrides the build information printed by the version command
func SetVersion(v, c string) {
	version, commit = v, c
}

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "procguard",
		Short:        "terminate the denied processes as soon as they are created",
		SilenceUsage: true,
	}
	cmd.AddCommand(newStartCmd(), newCheckCmd(), newVersionCmd())
	return cmd
}

func newStartCmd() *cobra.Command {
	configPath := ""
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start the modules declared in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/procguard.yaml", "the procguard config file path")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "procguard %s (commit: %s)\n", version, commit)
		},
	}
}
