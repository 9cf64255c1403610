// Copyright 2024 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Command metaopd runs one copyset's MetaOperator pipeline: a raft
// partition, its fast-apply queue, the in-memory metastore, and the
// write-back disk cache, wired together the way the teacher's own
// daemons bootstrap from a single JSON config file.
package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
)

const cmdRootShort = "metaopd - MetaOperator pipeline and write-back disk cache daemon"

func main() {
	root := &cobra.Command{
		Use:   path.Base(os.Args[0]),
		Short: cmdRootShort,
	}
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
