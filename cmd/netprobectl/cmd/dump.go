/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dumpFile string
	dumpRaw  bool
)

func init() {
	RootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpFile, "file", "f", "netprobe-inventory.json", "Path to the inventory snapshot")
	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "Dump the fully parsed snapshot with go-spew instead of a summary table")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the host inventory once",
	Run: func(cmd *cobra.Command, args []string) {
		ConfigureVerbosity()

		rows, err := loadSnapshot(dumpFile)
		if err != nil {
			log.Fatal(err)
		}
		if dumpRaw {
			spew.Dump(rows)
			return
		}
		renderTable(rows)
	},
}
