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
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchFile     string
	watchInterval time.Duration
)

func init() {
	RootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "netprobe-inventory.json", "Path to the inventory snapshot")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 2*time.Second, "Reload and reprint interval")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the host inventory on an interval, following updates",
	Run: func(cmd *cobra.Command, args []string) {
		ConfigureVerbosity()

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			rows, err := loadSnapshot(watchFile)
			if err != nil {
				log.Warning(err)
			} else {
				fmt.Print("\033[H\033[2J")
				renderTable(rows)
			}
			<-ticker.C
		}
	},
}
