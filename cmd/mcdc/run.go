/*
Copyright © 2024 the mcdc authors.
This file is part of mcdc.

mcdc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mcdc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mcdc.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-transport/mcdc"
	"github.com/go-transport/mcdc/output"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(fixedCmd)
	runCmd.AddCommand(kCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation.",
	Long:  "run runs an mcdc simulation. Use the subcommands below to choose the iteration mode.",
}

var fixedCmd = &cobra.Command{
	Use:   "fixed",
	Short: "Run in fixed-source mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelErr(runSimulation(false))
	},
}

var kCmd = &cobra.Command{
	Use:   "k",
	Short: "Run in k-eigenvalue mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelErr(runSimulation(true))
	},
}

func runSimulation(kMode bool) error {
	cfg, err := mcdc.LoadConfig(configFile)
	if err != nil {
		return err
	}
	cfg.ModeEigenvalue = kMode

	sim, err := mcdc.BuildSimulator(cfg)
	if err != nil {
		return err
	}

	if err := sim.Run(); err != nil {
		return err
	}

	f, err := os.Create(sim.Output + ".gob")
	if err != nil {
		return err
	}
	return sim.WriteOutput(output.NewGobWriter(f))
}
