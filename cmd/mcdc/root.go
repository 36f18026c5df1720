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

// Package main is the mcdc command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configFile string

// rootCmd is the base mcdc command.
var rootCmd = &cobra.Command{
	Use:   "mcdc",
	Short: "A multi-group Monte Carlo neutron transport engine.",
	Long: "mcdc tracks particle histories through a surface-bounded slab/3-D\n" +
		"geometry, accumulating tallies, and supports both fixed-source and\n" +
		"k-eigenvalue iteration.",
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./mcdc.toml", "configuration file location")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mcdc v%s\n", version)
	},
}

func labelErr(err error) error {
	if err != nil {
		return fmt.Errorf("mcdc: %v", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
