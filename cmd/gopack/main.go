/*
 * main.go, part of gopack
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

// Command gopack builds random, non-overlapping initial configurations of
// particles and polymers in periodic boxes, from a TOML or YAML run description.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rmera/gopack/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	for _, cmd := range []*cobra.Command{Root, generateCmd, ensembleCmd, rdfCmd} {
		cmd.Flags().SortFlags = false
	}
	Root.PersistentFlags().StringP("config", "c", "gopack.toml", "run description file (.toml, .yaml or .yml)")
	Root.PersistentFlags().BoolP("verbose", "v", false, "log every registration")
	ensembleCmd.Flags().Int("n", 10, "number of configurations")
	ensembleCmd.Flags().IntP("workers", "w", 4, "configurations generated at the same time")
	ensembleCmd.Flags().String("dcd", "", "also write the whole ensemble to this DCD trajectory, one frame per seed")
	rdfCmd.Flags().String("png", "", "plot g(r) to this file")
	rdfCmd.Flags().Int("bins", 100, "number of g(r) bins")
	rdfCmd.Flags().Float64("rmax", 0, "largest distance for g(r); 0 means half the shortest box edge")
	rdfCmd.Flags().Int("cpus", 0, "goroutines for the analysis; 0 means one per CPU")
	Root.AddCommand(generateCmd, ensembleCmd, rdfCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gopack",
	Short: "Random initial configurations for particle simulations.",
	Long: `gopack places particles and bead-spring polymers at random in a periodic
box, so that no two particles are closer than the sum of their separation radii.
The box, the radii, the generators and the outputs are read from a TOML or YAML
run description, given with --config. Output file names can contain environment
variables.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	},
}

func loadRun(cmd *cobra.Command) (*config.Run, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(os.ExpandEnv(path))
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one configuration.",
	Long: `generate builds the configuration described in the run description,
with its seed, and writes it to the outputs listed there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		R, err := loadRun(cmd)
		if err != nil {
			return err
		}
		_, files, err := generate(R, R.Seed, "", logger)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var ensembleCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Generate many independent configurations.",
	Long: `ensemble builds n configurations from the same run description, with
seeds seed, seed+1...seed+n-1, several at a time. The seed is appended to
every output file name, as in init-s42.xyz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		R, err := loadRun(cmd)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("n")
		workers, _ := cmd.Flags().GetInt("workers")
		traj, _ := cmd.Flags().GetString("dcd")
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		files, err := ensemble(ctx, R, n, workers, os.ExpandEnv(traj), logger)
		if err != nil {
			return err
		}
		for _, f := range files {
			for _, name := range f {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var rdfCmd = &cobra.Command{
	Use:   "rdf",
	Short: "Check a configuration and compute its g(r).",
	Long: `rdf builds the configuration described in the run description, without
writing it, checks that no pair of particles overlaps, reports the bond lengths,
and, with --png, plots the radial distribution function of every pair of types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		R, err := loadRun(cmd)
		if err != nil {
			return err
		}
		png, _ := cmd.Flags().GetString("png")
		bins, _ := cmd.Flags().GetInt("bins")
		rmax, _ := cmd.Flags().GetFloat64("rmax")
		cpus, _ := cmd.Flags().GetInt("cpus")
		return analyze(R, png, bins, rmax, cpus, cmd.OutOrStdout(), logger)
	},
	DisableAutoGenTag: true,
}

func main() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
