// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/jcodagnone/hospitalfinder/spatial"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDistanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lon1> <lat2> <lon2>",
	Short: "Prints the great-circle distance between two points, in miles",
	Long: `Prints the haversine distance used by the search, with R = 3958.8 miles.

$ hospitals debug distance 39.9862 -82.9855 40.03251365424923 -82.9855
3.200000
	`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var coords [4]float64

		for i, arg := range args {
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}

			coords[i] = f
		}

		a := spatial.Point{Lat: coords[0], Lng: coords[1]}
		b := spatial.Point{Lat: coords[2], Lng: coords[3]}

		for _, p := range []spatial.Point{a, b} {
			if err := p.Validate(); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%f\n", a.HaversineMiles(b))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDistanceCmd)
}
