// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jcodagnone/hospitalfinder/finder"
	"github.com/spf13/cobra"
)

var searchOptions struct {
	radius string
	state  string
	json   bool
}

var searchCmd = &cobra.Command{
	Use:   "search <city>",
	Short: "Lists the hospitals within a radius of a city",
	Long: `Prints the hospitals within --radius miles of the city, closest first.

$ hospitals search columbus --radius 5
Hospitals within 5.0 miles of Columbus, Ohio:
╭────┬──────────────────────────────────────────┬──────────────────────┬────┬──────────╮
│  # │ Hospital                                 │ City                 │ ST │    Miles │
...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore(cfg, false)
		if err != nil {
			return err
		}
		defer closeStore()

		service := finder.NewService(store, finder.WithEngine(cfg.SpatialEngine()))
		query := finder.NewQuery(strings.Join(args, " "), searchOptions.state, searchOptions.radius, true)

		res, err := service.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchOptions.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")

			matches := res.Hospitals
			if matches == nil {
				matches = []finder.Match{}
			}

			if err := enc.Encode(matches); err != nil {
				return err
			}
		} else {
			printResult(out, res)
		}

		if res.Outcome == finder.OutcomeNotFound {
			return errors.New(res.Message)
		}

		return nil
	},
}

const (
	nameWidth = 40
	cityWidth = 20
)

// truncate cuts s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	return string([]rune(s)[:width-1]) + "…"
}

// pad is fmt's %-*s counting runes instead of bytes.
func pad(s string, width int) string {
	s = truncate(s, width)

	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

func printResult(w io.Writer, res *finder.Result) {
	if res.Warning != "" {
		fmt.Fprintln(w, res.Warning)
	}

	if res.Location == nil {
		if len(res.Candidates) > 0 {
			names := make([]string, len(res.Candidates))
			for i, c := range res.Candidates {
				names[i] = c.Name + ", " + c.State
			}

			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(names, "; "))
		}

		return
	}

	if len(res.Hospitals) == 0 {
		fmt.Fprintln(w, res.Message)

		return
	}

	fmt.Fprintf(w, "Hospitals within %s miles of %s, %s:\n", res.Query.FormatRadius(), res.Location.Name, res.Location.State)

	a, b, c, d, e := strings.Repeat("─", 2), strings.Repeat("─", nameWidth), strings.Repeat("─", cityWidth),
		strings.Repeat("─", 2), strings.Repeat("─", 8)
	fmt.Fprintf(w, "╭─%s─┬─%s─┬─%s─┬─%s─┬─%s─╮\n", a, b, c, d, e)
	fmt.Fprintf(w, "│ %2s │ %s │ %s │ %2s │ %8s │\n", "#", pad("Hospital", nameWidth), pad("City", cityWidth), "ST", "Miles")
	fmt.Fprintf(w, "├─%s─┼─%s─┼─%s─┼─%s─┼─%s─┤\n", a, b, c, d, e)

	for i, m := range res.Hospitals {
		fmt.Fprintf(w, "│ %2d │ %s │ %s │ %2s │ %8.2f │\n",
			i+1, pad(m.Hospital.Name, nameWidth), pad(m.Hospital.City, cityWidth), m.Hospital.State, m.DistanceMiles)
	}

	fmt.Fprintf(w, "╰─%s─┴─%s─┴─%s─┴─%s─┴─%s─╯\n", a, b, c, d, e)

	for i, m := range res.Hospitals {
		fmt.Fprintf(w, "%2d. %s\n    %s\n", i+1, m.RouteURL, m.MapURL)
	}
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "Prints the distinct city names, sorted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, closeStore, err := openStore(cfg, false)
		if err != nil {
			return err
		}
		defer closeStore()

		names, err := finder.NewService(store).Cities(cmd.Context())
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(citiesCmd)

	searchCmd.Flags().StringVar(&searchOptions.radius, "radius", "10", "search radius in miles")
	searchCmd.Flags().StringVar(&searchOptions.state, "state", "", "state name, to pick among cities sharing a name")
	searchCmd.Flags().BoolVar(&searchOptions.json, "json", false, "print the matches as JSON")
}
