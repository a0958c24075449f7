package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"text/tabwriter"
	"time"

	"codg/internal/core/session"

	"github.com/spf13/cobra"
)

// seeded returns a generator for seed, a time based one when seed is zero
func seeded(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newPlanCmd() *cobra.Command {
	var (
		designPath string
		seed       int64
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the shuffled trial plan of a design",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := session.LoadDesign(designPath)
			if err != nil {
				return err
			}
			plan := session.Plan(d, seeded(seed))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tface\tlevel\trepeat\timage")
			for i, t := range plan {
				fmt.Fprintf(tw, "%d\t%s\t%g\t%d\t%s\n", i+1, t.Stimulus, t.Level, t.Repeat, t.ImagePath)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&designPath, "design", "", "design YAML, built in defaults when empty")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed, random when 0")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
