package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"

	"codg/internal/adapters/csvlog"
	"codg/internal/core/codg"
	"codg/internal/core/normalize"
	"codg/internal/platform/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// faceEstimate is one row of estimate output, Face empty for the pooled row
type faceEstimate struct {
	Face   string      `json:"face,omitempty"`
	Result codg.Result `json:"result"`
}

// estimateAll runs the pooled estimate plus one per face concurrently
// Row 0 is always the pooled or single face estimate
func estimateAll(cmd *cobra.Command, est *codg.Estimator, recs []codg.TrialRecord, face string, perFace bool) ([]faceEstimate, error) {
	faces := []string{face}
	if perFace && face == "" {
		faces = append(faces, codg.Stimuli(recs)...)
	}
	out := make([]faceEstimate, len(faces))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range faces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = faceEstimate{Face: f, Result: est.Estimate(recs, f)}
			return nil
		})
	}
	return out, g.Wait()
}

func newEstimateCmd() *cobra.Command {
	var (
		trialFiles  []string
		face        string
		perFace     bool
		summaryPath string
		participant string
		gazeMin     float64
		gazeMax     float64
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cone of direct gaze from trial logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := codg.New(codg.Options{GazeMin: gazeMin, GazeMax: gazeMax})
			if err != nil {
				return err
			}
			var recs []codg.TrialRecord
			for _, p := range trialFiles {
				r, err := csvlog.LoadTrials(p)
				if err != nil {
					return err
				}
				recs = append(recs, r...)
			}
			logger.Named("estimate").Debug().Int("files", len(trialFiles)).Int("trials", len(recs)).Msg("trials loaded")

			start := time.Now()
			rows, err := estimateAll(cmd, est, recs, face, perFace)
			if err != nil {
				return err
			}
			logger.Named("estimate").Debug().Int("estimates", len(rows)).Dur("elapsed", time.Since(start)).Msg("estimated")

			if summaryPath != "" {
				if err := writeSummary(summaryPath, participantOf(participant, recs), rows[0].Result, recs); err != nil {
					return err
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range rows {
				label := r.Face
				if label == "" {
					label = "all"
				}
				fmt.Fprintf(tw, "%s\t%s\tn=%d\n", label, r.Result.Display(), r.Result.Trials)
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&trialFiles, "trials", nil, "trial log CSV, repeat or comma separate for several (.gz ok)")
	f.StringVar(&face, "face", "", "restrict to one stimulus identity")
	f.BoolVar(&perFace, "per-face", false, "also estimate every stimulus identity separately")
	f.StringVar(&summaryPath, "summary", "", "write the pooled (or --face) summary row to this CSV")
	f.StringVar(&participant, "participant", "", "participant id for the summary, taken from the log when empty")
	f.Float64Var(&gazeMin, "gaze-min", codg.DefaultGazeMin, "lower bound of the boundary scan in degrees")
	f.Float64Var(&gazeMax, "gaze-max", codg.DefaultGazeMax, "upper bound of the boundary scan in degrees")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("trials")
	return cmd
}

// participantOf prefers the flag, then the first non blank id in the log
func participantOf(flag string, recs []codg.TrialRecord) string {
	if p := normalize.Participant(flag); p != "" {
		return p
	}
	for _, r := range recs {
		if p := normalize.Participant(r.ParticipantID); p != "" {
			return p
		}
	}
	return ""
}

func writeSummary(path, participant string, res codg.Result, recs []codg.TrialRecord) error {
	var device string
	if len(recs) > 0 {
		device = recs[len(recs)-1].Device
	}
	return csvlog.WriteSummaryFile(path, codg.Summarize(participant, res, len(recs), time.Now(), device))
}
