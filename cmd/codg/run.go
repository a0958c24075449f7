package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"codg/internal/adapters/csvlog"
	"codg/internal/core/codg"
	"codg/internal/core/session"
	"codg/internal/platform/logger"

	"github.com/spf13/cobra"
)

// termPresenter draws the trial phases as text and asks the key reader for
// one answer per shown stimulus
type termPresenter struct {
	out  io.Writer
	want chan<- struct{}
}

func (p termPresenter) Fixation(t session.Trial, cur, total int) {
	fmt.Fprintf(p.out, "\n[%d/%d]  +\n", cur, total)
}

func (p termPresenter) Stimulus(t session.Trial) {
	fmt.Fprintf(p.out, "%s  (%s)  l=Left d=Direct r=Right > ", t.ImagePath, t.Stimulus)
	p.want <- struct{}{}
}

func (p termPresenter) Prompt(session.Trial) {
	fmt.Fprint(p.out, "\n  Left / Direct / Right? > ")
}

func (p termPresenter) Recorded(rec codg.TrialRecord) {
	fmt.Fprintf(p.out, "%s %dms\n", rec.Response, rec.RTMillis)
}

// readAnswers sends one valid answer per request and closes out when in ends
// Lines that are not an answer are skipped
func readAnswers(in io.Reader, want <-chan struct{}, out chan<- codg.Response) {
	defer close(out)
	sc := bufio.NewScanner(in)
	for range want {
		for {
			if !sc.Scan() {
				return
			}
			if r, ok := codg.ParseResponse(sc.Text()); ok {
				out <- r
				break
			}
		}
	}
}

func newRunCmd() *cobra.Command {
	var (
		participant string
		designPath  string
		outDir      string
		device      string
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the judgement task in the terminal and save the logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := session.LoadDesign(designPath)
			if err != nil {
				return err
			}
			est, err := codg.New(codg.Options{GazeMin: d.GazeMin, GazeMax: d.GazeMax})
			if err != nil {
				return err
			}
			s, err := session.New(participant, device, session.Plan(d, seeded(seed)), time.Now())
			if err != nil {
				return err
			}
			ctx := logger.WithSession(cmd.Context(), s.ID.String(), s.ParticipantID)
			log := logger.C(ctx)
			log.Info().Str("design", d.Name).Int("trials", d.TrialCount()).Msg("session started")

			out := cmd.OutOrStdout()
			want := make(chan struct{}, 1)
			answers := make(chan codg.Response)
			go readAnswers(cmd.InOrStdin(), want, answers)

			runner := session.Runner{
				Timing:    d.Timing,
				Presenter: termPresenter{out: out, want: want},
				Responses: answers,
			}
			runErr := runner.Run(ctx, s)
			close(want)

			recs := s.Records()
			if runErr != nil && len(recs) == 0 {
				return runErr
			}
			if runErr != nil {
				log.Warn().Err(runErr).Int("trials", len(recs)).Msg("session stopped early, saving partial log")
			}

			finished := time.Now()
			res := est.Estimate(recs, "")
			sum := codg.Summarize(s.ParticipantID, res, len(recs), finished, s.Device)
			saved, err := csvlog.Save(outDir, sum, recs, finished)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", res.Display())
			fmt.Fprintf(out, "trials:  %s\nsummary: %s\n", saved.Trials, saved.Summary)
			log.Info().Str("status", string(res.Status)).Str("summary", saved.Summary).Msg("session saved")

			if errors.Is(runErr, session.ErrResponsesClosed) {
				return fmt.Errorf("input ended after %d of %d trials", len(recs), d.TrialCount())
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&participant, "participant", "p", "", "participant id")
	cmd.Flags().StringVar(&designPath, "design", "", "design YAML, built in defaults when empty")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the trial and summary CSVs")
	cmd.Flags().StringVar(&device, "device", "terminal", "device label stored with every trial")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed, random when 0")
	_ = cmd.MarkFlagRequired("participant")
	return cmd
}
