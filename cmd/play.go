package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
	"github.com/abhisek/mathdrill/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		tierID, _ := cmd.Flags().GetInt("tier")
		count, _ := cmd.Flags().GetInt("count")
		tier, err := difficulty.Get(tierID)
		if err != nil {
			return err
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		problems := d.service.BuildSession(ctx, tier.ID, count)
		summary := runDrill(ctx, os.Stdin, cmd.OutOrStdout(), d.service, tier, problems, time.Now)
		printSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	playCmd.Flags().Int("tier", 1, "Difficulty tier (1-6)")
	playCmd.Flags().Int("count", 0, "Number of problems (0 uses the tier default)")
}

// answerRecorder is the part of the session service a drill reports to.
type answerRecorder interface {
	RecordAnswer(ctx context.Context, p problem.Problem, tierID int, correct bool) bool
}

// runDrill asks each problem on out and reads answers from in. A "q" line
// or end of input stops early. Lines that are not integers are asked again.
func runDrill(ctx context.Context, in io.Reader, out io.Writer, rec answerRecorder, tier difficulty.Tier, problems []problem.Problem, now func() time.Time) *session.Summary {
	summary := session.NewSummary(tier, now())
	defer func() { summary.Finish(now()) }()

	fmt.Fprintf(out, "%s: %d problems\n", tier, len(problems))
	scanner := bufio.NewScanner(in)
	for i, p := range problems {
		for {
			fmt.Fprintf(out, "[%d/%d] %s = ", i+1, len(problems), p)
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return summary
			}
			line := strings.TrimSpace(scanner.Text())
			if strings.EqualFold(line, "q") {
				return summary
			}
			got, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(out, "Please enter a whole number (q to quit).")
				continue
			}

			correct := got == p.Answer()
			summary.Record(p, correct)
			rec.RecordAnswer(ctx, p, tier.ID, correct)
			if correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Not quite: %s = %d\n", p, p.Answer())
			}
			break
		}
	}
	return summary
}

func printSummary(out io.Writer, s *session.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Answered: %d  Correct: %d  Accuracy: %.0f%%\n",
		s.TotalQuestions, s.TotalCorrect, s.Accuracy()*100)
	fmt.Fprintf(out, "Score: %d / %d\n", s.Score(), s.Tier.MaxScore())
	if len(s.Missed) > 0 {
		fmt.Fprintln(out, "Added to review:")
		for _, p := range s.Missed {
			fmt.Fprintf(out, "  %s = %d\n", p, p.Answer())
		}
	}
	fmt.Fprintf(out, "Time: %s\n", s.Duration.Round(time.Second))
}
