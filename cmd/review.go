package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/problem"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect and maintain the review pool",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review records in priority order",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := tierFlag(cmd)
		if err != nil {
			return err
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		recs := d.reviews.Records(cmd.Context(), tier)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIER\tPROBLEM\tSHOWN\tWRONG\tCORRECT\tLAST SHOWN")
		for _, r := range recs {
			text := r.Key
			if p, err := problem.Parse(r.Key); err == nil {
				text = p.String()
			}
			last := "never"
			if r.LastShownAt != nil {
				last = r.LastShownAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%.0f%%\t%s\n",
				r.ID, r.Tier, text, r.TimesShown, r.TimesWrong, r.CorrectRate()*100, last)
		}
		return w.Flush()
	},
}

var reviewSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove records the learner has mastered",
	RunE: func(cmd *cobra.Command, args []string) error {
		sweep := *cfg
		if cmd.Flags().Changed("threshold") {
			sweep.MasteryThreshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		if cmd.Flags().Changed("min-attempts") {
			sweep.MasteryMinAttempts, _ = cmd.Flags().GetInt("min-attempts")
		}
		if err := sweep.Validate(); err != nil {
			return err
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		n, ok := d.reviews.EvictMastered(cmd.Context(), sweep.MasteryThreshold, sweep.MasteryMinAttempts)
		if !ok {
			return fmt.Errorf("sweep review pool: see log for details")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d mastered problem(s).\n", n)
		return nil
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one review record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.reviews.DeleteByID(cmd.Context(), args[0]) {
			return fmt.Errorf("no review record %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
		return nil
	},
}

func init() {
	reviewListCmd.Flags().Int("tier", 0, "Only this tier (0 for all)")
	reviewSweepCmd.Flags().Float64("threshold", 0, "Correct rate at or above which a record is removed")
	reviewSweepCmd.Flags().Int("min-attempts", 0, "Minimum showings before a record is considered")

	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewSweepCmd)
	reviewCmd.AddCommand(reviewDeleteCmd)
}
