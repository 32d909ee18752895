package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/difficulty"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print a generated session without playing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		tierID, _ := cmd.Flags().GetInt("tier")
		count, _ := cmd.Flags().GetInt("count")
		answers, _ := cmd.Flags().GetBool("answers")
		tier, err := difficulty.Get(tierID)
		if err != nil {
			return err
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		out := cmd.OutOrStdout()
		problems := d.service.PreviewSession(cmd.Context(), tier.ID, count)
		fmt.Fprintf(out, "%s, seed %d\n", tier, d.seed)
		for i, p := range problems {
			if answers {
				fmt.Fprintf(out, "%3d. %s = %d\n", i+1, p, p.Answer())
			} else {
				fmt.Fprintf(out, "%3d. %s = ?\n", i+1, p)
			}
		}
		return nil
	},
}

func init() {
	sessionCmd.Flags().Int("tier", 1, "Difficulty tier (1-6)")
	sessionCmd.Flags().Int("count", 0, "Number of problems (0 uses the tier default)")
	sessionCmd.Flags().Bool("answers", false, "Print answers")
}
