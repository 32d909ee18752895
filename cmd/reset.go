package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the review pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := tierFlag(cmd)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		n := d.service.GetStats(ctx, tier).Total
		if !yes {
			fmt.Fprintf(out, "Would remove %d review record(s). Re-run with --yes to confirm.\n", n)
			return nil
		}
		if !d.reviews.DeleteForTier(ctx, tier) {
			return fmt.Errorf("reset review pool: see log for details")
		}
		fmt.Fprintf(out, "Removed %d review record(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int("tier", 0, "Only this tier (0 for all)")
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
