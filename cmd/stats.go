package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/difficulty"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review pool statistics",
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

		out := cmd.OutOrStdout()
		st := d.service.GetStats(cmd.Context(), tier)
		fmt.Fprintf(out, "Problems to review: %d\n", st.Total)
		for _, id := range st.Tiers() {
			name := fmt.Sprintf("Tier %d", id)
			if t, err := difficulty.Get(id); err == nil {
				name = t.String()
			}
			fmt.Fprintf(out, "  %-26s %d\n", name, st.ByTier[id])
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("tier", 0, "Only this tier (0 for all)")
}

// tierFlag reads an optional --tier flag. Zero or unset means all tiers.
func tierFlag(cmd *cobra.Command) (*int, error) {
	id, _ := cmd.Flags().GetInt("tier")
	if id == 0 {
		return nil, nil
	}
	if _, err := difficulty.Get(id); err != nil {
		return nil, err
	}
	return &id, nil
}
