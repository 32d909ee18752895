package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/difficulty"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List difficulty tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIER\tNAME\tRANGE\tOPERATORS\tPROBLEMS\tPOINTS\t3-OPERAND")
		for _, t := range difficulty.All() {
			ops := make([]string, len(t.Operators))
			for i, op := range t.Operators {
				ops[i] = op.Glyph()
			}
			fmt.Fprintf(w, "%d\t%s\t%d-%d\t%s\t%d\t%d\t%.0f%%\n",
				t.ID, t.Name, difficulty.LowerBound, t.UpperBound, strings.Join(ops, " "),
				t.ProblemCount, t.PointsPerProblem, t.ThreeOperandProbability*100)
		}
		return w.Flush()
	},
}
