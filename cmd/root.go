package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/store"
)

var (
	// v carries defaults, environment and bound flags.
	v = config.New()

	// cfg is resolved before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mathdrill",
	Short: "Arithmetic practice drills",
	Long: "mathdrill generates arithmetic practice sessions by difficulty tier and " +
		"keeps missed problems in a review pool until they are mastered.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(v, file)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides MATHDRILL_DB env var)")
	flags.String("config", "", "Path to a config file (yaml, toml or json)")
	flags.Bool("memory", false, "Keep the review pool in memory for this run only")
	flags.Uint64("seed", 0, "Seed for the random source (0 picks one)")
	flags.String("log-mode", "", "Log mode: dev, prod or quiet")

	mustBind(v, config.KeyDB, "db")
	mustBind(v, config.KeyMemory, "memory")
	mustBind(v, config.KeySeed, "seed")
	mustBind(v, config.KeyLogMode, "log-mode")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(versionCmd)
}

func mustBind(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// resolveDBPath returns the database path from --db or MATHDRILL_DB, then
// the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
