package cmd

import (
	"fmt"
	"os"

	"github.com/felipepimentel/ai-news-digest/config"
	"github.com/spf13/cobra"
)

var (
	flagConfig string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ai-news-digest",
	Short: "AI news digest site and dashboard backend",
	Long: `ai-news-digest serves the daily AI news digests, the build library,
the archive search and the admin dashboard, and exports the static JSON feed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.InitConfig(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config.InitLogger(loaded)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(searchCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
