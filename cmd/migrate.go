package cmd

import (
	"github.com/felipepimentel/ai-news-digest/config"
	"github.com/felipepimentel/ai-news-digest/global"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitDB(cfg); err != nil {
			return err
		}
		return config.MigrateDB(global.DB)
	},
}
