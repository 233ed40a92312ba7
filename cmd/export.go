package cmd

import (
	"fmt"

	"github.com/felipepimentel/ai-news-digest/config"
	"github.com/felipepimentel/ai-news-digest/global"
	"github.com/felipepimentel/ai-news-digest/staticfeed"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagExportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the static JSON feed from the database",
	Long: `Write every digest to <dir>/digests/<id>.json and merge the entries into
<dir>/index.json, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := flagExportDir
		if dir == "" {
			dir = cfg.Feed.DataDir
		}

		if err := config.InitDB(cfg); err != nil {
			return err
		}
		digests, err := store.New(global.DB).AllDigests(cmd.Context())
		if err != nil {
			return err
		}

		if err := staticfeed.NewExporter(dir).Export(digests); err != nil {
			return fmt.Errorf("exporting feed: %w", err)
		}
		logrus.WithFields(logrus.Fields{"dir": dir, "digests": len(digests)}).Info("feed exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportDir, "dir", "", "output directory (default feed.data_dir)")
}
