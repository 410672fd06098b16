package cli

import (
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := repository.Open(cfg.Database.Type, cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		return repository.MigrateDB(db, logger)
	},
}
