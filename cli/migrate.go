package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	dbadapter "github.com/stardust-app/server/db"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Server.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := dbadapter.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			if err := model.AutoMigrate(db); err != nil {
				return fmt.Errorf("db migrate: %w", err)
			}
			logger.Info("schema migrated", zap.String("mode", cfg.Database.Mode))
			fmt.Fprintln(cmd.OutOrStdout(), good.Render("schema is up to date"))
			return nil
		},
	}
}
