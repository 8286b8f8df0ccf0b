package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/cmd/util"
	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
	dbmigrate "github.com/mpapenbr/stagerace-classification-go/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration of the snapshot store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := util.SetupLogger(); err != nil {
				return err
			}
			return startMigration()
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migrationSourceUrl",
		"m",
		"",
		"url to migration files (default: migrations bundled with the binary)")

	return cmd
}

func startMigration() error {
	if err := util.WaitForDB(); err != nil {
		return err
	}
	dbURL := prepareURLForDB(config.DB)
	if config.MigrationSourceURL == "" {
		log.Info("Using bundled migrations")
		return dbmigrate.MigrateDB(dbURL)
	}

	log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
	m, err := migrate.New(config.MigrationSourceURL,
		strings.Replace(dbURL, "postgresql://", "pgx5://", 1))
	if err != nil {
		return fmt.Errorf("could not create migration: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No Migration required")
		return nil
	}
	return err
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, options) {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
