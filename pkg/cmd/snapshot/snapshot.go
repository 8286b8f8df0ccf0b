package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/cmd/classify"
	"github.com/mpapenbr/stagerace-classification-go/pkg/cmd/util"
	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
	"github.com/mpapenbr/stagerace-classification-go/pkg/registry"
	"github.com/mpapenbr/stagerace-classification-go/pkg/repository"
	snapshotrepos "github.com/mpapenbr/stagerace-classification-go/pkg/repository/snapshot"
)

var output string

func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "stores and restores registry snapshots in the database",
	}
	cmd.AddCommand(newSaveCmd(), newLoadCmd(), newListCmd(), newDeleteCmd())
	return cmd
}

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <racefile>",
		Short: "loads a race file and stores the resulting registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
				return save(ctx, db, cmd.OutOrStdout(), args[0])
			})
		},
	}
	cmd.Flags().StringVar(&config.SnapshotName, "name", "",
		"name of the snapshot (default: race name)")
	return cmd
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <name|id>",
		Short: "restores a snapshot and prints the classifications of its races",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
				return load(ctx, db, cmd.OutOrStdout(), args[0])
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
				return list(ctx, db, cmd.OutOrStdout())
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "deletes a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}
			return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
				n, err := snapshotrepos.DeleteByID(ctx, db, id)
				if err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("snapshot %s: %w", id, pgx.ErrNoRows)
				}
				log.Info("snapshot deleted", log.String("id", id.String()))
				return nil
			})
		},
	}
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *pgxpool.Pool) error) error {
	logger, sqlLogger, err := util.SetupLogger()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.AddToContext(ctx, logger.Named("snapshot"))
	db, err := util.OpenDB(ctx, sqlLogger)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}

func save(ctx context.Context, db *pgxpool.Pool, w io.Writer, filename string) error {
	reg := registry.New()
	applied, err := classify.Load(filename, reg)
	if err != nil {
		return err
	}
	name := config.SnapshotName
	if name == "" {
		race, _ := reg.RaceByID(applied.RaceID)
		name = race.Name
	}
	var desc *snapshotrepos.Descriptor
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		desc, err = snapshotrepos.Create(ctx, tx, name, reg.Snapshot())
		return err
	})
	if err != nil {
		return err
	}
	log.Info("snapshot stored",
		log.String("id", desc.ID.String()),
		log.String("name", desc.Name))
	_, err = fmt.Fprintln(w, desc.ID)
	return err
}

func load(ctx context.Context, db repository.Querier, w io.Writer, ref string) error {
	entry, err := lookup(ctx, db, ref)
	if err != nil {
		return err
	}
	reg := registry.New()
	if err := reg.Restore(entry.Data); err != nil {
		return err
	}
	appConfig, err := config.Resolve()
	if err != nil {
		return err
	}
	log.Debug("snapshot restored",
		log.String("id", entry.ID.String()),
		log.String("version", entry.Version),
		log.Time("recordStamp", entry.RecordStamp))
	for _, raceID := range reg.RaceIDs() {
		if err := classify.Print(w, reg, raceID, appConfig, output); err != nil {
			return err
		}
	}
	return nil
}

// ref is either a snapshot id or a snapshot name
func lookup(ctx context.Context, db repository.Querier, ref string) (
	*snapshotrepos.Entry, error,
) {
	var (
		entry *snapshotrepos.Entry
		err   error
	)
	if id, idErr := uuid.FromString(ref); idErr == nil {
		entry, err = snapshotrepos.LoadByID(ctx, db, id)
	} else {
		entry, err = snapshotrepos.LoadLatestByName(ctx, db, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", ref, err)
	}
	return entry, nil
}

func list(ctx context.Context, db repository.Querier, w io.Writer) error {
	all, err := snapshotrepos.LoadAll(ctx, db)
	if err != nil {
		return err
	}
	for _, d := range all {
		fmt.Fprintf(w, "%s  %-30s  %-10s  %s\n",
			d.ID, d.Name, d.Version, d.RecordStamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}
