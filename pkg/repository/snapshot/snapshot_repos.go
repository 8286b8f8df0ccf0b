//nolint:whitespace // can't make both editor and linter happy
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/registry"
	"github.com/mpapenbr/stagerace-classification-go/pkg/repository"
)

type (
	// Descriptor identifies a stored snapshot without its payload
	Descriptor struct {
		ID          uuid.UUID
		Name        string
		Version     string
		RecordStamp time.Time
	}
	Entry struct {
		Descriptor
		Data *registry.Snapshot
	}
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	name string,
	data *registry.Snapshot,
) (*Descriptor, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	ret := &Descriptor{ID: id, Name: name, Version: data.Version}
	row := conn.QueryRow(ctx, `
	insert into snapshot (id, name, version, data)
	values ($1,$2,$3,$4)
	returning record_stamp
	`, id, name, data.Version, data)
	if err := row.Scan(&ret.RecordStamp); err != nil {
		return nil, err
	}
	log.GetFromContext(ctx).Debug("snapshot created",
		log.String("id", id.String()),
		log.String("name", name),
		log.Int("races", len(data.Races)))
	return ret, nil
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (*Entry, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return scan(row)
}

// LoadLatestByName returns the most recent snapshot stored with name
func LoadLatestByName(ctx context.Context, conn repository.Querier, name string) (
	*Entry, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where name=$1 order by record_stamp desc limit 1", selector), name)
	return scan(row)
}

// LoadAll returns the descriptors of all snapshots, newest first
func LoadAll(ctx context.Context, conn repository.Querier) ([]*Descriptor, error) {
	rows, err := conn.Query(ctx, `
	select id, name, version, record_stamp from snapshot order by record_stamp desc
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[Descriptor])
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from snapshot where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = string(`
select id, name, version, record_stamp, data from snapshot
`)

func scan(row pgx.Row) (*Entry, error) {
	var ret Entry
	if err := row.Scan(
		&ret.ID, &ret.Name, &ret.Version, &ret.RecordStamp, &ret.Data,
	); err != nil {
		return nil, err
	}
	return &ret, nil
}
