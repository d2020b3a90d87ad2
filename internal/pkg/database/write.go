package database

import (
	"context"

	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
)

func (db *Database) Write(ctx context.Context, states []model.GroupState) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, state := range states {
		if _, err := tx.Exec(ctx, `
			INSERT INTO group_states (time_stamp, value, identifier, slug)
			VALUES ($1, $2, $3, $4)
		`, state.Timestamp, state.Value, state.Identifier, state.Slug); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (db *Database) RegisterGroup(group *model.Group) error {
	_, err := db.conn.Exec(context.Background(), `
		INSERT INTO groups (id, name)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;`, group.ID, group.Name)
	if err != nil {
		return err
	}

	return nil
}
