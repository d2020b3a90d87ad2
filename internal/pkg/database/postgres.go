package database

import (
	"context"
	"io"

	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
	"github.com/jackc/pgx/v5"
)

type Database struct {
	conn *pgx.Conn
	io.Closer
}

func NewDatabase(ctx context.Context, conn *pgx.Conn) *Database {
	initialise(ctx, conn)
	return &Database{
		conn: conn,
	}
}

func initialise(ctx context.Context, conn *pgx.Conn) {
	const createGroupStatesTableSQL = `
CREATE TABLE IF NOT EXISTS group_states (
    id SERIAL PRIMARY KEY,
    time_stamp TIMESTAMP WITH TIME ZONE NOT NULL,
    value TEXT NOT NULL,
    identifier TEXT NOT NULL,
    slug TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_group_states_identifier ON group_states (identifier);
CREATE INDEX IF NOT EXISTS idx_group_states_timestamp ON group_states (time_stamp);
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);
`
	if _, err := conn.Exec(ctx, createGroupStatesTableSQL); err != nil {
		panic(err)
	}
}

func (db *Database) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close(context.Background())
}

// GetLatestStates returns the most recent value per group sensor.
func (db *Database) GetLatestStates(ctx context.Context) ([]model.GroupState, error) {
	const query = `
	SELECT DISTINCT ON (identifier, slug) time_stamp, value, identifier, slug
	FROM group_states
	ORDER BY identifier, slug, time_stamp DESC;
	`

	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []model.GroupState
	for rows.Next() {
		var state model.GroupState
		if err := rows.Scan(&state.Timestamp, &state.Value, &state.Identifier, &state.Slug); err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return states, nil
		}
		return nil, err
	}

	return states, nil
}
