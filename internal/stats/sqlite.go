package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteSink inserts rows into the moves table created by storage.Storage.Init.
type SQLiteSink struct {
	conn *sql.DB
}

func NewSQLiteSink(conn *sql.DB) *SQLiteSink {
	return &SQLiteSink{conn: conn}
}

func (that *SQLiteSink) Append(ctx context.Context, rows []Row) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO moves (match_id, turn, player, player_name, gobbler_size, board_position, winner, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, row := range rows {
		_, err = tx.ExecContext(ctx, query,
			row.MatchID,
			row.Turn,
			int(row.Player),
			row.PlayerName,
			row.Size,
			row.Cell,
			int(row.Winner),
			row.RecordedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("can't insert stats row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit stats rows: %w", err)
	}

	return nil
}

// Close is a no-op: the connection belongs to the storage that opened it.
func (that *SQLiteSink) Close() error {
	return nil
}
