package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var _ TxManager = (*SQLTxManager)(nil)

type SQLTxManager struct {
	db *sql.DB
}

func NewSQLTxManager(db *sql.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

func (tm *SQLTxManager) RunInTx(ctx context.Context, fn func(tx Executor) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			Rollback(tx)
			panic(r)
		}
		if err != nil {
			Rollback(tx)
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit tx: %w", err)
		}
	}()

	return fn(tx)
}

// Rollback rolls tx back and logs a failure other than an already
// finished transaction.
func Rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to rollback transaction", "reason", err)
	}
}
