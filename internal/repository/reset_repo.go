package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type ResetRepository struct {
	db *sql.DB
}

func NewResetRepository(db *sql.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

var _ Resetter = (*ResetRepository)(nil)

var resetStatements = []string{
	`DELETE FROM user_blogs`,
	`DELETE FROM blogs`,
	`DELETE FROM users`,
}

// Reset wipes all users and blogs. Only wired when running in the test environment.
func (r *ResetRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range resetStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset %q: %w", stmt, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
