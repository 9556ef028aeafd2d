package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for verification log operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordVerification appends one membership check to the log.
	RecordVerification(ctx context.Context, v *Verification) error

	// GetStats aggregates the whole log.
	GetStats(ctx context.Context) (*Stats, error)

	// PruneVerifications deletes entries checked before the cutoff.
	PruneVerifications(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordVerification inserts a verification row and fills in its ID.
func (s *sqlxStore) RecordVerification(ctx context.Context, v *Verification) error {
	if v == nil {
		return errors.New("cannot record nil verification")
	}
	if v.UserID == 0 {
		return errors.New("verification must have a non-zero user_id")
	}
	if v.Joined < 0 || v.Joined > v.Total {
		return fmt.Errorf("verification joined count %d out of range [0, %d]", v.Joined, v.Total)
	}
	if v.CheckedAt.IsZero() {
		v.CheckedAt = time.Now()
	}
	v.CheckedAt = v.CheckedAt.UTC()

	query := `
        INSERT INTO verifications (user_id, chat_id, joined, total, all_joined, missing_channels, checked_at)
        VALUES (:user_id, :chat_id, :joined, :total, :all_joined, :missing_channels, :checked_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, v)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording verification", "user_id", v.UserID, "error", err)
		return fmt.Errorf("failed to record verification for user %d: %w", v.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // row ids are positive
		v.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after recording verification",
			"user_id", v.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Verification recorded",
		"user_id", v.UserID, "joined", v.Joined, "total", v.Total, "all_joined", v.AllJoined)
	return nil
}

// GetStats returns aggregate counters over the log.
func (s *sqlxStore) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	query := `
        SELECT
            COUNT(*)                                                    AS total_checks,
            COALESCE(SUM(CASE WHEN all_joined THEN 1 ELSE 0 END), 0)    AS passed_checks,
            COUNT(DISTINCT user_id)                                     AS unique_users,
            COUNT(DISTINCT CASE WHEN all_joined THEN user_id END)       AS passed_users
        FROM verifications;
    `
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		s.logger.ErrorContext(ctx, "Error aggregating verification stats", "error", err)
		return nil, fmt.Errorf("failed to get verification stats: %w", err)
	}

	var last time.Time
	err := s.db.GetContext(ctx, &last, `SELECT checked_at FROM verifications ORDER BY checked_at DESC, id DESC LIMIT 1;`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		s.logger.ErrorContext(ctx, "Error fetching last verification time", "error", err)
		return nil, fmt.Errorf("failed to get last verification time: %w", err)
	default:
		stats.LastCheckAt = sql.NullTime{Time: last.UTC(), Valid: true}
	}

	return &stats, nil
}

// PruneVerifications deletes every entry checked strictly before the cutoff.
func (s *sqlxStore) PruneVerifications(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM verifications WHERE checked_at < ?;`, before.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning verifications", "before", before, "error", err)
		return 0, fmt.Errorf("failed to prune verifications: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned verifications: %w", err)
	}
	s.logger.InfoContext(ctx, "Pruned verifications", "before", before, "deleted", deleted)
	return deleted, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM cannot run inside a transaction.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
