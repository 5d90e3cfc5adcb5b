package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

// StreakRepository stores derived streak records, one row per user.
type StreakRepository struct {
	pool *pgxpool.Pool
}

// NewStreakRepository constructs a pgx-backed repository.
func NewStreakRepository(pool *pgxpool.Pool) repository.StreakRepository {
	return &StreakRepository{pool: pool}
}

func (r *StreakRepository) Get(ctx context.Context, userID int64) (*entity.StreakRecord, error) {
	const q = `SELECT streak, last_activity, updated_at FROM streaks WHERE user_id = $1`

	record := &entity.StreakRecord{UserID: userID}
	var lastActivity pgtype.Date
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&record.Streak, &lastActivity, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrStreakNotFound
		}
		return nil, fmt.Errorf("query streak: %w", err)
	}
	if lastActivity.Valid {
		last := entity.DateOf(lastActivity.Time)
		record.LastActivity = &last
	}
	return record, nil
}

func (r *StreakRepository) Put(ctx context.Context, record *entity.StreakRecord) error {
	var lastActivity pgtype.Date
	if record.LastActivity != nil {
		lastActivity = pgtype.Date{Time: record.LastActivity.Time(), Valid: true}
	}

	const q = `INSERT INTO streaks (user_id, streak, last_activity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			last_activity = EXCLUDED.last_activity,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, q, record.UserID, record.Streak, lastActivity, record.UpdatedAt); err != nil {
		return fmt.Errorf("store streak: %w", err)
	}
	return nil
}
