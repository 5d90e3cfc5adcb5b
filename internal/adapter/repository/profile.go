package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

// ProfileRepository persists the denormalized aggregate columns on the
// user profile row.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository constructs a pgx-backed repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*entity.ProgressSummary, error) {
	const query = `
		SELECT user_id, learned_words_percent, completed_exercises, completed_percent, updated_at
		FROM profiles
		WHERE user_id = $1`

	summary := &entity.ProgressSummary{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&summary.UserID,
		&summary.LearnedWordsPercent,
		&summary.CompletedExercises,
		&summary.CompletedPercent,
		&summary.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return summary, nil
}

func (r *ProfileRepository) SaveLearnedPercent(ctx context.Context, userID int64, percent int32) error {
	const query = `
		INSERT INTO profiles (user_id, learned_words_percent, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			learned_words_percent = EXCLUDED.learned_words_percent,
			updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, userID, percent); err != nil {
		return fmt.Errorf("save learned percent: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SaveCompletion(ctx context.Context, userID int64, completion entity.CompletionResult) error {
	const query = `
		INSERT INTO profiles (user_id, completed_exercises, completed_percent, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			completed_exercises = EXCLUDED.completed_exercises,
			completed_percent = EXCLUDED.completed_percent,
			updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, userID, completion.CompletedCount, completion.Percent); err != nil {
		return fmt.Errorf("save completion: %w", err)
	}
	return nil
}
