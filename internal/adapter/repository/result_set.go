package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

// ResultRepository persists per-user result sets. The accumulated exercise
// entries ride in a single JSONB column: the set is always read and written
// as a whole, so a normalized layout would only add join traffic.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository constructs a pgx-backed repository.
func NewResultRepository(pool *pgxpool.Pool) repository.ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Get(ctx context.Context, userID int64) (*entity.ResultSet, error) {
	const q = `SELECT result_uuid, exercises, updated_at FROM exercise_results WHERE user_id = $1`

	var (
		resultUUID string
		payload    []byte
		updatedAt  time.Time
	)
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&resultUUID, &payload, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrResultSetNotFound
		}
		return nil, fmt.Errorf("query result set: %w", err)
	}

	set := &entity.ResultSet{UserID: userID, ResultUUID: resultUUID, UpdatedAt: updatedAt}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &set.Exercises); err != nil {
			return nil, fmt.Errorf("decode exercises payload: %w", err)
		}
	}
	return set, nil
}

func (r *ResultRepository) Put(ctx context.Context, set *entity.ResultSet) error {
	exercises := set.Exercises
	if exercises == nil {
		exercises = []entity.ExerciseEntry{}
	}
	payload, err := json.Marshal(exercises)
	if err != nil {
		return fmt.Errorf("encode exercises payload: %w", err)
	}

	const q = `INSERT INTO exercise_results (user_id, result_uuid, exercises, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			result_uuid = EXCLUDED.result_uuid,
			exercises = EXCLUDED.exercises,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, q, set.UserID, set.ResultUUID, payload, set.UpdatedAt); err != nil {
		return fmt.Errorf("store result set: %w", err)
	}
	return nil
}
