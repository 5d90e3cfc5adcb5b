package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/linguatrack/internal/repository"
)

// CatalogRepository reads the exercise catalog. The aggregation core only
// consumes counts; the catalog rows themselves belong to another service.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository constructs a pgx-backed repository.
func NewCatalogRepository(pool *pgxpool.Pool) repository.CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) QuestionCount(ctx context.Context, exerciseID int64) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE exercise_id = $1`, exerciseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

func (r *CatalogRepository) ExerciseCount(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return count, nil
}
