package repository

import "context"

// CatalogRepository is the read-only view of the exercise catalog. The core
// only ever counts: questions per exercise and exercises system-wide.
type CatalogRepository interface {
	QuestionCount(ctx context.Context, exerciseID int64) (int, error)
	ExerciseCount(ctx context.Context) (int, error)
}
