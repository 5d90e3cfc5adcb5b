package repository

import (
	"context"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// ProfileRepository stores the denormalized aggregate fields on the user
// profile. Saves are upserts: a missing row is created on first recompute.
type ProfileRepository interface {
	Get(ctx context.Context, userID int64) (*entity.ProgressSummary, error)
	SaveLearnedPercent(ctx context.Context, userID int64, percent int32) error
	SaveCompletion(ctx context.Context, userID int64, completion entity.CompletionResult) error
}
