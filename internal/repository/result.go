package repository

import (
	"context"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// ResultRepository abstracts persistence for per-user accumulated exercise
// results. Put has full-row overwrite semantics: the caller always writes the
// complete merged set, never a patch.
type ResultRepository interface {
	Get(ctx context.Context, userID int64) (*entity.ResultSet, error)
	Put(ctx context.Context, set *entity.ResultSet) error
}
