package repository

import (
	"context"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// StreakRepository stores the derived per-user streak record.
type StreakRepository interface {
	Get(ctx context.Context, userID int64) (*entity.StreakRecord, error)
	Put(ctx context.Context, record *entity.StreakRecord) error
}
