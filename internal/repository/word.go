package repository

import (
	"context"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// ListWordQuery holds parameters for listing a user's words.
type ListWordQuery struct {
	Pagination

	UserID  int64
	Learned *bool
	Keyword string
}

// WordRepository abstracts persistence for user word lists to keep usecases
// storage agnostic.
type WordRepository interface {
	CreateBatch(ctx context.Context, words []entity.Word) ([]entity.Word, error)
	GetByID(ctx context.Context, userID, id int64) (*entity.Word, error)
	Update(ctx context.Context, word *entity.Word) (*entity.Word, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Word, error)
	List(ctx context.Context, query *ListWordQuery) ([]entity.Word, int64, error)
}
