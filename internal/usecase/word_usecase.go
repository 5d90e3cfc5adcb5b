package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

// WordUsecase encapsulates business logic for managing user word lists and
// the derived mastery percentage.
type WordUsecase interface {
	MarkWordLearned(ctx context.Context, userID, wordID int64, isLearned bool) (*entity.Word, int32, error)
	AddWords(ctx context.Context, userID int64, topic string, words []entity.Word) ([]entity.Word, int32, error)
	ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int64, error)
}

// NewWordUsecase wires the repositories with default behaviour.
func NewWordUsecase(words repository.WordRepository, profiles repository.ProfileRepository) WordUsecase {
	return &wordUsecase{
		words:    words,
		profiles: profiles,
		clock:    time.Now,
	}
}

type wordUsecase struct {
	words    repository.WordRepository
	profiles repository.ProfileRepository
	clock    func() time.Time
}

// MarkWordLearned flips the learned flag on one word, then recomputes and
// persists the user's mastery percentage from the full current word list.
func (u *wordUsecase) MarkWordLearned(ctx context.Context, userID, wordID int64, isLearned bool) (*entity.Word, int32, error) {
	if userID <= 0 {
		return nil, 0, entity.ErrInvalidUserID
	}
	if wordID <= 0 {
		return nil, 0, entity.ErrWordNotFound
	}

	var word *entity.Word
	err := retryStorage(ctx, func() error {
		var getErr error
		word, getErr = u.words.GetByID(ctx, userID, wordID)
		return getErr
	})
	if err != nil {
		return nil, 0, err
	}

	word.IsLearned = isLearned
	word.Normalize(u.clock())

	err = retryStorage(ctx, func() error {
		var updErr error
		word, updErr = u.words.Update(ctx, word)
		return updErr
	})
	if err != nil {
		return nil, 0, fmt.Errorf("update word: %w", err)
	}

	percent, err := u.recalcLearnedPercent(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return word, percent, nil
}

// AddWords stores a batch of new words for the user (unlearned by default)
// and recomputes the mastery percentage, which drops whenever the word list
// grows faster than the learned count.
func (u *wordUsecase) AddWords(ctx context.Context, userID int64, topic string, words []entity.Word) ([]entity.Word, int32, error) {
	if userID <= 0 {
		return nil, 0, entity.ErrInvalidUserID
	}

	now := u.clock()
	batch := make([]entity.Word, 0, len(words))
	for _, word := range words {
		if strings.TrimSpace(word.Text) == "" {
			return nil, 0, entity.ErrInvalidWordText
		}
		word.UserID = userID
		if word.Topic == "" {
			word.Topic = topic
		}
		word.IsLearned = false
		word.Normalize(now)
		batch = append(batch, word)
	}
	if len(batch) == 0 {
		return nil, 0, entity.ErrInvalidWordText
	}

	var created []entity.Word
	err := retryStorage(ctx, func() error {
		var createErr error
		created, createErr = u.words.CreateBatch(ctx, batch)
		return createErr
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create words: %w", err)
	}

	percent, err := u.recalcLearnedPercent(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return created, percent, nil
}

func (u *wordUsecase) ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int64, error) {
	if query == nil || query.UserID <= 0 {
		return nil, 0, entity.ErrInvalidUserID
	}
	return u.words.List(ctx, query)
}

func (u *wordUsecase) recalcLearnedPercent(ctx context.Context, userID int64) (int32, error) {
	var all []entity.Word
	err := retryStorage(ctx, func() error {
		var listErr error
		all, listErr = u.words.ListByUser(ctx, userID)
		return listErr
	})
	if err != nil {
		return 0, fmt.Errorf("list words: %w", err)
	}

	percent := MasteryPercent(all)
	if err := retryStorage(ctx, func() error { return u.profiles.SaveLearnedPercent(ctx, userID, percent) }); err != nil {
		return 0, fmt.Errorf("persist learned percent: %w", err)
	}
	return percent, nil
}
