package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

type fakeWordRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.Word
}

func newFakeWordRepo() *fakeWordRepo {
	return &fakeWordRepo{items: make(map[int64]*entity.Word)}
}

func (r *fakeWordRepo) CreateBatch(ctx context.Context, words []entity.Word) ([]entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	created := make([]entity.Word, 0, len(words))
	for _, word := range words {
		r.seq++
		word.ID = r.seq
		clone := word
		r.items[clone.ID] = &clone
		created = append(created, word)
	}
	return created, nil
}

func (r *fakeWordRepo) GetByID(ctx context.Context, userID, id int64) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, entity.ErrWordNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakeWordRepo) Update(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[word.ID]
	if !ok || existing.UserID != word.UserID {
		return nil, entity.ErrWordNotFound
	}
	clone := *word
	r.items[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *fakeWordRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var words []entity.Word
	for _, item := range r.items {
		if item.UserID == userID {
			words = append(words, *item)
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].ID < words[j].ID })
	return words, nil
}

func (r *fakeWordRepo) List(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int64, error) {
	all, err := r.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, 0, err
	}
	var filtered []entity.Word
	keyword := strings.ToLower(strings.TrimSpace(query.Keyword))
	for _, word := range all {
		if query.Learned != nil && word.IsLearned != *query.Learned {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(word.Text), keyword) {
			continue
		}
		filtered = append(filtered, word)
	}
	return filtered, int64(len(filtered)), nil
}

type wordFixture struct {
	words    *fakeWordRepo
	profiles *fakeProfileRepo
	uc       WordUsecase
}

func newWordFixture() *wordFixture {
	f := &wordFixture{
		words:    newFakeWordRepo(),
		profiles: newFakeProfileRepo(),
	}
	f.uc = NewWordUsecase(f.words, f.profiles)
	impl := f.uc.(*wordUsecase)
	impl.clock = func() time.Time { return time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *wordFixture) seed(t *testing.T, texts ...string) []entity.Word {
	t.Helper()
	words := make([]entity.Word, 0, len(texts))
	for _, text := range texts {
		words = append(words, entity.Word{Text: text})
	}
	created, _, err := f.uc.AddWords(context.Background(), 1, "Animals", words)
	if err != nil {
		t.Fatalf("seeding words failed: %v", err)
	}
	return created
}

func TestAddWordsStartUnlearned(t *testing.T) {
	f := newWordFixture()

	created, percent, err := f.uc.AddWords(context.Background(), 1, "Animals", []entity.Word{
		{Text: "cat"}, {Text: "dog", IsLearned: true}, {Text: "fox"},
	})
	if err != nil {
		t.Fatalf("AddWords failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d words, want 3", len(created))
	}
	for _, word := range created {
		if word.IsLearned {
			t.Errorf("word %q stored as learned; new words must start unlearned", word.Text)
		}
		if word.Topic != "Animals" {
			t.Errorf("word %q topic = %q, want Animals", word.Text, word.Topic)
		}
		if word.ID == 0 {
			t.Errorf("word %q has no assigned id", word.Text)
		}
	}
	if percent != 0 {
		t.Errorf("percent after adding unlearned words = %d, want 0", percent)
	}
	if got := f.profiles.learned[1]; got != 0 {
		t.Errorf("persisted percent = %d, want 0", got)
	}
}

func TestMarkWordLearnedRecalculatesPercent(t *testing.T) {
	f := newWordFixture()
	created := f.seed(t, "cat", "dog", "fox")

	word, percent, err := f.uc.MarkWordLearned(context.Background(), 1, created[0].ID, true)
	if err != nil {
		t.Fatalf("MarkWordLearned failed: %v", err)
	}
	if !word.IsLearned {
		t.Error("returned word not marked learned")
	}
	if percent != 33 {
		t.Errorf("percent = %d, want 33 after 1 of 3 learned", percent)
	}

	for _, w := range created[1:] {
		if _, percent, err = f.uc.MarkWordLearned(context.Background(), 1, w.ID, true); err != nil {
			t.Fatalf("MarkWordLearned failed: %v", err)
		}
	}
	if percent != 100 {
		t.Errorf("percent = %d, want 100 with every word learned", percent)
	}
	if got := f.profiles.learned[1]; got != 100 {
		t.Errorf("persisted percent = %d, want 100", got)
	}
}

func TestMarkWordLearnedUnlearnDropsPercent(t *testing.T) {
	f := newWordFixture()
	created := f.seed(t, "cat", "dog")
	if _, _, err := f.uc.MarkWordLearned(context.Background(), 1, created[0].ID, true); err != nil {
		t.Fatalf("MarkWordLearned failed: %v", err)
	}
	if _, _, err := f.uc.MarkWordLearned(context.Background(), 1, created[1].ID, true); err != nil {
		t.Fatalf("MarkWordLearned failed: %v", err)
	}

	_, percent, err := f.uc.MarkWordLearned(context.Background(), 1, created[0].ID, false)
	if err != nil {
		t.Fatalf("MarkWordLearned failed: %v", err)
	}
	if percent != 50 {
		t.Errorf("percent = %d, want 50 after unlearning one of two", percent)
	}
}

func TestMarkWordLearnedErrors(t *testing.T) {
	f := newWordFixture()
	created := f.seed(t, "cat")

	if _, _, err := f.uc.MarkWordLearned(context.Background(), 0, created[0].ID, true); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID", err)
	}
	if _, _, err := f.uc.MarkWordLearned(context.Background(), 1, 999, true); !errors.Is(err, entity.ErrWordNotFound) {
		t.Errorf("err = %v, want ErrWordNotFound for unknown id", err)
	}
	// Word belonging to another user must read as not found, never leak.
	if _, _, err := f.uc.MarkWordLearned(context.Background(), 2, created[0].ID, true); !errors.Is(err, entity.ErrWordNotFound) {
		t.Errorf("err = %v, want ErrWordNotFound for foreign word", err)
	}
}

func TestAddWordsValidation(t *testing.T) {
	f := newWordFixture()

	if _, _, err := f.uc.AddWords(context.Background(), 0, "Animals", []entity.Word{{Text: "cat"}}); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID", err)
	}
	if _, _, err := f.uc.AddWords(context.Background(), 1, "Animals", []entity.Word{{Text: "  "}}); !errors.Is(err, entity.ErrInvalidWordText) {
		t.Errorf("err = %v, want ErrInvalidWordText for blank text", err)
	}
	if _, _, err := f.uc.AddWords(context.Background(), 1, "Animals", nil); !errors.Is(err, entity.ErrInvalidWordText) {
		t.Errorf("err = %v, want ErrInvalidWordText for empty batch", err)
	}
}

func TestListWordsFilters(t *testing.T) {
	f := newWordFixture()
	created := f.seed(t, "cat", "dog", "catfish")
	if _, _, err := f.uc.MarkWordLearned(context.Background(), 1, created[0].ID, true); err != nil {
		t.Fatalf("MarkWordLearned failed: %v", err)
	}

	learned := true
	items, total, err := f.uc.ListWords(context.Background(), &repository.ListWordQuery{UserID: 1, Learned: &learned})
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Text != "cat" {
		t.Errorf("learned filter returned %+v (total %d), want only cat", items, total)
	}

	items, total, err = f.uc.ListWords(context.Background(), &repository.ListWordQuery{UserID: 1, Keyword: "cat"})
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("keyword filter returned %d items (total %d), want 2", len(items), total)
	}

	if _, _, err := f.uc.ListWords(context.Background(), nil); !errors.Is(err, entity.ErrInvalidUserID) {
		t.Errorf("err = %v, want ErrInvalidUserID for nil query", err)
	}
}
