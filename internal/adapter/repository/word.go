package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

const wordColumns = `id, user_id, topic, word, translation, is_learned, created_at, updated_at`

// WordRepository persists user word lists.
type WordRepository struct {
	pool *pgxpool.Pool
}

// NewWordRepository constructs a pgx-backed repository.
func NewWordRepository(pool *pgxpool.Pool) repository.WordRepository {
	return &WordRepository{pool: pool}
}

func (r *WordRepository) CreateBatch(ctx context.Context, words []entity.Word) ([]entity.Word, error) {
	if len(words) == 0 {
		return nil, nil
	}

	const q = `INSERT INTO words (user_id, topic, word, translation, is_learned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	b := &pgx.Batch{}
	for _, w := range words {
		b.Queue(q, w.UserID, w.Topic, w.Text, w.Translation, w.IsLearned, w.CreatedAt, w.UpdatedAt)
	}

	br := r.pool.SendBatch(ctx, b)
	created := make([]entity.Word, len(words))
	copy(created, words)
	for i := range created {
		if err := br.QueryRow().Scan(&created[i].ID); err != nil {
			br.Close()
			return nil, translateWordError(err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("close word batch: %w", err)
	}
	return created, nil
}

func (r *WordRepository) GetByID(ctx context.Context, userID, id int64) (*entity.Word, error) {
	q := fmt.Sprintf(`SELECT %s FROM words WHERE id = $1 AND user_id = $2`, wordColumns)

	word, err := scanWord(r.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("query word: %w", err)
	}
	return word, nil
}

func (r *WordRepository) Update(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	const q = `UPDATE words SET topic = $3, word = $4, translation = $5, is_learned = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, q, word.ID, word.UserID, word.Topic, word.Text, word.Translation, word.IsLearned, word.UpdatedAt)
	if err != nil {
		return nil, translateWordError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, entity.ErrWordNotFound
	}
	clone := *word
	return &clone, nil
}

func (r *WordRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Word, error) {
	q := fmt.Sprintf(`SELECT %s FROM words WHERE user_id = $1 ORDER BY id`, wordColumns)

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()
	return collectWords(rows)
}

func (r *WordRepository) List(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{query.UserID}
	if query.Learned != nil {
		args = append(args, *query.Learned)
		where = append(where, fmt.Sprintf("is_learned = $%d", len(args)))
	}
	if keyword := strings.TrimSpace(query.Keyword); keyword != "" {
		args = append(args, "%"+keyword+"%")
		where = append(where, fmt.Sprintf("word ILIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM words WHERE %s`, cond)
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count words: %w", err)
	}

	listQ := fmt.Sprintf(`SELECT %s FROM words WHERE %s ORDER BY id`, wordColumns, cond)
	if query.PageSize > 0 {
		listQ += fmt.Sprintf(" LIMIT %d OFFSET %d", query.PageSize, query.Offset())
	}
	rows, err := r.pool.Query(ctx, listQ, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	words, err := collectWords(rows)
	if err != nil {
		return nil, 0, err
	}
	return words, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*entity.Word, error) {
	var word entity.Word
	err := row.Scan(
		&word.ID,
		&word.UserID,
		&word.Topic,
		&word.Text,
		&word.Translation,
		&word.IsLearned,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func collectWords(rows pgx.Rows) ([]entity.Word, error) {
	var words []entity.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, *word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return words, nil
}

func translateWordError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return entity.ErrDuplicateWord
	}
	return err
}
