package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
)

var errNoTablesSelected = errors.New("backup: no tables selected")

// ProgressReporter receives progress callbacks during export.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// table describes one exportable table. Columns are listed explicitly so a
// backup stays readable after schema additions; sequence names what import
// must resync for serial keys.
type table struct {
	name     string
	columns  []string
	orderBy  string
	sequence string
}

var exportTables = []table{
	{name: "exercise_results", columns: []string{"user_id", "result_uuid", "exercises", "updated_at"}, orderBy: "user_id"},
	{name: "streaks", columns: []string{"user_id", "streak", "last_activity", "updated_at"}, orderBy: "user_id"},
	{name: "words", columns: []string{"id", "user_id", "topic", "word", "translation", "is_learned", "created_at", "updated_at"}, orderBy: "id", sequence: "words_id_seq"},
	{name: "profiles", columns: []string{"user_id", "learned_words_percent", "completed_exercises", "completed_percent", "updated_at"}, orderBy: "user_id"},
}

// Service streams table contents as NDJSON and restores them again.
type Service struct {
	pool      *pgxpool.Pool
	batchSize int
	userID    int64
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithUser restricts export to one user's rows.
func WithUser(userID int64) Option {
	return func(s *Service) {
		if userID > 0 {
			s.userID = userID
		}
	}
}

// NewService constructs a backup service bound to the provided pool.
func NewService(pool *pgxpool.Pool, opts ...Option) (*Service, error) {
	if pool == nil {
		return nil, errors.New("backup: pool is required")
	}
	svc := &Service{
		pool:      pool,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the provided table names (snake_case as in DB).
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := selectTables(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	counts := make(map[string]int, len(tables))
	for _, tbl := range tables {
		count, err := s.countRows(ctx, tbl)
		if err != nil {
			return fmt.Errorf("count table %s: %w", tbl.name, err)
		}
		counts[tbl.name] = count
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := time.Now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Tables:     tableNames(tables),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, tbl := range tables {
		reporter.StartTable(tbl.name, counts[tbl.name])
		if err := s.exportTable(ctx, tbl, reporter, writer); err != nil {
			return err
		}
		reporter.FinishTable(tbl.name)
	}
	return writer.Flush()
}

func (s *Service) exportTable(ctx context.Context, tbl table, reporter ProgressReporter, w io.Writer) error {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(tbl.columns, ", "), tbl.name)
	args := []any{}
	if s.userID > 0 && hasColumn(tbl, "user_id") {
		query += " WHERE user_id = $1"
		args = append(args, s.userID)
	}
	query += " ORDER BY " + tbl.orderBy

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query table %s: %w", tbl.name, err)
	}
	defer rows.Close()

	pending := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("read row from %s: %w", tbl.name, err)
		}
		payload := make(map[string]any, len(tbl.columns))
		for i, col := range tbl.columns {
			payload[col] = values[i]
		}
		if err := writeRecord(w, record{Type: tbl.name, Payload: payload}); err != nil {
			return err
		}
		pending++
		if pending >= s.batchSize {
			reporter.Increment(tbl.name, pending)
			pending = 0
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scan table %s: %w", tbl.name, err)
	}
	if pending > 0 {
		reporter.Increment(tbl.name, pending)
	}
	return nil
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts import to the provided table names.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := selectTables(cfg.tables)
	if err != nil {
		return err
	}
	tableFilter := make(map[string]table, len(tables))
	for _, tbl := range tables {
		tableFilter[tbl.name] = tbl
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback(ctx)
		}
	}()

	br := bufio.NewReader(r)
	metaSeen := false
	var meta rawRecord

	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}

			switch rec.Type {
			case "meta":
				metaSeen = true
				meta = rec
			default:
				tbl, ok := tableFilter[rec.Type]
				if !ok {
					// Skip records for tables not requested.
					break
				}
				if len(rec.Payload) == 0 {
					return fmt.Errorf("backup: missing payload for table %s", rec.Type)
				}
				if err := importRow(ctx, tx, tbl, rec.Payload); err != nil {
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if meta.Version != formatVersion {
		return fmt.Errorf("backup: unsupported format version %d", meta.Version)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true

	return s.syncSequences(ctx, tables)
}

func importRow(ctx context.Context, tx pgx.Tx, tbl table, payload json.RawMessage) error {
	var row map[string]json.RawMessage
	if err := json.Unmarshal(payload, &row); err != nil {
		return fmt.Errorf("decode row for %s: %w", tbl.name, err)
	}

	columns := make([]string, 0, len(tbl.columns))
	placeholders := make([]string, 0, len(tbl.columns))
	args := make([]any, 0, len(tbl.columns))
	for _, col := range tbl.columns {
		raw, ok := row[col]
		if !ok {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decode column %s.%s: %w", tbl.name, col, err)
		}
		columns = append(columns, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, value)
	}
	if len(columns) == 0 {
		return fmt.Errorf("backup: empty row for table %s", tbl.name)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		tbl.name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", tbl.name, err)
	}
	return nil
}

func (s *Service) syncSequences(ctx context.Context, tables []table) error {
	for _, tbl := range tables {
		if tbl.sequence == "" {
			continue
		}
		query := fmt.Sprintf("SELECT setval('%s', GREATEST((SELECT COALESCE(MAX(id), 0) FROM %s), 1))", tbl.sequence, tbl.name)
		if _, err := s.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("sync sequence %s: %w", tbl.sequence, err)
		}
	}
	return nil
}

func (s *Service) countRows(ctx context.Context, tbl table) (int, error) {
	query := "SELECT COUNT(*) FROM " + tbl.name
	args := []any{}
	if s.userID > 0 && hasColumn(tbl, "user_id") {
		query += " WHERE user_id = $1"
		args = append(args, s.userID)
	}
	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func selectTables(requested []string) ([]table, error) {
	if len(requested) == 0 {
		return exportTables, nil
	}
	index := make(map[string]table, len(exportTables))
	for _, tbl := range exportTables {
		index[tbl.name] = tbl
	}
	selected := make([]table, 0, len(requested))
	for _, name := range requested {
		tbl, ok := index[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("backup: unknown table %q", name)
		}
		selected = append(selected, tbl)
	}
	if len(selected) == 0 {
		return nil, errNoTablesSelected
	}
	return selected, nil
}

func writeRecord(w io.Writer, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := w.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func hasColumn(tbl table, name string) bool {
	for _, col := range tbl.columns {
		if col == name {
			return true
		}
	}
	return false
}

func tableNames(tables []table) []string {
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.name)
	}
	return names
}
