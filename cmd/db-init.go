/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/eslsoft/linguatrack/internal/infrastructure/config"
	"github.com/eslsoft/linguatrack/internal/infrastructure/database"
)

// dbInitCmd applies schema migrations, then optionally imports the exercise
// catalog from a sqlite snapshot
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize database schema and import the exercise catalog",
	Long:  "Apply schema migrations and import exercises/questions from a sqlite snapshot. Note: go-sqlite3 requires CGO_ENABLED=1. Use --schema-only to migrate without importing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, _ := cmd.Flags().GetString("snapshot")
		batch, _ := cmd.Flags().GetInt("batch")
		schemaOnly, _ := cmd.Flags().GetBool("schema-only")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := database.Migrate(cfg); err != nil {
			return err
		}
		log.Println("migrations applied")

		if schemaOnly {
			return nil
		}
		if snapshot == "" {
			return fmt.Errorf("--snapshot is required unless --schema-only is set")
		}
		return importCatalog(cmd.Context(), cfg, snapshot, batch)
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().String("snapshot", "", "path or URL of the sqlite catalog snapshot")
	dbInitCmd.Flags().Int("batch", 1000, "batch size for inserts")
	dbInitCmd.Flags().Bool("schema-only", false, "run migrations only, skip catalog import")
}

type exerciseRow struct {
	ID    int64
	Title sql.NullString
}

type questionRow struct {
	ID         int64
	ExerciseID int64
	Body       sql.NullString
}

func importCatalog(ctx context.Context, cfg *config.Config, snapshot string, batchSize int) error {
	start := time.Now()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("importing catalog from %s", snapshot)

	sqlitePath, cleanup, err := resolveSnapshot(ctx, snapshot)
	if err != nil {
		return err
	}
	defer cleanup()

	sqldb, err := sql.Open("sqlite3", sqlitePath)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer pool.Close()

	exercises, err := readExercises(ctx, sqldb)
	if err != nil {
		return err
	}
	questions, err := readQuestions(ctx, sqldb)
	if err != nil {
		return err
	}

	if err := insertExercises(ctx, pool, exercises, batchSize); err != nil {
		return err
	}
	if err := insertQuestions(ctx, pool, questions, batchSize); err != nil {
		return err
	}

	log.Printf("imported %d exercises, %d questions in %s", len(exercises), len(questions), time.Since(start))
	return nil
}

func readExercises(ctx context.Context, db *sql.DB) ([]exerciseRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, title FROM exercises`)
	if err != nil {
		return nil, fmt.Errorf("read exercises: %w", err)
	}
	defer rows.Close()

	var out []exerciseRow
	for rows.Next() {
		var r exerciseRow
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readQuestions(ctx context.Context, db *sql.DB) ([]questionRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, exercise_id, body FROM questions`)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	defer rows.Close()

	var out []questionRow
	for rows.Next() {
		var r questionRow
		if err := rows.Scan(&r.ID, &r.ExerciseID, &r.Body); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func insertExercises(ctx context.Context, pool *pgxpool.Pool, rows []exerciseRow, batchSize int) error {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		b := &pgx.Batch{}
		for _, r := range rows[start:end] {
			b.Queue(`INSERT INTO exercises (id, title) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
				r.ID, strings.TrimSpace(r.Title.String))
		}
		if err := sendBatch(ctx, pool, b); err != nil {
			return fmt.Errorf("insert exercises: %w", err)
		}
		log.Printf("exercises imported: %d", end)
	}
	return nil
}

func insertQuestions(ctx context.Context, pool *pgxpool.Pool, rows []questionRow, batchSize int) error {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		b := &pgx.Batch{}
		for _, r := range rows[start:end] {
			b.Queue(`INSERT INTO questions (id, exercise_id, body) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET exercise_id = EXCLUDED.exercise_id, body = EXCLUDED.body`,
				r.ID, r.ExerciseID, strings.TrimSpace(r.Body.String))
		}
		if err := sendBatch(ctx, pool, b); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		log.Printf("questions imported: %d", end)
	}
	return nil
}

func sendBatch(ctx context.Context, pool *pgxpool.Pool, b *pgx.Batch) error {
	br := pool.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

// resolveSnapshot returns a local sqlite path for the snapshot, downloading
// it to a temp file when given a URL.
func resolveSnapshot(ctx context.Context, snapshot string) (string, func(), error) {
	if !strings.HasPrefix(snapshot, "http://") && !strings.HasPrefix(snapshot, "https://") {
		return filepath.Clean(snapshot), func() {}, nil
	}

	tmp, err := os.CreateTemp("", "catalog-*.db")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshot, nil)
	if err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("download snapshot: %s", resp.Status)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}
