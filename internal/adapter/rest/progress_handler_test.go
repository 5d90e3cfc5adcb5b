package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/usecase"
)

type fakeProgressUsecase struct {
	outcome *usecase.SubmitOutcome
	streak  *entity.StreakRecord
	summary *entity.ProgressSummary
	err     error

	gotUserID int64
	gotUUID   string
	gotBatch  []entity.ExerciseEntry
}

func (f *fakeProgressUsecase) SubmitResults(_ context.Context, userID int64, exercises []entity.ExerciseEntry, resultUUID string) (*usecase.SubmitOutcome, error) {
	f.gotUserID = userID
	f.gotUUID = resultUUID
	f.gotBatch = exercises
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeProgressUsecase) GetStreak(_ context.Context, userID int64) (*entity.StreakRecord, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.streak, nil
}

func (f *fakeProgressUsecase) GetProgress(_ context.Context, userID int64) (*entity.ProgressSummary, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func newProgressServer(uc usecase.ProgressUsecase) *httptest.Server {
	router := NewRouter(NewProgressHandler(uc), NewWordHandler(&fakeWordUsecase{}))
	return httptest.NewServer(router)
}

func TestSubmitResults(t *testing.T) {
	uc := &fakeProgressUsecase{outcome: &usecase.SubmitOutcome{Streak: 3, CompletedCount: 2, Percent: 40}}
	srv := newProgressServer(uc)
	defer srv.Close()

	body := `{
		"user_id": 7,
		"result_uuid": "11111111-2222-3333-4444-555555555555",
		"exercises": [{"exercise_id": 1, "exerciseResults": [{"question_id": 10, "is_correct": true}]}]
	}`
	resp, err := http.Post(srv.URL+"/api/exercise-results", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if uc.gotUserID != 7 || uc.gotUUID != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("usecase got userID=%d uuid=%q", uc.gotUserID, uc.gotUUID)
	}
	if len(uc.gotBatch) != 1 || uc.gotBatch[0].ExerciseID != 1 || len(uc.gotBatch[0].Results) != 1 {
		t.Fatalf("unexpected decoded batch: %+v", uc.gotBatch)
	}

	var out usecase.SubmitOutcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Streak != 3 || out.CompletedCount != 2 || out.Percent != 40 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestSubmitResultsBadJSON(t *testing.T) {
	srv := newProgressServer(&fakeProgressUsecase{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/exercise-results", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmitResultsValidationError(t *testing.T) {
	srv := newProgressServer(&fakeProgressUsecase{err: entity.ErrEmptySubmission})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/exercise-results", "application/json", strings.NewReader(`{"user_id": 7}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message == "" {
		t.Fatal("expected message in error envelope")
	}
}

func TestGetStreak(t *testing.T) {
	last := entity.MustDate("2025-09-15")
	uc := &fakeProgressUsecase{streak: &entity.StreakRecord{UserID: 7, Streak: 5, LastActivity: &last, UpdatedAt: time.Now()}}
	srv := newProgressServer(uc)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users/7/streak")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var record entity.StreakRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.Streak != 5 || record.LastActivity == nil || !record.LastActivity.Equal(last) {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestGetStreakInvalidID(t *testing.T) {
	srv := newProgressServer(&fakeProgressUsecase{})
	defer srv.Close()

	for _, path := range []string{"/api/users/abc/streak", "/api/users/0/streak", "/api/users/-3/streak"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestGetProgressNotFound(t *testing.T) {
	srv := newProgressServer(&fakeProgressUsecase{err: entity.ErrProfileNotFound})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users/7/progress")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetProgress(t *testing.T) {
	uc := &fakeProgressUsecase{summary: &entity.ProgressSummary{
		UserID:              7,
		Streak:              4,
		LearnedWordsPercent: 67,
		CompletedExercises:  3,
		CompletedPercent:    30,
	}}
	srv := newProgressServer(uc)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users/7/progress")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var summary entity.ProgressSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.LearnedWordsPercent != 67 || summary.CompletedExercises != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
