package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/usecase"
)

// ProgressHandler serves the exercise-result submission endpoint and the
// derived aggregate reads.
type ProgressHandler struct {
	progress usecase.ProgressUsecase
}

func NewProgressHandler(progress usecase.ProgressUsecase) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type submitResultsRequest struct {
	UserID     int64                  `json:"user_id"`
	ResultUUID string                 `json:"result_uuid"`
	Exercises  []entity.ExerciseEntry `json:"exercises"`
}

// SubmitResults merges a batch of answered questions into the user's stored
// history and answers with the freshly recomputed aggregates.
func (h *ProgressHandler) SubmitResults(w http.ResponseWriter, r *http.Request) {
	var req submitResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	outcome, err := h.progress.SubmitResults(r.Context(), req.UserID, req.Exercises, req.ResultUUID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, outcome)
}

// GetStreak answers with the user's current consecutive-day streak.
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	record, err := h.progress.GetStreak(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// GetProgress answers with the user's denormalized profile aggregates.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	summary, err := h.progress.GetProgress(r.Context(), userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, entity.ErrInvalidUserID
	}
	return id, nil
}
