package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
	"github.com/eslsoft/linguatrack/internal/usecase"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// WordHandler serves the user word-list endpoints.
type WordHandler struct {
	words usecase.WordUsecase
}

func NewWordHandler(words usecase.WordUsecase) *WordHandler {
	return &WordHandler{words: words}
}

type updateWordRequest struct {
	UserID    int64 `json:"user_id"`
	IsLearned *bool `json:"isLearned"`
}

type updateWordResponse struct {
	Word                *entity.Word `json:"word"`
	LearnedWordsPercent int32        `json:"learned_words_percent"`
}

// UpdateWord flips the learned flag on one word. The flag is required so a
// missing field is never silently treated as "unlearn".
func (h *WordHandler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	wordID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || wordID <= 0 {
		respondWithError(w, entity.ErrWordNotFound)
		return
	}

	var req updateWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}
	if req.IsLearned == nil {
		respondWithError(w, entity.ErrLearnedFlagRequired)
		return
	}

	word, percent, err := h.words.MarkWordLearned(r.Context(), req.UserID, wordID, *req.IsLearned)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updateWordResponse{Word: word, LearnedWordsPercent: percent})
}

type addWordsRequest struct {
	UserID int64         `json:"user_id"`
	Topic  string        `json:"topic"`
	Words  []entity.Word `json:"words"`
}

type addWordsResponse struct {
	Words               []entity.Word `json:"words"`
	LearnedWordsPercent int32         `json:"learned_words_percent"`
}

// AddWords stores a batch of new words for a user and topic.
func (h *WordHandler) AddWords(w http.ResponseWriter, r *http.Request) {
	var req addWordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	words, percent, err := h.words.AddWords(r.Context(), req.UserID, req.Topic, req.Words)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, addWordsResponse{Words: words, LearnedWordsPercent: percent})
}

type listWordsResponse struct {
	Words []entity.Word `json:"words"`
	Total int64         `json:"total"`
}

// ListWords lists a user's words with optional learned and keyword filters.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	userID, err := strconv.ParseInt(params.Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondWithError(w, entity.ErrInvalidUserID)
		return
	}

	query := &repository.ListWordQuery{
		Pagination: repository.Pagination{
			PageNo:   queryInt32(params.Get("page"), 1),
			PageSize: queryInt32(params.Get("page_size"), defaultPageSize),
		},
		UserID:  userID,
		Keyword: params.Get("keyword"),
	}
	if query.PageNo < 1 {
		query.PageNo = 1
	}
	if query.PageSize < 1 || query.PageSize > maxPageSize {
		query.PageSize = defaultPageSize
	}
	if raw := params.Get("learned"); raw != "" {
		learned, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithJSON(w, http.StatusBadRequest, errorBody{Message: "invalid learned filter"})
			return
		}
		query.Learned = &learned
	}

	words, total, err := h.words.ListWords(r.Context(), query)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listWordsResponse{Words: words, Total: total})
}

func queryInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}
