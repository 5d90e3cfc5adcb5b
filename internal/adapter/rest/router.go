package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the REST surface. All routes live under /api.
func NewRouter(progress *ProgressHandler, words *WordHandler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/exercise-results", progress.SubmitResults).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/streak", progress.GetStreak).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/progress", progress.GetProgress).Methods(http.MethodGet)

	api.HandleFunc("/words", words.AddWords).Methods(http.MethodPost)
	api.HandleFunc("/words", words.ListWords).Methods(http.MethodGet)
	api.HandleFunc("/words/{id}", words.UpdateWord).Methods(http.MethodPut)

	return r
}
