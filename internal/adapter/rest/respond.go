package rest

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/linguatrack/internal/adapter/mapping"
)

type errorBody struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("write response")
	}
}

func respondWithError(w http.ResponseWriter, err error) {
	status := mapping.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
	}
	respondWithJSON(w, status, errorBody{Message: err.Error()})
}
