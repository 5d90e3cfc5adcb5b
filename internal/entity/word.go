package entity

import (
	"strings"
	"time"
)

// Word is one vocabulary item in a user's personal word list. Only IsLearned
// participates in the mastery aggregate; the rest is carried for the client.
type Word struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Topic       string    `json:"topic"`
	Text        string    `json:"word"`
	Translation string    `json:"translation,omitempty"`
	IsLearned   bool      `json:"isLearned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize ensures defaults & constraints before persistence.
func (w *Word) Normalize(now time.Time) {
	w.Text = strings.TrimSpace(w.Text)
	w.Topic = strings.TrimSpace(w.Topic)
	w.Translation = strings.TrimSpace(w.Translation)
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
}
