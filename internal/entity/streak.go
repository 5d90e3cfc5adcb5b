package entity

import "time"

// StreakRecord is the derived consecutive-day activity count for a user.
// It is recomputed wholesale from the full result history on every submission,
// never incrementally patched, so out-of-order submissions cannot corrupt it.
type StreakRecord struct {
	UserID       int64     `json:"user_id"`
	Streak       int32     `json:"streak"`
	LastActivity *Date     `json:"last_activity"`
	UpdatedAt    time.Time `json:"updated_at"`
}
