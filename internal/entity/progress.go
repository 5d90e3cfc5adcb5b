package entity

import "time"

// ProgressSummary holds the denormalized per-user aggregate fields derived
// from raw activity. Each field is recomputed from full current state whenever
// its inputs change, so the row self-heals from any prior inconsistency.
type ProgressSummary struct {
	UserID              int64     `json:"user_id"`
	Streak              int32     `json:"streak"`
	LearnedWordsPercent int32     `json:"learned_words_percent"`
	CompletedExercises  int32     `json:"completed_exercises"`
	CompletedPercent    float64   `json:"completed_exercises_percent"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CompletionResult is what the completion recalculation reports back to the
// submission caller.
type CompletionResult struct {
	CompletedCount int32   `json:"completedCount"`
	Percent        float64 `json:"percent"`
}
