package entity

import "time"

// QuestionResult is a single answered question. Immutable once recorded:
// identity within a user's record is (exercise_id, question_id), and a repeated
// submission for the same question never overwrites the stored answer.
type QuestionResult struct {
	Date             Date   `json:"date"`
	UserID           int64  `json:"user_id"`
	ExerciseID       int64  `json:"exercise_id"`
	QuestionID       int64  `json:"question_id"`
	Completed        bool   `json:"completed"`
	IsCorrect        bool   `json:"is_correct"`
	SelectedAnswer   string `json:"selected_answer"`
	SelectedAnswerID int64  `json:"selected_answer_id"`
}

// ExerciseEntry groups a user's answers for one exercise. The JSON key for the
// results keeps the legacy client wire name.
type ExerciseEntry struct {
	ExerciseID int64            `json:"exercise_id"`
	Results    []QuestionResult `json:"exerciseResults"`
}

// HasQuestion reports whether an answer for the question is already recorded.
func (e *ExerciseEntry) HasQuestion(questionID int64) bool {
	for i := range e.Results {
		if e.Results[i].QuestionID == questionID {
			return true
		}
	}
	return false
}

// ResultSet is the accumulated exercise history of one user. Created on the
// first submission, mutated by every later one, never deleted.
type ResultSet struct {
	UserID     int64           `json:"user_id"`
	ResultUUID string          `json:"result_uuid"`
	Exercises  []ExerciseEntry `json:"exercises"`
	UpdatedAt  time.Time       `json:"-"`
}

func (s *ResultSet) entry(exerciseID int64) *ExerciseEntry {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == exerciseID {
			return &s.Exercises[i]
		}
	}
	return nil
}

// Merge folds a submitted batch into the set. Every accepted result gets the
// server-assigned date; answers for already-recorded questions are discarded,
// including duplicates within the batch itself (first occurrence wins). The
// operation is idempotent: merging the same batch twice leaves the set as
// merging it once.
func (s *ResultSet) Merge(incoming []ExerciseEntry, today Date) {
	for _, in := range incoming {
		entry := s.entry(in.ExerciseID)
		if entry == nil {
			s.Exercises = append(s.Exercises, ExerciseEntry{ExerciseID: in.ExerciseID})
			entry = &s.Exercises[len(s.Exercises)-1]
		}
		for _, res := range in.Results {
			if entry.HasQuestion(res.QuestionID) {
				continue
			}
			res.Date = today
			res.UserID = s.UserID
			res.ExerciseID = in.ExerciseID
			entry.Results = append(entry.Results, res)
		}
	}
}
