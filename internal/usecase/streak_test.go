package usecase

import (
	"testing"

	"github.com/eslsoft/linguatrack/internal/entity"
)

func entriesOn(dates ...string) []entity.ExerciseEntry {
	entry := entity.ExerciseEntry{ExerciseID: 1}
	for i, d := range dates {
		entry.Results = append(entry.Results, entity.QuestionResult{
			Date:       entity.MustDate(d),
			ExerciseID: 1,
			QuestionID: int64(i + 1),
			Completed:  true,
		})
	}
	return []entity.ExerciseEntry{entry}
}

func TestCalcStreakBoundaries(t *testing.T) {
	today := entity.MustDate("2025-09-15")

	tests := []struct {
		name    string
		entries []entity.ExerciseEntry
		want    int32
	}{
		{"no stored dates", nil, 0},
		{"activity only today", entriesOn("2025-09-15"), 1},
		{"activity only yesterday", entriesOn("2025-09-14"), 1},
		{"activity two days ago", entriesOn("2025-09-13"), 0},
		{"future date breaks immediately", entriesOn("2025-09-16"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcStreak(tt.entries, today); got != tt.want {
				t.Errorf("CalcStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalcStreakConsecutiveDays(t *testing.T) {
	entries := entriesOn("2025-09-11", "2025-09-12", "2025-09-13", "2025-09-14", "2025-09-15")

	if got := CalcStreak(entries, entity.MustDate("2025-09-15")); got != 5 {
		t.Errorf("streak over five consecutive days = %d, want 5", got)
	}
	// The same history evaluated after a multi-day gap yields nothing.
	if got := CalcStreak(entries, entity.MustDate("2025-09-20")); got != 0 {
		t.Errorf("streak after gap = %d, want 0", got)
	}
}

func TestCalcStreakSingleGapBreaksChain(t *testing.T) {
	entries := entriesOn("2025-09-10", "2025-09-13", "2025-09-14", "2025-09-15")

	if got := CalcStreak(entries, entity.MustDate("2025-09-15")); got != 3 {
		t.Errorf("streak = %d, want 3 (chain must stop at the 09-13 -> 09-10 gap)", got)
	}
}

func TestCalcStreakIgnoresDuplicateDates(t *testing.T) {
	entries := []entity.ExerciseEntry{
		{ExerciseID: 1, Results: []entity.QuestionResult{
			{Date: entity.MustDate("2025-09-14"), QuestionID: 1},
			{Date: entity.MustDate("2025-09-14"), QuestionID: 2},
			{Date: entity.MustDate("2025-09-15"), QuestionID: 3},
		}},
		{ExerciseID: 2, Results: []entity.QuestionResult{
			{Date: entity.MustDate("2025-09-15"), QuestionID: 9},
		}},
	}
	if got := CalcStreak(entries, entity.MustDate("2025-09-15")); got != 2 {
		t.Errorf("streak = %d, want 2 (duplicate dates collapse)", got)
	}
}

func TestLastActivity(t *testing.T) {
	if _, ok := LastActivity(nil); ok {
		t.Error("LastActivity on empty history should report no date")
	}
	entries := entriesOn("2025-09-11", "2025-09-15", "2025-09-13")
	last, ok := LastActivity(entries)
	if !ok || last.String() != "2025-09-15" {
		t.Errorf("LastActivity = %v (%t), want 2025-09-15", last, ok)
	}
}
