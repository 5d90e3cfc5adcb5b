package usecase

import (
	"sort"

	"github.com/samber/lo"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// CalcStreak derives the consecutive-day activity count from the full result
// history. Exercise identity is irrelevant here; only the set of distinct
// dates matters. Walking back from today, a stored date counts while its gap
// to the cursor is 0 or 1 calendar day; the first larger gap ends the streak.
// There is no freeze or partial credit: one missed day resets to zero.
func CalcStreak(exercises []entity.ExerciseEntry, today entity.Date) int32 {
	dates := activityDates(exercises)

	var streak int32
	cursor := today
	for i := len(dates) - 1; i >= 0; i-- {
		diff := cursor.DaysSince(dates[i])
		if diff != 0 && diff != 1 {
			break
		}
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}

// LastActivity returns the most recent result date, if any.
func LastActivity(exercises []entity.ExerciseEntry) (entity.Date, bool) {
	dates := activityDates(exercises)
	if len(dates) == 0 {
		return entity.Date{}, false
	}
	return dates[len(dates)-1], true
}

// activityDates collects the distinct result dates in ascending order.
func activityDates(exercises []entity.ExerciseEntry) []entity.Date {
	var dates []entity.Date
	for _, ex := range exercises {
		for _, res := range ex.Results {
			if res.Date.IsZero() {
				continue
			}
			dates = append(dates, res.Date)
		}
	}
	dates = lo.UniqBy(dates, entity.Date.String)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
