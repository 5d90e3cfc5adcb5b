package usecase

import (
	"math"

	"github.com/samber/lo"

	"github.com/eslsoft/linguatrack/internal/entity"
)

// MasteryPercent is the rounded share of a user's words marked learned,
// in [0,100]. Insensitive to word ordering and stable under repeated calls.
func MasteryPercent(words []entity.Word) int32 {
	if len(words) == 0 {
		return 0
	}
	learned := lo.CountBy(words, func(w entity.Word) bool { return w.IsLearned })
	return int32(math.Round(float64(learned) / float64(len(words)) * 100))
}

// completionPercent is the share of catalog exercises completed. An empty
// catalog yields 0 rather than a division by zero.
func completionPercent(completed, totalExercises int) float64 {
	if totalExercises <= 0 {
		return 0
	}
	return float64(completed) / float64(totalExercises) * 100
}
