package usecase

import (
	"testing"

	"github.com/eslsoft/linguatrack/internal/entity"
)

func wordSet(learned, unlearned int) []entity.Word {
	words := make([]entity.Word, 0, learned+unlearned)
	for i := 0; i < learned; i++ {
		words = append(words, entity.Word{ID: int64(i + 1), IsLearned: true})
	}
	for i := 0; i < unlearned; i++ {
		words = append(words, entity.Word{ID: int64(learned + i + 1)})
	}
	return words
}

func TestMasteryPercent(t *testing.T) {
	tests := []struct {
		name      string
		learned   int
		unlearned int
		want      int32
	}{
		{"no words", 0, 0, 0},
		{"none learned", 0, 4, 0},
		{"one of three rounds to 33", 1, 2, 33},
		{"two of three rounds to 67", 2, 1, 67},
		{"half rounds up", 1, 1, 50},
		{"all learned", 3, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := wordSet(tt.learned, tt.unlearned)
			got := MasteryPercent(words)
			if got != tt.want {
				t.Errorf("MasteryPercent = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("MasteryPercent = %d, outside [0,100]", got)
			}
		})
	}
}

func TestMasteryPercentOrderInsensitive(t *testing.T) {
	forward := []entity.Word{{ID: 1, IsLearned: true}, {ID: 2}, {ID: 3}}
	backward := []entity.Word{{ID: 3}, {ID: 2}, {ID: 1, IsLearned: true}}
	if MasteryPercent(forward) != MasteryPercent(backward) {
		t.Error("MasteryPercent must not depend on word ordering")
	}
}

func TestCompletionPercent(t *testing.T) {
	if got := completionPercent(1, 10); got != 10 {
		t.Errorf("completionPercent(1, 10) = %v, want 10", got)
	}
	if got := completionPercent(0, 10); got != 0 {
		t.Errorf("completionPercent(0, 10) = %v, want 0", got)
	}
	if got := completionPercent(3, 0); got != 0 {
		t.Errorf("completionPercent with empty catalog = %v, want 0", got)
	}
}
