package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/linguatrack/internal/entity"
	"github.com/eslsoft/linguatrack/internal/repository"
)

// SubmitOutcome is returned to the submission caller after the merge commits
// and the derived aggregates are recomputed from the just-committed state.
type SubmitOutcome struct {
	Streak         int32   `json:"streak"`
	CompletedCount int32   `json:"completedCount"`
	Percent        float64 `json:"percent"`
}

// ProgressUsecase encapsulates the merge/dedup and aggregate recomputation
// logic for incremental exercise-result submissions.
type ProgressUsecase interface {
	SubmitResults(ctx context.Context, userID int64, exercises []entity.ExerciseEntry, resultUUID string) (*SubmitOutcome, error)
	GetStreak(ctx context.Context, userID int64) (*entity.StreakRecord, error)
	GetProgress(ctx context.Context, userID int64) (*entity.ProgressSummary, error)
}

// NewProgressUsecase wires the repositories with default behaviour.
func NewProgressUsecase(
	results repository.ResultRepository,
	streaks repository.StreakRepository,
	catalog repository.CatalogRepository,
	profiles repository.ProfileRepository,
) ProgressUsecase {
	return &progressUsecase{
		results:  results,
		streaks:  streaks,
		catalog:  catalog,
		profiles: profiles,
		clock:    time.Now,
		newUUID:  uuid.NewString,
		locks:    make(map[int64]*sync.Mutex),
	}
}

type progressUsecase struct {
	results  repository.ResultRepository
	streaks  repository.StreakRepository
	catalog  repository.CatalogRepository
	profiles repository.ProfileRepository
	clock    func() time.Time
	newUUID  func() string

	// mu guards locks; each entry serializes read-modify-write cycles for one
	// user so concurrent submissions cannot drop each other's merge.
	// Submissions for different users proceed fully in parallel.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (u *progressUsecase) userLock(userID int64) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	lock, ok := u.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		u.locks[userID] = lock
	}
	return lock
}

// SubmitResults merges a submitted batch into the user's stored result set,
// persists the merged set, then recomputes the streak and completion percent
// from what was just committed. Any storage failure aborts the whole
// operation; nothing is partially persisted past the failing call.
func (u *progressUsecase) SubmitResults(ctx context.Context, userID int64, exercises []entity.ExerciseEntry, resultUUID string) (*SubmitOutcome, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	if len(exercises) == 0 {
		return nil, entity.ErrEmptySubmission
	}

	lock := u.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := u.clock()
	today := entity.DateOf(now)

	var set *entity.ResultSet
	err := retryStorage(ctx, func() error {
		var getErr error
		set, getErr = u.results.Get(ctx, userID)
		return getErr
	})
	switch {
	case errors.Is(err, entity.ErrResultSetNotFound):
		set = &entity.ResultSet{UserID: userID}
	case err != nil:
		return nil, fmt.Errorf("load result set: %w", err)
	}

	if resultUUID != "" {
		set.ResultUUID = resultUUID
	}
	if set.ResultUUID == "" {
		set.ResultUUID = u.newUUID()
	}

	set.Merge(exercises, today)
	set.UpdatedAt = now

	if err := retryStorage(ctx, func() error { return u.results.Put(ctx, set) }); err != nil {
		return nil, fmt.Errorf("persist result set: %w", err)
	}

	streak, err := u.recalcStreak(ctx, set, today, now)
	if err != nil {
		return nil, err
	}

	completion, err := u.recalcCompletion(ctx, set)
	if err != nil {
		return nil, err
	}

	return &SubmitOutcome{
		Streak:         streak,
		CompletedCount: completion.CompletedCount,
		Percent:        completion.Percent,
	}, nil
}

func (u *progressUsecase) GetStreak(ctx context.Context, userID int64) (*entity.StreakRecord, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	var record *entity.StreakRecord
	err := retryStorage(ctx, func() error {
		var getErr error
		record, getErr = u.streaks.Get(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (u *progressUsecase) GetProgress(ctx context.Context, userID int64) (*entity.ProgressSummary, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	var summary *entity.ProgressSummary
	err := retryStorage(ctx, func() error {
		var getErr error
		summary, getErr = u.profiles.Get(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, err
	}

	var record *entity.StreakRecord
	err = retryStorage(ctx, func() error {
		var getErr error
		record, getErr = u.streaks.Get(ctx, userID)
		return getErr
	})
	switch {
	case errors.Is(err, entity.ErrStreakNotFound):
		// No submissions yet: the summary simply reports a zero streak.
	case err != nil:
		return nil, err
	default:
		summary.Streak = record.Streak
	}
	return summary, nil
}

// recalcStreak recomputes the streak wholesale from the merged set and stores
// the derived record.
func (u *progressUsecase) recalcStreak(ctx context.Context, set *entity.ResultSet, today entity.Date, now time.Time) (int32, error) {
	record := &entity.StreakRecord{
		UserID:    set.UserID,
		Streak:    CalcStreak(set.Exercises, today),
		UpdatedAt: now,
	}
	if last, ok := LastActivity(set.Exercises); ok {
		record.LastActivity = &last
	}
	if err := retryStorage(ctx, func() error { return u.streaks.Put(ctx, record) }); err != nil {
		return 0, fmt.Errorf("persist streak: %w", err)
	}
	return record.Streak, nil
}

// recalcCompletion re-derives exercise completion from scratch against the
// current catalog. An exercise counts as completed iff the catalog knows at
// least one question for it and the user's deduplicated answer count reaches
// the catalog's question count. Answered counts above the catalog count still
// count as completed: the catalog may have shrunk after partial completion.
func (u *progressUsecase) recalcCompletion(ctx context.Context, set *entity.ResultSet) (entity.CompletionResult, error) {
	var result entity.CompletionResult

	completed := 0
	for i := range set.Exercises {
		exerciseEntry := &set.Exercises[i]
		var questionCount int
		err := retryStorage(ctx, func() error {
			var countErr error
			questionCount, countErr = u.catalog.QuestionCount(ctx, exerciseEntry.ExerciseID)
			return countErr
		})
		if err != nil {
			return result, fmt.Errorf("count questions for exercise %d: %w", exerciseEntry.ExerciseID, err)
		}
		if questionCount > 0 && len(exerciseEntry.Results) >= questionCount {
			completed++
		}
	}

	var totalExercises int
	err := retryStorage(ctx, func() error {
		var countErr error
		totalExercises, countErr = u.catalog.ExerciseCount(ctx)
		return countErr
	})
	if err != nil {
		return result, fmt.Errorf("count catalog exercises: %w", err)
	}

	result.CompletedCount = int32(completed)
	result.Percent = completionPercent(completed, totalExercises)

	if err := retryStorage(ctx, func() error { return u.profiles.SaveCompletion(ctx, set.UserID, result) }); err != nil {
		return result, fmt.Errorf("persist completion: %w", err)
	}
	return result, nil
}
