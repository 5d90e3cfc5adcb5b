package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/eslsoft/linguatrack/internal/entity"
)

const (
	storageAttempts = 3
	storageBackoff  = 100 * time.Millisecond
)

// retryStorage runs a storage round trip up to storageAttempts times with a
// fixed pause between attempts. Only external store calls go through here;
// the calculators are pure and never retried. Domain not-found outcomes are
// terminal: retrying them would just repeat the same answer.
func retryStorage(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil || terminalError(err) || attempt == storageAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(storageBackoff):
		}
	}
}

func terminalError(err error) bool {
	switch {
	case errors.Is(err, entity.ErrResultSetNotFound),
		errors.Is(err, entity.ErrStreakNotFound),
		errors.Is(err, entity.ErrWordNotFound),
		errors.Is(err, entity.ErrProfileNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
