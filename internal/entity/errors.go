package entity

import "errors"

// Domain errors for progress aggregates and word lists.
var (
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrEmptySubmission     = errors.New("submission contains no exercises")
	ErrInvalidWordText     = errors.New("invalid word text")
	ErrLearnedFlagRequired = errors.New("isLearned flag required")
	ErrWordNotFound        = errors.New("word not found")
	ErrDuplicateWord       = errors.New("word already exists for this user and topic")
	ErrResultSetNotFound   = errors.New("result set not found")
	ErrStreakNotFound      = errors.New("streak not found")
	ErrProfileNotFound     = errors.New("profile not found")
)
