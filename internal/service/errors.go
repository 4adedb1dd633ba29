// Package service holds the application logic behind the HTTP handlers.
package service

import (
	"errors"

	"fairway/backend/internal/repository"
)

var (
	ErrNotFound        = repository.ErrNotFound
	ErrForbidden       = errors.New("not allowed")
	ErrFollowSelf      = errors.New("cannot follow self")
	ErrInvalidReaction = errors.New("unknown reaction type")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrCommentTooLong  = errors.New("comment is too long")
	ErrMissingScore    = errors.New("a score is required")
	ErrInvalidRound    = errors.New("invalid round")
	ErrInvalidCourse   = errors.New("invalid course")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidList     = errors.New("invalid list request")
	ErrInvalidProfile  = errors.New("invalid profile")
)
