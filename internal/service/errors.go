package service

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidQuiz  = errors.New("invalid quiz")
	ErrRateLimited  = errors.New("rate limited")
)
