package database

import "errors"

var (
	ErrEmptyCommentText = errors.New("comment text is required")
	ErrUsernameTaken    = errors.New("username already taken")
)
