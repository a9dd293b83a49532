package store

import "errors"

// ErrEmptyContent reports a content update with empty or whitespace-only
// text. Raised before any lookup or write; the stored row stays untouched.
var ErrEmptyContent = errors.New("content cannot be empty")

// ErrInvalidDirection reports a move direction outside up/down.
var ErrInvalidDirection = errors.New("invalid move direction")

// ErrInvalidFilter reports a work/personal filter outside work|personal|both.
var ErrInvalidFilter = errors.New("invalid filter")
