package service

import "errors"

// Score submission errors. Their messages are returned to the caller as-is.
var (
	// ErrInvalidScore is returned when user_id or score is not an integer.
	ErrInvalidScore = errors.New("invalid user_id/score")
	// ErrMissingAddress is returned when neither an inline message id nor a
	// chat_id/message_id pair is present.
	ErrMissingAddress = errors.New("missing message identifiers")
)
