package server

import (
	"errors"
	"fmt"
)

// The error values below form the closed set of policy errors surfaced to
// clients. Their Error strings are the exact lines written back to the
// offending connection; none of them are fatal to the session except
// ErrRoomFull, after which the session closes.
var (
	ErrNicknameEmpty        = errors.New("Nickname cannot be empty. Please try again.")
	ErrNicknameReserved     = errors.New("Nickname 'System' is reserved. Please choose another nickname.")
	ErrNicknameInvalidChars = errors.New("Nickname can only contain letters, numbers, underscores, and hyphens.")
	ErrRateLimited          = errors.New("You are sending messages too quickly. Please slow down.")
	ErrRoomFull             = errors.New("The chat room is currently full. Please try again later.")
)

// NicknameTooShortError reports a nickname below the configured minimum.
type NicknameTooShortError struct {
	Min int
}

func (e *NicknameTooShortError) Error() string {
	return fmt.Sprintf("Nickname must be at least %d characters.", e.Min)
}

// NicknameTooLongError reports a nickname above the configured maximum.
type NicknameTooLongError struct {
	Max int
}

func (e *NicknameTooLongError) Error() string {
	return fmt.Sprintf("Nickname must be at most %d characters.", e.Max)
}

// NicknameTakenError reports a nickname that lost the reservation race.
type NicknameTakenError struct {
	Nickname string
}

func (e *NicknameTakenError) Error() string {
	return fmt.Sprintf("Nickname '%s' is already taken. Please choose another.", e.Nickname)
}

// MessageTooLongError reports a line exceeding the configured message length.
type MessageTooLongError struct {
	Max int
}

func (e *MessageTooLongError) Error() string {
	return fmt.Sprintf("Message is too long (max %d characters).", e.Max)
}
