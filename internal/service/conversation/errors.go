package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrNotStarted   = errors.New("conversation has not been started")
	ErrEmptyMessage = errors.New("message is required")
	ErrEmptyReply   = errors.New("model returned an empty reply")
)

// OpeningError reports a failed opening-message request. The session is
// left started with an empty transcript.
type OpeningError struct {
	Err error
}

func (e *OpeningError) Error() string {
	return fmt.Sprintf("failed to generate the opening message: %v", e.Err)
}

func (e *OpeningError) Unwrap() error { return e.Err }

// TurnError reports a failed reply request. The user's message stays in the
// transcript and no assistant message is recorded for the turn.
type TurnError struct {
	Err error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("error while fetching the response: %v", e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// IsRemoteFailure reports whether err came from the completion model.
func IsRemoteFailure(err error) bool {
	var opening *OpeningError
	var turn *TurnError
	return errors.As(err, &opening) || errors.As(err, &turn)
}
