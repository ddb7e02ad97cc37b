package services

import (
	"errors"
	"fmt"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/repositories"
)

// TeamError is a user-facing failure. Message is shown verbatim to the caller.
type TeamError struct {
	Code    string
	Message string
	Err     error
}

func (e *TeamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TeamError) Unwrap() error { return e.Err }

func teamErr(code, message string) *TeamError {
	return &TeamError{Code: code, Message: message}
}

// AsTeamError returns the TeamError in err's chain, if any.
func AsTeamError(err error) (*TeamError, bool) {
	var te *TeamError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// fromStore maps repository sentinels onto user-facing errors.
// alreadyInTeam is the message for ErrAlreadyInTeam, which reads differently per command.
func fromStore(err error, alreadyInTeam string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return &TeamError{Code: constants.ErrCodeNotRegistered, Message: constants.MsgNotRegistered, Err: err}
	case errors.Is(err, repositories.ErrTeamNotFound):
		return &TeamError{Code: constants.ErrCodeTeamNotFound, Message: constants.MsgTeamNotFound, Err: err}
	case errors.Is(err, repositories.ErrInviteNotFound):
		return &TeamError{Code: constants.ErrCodeInviteNotFound, Message: constants.MsgInviteNotFound, Err: err}
	case errors.Is(err, repositories.ErrInviteExpired):
		return &TeamError{Code: constants.ErrCodeInviteExpired, Message: constants.MsgInviteExpired, Err: err}
	case errors.Is(err, repositories.ErrInviteResolved):
		return &TeamError{Code: constants.ErrCodeAlreadyResolved, Message: constants.MsgAlreadyResolved, Err: err}
	case errors.Is(err, repositories.ErrAlreadyInTeam):
		return &TeamError{Code: constants.ErrCodeAlreadyInTeam, Message: alreadyInTeam, Err: err}
	case errors.Is(err, repositories.ErrTeamFull):
		return &TeamError{Code: constants.ErrCodeTeamFull, Message: constants.MsgTeamFull, Err: err}
	}
	return err
}
