package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoData             = errors.New("no data")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrCooldown           = errors.New("refresh cooling down")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CooldownError carries how long the caller still has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%v: retry in %s", ErrCooldown, e.Remaining.Round(time.Millisecond))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}
