package service

import (
	"errors"
	"fmt"

	"catalog-inventory/internal/repository"
)

var (
	ErrImmutable          = errors.New("record cannot be modified")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)

// InputError reports a field that breaks a domain rule
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidInput(field, message string) error {
	return &InputError{Field: field, Message: message}
}

// parentMissing turns a failed lookup of a referenced row into ErrInvalidReference.
func parentMissing(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", repository.ErrInvalidReference, what)
	}
	return err
}
