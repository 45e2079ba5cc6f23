package service

import (
	"errors"
	"fmt"

	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/validator"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateLogin     = errors.New("login already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrNotFound           = errors.New("task not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("task belongs to another user")
)

// validate checks req against its struct tags and wraps any failure in ErrValidation.
func validate(req any) error {
	if err := validator.GetValidator().Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, validator.Describe(err))
	}
	return nil
}

// rejectedByStore maps a value the schema refused to ErrValidation.
func rejectedByStore(err error, field string) error {
	if errors.Is(err, repository.ErrCheckViolation) {
		return fmt.Errorf("%w: %s is invalid", ErrValidation, field)
	}
	return err
}
