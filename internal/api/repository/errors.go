package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a row addressed by primary key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when an insert collides with a UNIQUE constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrCheckViolation is returned when a value is rejected by a CHECK constraint.
	ErrCheckViolation = errors.New("check constraint violation")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}
