package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrValidation is returned for blank or otherwise invalid input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a referenced task or timespan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity is returned when the database rejects a write that passed
	// validation. It signals a bug or a corrupted database.
	ErrIntegrity = errors.New("integrity violation")
)

func taskNotFound(id uint) error {
	return fmt.Errorf("task #%d %w", id, ErrNotFound)
}

func timespanNotFound(id uint) error {
	return fmt.Errorf("timespan #%d %w", id, ErrNotFound)
}

// writeErr wraps a failed write as an integrity violation.
func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrIntegrity, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
