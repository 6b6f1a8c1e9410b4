package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/online_store/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")

	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrSearchUnavailable = errors.New("search unavailable")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func validationErr(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// logAttrs adds the SQLSTATE of a driver error when there is one.
func logAttrs(err error) []any {
	attrs := []any{"error", err}
	if code := repo.SQLState(err); code != "" {
		attrs = append(attrs, "sqlstate", code)
	}
	return attrs
}
