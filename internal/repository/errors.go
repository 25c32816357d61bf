package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record conflicts with an existing one")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInvalidValue     = errors.New("value violates a column constraint")
	ErrInvalidFilter    = errors.New("invalid list filter")
)

// PostgreSQL SQLSTATE codes translated into repository errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// mapError translates driver errors into repository sentinels. Anything
// unrecognised is wrapped with the failed action.
func mapError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
		case codeCheckViolation, codeInvalidText:
			return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.Message)
		}
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
