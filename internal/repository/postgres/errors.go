package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"reportdesk/internal/domain"
)

// uniqueViolation is the SQLSTATE of a duplicate primary key
const uniqueViolation = "23505"

// MapNotFound reports a missing row as domain.ErrNotFound on what; any
// other failure is wrapped with op
func MapNotFound(err error, op, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// MapDuplicate reports a duplicate key as a ConflictError on the resource
func MapDuplicate(err error, op, resourceType, id string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s %s already exists", resourceType, id),
			ResourceType: resourceType,
			ResourceID:   id,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
