package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/domain"
)

func TestMapNotFound(t *testing.T) {
	err := MapNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows), "get report", "report r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "report r1: "+domain.ErrNotFound.Error())

	err = MapNotFound(errors.New("conn reset"), "get report", "report r1")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "get report: conn reset")
}

func TestMapDuplicate(t *testing.T) {
	err := MapDuplicate(&pgconn.PgError{Code: "23505"}, "create upload", "upload", "up-1")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "upload", conflict.ResourceType)
	assert.Equal(t, "up-1", conflict.ResourceID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = MapDuplicate(&pgconn.PgError{Code: "23503"}, "create upload", "upload", "up-1")
	assert.False(t, errors.As(err, &conflict))
}
