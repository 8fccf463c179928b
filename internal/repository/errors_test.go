package repository

import (
	"errors"
	"fmt"
	"testing"

	"dancestudio/internal/pkg/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: roles.name (2067)")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "room", ""), apperr.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey, "role", "role already exists"), apperr.ErrConflict)

	boom := errors.New("boom")
	assert.Equal(t, boom, translate(boom, "room", ""))
	assert.NoError(t, translate(nil, "room", ""))
}
