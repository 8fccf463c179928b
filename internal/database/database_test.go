package database

import (
	"context"
	"testing"
	"time"

	"dancestudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_ActiveEmailIndex(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(context.Background(), db))

	now := time.Now().UTC()
	first := domain.User{Model: domain.Model{ID: "u1", CreatedAt: now}, Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, db.Create(&first).Error)

	dup := domain.User{Model: domain.Model{ID: "u2", CreatedAt: now}, Email: "a@example.com", Status: domain.UserActive}
	assert.Error(t, db.Create(&dup).Error)

	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", "u1").Update("deleted_at", now).Error)
	assert.NoError(t, db.Create(&dup).Error)
}
