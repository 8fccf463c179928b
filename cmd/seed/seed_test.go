package main

import (
	"context"
	"testing"

	"dancestudio/internal/domain"
	"dancestudio/internal/mutation"
	"dancestudio/internal/repository"
	"dancestudio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, nil)
	s := &seeder{repos: repos, coord: mutation.New(db, repos), log: zap.NewNop(), bcryptCost: bcrypt.MinCost}
	ctx := context.Background()

	require.NoError(t, s.run(ctx, "Admin@Example.com", "supersecret"))
	require.NoError(t, s.run(ctx, "admin@example.com", "supersecret"))

	var roles int64
	require.NoError(t, db.Model(&domain.Role{}).Where("is_system = ?", true).Count(&roles).Error)
	assert.EqualValues(t, len(domain.SystemRoles), roles)

	var perms int64
	require.NoError(t, db.Model(&domain.Permission{}).Count(&perms).Error)
	assert.EqualValues(t, len(categories)*len(actions), perms)

	var users int64
	require.NoError(t, db.Model(&domain.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	admin, err := repos.Users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	names, err := repos.Roles.RoleNamesForUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleAdministrator}, names)

	adminRole, err := repos.Roles.FindByName(ctx, domain.RoleAdministrator)
	require.NoError(t, err)
	linked, err := repos.Roles.PermissionsForRole(ctx, adminRole.ID)
	require.NoError(t, err)
	assert.Len(t, linked, len(categories)*len(actions))
}

func TestSeed_ShortAdminPassword(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, nil)
	s := &seeder{repos: repos, coord: mutation.New(db, repos), log: zap.NewNop(), bcryptCost: bcrypt.MinCost}

	assert.Error(t, s.run(context.Background(), "admin@example.com", "short"))
}
