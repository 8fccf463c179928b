package users_test

import (
	"net/http"
	"strings"
	"testing"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/testutil/apptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CreateNeverReturnsPassword(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)
	instructor := app.Role(domain.RoleInstructor)

	w, env := app.Do(http.MethodPost, "/api/users", map[string]any{
		"email":    "Coach@Test.com",
		"name":     "Coach",
		"password": "longenough",
		"roleIds":  []string{instructor.ID, instructor.ID},
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.NotContains(t, strings.ToLower(string(env.Data)), "password")

	u := apptest.Decode[domain.User](t, env)
	assert.Equal(t, "coach@test.com", u.Email)
	assert.Equal(t, domain.UserActive, u.Status)
	assert.Equal(t, []string{domain.RoleInstructor}, u.Roles)

	stored, err := app.Repos.Users.FindActive(t.Context(), u.ID)
	require.NoError(t, err)
	require.True(t, stored.HasPassword())
	assert.NotEqual(t, "longenough", *stored.PasswordHash)

	w, env = app.Do(http.MethodPost, "/api/users", map[string]any{"email": "coach@test.com"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", env.Message)
}

func TestUser_CreateWithUnknownRoleRollsBack(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)

	w, env := app.Do(http.MethodPost, "/api/users", map[string]any{
		"email":   "ghost@test.com",
		"roleIds": []string{"missing"},
	}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Role missing not found", env.Message)

	_, err := app.Repos.Users.FindByEmail(t.Context(), "ghost@test.com")
	assert.Error(t, err)
}

func TestUser_UpdateReplacesRoles(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)
	u, _ := app.User("dancer@test.com", domain.RoleStudent)
	instructor := app.Role(domain.RoleInstructor)

	w, env := app.Do(http.MethodPatch, "/api/users?id="+u.ID, map[string]any{
		"name":    "Dancer",
		"roleIds": []string{instructor.ID},
	}, admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	got := apptest.Decode[domain.User](t, env)
	assert.Equal(t, "Dancer", got.Name)
	assert.Equal(t, []string{domain.RoleInstructor}, got.Roles)

	w, env = app.Do(http.MethodPatch, "/api/users?id="+u.ID, map[string]any{"status": "banned"}, admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	got = apptest.Decode[domain.User](t, env)
	assert.Equal(t, domain.UserBanned, got.Status)
	assert.Equal(t, []string{domain.RoleInstructor}, got.Roles)

	w, env = app.Do(http.MethodPatch, "/api/users?id="+u.ID, map[string]any{"roleIds": []string{}}, admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	assert.Empty(t, apptest.Decode[domain.User](t, env).Roles)

	w, env = app.Do(http.MethodPatch, "/api/users?id="+u.ID, map[string]any{"status": "deleted"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status is invalid (oneof)", env.Message)
}

func TestUser_DeleteAndAudit(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)
	u, token := app.User("leaving@test.com", domain.RoleAdministrator)

	w, env := app.Do(http.MethodDelete, "/api/users?id="+u.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, _ = app.Do(http.MethodGet, "/api/users?id="+u.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = app.Do(http.MethodGet, "/api/users?id="+u.ID+"&includeDeleted=true", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := apptest.Decode[domain.User](t, env)
	assert.Equal(t, domain.UserDeleted, deleted.Status)
	assert.NotNil(t, deleted.DeletedAt)
	assert.Empty(t, deleted.Roles)

	// the token still parses but the identity holds no roles any more
	w, _ = app.Do(http.MethodGet, "/api/users", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.Do(http.MethodPost, "/api/users", map[string]any{"email": "leaving@test.com"}, admin)
	assert.Equal(t, http.StatusCreated, w.Code, env.Message)
}

func TestUser_ListFilters(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)
	_, _ = app.User("salsa@test.com", domain.RoleStudent)
	_, _ = app.User("tango@test.com", domain.RoleStudent)

	w, env := app.Do(http.MethodGet, "/api/users?q=SALSA", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	page := apptest.Decode[response.Page[domain.User]](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, []string{domain.RoleStudent}, page.Items[0].Roles)

	w, env = app.Do(http.MethodGet, "/api/users?limit=2&page=2", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	page = apptest.Decode[response.Page[domain.User]](t, env)
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 3, page.Pagination.Total)
}
