package auth_test

import (
	"net/http"
	"testing"

	"dancestudio/internal/domain"
	"dancestudio/internal/modules/auth"
	"dancestudio/internal/testutil/apptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	app := apptest.New(t)

	w, env := app.Do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "New@Test.com",
		"password": "Password123!",
		"name":     "New Dancer",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	reg := apptest.Decode[auth.TokenResponse](t, env)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "new@test.com", reg.User.Email)
	assert.Equal(t, domain.UserActive, reg.User.Status)
	assert.Equal(t, []string{domain.RoleStudent}, reg.User.Roles)

	w, env = app.Do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "new@test.com",
		"password": "Password123!",
		"name":     "Again",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", env.Message)

	w, env = app.Do(http.MethodPost, "/api/auth/login", map[string]string{"email": "new@test.com", "password": "Password123!"}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	login := apptest.Decode[auth.TokenResponse](t, env)
	assert.NotEmpty(t, login.Token)
	assert.Positive(t, login.ExpiresIn)

	w, env = app.Do(http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	me := apptest.Decode[domain.User](t, env)
	assert.Equal(t, reg.User.ID, me.ID)
	assert.Equal(t, []string{domain.RoleStudent}, me.Roles)
}

func TestRegister_Validation(t *testing.T) {
	app := apptest.New(t)

	w, env := app.Do(http.MethodPost, "/api/auth/register", map[string]string{"email": "x@test.com", "password": "short", "name": "X"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password is invalid (min)", env.Message)
}

func TestLogin_Failures(t *testing.T) {
	app := apptest.New(t)
	u, _ := app.User("dancer@test.com", domain.RoleStudent)

	w, env := app.Do(http.MethodPost, "/api/auth/login", map[string]string{"email": "dancer@test.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Message)

	w, env = app.Do(http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@test.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Message)

	_, err := app.Repos.Users.Update(t.Context(), u.ID, map[string]any{"status": domain.UserBanned})
	require.NoError(t, err)

	w, env = app.Do(http.MethodPost, "/api/auth/login", map[string]string{"email": "dancer@test.com", "password": apptest.Password}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Account is banned", env.Message)
}

func TestMe_DeletedAccount(t *testing.T) {
	app := apptest.New(t)
	u, token := app.User("gone@test.com")

	_, err := app.Coord.DeleteUser(t.Context(), u.ID)
	require.NoError(t, err)

	w, env := app.Do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Account no longer exists", env.Message)
}
