package studios_test

import (
	"net/http"
	"testing"

	"dancestudio/internal/domain"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/testutil/apptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studioBody(handle string) map[string]any {
	return map[string]any{
		"name":    "Test Studio",
		"handle":  handle,
		"address": "1 St",
		"city":    "X",
		"state":   "Y",
		"zipCode": "0000",
	}
}

func TestStudio_CreateThenSoftDelete(t *testing.T) {
	app := apptest.New(t)
	u1, token := app.User("owner@test.com", domain.RoleStudioAdmin)

	w, env := app.Do(http.MethodPost, "/api/studios", studioBody("test-studio"), token)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	studio := apptest.Decode[domain.Studio](t, env)
	assert.Equal(t, u1.ID, studio.OwnerID)
	assert.Equal(t, "test-studio", studio.Handle)
	assert.Equal(t, "test-studio", studio.Slug)
	assert.Nil(t, studio.UpdatedAt)

	w, env = app.Do(http.MethodGet, "/api/studios", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, apptest.Decode[response.Page[domain.Studio]](t, env).Items, 1)

	w, env = app.Do(http.MethodDelete, "/api/studios?id="+studio.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	assert.EqualValues(t, 1, apptest.Decode[mutation.Cascade](t, env).Studios)

	w, env = app.Do(http.MethodGet, "/api/studios", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, apptest.Decode[response.Page[domain.Studio]](t, env).Items)

	w, env = app.Do(http.MethodGet, "/api/studios?id="+studio.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Studio not found", env.Message)

	var row domain.Studio
	require.NoError(t, app.DB.Where("id = ?", studio.ID).First(&row).Error)
	assert.NotNil(t, row.DeletedAt)
}

func TestStudio_HandleScopedToActive(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)

	w, env := app.Do(http.MethodPost, "/api/studios", studioBody("Test-Studio"), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	first := apptest.Decode[domain.Studio](t, env)
	assert.Equal(t, "test-studio", first.Handle)

	w, env = app.Do(http.MethodPost, "/api/studios", studioBody("test-studio"), admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Studio handle already in use", env.Message)

	w, env = app.Do(http.MethodPost, "/api/studios", studioBody("second"), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "test-studio-2", apptest.Decode[domain.Studio](t, env).Slug)

	w, _ = app.Do(http.MethodDelete, "/api/studios?id="+first.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = app.Do(http.MethodPost, "/api/studios", studioBody("test-studio"), admin)
	assert.Equal(t, http.StatusCreated, w.Code, env.Message)

	w, env = app.Do(http.MethodPost, "/api/studios", studioBody("not a handle!"), admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "handle")
}

func TestStudio_OwnerOrAdministrator(t *testing.T) {
	app := apptest.New(t)
	adminUser, admin := app.User("admin@test.com", domain.RoleAdministrator)
	owner, ownerToken := app.User("owner@test.com")
	_, other := app.User("other@test.com", domain.RoleStudent)

	w, env := app.Do(http.MethodPost, "/api/studios", studioBody("owned"), ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	studio := apptest.Decode[domain.Studio](t, env)

	body := studioBody("stolen")
	body["ownerId"] = owner.ID
	w, _ = app.Do(http.MethodPost, "/api/studios", body, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.Do(http.MethodPatch, "/api/studios?id="+studio.ID, map[string]string{"city": "Almaty"}, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = app.Do(http.MethodDelete, "/api/studios?id="+studio.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.Do(http.MethodPatch, "/api/studios?id="+studio.ID, map[string]string{"city": "Almaty", "name": "Owned Studio"}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	updated := apptest.Decode[domain.Studio](t, env)
	assert.Equal(t, "Almaty", updated.City)
	assert.Equal(t, "owned-studio", updated.Slug)
	assert.NotNil(t, updated.UpdatedAt)

	w, env = app.Do(http.MethodPatch, "/api/studios?id="+studio.ID, map[string]string{"ownerId": adminUser.ID}, ownerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only administrators can transfer a studio", env.Message)

	w, env = app.Do(http.MethodDelete, "/api/studios?id="+studio.ID, nil, admin)
	assert.Equal(t, http.StatusOK, w.Code, env.Message)
}

func TestStudio_UnknownOwnerIsValidationError(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)

	body := studioBody("ghost")
	body["ownerId"] = "00000000-0000-0000-0000-000000000000"
	w, env := app.Do(http.MethodPost, "/api/studios", body, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Owner not found", env.Message)
}

func TestStudio_DeleteCascadesToRooms(t *testing.T) {
	app := apptest.New(t)
	_, admin := app.User("admin@test.com", domain.RoleAdministrator)

	w, env := app.Do(http.MethodPost, "/api/studios", studioBody("cascade"), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	studio := apptest.Decode[domain.Studio](t, env)

	const rooms = 3
	for i := 0; i < rooms; i++ {
		w, env = app.Do(http.MethodPost, "/api/rooms", map[string]any{"studioId": studio.ID, "name": "Hall", "capacity": 10}, admin)
		require.Equal(t, http.StatusCreated, w.Code, env.Message)
	}

	w, env = app.Do(http.MethodGet, "/api/studios?id="+studio.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, apptest.Decode[domain.Studio](t, env).Rooms, rooms)

	w, env = app.Do(http.MethodDelete, "/api/studios?id="+studio.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	res := apptest.Decode[mutation.Cascade](t, env)
	assert.EqualValues(t, rooms+1, res.Studios+res.Rooms)

	var active int64
	require.NoError(t, app.DB.Model(&domain.Room{}).Where("deleted_at IS NULL").Count(&active).Error)
	assert.Zero(t, active)
}
