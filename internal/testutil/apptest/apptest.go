// Package apptest runs the full router over an in-memory database for
// handler tests.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/events"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/jwt"
	"dancestudio/internal/repository"
	"dancestudio/internal/server"
	"dancestudio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "Password123!"

type App struct {
	t      testing.TB
	DB     *gorm.DB
	JWT    *jwt.Service
	Server *server.Server
	Repos  *repository.Repositories
	Coord  *mutation.Coordinator
	Events *Recorder
}

// Envelope mirrors the response body with the payload left raw.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

// Recorder captures published events.
type Recorder struct {
	Events []events.Event
}

func (r *Recorder) Publish(_ context.Context, ev events.Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

// New builds the router and seeds the system roles.
func New(t testing.TB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	rec := &Recorder{}
	jwtSvc := jwt.New("test_secret_key_32_characters_min", time.Hour)
	srv := server.New(server.Options{
		DB:         db,
		JWT:        jwtSvc,
		Publisher:  rec,
		BcryptCost: bcrypt.MinCost,
	})

	app := &App{
		t:      t,
		DB:     db,
		JWT:    jwtSvc,
		Server: srv,
		Repos:  srv.Repos,
		Coord:  mutation.New(db, srv.Repos),
		Events: rec,
	}
	for _, name := range domain.SystemRoles {
		require.NoError(t, app.Repos.Roles.Create(context.Background(), &domain.Role{Name: name, IsSystem: true}))
	}
	return app
}

// User creates an active user holding the named roles and returns it with
// a bearer token.
func (a *App) User(email string, roles ...string) (*domain.User, string) {
	a.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(a.t, err)
	h := string(hash)
	u := &domain.User{Email: email, Name: email, Status: domain.UserActive, PasswordHash: &h}
	require.NoError(a.t, a.Coord.CreateUserWithRoleNames(context.Background(), u, roles...))

	token, err := a.JWT.GenerateToken(u.ID)
	require.NoError(a.t, err)
	return u, token
}

func (a *App) Role(name string) *domain.Role {
	a.t.Helper()
	r, err := a.Repos.Roles.FindByName(context.Background(), name)
	require.NoError(a.t, err)
	return r
}

// Do sends body as JSON and decodes the envelope.
func (a *App) Do(method, path string, body any, token string) (*httptest.ResponseRecorder, Envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Server.Router.ServeHTTP(w, req)

	var env Envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// Decode unmarshals the envelope payload into v.
func Decode[T any](t testing.TB, env Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}
