package mutation

import (
	"context"
	"errors"
	"testing"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/repository"
	"dancestudio/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	c     *Coordinator
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, nil)
	return &fixture{db: db, repos: repos, c: New(db, repos)}
}

func (f *fixture) studio(t *testing.T, handle string) *domain.Studio {
	s := &domain.Studio{OwnerID: "owner", Name: handle, Handle: handle, Slug: handle, Address: "1 St", City: "X", State: "Y", ZipCode: "0000"}
	require.NoError(t, f.repos.Studios.Create(context.Background(), s))
	return s
}

func (f *fixture) room(t *testing.T, studioID, name string) *domain.Room {
	r := &domain.Room{StudioID: studioID, Name: name, Capacity: 20}
	require.NoError(t, f.repos.Rooms.Create(context.Background(), r))
	return r
}

func (f *fixture) class(t *testing.T, studioID, roomID string) *domain.Class {
	c := &domain.Class{StudioID: studioID, RoomID: roomID, PrimaryInstructorID: "i", Name: "Salsa", Type: "group", Capacity: 10, Price: decimal.RequireFromString("15.00"), Duration: 60, Status: domain.ClassScheduled}
	require.NoError(t, f.repos.Classes.Create(context.Background(), c))
	return c
}

func (f *fixture) booking(t *testing.T, userID, classID string) *domain.Booking {
	b := &domain.Booking{UserID: userID, ClassID: classID, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentUnpaid, PaymentAmount: decimal.RequireFromString("15.00")}
	require.NoError(t, f.repos.Bookings.Create(context.Background(), b))
	return b
}

func countDeleted(t *testing.T, db *gorm.DB, model any) int64 {
	var n int64
	require.NoError(t, db.Model(model).Where("deleted_at IS NOT NULL").Count(&n).Error)
	return n
}

func TestDeleteStudio_CascadesThroughRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.studio(t, "test-studio")
	other := f.studio(t, "other-studio")
	rooms := []*domain.Room{f.room(t, s.ID, "A"), f.room(t, s.ID, "B"), f.room(t, s.ID, "C")}
	keep := f.room(t, other.ID, "Kept")

	cls := f.class(t, s.ID, rooms[0].ID)
	f.booking(t, "u1", cls.ID)
	f.booking(t, "u2", cls.ID)
	keptClass := f.class(t, other.ID, keep.ID)

	res, err := f.c.DeleteStudio(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, Cascade{Studios: 1, Rooms: 3, Classes: 1, Bookings: 2}, res)

	assert.EqualValues(t, len(rooms)+1, countDeleted(t, f.db, &domain.Studio{})+countDeleted(t, f.db, &domain.Room{}))

	got, err := f.repos.Classes.FindAny(ctx, cls.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassDeleted, got.Status)

	_, err = f.repos.Rooms.FindActive(ctx, keep.ID)
	assert.NoError(t, err)
	_, err = f.repos.Classes.FindActive(ctx, keptClass.ID)
	assert.NoError(t, err)

	_, err = f.c.DeleteStudio(ctx, s.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteRoom_CascadesToClassesAndBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.studio(t, "s")
	r := f.room(t, s.ID, "A")
	cls := f.class(t, s.ID, r.ID)
	b := f.booking(t, "u1", cls.ID)

	res, err := f.c.DeleteRoom(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, Cascade{Rooms: 1, Classes: 1, Bookings: 1}, res)

	got, err := f.repos.Bookings.FindAny(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingDeleted, got.Status)
	assert.NotNil(t, got.DeletedAt)

	_, err = f.repos.Studios.FindActive(ctx, s.ID)
	assert.NoError(t, err)
}

func TestDeleteRole_SystemRoleForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := &domain.Role{Name: domain.RoleAdministrator, IsSystem: true}
	require.NoError(t, f.repos.Roles.Create(ctx, admin))

	_, err := f.c.DeleteRole(ctx, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.repos.Roles.FindActive(ctx, admin.ID)
	assert.NoError(t, err)
}

func TestDeleteRole_CascadesAssignmentsAndLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role := &domain.Role{Name: "Coach"}
	require.NoError(t, f.repos.Roles.Create(ctx, role))
	perm := &domain.Permission{Name: "classes.write", Category: "classes", Action: "write"}
	require.NoError(t, f.repos.Permissions.Create(ctx, perm))
	require.NoError(t, f.repos.Roles.Grant(ctx, role.ID, perm.ID))

	u := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, f.c.CreateUserWithRoles(ctx, u, []string{role.ID}))

	res, err := f.c.DeleteRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, Cascade{Roles: 1, Assignments: 1, Links: 1}, res)

	names, err := f.repos.Roles.RoleNamesForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, names)

	// name is free again
	assert.NoError(t, f.repos.Roles.Create(ctx, &domain.Role{Name: "Coach"}))
}

func TestCreateUserWithRoles_RollsBackOnUnknownRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role := &domain.Role{Name: "Coach"}
	require.NoError(t, f.repos.Roles.Create(ctx, role))

	u := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	err := f.c.CreateUserWithRoles(ctx, u, []string{role.ID, "missing"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.repos.Users.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var n int64
	require.NoError(t, f.db.Model(&domain.RoleAssignment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReplaceUserRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coach := &domain.Role{Name: "Coach"}
	judge := &domain.Role{Name: "Judge"}
	require.NoError(t, f.repos.Roles.Create(ctx, coach))
	require.NoError(t, f.repos.Roles.Create(ctx, judge))

	u := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, f.c.CreateUserWithRoles(ctx, u, []string{coach.ID}))

	require.NoError(t, f.c.ReplaceUserRoles(ctx, u.ID, []string{coach.ID, judge.ID}))
	names, err := f.repos.Roles.RoleNamesForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coach", "Judge"}, names)

	err = f.c.ReplaceUserRoles(ctx, u.ID, []string{judge.ID, "missing"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	names, err = f.repos.Roles.RoleNamesForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coach", "Judge"}, names)

	_, err = f.c.UpdateUser(ctx, u.ID, map[string]any{"name": "Ann"}, &[]string{})
	require.NoError(t, err)
	names, err = f.repos.Roles.RoleNamesForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDeleteUser_RemovesAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coach := &domain.Role{Name: "Coach"}
	require.NoError(t, f.repos.Roles.Create(ctx, coach))
	u := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, f.c.CreateUserWithRoles(ctx, u, []string{coach.ID}))

	res, err := f.c.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, Cascade{Users: 1, Assignments: 1}, res)

	got, err := f.repos.Users.FindAny(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserDeleted, got.Status)
}

func TestDeleteStudio_RollsBackWhenChildWriteFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repos := repository.NewRepositories(db, nil)
	c := New(db, repos)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "studios"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "rooms"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1").AddRow("r2"))
	mock.ExpectQuery(`FROM "classes"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE "rooms"`).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err = c.DeleteStudio(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, apperr.IsInternal(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
