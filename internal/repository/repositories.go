package repository

import (
	"time"

	"gorm.io/gorm"
)

// Repositories bundles every store bound to the same handle, either the
// pool or one open transaction.
type Repositories struct {
	Users       *UserRepository
	Roles       *RoleRepository
	Permissions *PermissionRepository
	Studios     *StudioRepository
	Rooms       *RoomRepository
	Classes     *ClassRepository
	Bookings    *BookingRepository
}

// NewRepositories uses now for every timestamp; nil means time.Now in UTC.
func NewRepositories(db *gorm.DB, now func() time.Time) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db, now),
		Roles:       NewRoleRepository(db, now),
		Permissions: NewPermissionRepository(db, now),
		Studios:     NewStudioRepository(db, now),
		Rooms:       NewRoomRepository(db, now),
		Classes:     NewClassRepository(db, now),
		Bookings:    NewBookingRepository(db, now),
	}
}

func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return &Repositories{
		Users:       r.Users.WithTx(tx),
		Roles:       r.Roles.WithTx(tx),
		Permissions: r.Permissions.WithTx(tx),
		Studios:     r.Studios.WithTx(tx),
		Rooms:       r.Rooms.WithTx(tx),
		Classes:     r.Classes.WithTx(tx),
		Bookings:    r.Bookings.WithTx(tx),
	}
}
