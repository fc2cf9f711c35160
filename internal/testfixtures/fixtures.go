// Package testfixtures builds migrated in-memory databases and seed rows for
// package tests.
package testfixtures

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/pkg/password"

	"gorm.io/gorm"
)

const Password = "s3cure-Passw0rd"

var (
	dbCounter    uint64
	hotelCounter uint64
	roomCounter  uint64
	guestCounter uint64
	userCounter  uint64
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// NewDB returns a migrated SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("%s_%d", unsafeName.ReplaceAllString(t.Name(), "_"), atomic.AddUint64(&dbCounter, 1))
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), "silent")
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
}

func Hotel(t testing.TB, db *gorm.DB) *domain.Hotel {
	t.Helper()
	n := atomic.AddUint64(&hotelCounter, 1)
	h := &domain.Hotel{
		Name:         fmt.Sprintf("Hotel %03d", n),
		Address:      "1 Lake Road",
		Phone:        "+10000000",
		Email:        fmt.Sprintf("hotel%03d@hotel.test", n),
		Stars:        4,
		CheckInTime:  "14:00",
		CheckOutTime: "12:00",
	}
	must(t, db.Create(h).Error)
	return h
}

func RoomType(t testing.TB, db *gorm.DB, price string) *domain.RoomType {
	t.Helper()
	rt := &domain.RoomType{
		Name:          "Standard",
		PricePerNight: domain.MustMoney(price),
		Capacity:      2,
	}
	must(t, db.Create(rt).Error)
	return rt
}

// Room creates an available room; it also creates a hotel and a room type
// priced at 100.00 when either is nil.
func Room(t testing.TB, db *gorm.DB, hotel *domain.Hotel, rt *domain.RoomType) *domain.Room {
	t.Helper()
	if hotel == nil {
		hotel = Hotel(t, db)
	}
	if rt == nil {
		rt = RoomType(t, db, "100.00")
	}
	n := atomic.AddUint64(&roomCounter, 1)
	r := &domain.Room{
		HotelID:    hotel.ID,
		RoomTypeID: rt.ID,
		RoomNumber: fmt.Sprintf("R%04d", n),
		Status:     domain.RoomAvailable,
	}
	must(t, db.Create(r).Error)
	return r
}

func Guest(t testing.TB, db *gorm.DB) *domain.Guest {
	t.Helper()
	n := atomic.AddUint64(&guestCounter, 1)
	dob := domain.NewDate(1990, time.March, 4)
	g := &domain.Guest{
		FirstName:   "Guest",
		LastName:    fmt.Sprintf("N%03d", n),
		DateOfBirth: &dob,
		Address:     "2 Hill Street",
		Phone:       "+20000000",
		Email:       fmt.Sprintf("guest%03d@hotel.test", n),
	}
	must(t, db.Create(g).Error)
	return g
}

type UserOption func(*domain.User)

func Superuser() UserOption {
	return func(u *domain.User) {
		u.IsStaff = true
		u.IsSuperuser = true
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) { u.Email = email }
}

// InGroup adds the user to a group holding the given capability codenames.
// The group is created on first use.
func InGroup(db *gorm.DB, name string, codenames ...string) UserOption {
	return func(u *domain.User) {
		g := domain.Group{}
		if err := db.Where(domain.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
			panic(err)
		}
		if len(codenames) > 0 {
			var perms []domain.Permission
			if err := db.Where("codename IN ?", codenames).Find(&perms).Error; err != nil {
				panic(err)
			}
			if err := db.Model(&g).Association("Permissions").Append(perms); err != nil {
				panic(err)
			}
		}
		u.Groups = append(u.Groups, g)
	}
}

// User creates an active user whose password is Password.
func User(t testing.TB, db *gorm.DB, opts ...UserOption) *domain.User {
	t.Helper()
	n := atomic.AddUint64(&userCounter, 1)
	hash, err := password.Hash(Password)
	must(t, err)

	u := &domain.User{
		Email:        fmt.Sprintf("user%03d@hotel.test", n),
		PasswordHash: hash,
		FirstName:    "User",
		LastName:     fmt.Sprintf("N%03d", n),
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	must(t, db.Create(u).Error)
	return u
}

// Booking inserts an active booking and marks its room occupied, bypassing
// the booking service.
func Booking(t testing.TB, db *gorm.DB, guest *domain.Guest, room *domain.Room, checkIn, checkOut domain.Date) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   domain.MustMoney("100.00"),
	}
	must(t, db.Create(b).Error)
	must(t, db.Model(&domain.Room{}).Where("id = ?", room.ID).Update("status", domain.RoomOccupied).Error)
	room.Status = domain.RoomOccupied
	return b
}
