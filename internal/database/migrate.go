package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/modules/access"
)

const activeBookingIndex = "idx_bookings_active_room"

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.Permission{},
		&domain.Group{},
		&domain.User{},
		&domain.Hotel{},
		&domain.Staff{},
		&domain.Guest{},
		&domain.RoomType{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Payment{},
	}
}

// Migrate creates the schema, the one-active-booking-per-room index and the
// permission catalog. It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	switch Dialect(db) {
	case DialectPostgres, DialectSQLite:
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON bookings (room_id) WHERE deleted_at IS NULL AND released_at IS NULL",
			activeBookingIndex,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", activeBookingIndex, err)
		}
	default:
		log.Printf("level=warn msg=\"partial indexes unsupported, relying on row locks\" dialect=%s", Dialect(db))
	}

	return SeedPermissions(db)
}

func SeedPermissions(db *gorm.DB) error {
	for _, capability := range access.Catalog() {
		p := domain.Permission{}
		err := db.Where(domain.Permission{Codename: capability.Codename}).
			Attrs(domain.Permission{Name: capability.Name, Resource: string(capability.Resource)}).
			FirstOrCreate(&p).Error
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", capability.Codename, err)
		}
	}
	return nil
}
