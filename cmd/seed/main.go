// Command seed creates a superuser, a receptionist group and a small demo
// hotel. Running it twice leaves existing rows alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/pkg/password"
	"hotel/internal/repository"
)

var receptionist = []string{
	"view_hotel", "view_roomtype", "view_room",
	"view_guest", "add_guest", "change_guest",
	"view_booking", "add_booking", "change_booking", "delete_booking",
	"view_payment", "change_payment",
}

func main() {
	email := flag.String("admin-email", envOr("SEED_ADMIN_EMAIL", "admin@hotel.local"), "superuser email")
	pass := flag.String("admin-password", envOr("SEED_ADMIN_PASSWORD", "admin12345"), "superuser password")
	demo := flag.Bool("demo", true, "also create a demo hotel with rooms and guests")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=\"invalid config\" err=%v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("level=fatal msg=\"db connect failed\" err=%v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("level=fatal msg=\"migrate failed\" err=%v", err)
	}

	ctx := context.Background()
	if err := seedAdmin(ctx, db, *email, *pass); err != nil {
		log.Fatalf("level=fatal msg=\"seed admin failed\" err=%v", err)
	}
	if err := seedReceptionGroup(ctx, db); err != nil {
		log.Fatalf("level=fatal msg=\"seed group failed\" err=%v", err)
	}
	if *demo {
		if err := seedDemo(db); err != nil {
			log.Fatalf("level=fatal msg=\"seed demo failed\" err=%v", err)
		}
	}
	log.Printf("level=info msg=\"seed completed\" admin=%s", *email)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func seedAdmin(ctx context.Context, db *gorm.DB, email, plain string) error {
	users := repository.NewUserRepository(db)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("level=info msg=\"superuser exists\" email=%s", email)
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	return users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		DateJoined:   time.Now().UTC(),
	})
}

func seedReceptionGroup(ctx context.Context, db *gorm.DB) error {
	groups := repository.NewGroupRepository(db)
	g := &domain.Group{}
	if err := db.WithContext(ctx).Where("name = ?", "Reception").Attrs(domain.Group{Name: "Reception"}).FirstOrCreate(g).Error; err != nil {
		return err
	}
	perms, missing, err := groups.PermissionsByCodename(ctx, receptionist)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("unknown permissions %v", missing)
	}
	return groups.Save(ctx, g, perms)
}

func seedDemo(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		hotel := domain.Hotel{
			Name:         "Lakeside Hotel",
			Address:      "1 Lake Road",
			Province:     "North",
			Phone:        "+10000000",
			Email:        "desk@lakeside.local",
			Stars:        4,
			CheckInTime:  "14:00",
			CheckOutTime: "12:00",
		}
		if err := tx.Where("name = ?", hotel.Name).FirstOrCreate(&hotel).Error; err != nil {
			return err
		}

		types := []domain.RoomType{
			{Name: "Single", PricePerNight: domain.MustMoney("60.00"), Capacity: 1},
			{Name: "Double", PricePerNight: domain.MustMoney("90.00"), Capacity: 2},
			{Name: "Suite", PricePerNight: domain.MustMoney("180.00"), Capacity: 4},
		}
		for i := range types {
			if err := tx.Where("name = ?", types[i].Name).FirstOrCreate(&types[i]).Error; err != nil {
				return err
			}
		}

		var rooms []domain.Room
		for floor := 1; floor <= 3; floor++ {
			for n := 1; n <= 4; n++ {
				rooms = append(rooms, domain.Room{
					HotelID:    hotel.ID,
					RoomTypeID: types[(n-1)%len(types)].ID,
					RoomNumber: fmt.Sprintf("%d%02d", floor, n),
					Status:     domain.RoomAvailable,
				})
			}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rooms).Error; err != nil {
			return err
		}

		dob := domain.NewDate(1988, time.June, 12)
		guests := []domain.Guest{
			{FirstName: "Ana", LastName: "Silva", DateOfBirth: &dob, Address: "5 River St", Phone: "+20000001", Email: "ana@guest.local"},
			{FirstName: "Tom", LastName: "Berg", DateOfBirth: &dob, Address: "9 Hill Ave", Phone: "+20000002", Email: "tom@guest.local"},
		}
		for i := range guests {
			if err := tx.Where("email = ?", guests[i].Email).FirstOrCreate(&guests[i]).Error; err != nil {
				return err
			}
		}

		log.Printf("level=info msg=\"demo data ready\" hotel_id=%d rooms=%d guests=%d", hotel.ID, len(rooms), len(guests))
		return nil
	})
}
