package database

import (
	"fmt"
	"log"

	config "github.com/ripetizioniapp/booking_engine/configs"
	"github.com/ripetizioniapp/booking_engine/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Tutor{},
		&models.AvailabilityBlock{},
		&models.CallType{},
		&models.CallSlot{},
		&models.Booking{},
		&models.Student{},
		&models.TutorSession{},
		&models.TutorAssignment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedCallTypes inserts the static session catalog if it is empty.
func SeedCallTypes() {
	defaults := []models.CallType{
		{Slug: "ripetizione", Name: "Ripetizione", DurationMin: 60, Active: true},
		{Slug: "conoscitiva", Name: "Chiamata conoscitiva", DurationMin: 30, Active: true},
		{Slug: "metodo", Name: "Sessione di metodo", DurationMin: 90, Active: true},
	}

	for _, ct := range defaults {
		var count int64
		if err := DB.Model(&models.CallType{}).Where("slug = ?", ct.Slug).Count(&count).Error; err != nil {
			log.Fatalf("🔥 Failed to check call type %s: %v", ct.Slug, err)
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&ct).Error; err != nil {
			log.Fatalf("🔥 Failed to seed call type %s: %v", ct.Slug, err)
		}
		log.Printf("✅ Seeded call type %q (%d min)", ct.Slug, ct.DurationMin)
	}
}
