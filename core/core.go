package core

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB opens the GORM handle shared by the whole service.
func ConnectDB(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to DB from GORM: %v", err))
	}
	return db
}

// Migrate creates or updates every table this service owns and seeds the
// default settings rows. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Branch{},
		&BranchAllowlistEntry{},
		&WorkSchedule{},
		&Employee{},
		&Attendance{},
		&GpsSecurityLog{},
		&FaceVerificationLog{},
		&SecuritySetting{},
		&Setting{},
	); err != nil {
		return err
	}
	return seedSettings(db)
}
