package database

import (
	"log"

	"salesos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Role{},
		&model.Permission{},
		&model.Client{},
		&model.Shopper{},
		&model.Trade{},
		&model.TradeItem{},
		&model.Allocation{},
		&model.AuditLog{},
		&model.SaleCounter{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	// The reference counter is a single row locked during trade creation.
	counter := model.SaleCounter{ID: model.SaleCounterID}
	if err := db.FirstOrCreate(&counter, model.SaleCounter{ID: model.SaleCounterID}).Error; err != nil {
		log.Println("WARNING: Failed to seed sale counter:", err)
	}

	return db, nil
}
