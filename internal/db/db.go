package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/internal/config"
	"inkwell/internal/models"
	console "inkwell/internal/utils/logger"
)

var log = console.New("DB")

// Connect opens the database and runs migrations. The handle is returned to
// the caller and threaded through constructors; nothing in this package keeps
// a global reference, so tests can inject their own.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	log.Info("Connecting to database...")
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                                   logger.Default.LogMode(logger.Warn),
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			AllowGlobalUpdate:                        false,
		})
		if err == nil {
			log.Success("Connected to database")

			sqlDB, err := db.DB()
			if err != nil {
				return nil, log.Error("Failed to get underlying *sql.DB instance", err)
			}

			sqlDB.SetMaxOpenConns(100)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(time.Minute * 30)

			if err := runMigrations(db); err != nil {
				return nil, log.Error("Failed to run migrations", err)
			}

			log.Success("Migrations completed")
			return db, nil
		}
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Second * 5)
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts", maxRetries)
}

func runMigrations(db *gorm.DB) error {
	log.Info("Running migrations...")
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.AutoMigrate(
		// Tables without foreign keys first
		&models.Role{},
		&models.Menu{},
		&models.Category{},
		&models.Settings{},
		&models.Media{},

		// Single foreign key dependencies
		&models.User{},
		&models.UserKey{},
		&models.Session{},
		&models.Permission{},
		&models.Post{},
		&models.Page{},

		// Junction tables
		&models.RolePermission{},
		&models.PostCategory{},
		&models.PostMeta{},
	); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Close shuts down the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
