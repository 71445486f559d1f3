package database

import (
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civicworks/internal/logger"
	"civicworks/internal/models"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		logger.L.Info("connecting to DB", zap.Int("attempt", i), zap.Int("max", maxAttempts))

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			logger.L.Info("connected to DB")
			break
		}

		logger.L.Warn("failed to connect to DB", zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logger.L.Fatal("giving up connecting to DB", zap.Int("attempts", maxAttempts), zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		logger.L.Fatal("failed to migrate", zap.Error(err))
	}

	createDefaultAdmin()
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.ProjectAssetDetail{},
		&models.ProjectAssetLink{},
		&models.Project{},
		&models.Payment{},
		&models.ProgressLogEntry{},
		&models.ProjectFile{},
		&models.EstimateItem{},
		&models.FileAsset{},
		&models.FileMovement{},
		&models.AuditLog{},
	)
}

// admin comes from env only, never from the API
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		logger.L.Warn("failed to check admin user", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.L.Warn("failed to hash default admin password", zap.Error(err))
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		logger.L.Warn("failed to create default admin", zap.Error(err))
		return
	}

	logger.L.Info("created default admin user", zap.String("username", username))
}
