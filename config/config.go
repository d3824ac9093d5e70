package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/models"
	"github.com/polikarpova/coursehub/internal/stripegw"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

func LoadStripeConfig() (*StripeConfig, error) {
	return &StripeConfig{
		SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		BaseURL:   os.Getenv("STRIPE_BASE_URL"),
	}, nil
}

func InitStripeClient(config *StripeConfig) *stripegw.Client {
	return stripegw.NewClient(config.SecretKey, config.BaseURL)
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	SeedGroups(db)

	return db, nil
}

func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Subscription{},
		&models.Payment{},
	)
}

func SeedGroups(db *gorm.DB) {
	groups := []models.Group{
		{Name: models.ModeratorsGroup},
	}

	for _, group := range groups {
		var existingGroup models.Group
		result := db.Where("name = ?", group.Name).First(&existingGroup)
		if result.Error != nil {
			db.Create(&group)
		}
	}
}
