// Package config loads process configuration from the environment into an
// injectable struct. Components receive the slice of configuration they
// need through their constructors; nothing reads the environment after
// startup.
package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTPAddr    string
	CORSOrigins []string

	Database Database
	Razorpay Razorpay
	SMTP     SMTP

	// OwnerEmail receives the shop-owner copy of order notifications.
	// Falls back to the SMTP username when unset.
	OwnerEmail string

	// RedisAddr enables the payment-status read cache when non-empty.
	RedisAddr string
}

type Database struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Schema   string
}

type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

func Load() Config {
	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		CORSOrigins: []string{getenv("CORS_ORIGIN", "*")},
		Database: Database{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Username: getenv("DB_USERNAME", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_DATABASE", "daisyverse"),
			Schema:   getenv("DB_SCHEMA", "public"),
		},
		Razorpay: Razorpay{
			KeyID:     getenv("RAZORPAY_KEY_ID", "rzp_test_your_key_id"),
			KeySecret: getenv("RAZORPAY_KEY_SECRET", "your_key_secret"),
			BaseURL:   getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		},
		SMTP: SMTP{
			Host:     getenv("EMAIL_HOST", "smtp.gmail.com"),
			Port:     getenvInt("EMAIL_PORT", 587),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
		OwnerEmail: os.Getenv("OWNER_EMAIL"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}
	if cfg.OwnerEmail == "" {
		cfg.OwnerEmail = cfg.SMTP.Username
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
