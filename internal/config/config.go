package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Payment   PaymentConfig
	Printer   PrinterConfig
	Scheduler SchedulerConfig
	Email     EmailConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
	// Timezone decides what "today" is for discount windows and pay dates.
	Timezone string
	Currency string
	// SeedDemoData seeds an empty collection store with sample records.
	SeedDemoData bool
}

// Location resolves Timezone, falling back to UTC for an unknown zone.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using UTC: %v", a.Timezone, err)
		return time.UTC
	}
	return loc
}

type StorageConfig struct {
	// Driver is "memory" or "postgres".
	Driver string
	// MemoryQuotaBytes bounds the memory store; 0 disables the limit.
	MemoryQuotaBytes int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PaymentConfig struct {
	// Gateway is "manual" or "midtrans".
	Gateway            string
	MidtransServerKey  string
	MidtransProduction bool
	// AttemptTTL is how long an unfinished attempt may stay open.
	AttemptTTL time.Duration
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

type SchedulerConfig struct {
	Enabled            bool
	ReconcileSpec      string
	ExpirePaymentsSpec string
	IdempotencyGCSpec  string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	viper.SetDefault("APP_NAME", "schoolfees-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("APP_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("APP_CURRENCY", "BDT")
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("STORAGE_MEMORY_QUOTA_BYTES", 5*1024*1024)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "schoolfees")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PAYMENT_GATEWAY", "manual")
	viper.SetDefault("MIDTRANS_SERVER_KEY", "")
	viper.SetDefault("MIDTRANS_PRODUCTION", false)
	viper.SetDefault("PAYMENT_ATTEMPT_TTL_MINUTES", 30)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_RECONCILE_SPEC", "0 2 * * *")
	viper.SetDefault("SCHEDULER_EXPIRE_PAYMENTS_SPEC", "*/5 * * * *")
	viper.SetDefault("SCHEDULER_IDEMPOTENCY_GC_SPEC", "@hourly")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM_NAME", "")
	viper.SetDefault("EMAIL_FROM_ADDRESS", "")

	return &Config{
		App: AppConfig{
			Name:         viper.GetString("APP_NAME"),
			Env:          viper.GetString("APP_ENV"),
			Port:         viper.GetString("APP_PORT"),
			Debug:        viper.GetBool("APP_DEBUG"),
			LogLevel:     viper.GetString("LOG_LEVEL"),
			Timezone:     viper.GetString("APP_TIMEZONE"),
			Currency:     viper.GetString("APP_CURRENCY"),
			SeedDemoData: viper.GetBool("SEED_DEMO_DATA"),
		},
		Storage: StorageConfig{
			Driver:           strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			MemoryQuotaBytes: viper.GetInt("STORAGE_MEMORY_QUOTA_BYTES"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Payment: PaymentConfig{
			Gateway:            strings.ToLower(viper.GetString("PAYMENT_GATEWAY")),
			MidtransServerKey:  viper.GetString("MIDTRANS_SERVER_KEY"),
			MidtransProduction: viper.GetBool("MIDTRANS_PRODUCTION"),
			AttemptTTL:         time.Duration(viper.GetInt("PAYMENT_ATTEMPT_TTL_MINUTES")) * time.Minute,
		},
		Printer: PrinterConfig{
			Type:    strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Scheduler: SchedulerConfig{
			Enabled:            viper.GetBool("SCHEDULER_ENABLED"),
			ReconcileSpec:      viper.GetString("SCHEDULER_RECONCILE_SPEC"),
			ExpirePaymentsSpec: viper.GetString("SCHEDULER_EXPIRE_PAYMENTS_SPEC"),
			IdempotencyGCSpec:  viper.GetString("SCHEDULER_IDEMPOTENCY_GC_SPEC"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("EMAIL_FROM_NAME"),
			FromEmail:    viper.GetString("EMAIL_FROM_ADDRESS"),
		},
	}
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be memory or postgres, got %q", c.Storage.Driver)
	}
	switch c.Payment.Gateway {
	case "manual":
	case "midtrans":
		if c.Payment.MidtransServerKey == "" {
			return fmt.Errorf("config: MIDTRANS_SERVER_KEY is required for the midtrans gateway")
		}
	default:
		return fmt.Errorf("config: PAYMENT_GATEWAY must be manual or midtrans, got %q", c.Payment.Gateway)
	}
	if c.Payment.AttemptTTL <= 0 {
		return fmt.Errorf("config: PAYMENT_ATTEMPT_TTL_MINUTES must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
