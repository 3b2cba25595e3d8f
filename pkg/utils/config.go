package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Booking  BookingConfig
	Waitlist WaitlistConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	// WindowDays is how far into the future a slot may be booked.
	WindowDays int
	// BasePrice is the per-slot court price before pricing rules apply.
	BasePrice float64
	// ReserveMaxRetries bounds internal retries on store lock contention.
	ReserveMaxRetries int
}

type WaitlistConfig struct {
	// NotifyExpiryHours is the inactivity window after which a NOTIFIED
	// entry lapses. Enforced by the periodic sweep, not in real time.
	NotifyExpiryHours int
	SweepMinutes      int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)
	viper.SetDefault("BASE_COURT_PRICE", 500.0)
	viper.SetDefault("RESERVE_MAX_RETRIES", 3)
	viper.SetDefault("WAITLIST_NOTIFY_EXPIRY_HOURS", 24)
	viper.SetDefault("WAITLIST_SWEEP_MINUTES", 15)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			WindowDays:        viper.GetInt("BOOKING_WINDOW_DAYS"),
			BasePrice:         viper.GetFloat64("BASE_COURT_PRICE"),
			ReserveMaxRetries: viper.GetInt("RESERVE_MAX_RETRIES"),
		},
		Waitlist: WaitlistConfig{
			NotifyExpiryHours: viper.GetInt("WAITLIST_NOTIFY_EXPIRY_HOURS"),
			SweepMinutes:      viper.GetInt("WAITLIST_SWEEP_MINUTES"),
		},
	}

	return config, nil
}
