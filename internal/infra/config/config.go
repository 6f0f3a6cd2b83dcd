package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAvailabilityBaseURL = "https://availability.ticketmaster.eu/api/v2/TM_NO/resale"
	DefaultTicketmasterURL     = "https://www.ticketmaster.no/artist/vinjerock-billetter/899820"
	DefaultIconName            = "vinje-logo.png"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	LogLevel             string
	Environment          string
	BaseInterval         time.Duration // Minimum wait between checks, jitter is added on top
	AvailabilityBaseURL  string
	TicketmasterURL      string
	NotificationIcon     string
	NotificationTimeout  time.Duration
	RequestTimeout       time.Duration
	DesktopNotifications bool
	TelegramToken        string // Optional, enables Telegram notifications together with TelegramChatID
	TelegramChatID       int64
	PushgatewayURL       string // Optional
}

// Load reads configuration from environment variables and the given .env file (if present).
func Load(envFile string) (*AppConfig, error) {
	// Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg := &AppConfig{}
	var err error

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	if cfg.BaseInterval, err = durationEnv("BASE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.BaseInterval <= 0 {
		return nil, fmt.Errorf("BASE_INTERVAL must be positive, got %s", cfg.BaseInterval)
	}

	cfg.AvailabilityBaseURL = os.Getenv("AVAILABILITY_BASE_URL")
	if cfg.AvailabilityBaseURL == "" {
		cfg.AvailabilityBaseURL = DefaultAvailabilityBaseURL
	}

	cfg.TicketmasterURL = os.Getenv("TICKETMASTER_URL")
	if cfg.TicketmasterURL == "" {
		cfg.TicketmasterURL = DefaultTicketmasterURL
	}

	cfg.NotificationIcon = os.Getenv("NOTIFICATION_ICON")
	if cfg.NotificationIcon == "" {
		cfg.NotificationIcon = defaultIconPath()
	}

	if cfg.NotificationTimeout, err = durationEnv("NOTIFICATION_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.DesktopNotifications = true
	if v := os.Getenv("DESKTOP_NOTIFICATIONS"); v != "" {
		cfg.DesktopNotifications, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DESKTOP_NOTIFICATIONS: %w", err)
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	switch {
	case cfg.TelegramToken != "" && chatIDStr == "":
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set but TELEGRAM_TOKEN is")
	case cfg.TelegramToken == "" && chatIDStr != "":
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set but TELEGRAM_CHAT_ID is")
	case chatIDStr != "":
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	cfg.PushgatewayURL = os.Getenv("PUSHGATEWAY_URL")

	if !cfg.DesktopNotifications && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("no notification channel enabled: set DESKTOP_NOTIFICATIONS=true or TELEGRAM_TOKEN")
	}

	return cfg, nil
}

// TelegramEnabled reports whether Telegram notifications are configured.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// defaultIconPath places the icon next to the executable, falling back to the working directory.
func defaultIconPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultIconName
	}
	return filepath.Join(filepath.Dir(exe), DefaultIconName)
}
