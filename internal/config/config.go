package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	AllowedOrigins []string
	PublicURL      string
	// DatabaseURL enables the game journal when set.
	DatabaseURL string

	BanOnKick      bool
	RoomIdleTTL    time.Duration
	SweepInterval  time.Duration
	MessageRate    float64
	MessageBurst   int
	LogLevel       string
	LogFormat      string
	ShutdownPeriod time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	var (
		cfg Config
		err error
	)

	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = listEnv("ALLOWED_ORIGINS", []string{"*"})
	cfg.PublicURL = strings.TrimRight(stringEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.Port)), "/")
	cfg.DatabaseURL = stringEnv("DATABASE_URL", "")

	if cfg.BanOnKick, err = boolEnv("BAN_ON_KICK", false); err != nil {
		return Config{}, err
	}
	if cfg.RoomIdleTTL, err = durationEnv("ROOM_IDLE_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.MessageRate, err = floatEnv("MESSAGE_RATE", 10); err != nil {
		return Config{}, err
	}
	if cfg.MessageBurst, err = intEnv("MESSAGE_BURST", 20); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_PERIOD", 10*time.Second); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = stringEnv("LOG_LEVEL", "info")
	cfg.LogFormat = stringEnv("LOG_FORMAT", "console")

	if cfg.MessageRate <= 0 || cfg.MessageBurst <= 0 {
		return Config{}, fmt.Errorf("MESSAGE_RATE and MESSAGE_BURST must be positive")
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func listEnv(key string, def []string) []string {
	v := stringEnv(key, "")
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, def int) (int, error) {
	v := stringEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := stringEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := stringEnv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// durationEnv accepts Go durations; "0" disables the feature it controls.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := stringEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
