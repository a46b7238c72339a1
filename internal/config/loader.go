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

// Config captures environment driven configuration values for the attendance
// tracker service.
type Config struct {
	HTTPPort             int
	SQLiteDSN            string
	StatusCacheTTL       time.Duration
	DefaultMinPercentage float64
	AllowedOrigins       []string
}

// Load reads an optional .env file into the process environment and then
// parses configuration values from it.
//
// Every field has a sensible default; set variables must still parse, and the
// loader reports all invalid entries at once.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	cfg := Config{
		HTTPPort:             8080,
		SQLiteDSN:            "file:attendance.db?_foreign_keys=on",
		StatusCacheTTL:       30 * time.Second,
		DefaultMinPercentage: 75,
		AllowedOrigins:       []string{"*"},
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ATTENDANCE_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ATTENDANCE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ATTENDANCE_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ATTENDANCE_STATUS_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ATTENDANCE_STATUS_CACHE_TTL")
		} else {
			cfg.StatusCacheTTL = ttl
		}
	}

	if percentValue := strings.TrimSpace(os.Getenv("ATTENDANCE_DEFAULT_MIN_PERCENTAGE")); percentValue != "" {
		percent, err := strconv.ParseFloat(percentValue, 64)
		if err != nil || percent <= 0 || percent > 100 {
			invalid = append(invalid, "ATTENDANCE_DEFAULT_MIN_PERCENTAGE")
		} else {
			cfg.DefaultMinPercentage = percent
		}
	}

	if originsValue := strings.TrimSpace(os.Getenv("ATTENDANCE_ALLOWED_ORIGINS")); originsValue != "" {
		origins := make([]string, 0, 2)
		for _, origin := range strings.Split(originsValue, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) == 0 {
			invalid = append(invalid, "ATTENDANCE_ALLOWED_ORIGINS")
		} else {
			cfg.AllowedOrigins = origins
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
