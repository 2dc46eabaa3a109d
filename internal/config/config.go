// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/geo"
	"github.com/alexanderramin/geomingle/internal/llm"
	"github.com/alexanderramin/geomingle/internal/places"
)

// Config is the full runtime configuration.
type Config struct {
	DBPath           string
	Clock            domain.Clock
	City             string // empty means detect
	Position         *geo.Coordinates
	NominatimURL     string
	PlacesAPIKey     string
	PlacesTimeout    time.Duration
	PhotoConcurrency int
	RedisAddr        string
	LogCalls         bool
	LLM              llm.Config
}

const defaultPhotoConcurrency = 4

// Load reads .env files named in files (or ".env" when none are given) and
// then the process environment. Missing .env files are ignored; values
// already in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (Config, error) {
	cfg := Config{
		Clock:            domain.Clock12h,
		City:             strings.TrimSpace(os.Getenv("GEOMINGLE_CITY")),
		NominatimURL:     os.Getenv("GEOMINGLE_NOMINATIM_URL"),
		PlacesAPIKey:     os.Getenv("GOOGLE_PLACES_API_KEY"),
		PlacesTimeout:    places.DefaultTimeout,
		PhotoConcurrency: defaultPhotoConcurrency,
		RedisAddr:        os.Getenv("GEOMINGLE_REDIS_ADDR"),
		LLM:              loadLLM(),
	}

	cfg.DBPath = os.Getenv("GEOMINGLE_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".geomingle", "geomingle.db")
	}

	if v := os.Getenv("GEOMINGLE_CLOCK"); v != "" {
		switch domain.Clock(v) {
		case domain.Clock12h, domain.Clock24h:
			cfg.Clock = domain.Clock(v)
		default:
			return Config{}, fmt.Errorf("GEOMINGLE_CLOCK must be 12h or 24h, got %q", v)
		}
	}

	lat, lon := os.Getenv("GEOMINGLE_LAT"), os.Getenv("GEOMINGLE_LON")
	if lat != "" || lon != "" {
		pos, err := parsePosition(lat, lon)
		if err != nil {
			return Config{}, err
		}
		cfg.Position = pos
	}

	envDuration("GEOMINGLE_PLACES_TIMEOUT_MS", &cfg.PlacesTimeout)
	envInt("GEOMINGLE_PHOTO_CONCURRENCY", 1, &cfg.PhotoConcurrency)
	envBool("GEOMINGLE_LOG_CALLS", &cfg.LogCalls)

	return cfg, nil
}

// llmTaskTimeoutEnv names the per-task deadline override of each LLM task.
var llmTaskTimeoutEnv = map[llm.TaskType]string{
	llm.TaskGenerateItinerary: "GEOMINGLE_LLM_GENERATE_TIMEOUT_MS",
	llm.TaskSummarize:         "GEOMINGLE_LLM_SUMMARIZE_TIMEOUT_MS",
}

func loadLLM() llm.Config {
	cfg := llm.DefaultConfig()
	envBool("GEOMINGLE_LLM_ENABLED", &cfg.Enabled)
	envBool("GEOMINGLE_LLM_LOG_CALLS", &cfg.LogCalls)
	envString("GEOMINGLE_LLM_ENDPOINT", &cfg.Endpoint)
	envString("GEOMINGLE_LLM_MODEL", &cfg.Model)
	envDuration("GEOMINGLE_LLM_TIMEOUT_MS", &cfg.Timeout)
	envInt("GEOMINGLE_LLM_MAX_RETRIES", 0, &cfg.MaxRetries)

	for _, task := range llm.Tasks {
		d := cfg.TuningFor(task).Timeout
		if envDuration(llmTaskTimeoutEnv[task], &d) {
			cfg = cfg.WithTaskTimeout(task, d)
		}
	}
	return cfg
}

// The env helpers leave dst untouched when the variable is unset or does
// not parse, and report whether they wrote it.

func envString(name string, dst *string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	*dst = v
	return true
}

func envBool(name string, dst *bool) bool {
	b, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return false
	}
	*dst = b
	return true
}

func envInt(name string, minimum int, dst *int) bool {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n < minimum {
		return false
	}
	*dst = n
	return true
}

// envDuration reads a positive millisecond count.
func envDuration(name string, dst *time.Duration) bool {
	var ms int
	if !envInt(name, 1, &ms) {
		return false
	}
	*dst = time.Duration(ms) * time.Millisecond
	return true
}

func parsePosition(lat, lon string) (*geo.Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return nil, fmt.Errorf("GEOMINGLE_LAT must be a latitude, got %q", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return nil, fmt.Errorf("GEOMINGLE_LON must be a longitude, got %q", lon)
	}
	return &geo.Coordinates{Lat: la, Lon: lo}, nil
}
