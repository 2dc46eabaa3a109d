package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/llm"
	"github.com/alexanderramin/geomingle/internal/places"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEOMINGLE_DB", "GEOMINGLE_CLOCK", "GEOMINGLE_CITY", "GEOMINGLE_LAT", "GEOMINGLE_LON",
		"GEOMINGLE_NOMINATIM_URL", "GOOGLE_PLACES_API_KEY", "GEOMINGLE_PLACES_TIMEOUT_MS",
		"GEOMINGLE_PHOTO_CONCURRENCY", "GEOMINGLE_REDIS_ADDR", "GEOMINGLE_LOG_CALLS",
		"GEOMINGLE_LLM_ENABLED", "GEOMINGLE_LLM_LOG_CALLS", "GEOMINGLE_LLM_ENDPOINT",
		"GEOMINGLE_LLM_MODEL", "GEOMINGLE_LLM_TIMEOUT_MS", "GEOMINGLE_LLM_MAX_RETRIES",
		"GEOMINGLE_LLM_GENERATE_TIMEOUT_MS", "GEOMINGLE_LLM_SUMMARIZE_TIMEOUT_MS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, domain.Clock12h, cfg.Clock)
	assert.True(t, filepath.IsAbs(cfg.DBPath))
	assert.Equal(t, "geomingle.db", filepath.Base(cfg.DBPath))
	assert.Empty(t, cfg.City)
	assert.Nil(t, cfg.Position)
	assert.Equal(t, places.DefaultTimeout, cfg.PlacesTimeout)
	assert.Equal(t, 4, cfg.PhotoConcurrency)
	assert.False(t, cfg.LogCalls)
	assert.True(t, cfg.LLM.Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOMINGLE_DB", "/tmp/plans.db")
	t.Setenv("GEOMINGLE_CLOCK", "24h")
	t.Setenv("GEOMINGLE_CITY", " Paris ")
	t.Setenv("GEOMINGLE_LAT", "48.8566")
	t.Setenv("GEOMINGLE_LON", "2.3522")
	t.Setenv("GOOGLE_PLACES_API_KEY", "key")
	t.Setenv("GEOMINGLE_PLACES_TIMEOUT_MS", "1500")
	t.Setenv("GEOMINGLE_PHOTO_CONCURRENCY", "8")
	t.Setenv("GEOMINGLE_REDIS_ADDR", "localhost:6379")
	t.Setenv("GEOMINGLE_LOG_CALLS", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, domain.Clock24h, cfg.Clock)
	assert.Equal(t, "Paris", cfg.City)
	require.NotNil(t, cfg.Position)
	assert.InDelta(t, 48.8566, cfg.Position.Lat, 1e-9)
	assert.InDelta(t, 2.3522, cfg.Position.Lon, 1e-9)
	assert.Equal(t, "key", cfg.PlacesAPIKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.PlacesTimeout)
	assert.Equal(t, 8, cfg.PhotoConcurrency)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.LogCalls)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"clock", map[string]string{"GEOMINGLE_CLOCK": "36h"}},
		{"latitude", map[string]string{"GEOMINGLE_LAT": "north", "GEOMINGLE_LON": "2"}},
		{"longitude out of range", map[string]string{"GEOMINGLE_LAT": "48", "GEOMINGLE_LON": "200"}},
		{"half a position", map[string]string{"GEOMINGLE_LAT": "48"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GEOMINGLE_DB", "/tmp/x.db")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_IgnoresBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOMINGLE_DB", "/tmp/x.db")
	t.Setenv("GEOMINGLE_PLACES_TIMEOUT_MS", "soon")
	t.Setenv("GEOMINGLE_PHOTO_CONCURRENCY", "-2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, places.DefaultTimeout, cfg.PlacesTimeout)
	assert.Equal(t, 4, cfg.PhotoConcurrency)
}

func TestFromEnv_LLMSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOMINGLE_DB", "/tmp/x.db")
	t.Setenv("GEOMINGLE_LLM_ENABLED", "false")
	t.Setenv("GEOMINGLE_LLM_ENDPOINT", "http://gpu-box:11434")
	t.Setenv("GEOMINGLE_LLM_MODEL", "qwen2.5")
	t.Setenv("GEOMINGLE_LLM_MAX_RETRIES", "0")
	t.Setenv("GEOMINGLE_LLM_TIMEOUT_MS", "9000")
	t.Setenv("GEOMINGLE_LLM_GENERATE_TIMEOUT_MS", "45000")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.Endpoint)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
	assert.Equal(t, 0, cfg.LLM.MaxRetries)
	assert.Equal(t, 9*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 45*time.Second, cfg.LLM.TuningFor(llm.TaskGenerateItinerary).Timeout)
	assert.Equal(t, 8*time.Second, cfg.LLM.TuningFor(llm.TaskSummarize).Timeout)
	assert.Equal(t, 9*time.Second, cfg.LLM.TuningFor(llm.TaskType("unknown")).Timeout)
}

func TestFromEnv_BadLLMTimeoutIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOMINGLE_DB", "/tmp/x.db")
	t.Setenv("GEOMINGLE_LLM_GENERATE_TIMEOUT_MS", "not-a-number")
	t.Setenv("GEOMINGLE_LLM_MAX_RETRIES", "-1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.LLM.TuningFor(llm.TaskGenerateItinerary).Timeout)
	assert.Equal(t, llm.DefaultConfig().MaxRetries, cfg.LLM.MaxRetries)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("GEOMINGLE_DB=/tmp/from-dotenv.db\nGEOMINGLE_CITY=Lisbon\n"), 0o644))
	t.Setenv("GEOMINGLE_CITY", "Porto")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DBPath)
	assert.Equal(t, "Porto", cfg.City, "process environment wins over .env")
	os.Unsetenv("GEOMINGLE_DB")
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOMINGLE_DB", "/tmp/x.db")
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
