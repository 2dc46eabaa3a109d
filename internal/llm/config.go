package llm

import (
	"maps"
	"time"
)

// TaskType names a prompt the client tunes separately.
type TaskType string

const (
	TaskGenerateItinerary TaskType = "generate_itinerary"
	TaskSummarize         TaskType = "summarize"
)

// Tasks lists every task, in the order settings are reported.
var Tasks = []TaskType{TaskGenerateItinerary, TaskSummarize}

// Tuning is the sampling and deadline used for one task. A zero Timeout
// falls back to Config.Timeout.
type Tuning struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// A full day plan needs room for five activities with venues; a summary
// is one line.
var defaultTuning = map[TaskType]Tuning{
	TaskGenerateItinerary: {Temperature: 0.4, MaxTokens: 2048, Timeout: 30 * time.Second},
	TaskSummarize:         {Temperature: 0.2, MaxTokens: 256, Timeout: 8 * time.Second},
}

// Config is the Ollama client configuration. Loading it from the
// environment is internal/config's job.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Tuning     map[TaskType]Tuning
}

func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		Timeout:    10 * time.Second,
		MaxRetries: 1,
		Tuning:     maps.Clone(defaultTuning),
	}
}

// TuningFor returns the settings for task with the deadline resolved.
func (c Config) TuningFor(task TaskType) Tuning {
	t := c.Tuning[task]
	if t.Timeout <= 0 {
		t.Timeout = c.Timeout
	}
	return t
}

// WithTaskTimeout returns a copy of c whose task deadline is d. The
// receiver's table is left alone.
func (c Config) WithTaskTimeout(task TaskType, d time.Duration) Config {
	c.Tuning = maps.Clone(c.Tuning)
	if c.Tuning == nil {
		c.Tuning = map[TaskType]Tuning{}
	}
	t := c.Tuning[task]
	t.Timeout = d
	c.Tuning[task] = t
	return c
}
