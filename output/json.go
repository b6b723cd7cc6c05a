package output

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ChristianF88/radixsort/version"
)

// JSONOutput represents the complete result of one command run
type JSONOutput struct {
	Metadata  Metadata         `json:"metadata"`
	Sort      *SortResult      `json:"sort,omitempty"`
	Histogram *HistogramResult `json:"histogram,omitempty"`
	Bench     []BenchResult    `json:"bench,omitempty"`
	LiveStats *LiveStats       `json:"live_stats,omitempty"`
	Warnings  []Warning        `json:"warnings"`
	Errors    []Error          `json:"errors"`

	// Mutex for thread-safe warning/error appending
	mu sync.Mutex `json:"-"`
}

// Metadata contains information about the run
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Command     string    `json:"command"`
	Version     string    `json:"version"`
	DurationMS  int64     `json:"duration_ms"`
}

// SortResult summarizes one sort of an input key set
type SortResult struct {
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	Distinct   int    `json:"distinct"`
	Min        uint32 `json:"min"`
	Max        uint32 `json:"max"`
	ReadMS     int64  `json:"read_ms"`
	DurationUS int64  `json:"duration_us"`
	Verified   *bool  `json:"verified,omitempty"`
}

// HistogramResult describes the digit distribution of each round
type HistogramResult struct {
	Total  uint64       `json:"total"`
	Rounds []RoundStats `json:"rounds"`
}

// RoundStats describes the digit distribution of one round
type RoundStats struct {
	Round     int    `json:"round"`
	Used      int    `json:"used_buckets"`
	MaxDigit  uint8  `json:"max_digit"`
	MaxCount  uint64 `json:"max_count"`
	Skippable bool   `json:"skippable"`
}

// BenchResult holds the timing of one algorithm at one input size
type BenchResult struct {
	Algorithm  string  `json:"algorithm"`
	Size       int     `json:"size"`
	Iterations int     `json:"iterations"`
	BestNS     int64   `json:"best_ns"`
	MeanNS     int64   `json:"mean_ns"`
	NSPerKey   float64 `json:"ns_per_key"`
	Verified   bool    `json:"verified"`
}

// Warning represents a warning message
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Error represents an error message
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// NewJSONOutput creates a new JSONOutput with default metadata
func NewJSONOutput(command string, startTime time.Time) *JSONOutput {
	return &JSONOutput{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC(),
			Command:     command,
			Version:     version.Version,
			DurationMS:  time.Since(startTime).Milliseconds(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// ToJSON converts the output to pretty-printed JSON
func (j *JSONOutput) ToJSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}

// ToCompactJSON converts the output to compact JSON
func (j *JSONOutput) ToCompactJSON() ([]byte, error) {
	return json.Marshal(j)
}

// AddWarning adds a warning to the output (thread-safe)
func (j *JSONOutput) AddWarning(warningType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = append(j.Warnings, Warning{
		Type:    warningType,
		Message: message,
		Count:   count,
	})
}

// AddError adds an error to the output (thread-safe)
func (j *JSONOutput) AddError(errorType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, Error{
		Type:    errorType,
		Message: message,
		Count:   count,
	})
}

// LiveStats contains statistics for live mode
type LiveStats struct {
	WindowSize     int      `json:"window_size"`
	Distinct       int      `json:"distinct"`
	ProcessedBatch int      `json:"processed_batch"`
	SkippedEvents  int      `json:"skipped_events"`
	Evicted        int      `json:"evicted"`
	LoopDuration   int64    `json:"loop_duration_ms"`
	SortDuration   int64    `json:"sort_duration_us"`
	Keys           []string `json:"keys"`
}

// UpdateDuration updates the duration in metadata
func (j *JSONOutput) UpdateDuration(startTime time.Time) {
	j.Metadata.DurationMS = time.Since(startTime).Milliseconds()
}
