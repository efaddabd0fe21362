package scheduler

import (
	"context"
	"sync"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds first
	// Examples: "0 */5 * * * *" (every 5 minutes), "@hourly"
	Schedule() string
}

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyLimit = 100

// JobHistory keeps the last results of one job
type JobHistory struct {
	mu      sync.RWMutex
	results []JobResult
}

// AddResult appends a result, dropping the oldest beyond historyLimit
func (h *JobHistory) AddResult(result JobResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, result)
	if len(h.results) > historyLimit {
		h.results = h.results[len(h.results)-historyLimit:]
	}
}

// GetLatestResults returns up to n results, oldest first
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.results) {
		n = len(h.results)
	}
	out := make([]JobResult, n)
	copy(out, h.results[len(h.results)-n:])
	return out
}

// Counts returns total and failed runs
func (h *JobHistory) Counts() (total, failed int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range h.results {
		if !r.Success {
			failed++
		}
	}
	return len(h.results), failed
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	total, failed := h.Counts()
	if total == 0 {
		return 0.0
	}
	return float64(total-failed) / float64(total)
}
