package handlers

import (
	"net/http"

	"github.com/wonny/marketboard/internal/scheduler"
)

// JobsHandler reports background job statistics
type JobsHandler struct {
	scheduler *scheduler.Scheduler
}

// NewJobsHandler creates a jobs handler; a nil scheduler reports no jobs
func NewJobsHandler(s *scheduler.Scheduler) *JobsHandler {
	return &JobsHandler{scheduler: s}
}

// GET /api/jobs
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	stats := map[string]scheduler.JobStats{}
	if h.scheduler != nil {
		stats = h.scheduler.GetJobStats()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": stats,
	})
}
