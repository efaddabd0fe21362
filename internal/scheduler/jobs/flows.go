package jobs

import (
	"context"

	"github.com/wonny/marketboard/pkg/logger"
)

// FlowsRefresher is satisfied by flows.Service
type FlowsRefresher interface {
	Refresh(ctx context.Context) error
}

// FlowsRefreshJob keeps the FII/DII cache warm
type FlowsRefreshJob struct {
	flows    FlowsRefresher
	schedule string
	logger   *logger.Logger
}

// NewFlowsRefreshJob creates a new refresh job
func NewFlowsRefreshJob(flows FlowsRefresher, schedule string, log *logger.Logger) *FlowsRefreshJob {
	return &FlowsRefreshJob{
		flows:    flows,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *FlowsRefreshJob) Name() string {
	return "fiidii_refresh"
}

// Schedule returns the configured cron schedule
func (j *FlowsRefreshJob) Schedule() string {
	return j.schedule
}

// Run executes the refresh
func (j *FlowsRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled FII/DII refresh")
	return j.flows.Refresh(ctx)
}
