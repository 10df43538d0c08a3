package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	reportJob *LoadBoardReportJob
}

func NewJobManager(stats statsReader, reportSchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		reportJob: NewLoadBoardReportJob(stats, reportSchedule, logger),
	}
}

// StartAll returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reportJob.Start(); err != nil {
		return fmt.Errorf("failed to start load board report job: %w", err)
	}
	return nil
}

func (jm *JobManager) StopAll() {
	jm.reportJob.Stop()
}
