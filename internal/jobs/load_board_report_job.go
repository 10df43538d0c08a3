package jobs

import (
	"context"
	"log/slog"

	"loadboard/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultReportSchedule fires at second zero of every minute.
const DefaultReportSchedule = "0 * * * * *"

type statsReader interface {
	Handle(ctx context.Context) (queries.LoadBoardStats, error)
}

// LoadBoardReportJob periodically logs how many loads sit in each status.
type LoadBoardReportJob struct {
	stats    statsReader
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewLoadBoardReportJob(stats statsReader, schedule string, logger *slog.Logger) *LoadBoardReportJob {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &LoadBoardReportJob{
		stats:    stats,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "load_board_report_job"),
	}
}

// Start fails when the schedule is not a valid six field cron expression.
func (j *LoadBoardReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Load board report job started", "schedule", j.schedule)
	return nil
}

// Run produces one report.
func (j *LoadBoardReportJob) Run(ctx context.Context) {
	stats, err := j.stats.Handle(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Load board report failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Load board report",
		"total_loads", stats.TotalLoads,
		"by_status", stats.ByStatus,
		"by_payment_status", stats.ByPayment,
		"pending_requests", stats.PendingRequests,
	)
}

// Stop waits for a running report to finish.
func (j *LoadBoardReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Load board report job stopped")
}
