// Package jobs provides scheduled background tasks for the load board.
//
// Jobs are cron based (github.com/robfig/cron/v3, six field expressions with
// seconds) and are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(statsHandler, "0 * * * * *", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// LoadBoardReportJob logs the number of loads per status and per payment
// status together with the number of pending requests. A failed report is
// logged and the next tick tries again.
package jobs
