// Package jobs keeps the notification session registry healthy on a
// robfig/cron schedule.
//
// HeartbeatJob pings every push session each HEARTBEAT_INTERVAL; the registry
// reaps a session once it misses too many pings in a row. PollSessionReaperJob
// runs every 30 seconds and drops poll sessions whose console stopped polling.
//
// Both run behind cron.SkipIfStillRunning, so a round stuck on slow peers
// never stacks up behind itself. JobManager starts and stops them together:
//
//	jobManager := jobs.NewJobManager(registry, cfg.HeartbeatInterval, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatalf("start jobs: %v", err)
//	}
//	defer jobManager.StopAll()
package jobs
