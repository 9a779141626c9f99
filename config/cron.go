package config

import (
	"storefront.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"sessionpurge": {Schedule: "@every 10m", Job: jobs.SessionPurgeJob},
	// Add more jobs here
}
