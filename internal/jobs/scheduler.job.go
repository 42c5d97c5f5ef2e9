package jobs

import (
	"aotd/config"
	"aotd/internal/repositories"
	"aotd/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// Import schedule constants
const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	dailySelectionJob := NewDailySelectionJob(
		services.Selection,
		Daily,
	)
	if err := schedulerService.AddJob(dailySelectionJob); err != nil {
		return log.Err("failed to register daily selection job", err)
	}
	log.Info("Registered daily selection job", "schedule", "daily")

	return nil
}
