package jobs

import (
	"context"
	"errors"

	. "aotd/internal/models"
	"aotd/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// DailySelectionJob runs the album-of-the-day draw once per day. A day that
// was already selected, manually or by another instance, is not an error for
// the job. An exhausted pool is: it needs an operator to add albums.
type DailySelectionJob struct {
	selectionService *services.SelectionService
	log              logger.Logger
	schedule         services.Schedule
}

func NewDailySelectionJob(
	selectionService *services.SelectionService,
	schedule services.Schedule,
) *DailySelectionJob {
	log := logger.New("dailySelectionJob")
	log.Info("Creating new daily selection job", "schedule", schedule)

	return &DailySelectionJob{
		selectionService: selectionService,
		log:              log,
		schedule:         schedule,
	}
}

func (j *DailySelectionJob) Name() string {
	return "DailyAlbumSelection"
}

func (j *DailySelectionJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting daily album selection")

	daily, err := j.selectionService.SelectToday(ctx)
	if err != nil {
		if errors.Is(err, ErrAlreadySelected) {
			log.Info("Album of the day already selected, nothing to do")
			return nil
		}
		if errors.Is(err, ErrNoEligibleAlbum) {
			return log.Err("selection pool exhausted, submissions needed", err)
		}
		return log.Err("daily album selection failed", err)
	}

	log.Info(
		"Daily album selection completed successfully",
		"date", daily.DateString(),
		"albumID", daily.AlbumID,
	)
	return nil
}

func (j *DailySelectionJob) Schedule() services.Schedule {
	return j.schedule
}
