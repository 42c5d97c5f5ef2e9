package services

import (
	"aotd/config"
	"aotd/internal/database"
	"aotd/internal/events"
	"aotd/internal/repositories"
	"aotd/internal/utils"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Selection   *SelectionService
	Rating      *RatingService
	Discord     *DiscordService
	Spotify     *SpotifyService
	Session     *SessionService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus, clock *utils.Clock) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	schedulerService := NewSchedulerService(clock.Location())
	selectionService := NewSelectionService(repos, transactionService, eventBus, clock, config)
	ratingService := NewRatingService(repos, config)
	discordService := NewDiscordService(config)
	spotifyService := NewSpotifyService(repos, clock, config)
	sessionService := NewSessionService(clock, config)

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Selection:   selectionService,
		Rating:      ratingService,
		Discord:     discordService,
		Spotify:     spotifyService,
		Session:     sessionService,
	}, nil
}
