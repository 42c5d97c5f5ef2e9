package controllers

import (
	"aotd/config"
	"aotd/internal/database"
	"aotd/internal/events"
	"aotd/internal/repositories"
	"aotd/internal/services"
	"aotd/internal/utils"

	aotdController "aotd/internal/controllers/aotd"
	albumController "aotd/internal/controllers/albums"
	authController "aotd/internal/controllers/auth"
	reviewController "aotd/internal/controllers/reviews"
)

type Controllers struct {
	Auth   authController.AuthControllerInterface
	Album  albumController.AlbumControllerInterface
	Review reviewController.ReviewControllerInterface
	Aotd   aotdController.AotdControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	clock *utils.Clock,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:   authController.New(services, repos, db),
		Album:  albumController.New(repos, services, eventBus, config, db),
		Review: reviewController.New(repos, services, eventBus, clock, config, db),
		Aotd:   aotdController.New(repos, services, clock, config, db),
	}
}
