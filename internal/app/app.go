package app

import (
	"context"

	"aotd/config"
	"aotd/internal/controllers"
	"aotd/internal/database"
	"aotd/internal/events"
	"aotd/internal/handlers/middleware"
	"aotd/internal/jobs"
	"aotd/internal/repositories"
	"aotd/internal/services"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Clock       *utils.Clock
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	clock, err := utils.NewClock(config.AotdTimezone)
	if err != nil {
		return &App{}, log.Err("failed to create clock", err)
	}

	service, err := services.New(db, config, eventBus, clock)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	middleware := middleware.New(db, eventBus, config, repos)
	controllers := controllers.New(service, repos, eventBus, clock, config, db)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(service.Scheduler, config, service, repos); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	} else {
		log.Info("Scheduler disabled, daily selection must be triggered manually")
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		EventBus:    eventBus,
		Config:      config,
		Clock:       clock,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Clock,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Selection,
		a.Services.Rating,
		a.Services.Discord,
		a.Services.Spotify,
		a.Services.Session,
		a.Controllers.Auth,
		a.Controllers.Album,
		a.Controllers.Review,
		a.Controllers.Aotd,
		a.Repos.User,
		a.Repos.Album,
		a.Repos.DailyAlbum,
		a.Repos.Review,
		a.Repos.UserAction,
		a.Repos.SpotifyProfile,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		a.EventBus.Close()
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
