package aotdController

import (
	"context"
	"time"

	"aotd/config"
	"aotd/internal/database"
	. "aotd/internal/models"
	"aotd/internal/repositories"
	"aotd/internal/services"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type AotdController struct {
	dailyRepo        repositories.DailyAlbumRepository
	selectionService *services.SelectionService
	ratingService    *services.RatingService
	clock            *utils.Clock
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

// DailyAlbumView is the daily selection with its aggregate rating attached.
type DailyAlbumView struct {
	DailyAlbum DailyAlbum `json:"dailyAlbum"`
	Rating     *float64   `json:"rating"`
}

type AotdControllerInterface interface {
	GetToday(ctx context.Context) (*DailyAlbumView, error)
	GetByDate(ctx context.Context, date time.Time) (*DailyAlbumView, error)
	GetHistory(ctx context.Context) ([]DailyAlbum, error)
	SelectNow(ctx context.Context, admin *User) (*DailyAlbum, error)
	SetAlbumForDate(ctx context.Context, admin *User, date time.Time, albumID uuid.UUID) (*DailyAlbum, error)
	GetExtremes(ctx context.Context) (*services.RatingExtremes, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	clock *utils.Clock,
	config config.Config,
	db database.DB,
) AotdControllerInterface {
	return &AotdController{
		dailyRepo:        repos.DailyAlbum,
		selectionService: services.Selection,
		ratingService:    services.Rating,
		clock:            clock,
		db:               db,
		Config:           config,
		log:              logger.New("aotdController"),
	}
}

func (c *AotdController) GetToday(ctx context.Context) (*DailyAlbumView, error) {
	return c.GetByDate(ctx, c.clock.Today())
}

func (c *AotdController) GetByDate(ctx context.Context, date time.Time) (*DailyAlbumView, error) {
	daily, err := c.dailyRepo.GetByDate(ctx, utils.CivilDate(date))
	if err != nil {
		return nil, err
	}

	rating, err := c.ratingService.AverageRating(ctx, daily.AlbumID, true)
	if err != nil {
		return nil, err
	}

	return &DailyAlbumView{DailyAlbum: *daily, Rating: rating}, nil
}

func (c *AotdController) GetHistory(ctx context.Context) ([]DailyAlbum, error) {
	return c.dailyRepo.GetAll(ctx)
}

// SelectNow triggers today's selection manually. The normal path is the
// scheduled job; this exists for admins when the job misfired. A day that
// already has an album returns ErrAlreadySelected.
func (c *AotdController) SelectNow(ctx context.Context, admin *User) (*DailyAlbum, error) {
	log := c.log.Function("SelectNow")

	daily, err := c.selectionService.SelectToday(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("manual selection triggered", "adminID", admin.ID, "albumID", daily.AlbumID)
	return daily, nil
}

// SetAlbumForDate force-sets the selection for a date, replacing whatever is
// there. Admin only; the lookback constraint does not apply.
func (c *AotdController) SetAlbumForDate(
	ctx context.Context,
	admin *User,
	date time.Time,
	albumID uuid.UUID,
) (*DailyAlbum, error) {
	log := c.log.Function("SetAlbumForDate")

	daily, err := c.selectionService.SetDailyAlbumAdmin(ctx, date, albumID)
	if err != nil {
		return nil, err
	}

	log.Info(
		"selection overridden",
		"adminID", admin.ID,
		"date", daily.DateString(),
		"albumID", albumID,
	)
	return daily, nil
}

func (c *AotdController) GetExtremes(ctx context.Context) (*services.RatingExtremes, error) {
	return c.ratingService.LowestAndHighest(ctx)
}
