package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"aotd/config"
	"aotd/internal/events"
	. "aotd/internal/models"
	"aotd/internal/repositories"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SelectionService picks the album of the day. An album that has been
// featured inside the lookback window is ineligible; everything else in the
// pool is drawn with uniform probability. The eligible set is computed up
// front, so selection is a single bounded draw and an exhausted pool fails
// fast with ErrNoEligibleAlbum instead of retrying forever.
type SelectionService struct {
	albumRepo    repositories.AlbumRepository
	dailyRepo    repositories.DailyAlbumRepository
	transaction  Transactor
	eventBus     *events.EventBus
	clock        *utils.Clock
	lookbackDays int
	intN         func(n int) int
	log          logger.Logger
}

func NewSelectionService(
	repos repositories.Repository,
	transaction Transactor,
	eventBus *events.EventBus,
	clock *utils.Clock,
	config config.Config,
) *SelectionService {
	return &SelectionService{
		albumRepo:    repos.Album,
		dailyRepo:    repos.DailyAlbum,
		transaction:  transaction,
		eventBus:     eventBus,
		clock:        clock,
		lookbackDays: config.SelectionLookbackDays,
		intN:         rand.IntN,
		log:          logger.New("selectionService"),
	}
}

// SelectToday runs the daily selection for the current civil date.
func (s *SelectionService) SelectToday(ctx context.Context) (*DailyAlbum, error) {
	return s.SelectDailyAlbum(ctx, s.clock.Today())
}

// SelectDailyAlbum picks and persists the album for the given date. Selection
// is one-shot per day: a date that already has an album, including one set
// concurrently by another instance, returns ErrAlreadySelected.
func (s *SelectionService) SelectDailyAlbum(ctx context.Context, date time.Time) (*DailyAlbum, error) {
	log := s.log.Function("SelectDailyAlbum")
	date = utils.CivilDate(date)

	_, err := s.dailyRepo.GetByDate(ctx, date)
	if err == nil {
		log.Warn("album of the day already selected", "date", date.Format(CalendarDateFormat))
		return nil, ErrAlreadySelected
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, log.Err("failed to check existing selection", err, "date", date)
	}

	windowStart := date.AddDate(0, 0, -s.lookbackDays)

	allIDs, err := s.albumRepo.GetAllIDs(ctx)
	if err != nil {
		return nil, err
	}

	recentIDs, err := s.dailyRepo.GetAlbumIDsSelectedSince(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	eligible := eligibleAlbumIDs(allIDs, recentIDs)
	if len(eligible) == 0 {
		return nil, log.ErrorWithType(
			ErrNoEligibleAlbum,
			"selection pool exhausted",
			"poolSize", len(allIDs),
			"recentlyFeatured", len(recentIDs),
			"windowStart", windowStart.Format(CalendarDateFormat),
		)
	}

	daily := &DailyAlbum{
		AlbumID: eligible[s.intN(len(eligible))],
		Date:    date,
		Manual:  false,
	}

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.dailyRepo.Create(ctx, tx, daily)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadySelected) {
			log.Warn("lost selection race for date", "date", date.Format(CalendarDateFormat))
			return nil, ErrAlreadySelected
		}
		return nil, err
	}

	log.Info(
		"selected album of the day",
		"date", date.Format(CalendarDateFormat),
		"albumID", daily.AlbumID,
		"eligibleCount", len(eligible),
	)

	s.publishSelection(daily)
	return daily, nil
}

// SetDailyAlbumAdmin force-sets the album for a date, overwriting any
// existing selection and ignoring the lookback constraint. Restricted to
// admin callers; last write wins.
func (s *SelectionService) SetDailyAlbumAdmin(ctx context.Context, date time.Time, albumID uuid.UUID) (*DailyAlbum, error) {
	log := s.log.Function("SetDailyAlbumAdmin")
	date = utils.CivilDate(date)

	if _, err := s.albumRepo.GetByID(ctx, albumID); err != nil {
		return nil, err
	}

	daily := &DailyAlbum{
		AlbumID: albumID,
		Date:    date,
		Manual:  true,
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.dailyRepo.Upsert(ctx, tx, daily)
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"manually set album of the day",
		"date", date.Format(CalendarDateFormat),
		"albumID", albumID,
	)

	s.publishSelection(daily)
	return daily, nil
}

func (s *SelectionService) publishSelection(daily *DailyAlbum) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(events.ACTIVITY_CHANNEL, events.Event{
		Type: events.AOTD_SELECTED,
		Data: map[string]any{
			"albumId": daily.AlbumID.String(),
			"date":    daily.DateString(),
			"manual":  daily.Manual,
		},
	}); err != nil {
		s.log.Warn("failed to publish selection event", "error", err)
	}
}

// eligibleAlbumIDs returns the pool minus every album featured inside the
// lookback window, preserving pool order.
func eligibleAlbumIDs(pool []uuid.UUID, recentlyFeatured []uuid.UUID) []uuid.UUID {
	featured := make(map[uuid.UUID]struct{}, len(recentlyFeatured))
	for _, id := range recentlyFeatured {
		featured[id] = struct{}{}
	}

	eligible := make([]uuid.UUID, 0, len(pool))
	for _, id := range pool {
		if _, ok := featured[id]; !ok {
			eligible = append(eligible, id)
		}
	}

	return eligible
}
