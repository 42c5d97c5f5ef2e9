package albumController

import (
	"context"
	"encoding/json"
	"errors"

	"aotd/config"
	"aotd/internal/database"
	"aotd/internal/events"
	. "aotd/internal/models"
	"aotd/internal/repositories"
	"aotd/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlbumController struct {
	albumRepo      repositories.AlbumRepository
	userActionRepo repositories.UserActionRepository
	userRepo       repositories.UserRepository
	reviewRepo     repositories.ReviewRepository
	spotifyService *services.SpotifyService
	ratingService  *services.RatingService
	transaction    services.Transactor
	eventBus       *events.EventBus
	db             database.DB
	Config         config.Config
	log            logger.Logger
}

type SubmitAlbumRequest struct {
	SpotifyAlbumID string  `json:"spotifyAlbumId"`
	Comment        *string `json:"comment,omitempty"`
}

// AlbumWithRating pairs an album with its aggregate rating. Rating is nil for
// an unrated album, which is not the same as a rating of zero.
type AlbumWithRating struct {
	Album       Album    `json:"album"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
}

// SubmitterStats is one user's submission count for the pool stats view.
type SubmitterStats struct {
	User  UserProfile `json:"user"`
	Count int64       `json:"albumCount"`
}

type AlbumControllerInterface interface {
	SubmitAlbum(ctx context.Context, submitter *User, req SubmitAlbumRequest) (*Album, error)
	AlbumExists(ctx context.Context, spotifyAlbumID string) (bool, error)
	GetAlbum(ctx context.Context, albumID uuid.UUID) (*AlbumWithRating, error)
	GetAlbums(ctx context.Context) ([]Album, error)
	GetRecentAlbums(ctx context.Context, count int) ([]Album, error)
	DeleteAlbum(ctx context.Context, deleter *User, albumID uuid.UUID, reason string) error
	GetAuditTrail(ctx context.Context, albumID uuid.UUID) ([]UserAction, error)
	GetSubmitterStats(ctx context.Context) (int64, []SubmitterStats, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) AlbumControllerInterface {
	return &AlbumController{
		albumRepo:      repos.Album,
		userActionRepo: repos.UserAction,
		userRepo:       repos.User,
		reviewRepo:     repos.Review,
		spotifyService: services.Spotify,
		ratingService:  services.Rating,
		transaction:    services.Transaction,
		eventBus:       eventBus,
		db:             db,
		Config:         config,
		log:            logger.New("albumController"),
	}
}

// SubmitAlbum resolves the Spotify album and adds it to the selection pool.
// The album row and its audit entry commit in one transaction; a duplicate
// submission returns ErrConflict.
func (c *AlbumController) SubmitAlbum(
	ctx context.Context,
	submitter *User,
	req SubmitAlbumRequest,
) (*Album, error) {
	log := c.log.Function("SubmitAlbum")

	if req.SpotifyAlbumID == "" {
		return nil, log.ErrorWithType(ErrValidation, "spotify album id is required")
	}

	existing, err := c.albumRepo.GetBySpotifyID(ctx, req.SpotifyAlbumID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		log.Warn("duplicate album submission", "spotifyID", req.SpotifyAlbumID, "albumID", existing.ID, "userID", submitter.ID)
		return nil, ErrConflict
	}

	metadata, err := c.spotifyService.GetAlbum(ctx, submitter.ID, req.SpotifyAlbumID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, log.ErrorWithType(ErrValidation, "album not found on spotify", "spotifyAlbumID", req.SpotifyAlbumID)
		}
		return nil, err
	}

	album := &Album{
		SpotifyID:        metadata.SpotifyID,
		Title:            metadata.Title,
		Artist:           metadata.Artist,
		ArtistURL:        metadata.ArtistURL,
		CoverURL:         metadata.CoverURL,
		SpotifyURL:       metadata.AlbumURL,
		SubmittedByID:    &submitter.ID,
		SubmitterComment: req.Comment,
		RawData:          metadata.RawData,
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.albumRepo.Create(ctx, tx, album); err != nil {
			return err
		}

		details, err := json.Marshal(map[string]any{
			"title":  album.Title,
			"artist": album.Artist,
		})
		if err != nil {
			return log.Err("failed to marshal album audit details", err)
		}

		return c.userActionRepo.Record(ctx, tx, &UserAction{
			UserID:     &submitter.ID,
			ActionType: ActionCreate,
			EntityType: EntityAlbum,
			EntityID:   album.ID,
			Details:    datatypes.JSON(details),
		})
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			log.Warn("duplicate album submission", "spotifyID", album.SpotifyID, "userID", submitter.ID)
			return nil, ErrConflict
		}
		return nil, err
	}

	log.Info("album submitted", "albumID", album.ID, "title", album.Title, "userID", submitter.ID)

	c.publish(events.ALBUM_SUBMITTED, &submitter.ID, map[string]any{
		"albumId": album.ID.String(),
		"title":   album.Title,
		"artist":  album.Artist,
	})

	return album, nil
}

// AlbumExists reports whether a Spotify album is already in the pool, so the
// client can warn before a submission attempt.
func (c *AlbumController) AlbumExists(ctx context.Context, spotifyAlbumID string) (bool, error) {
	_, err := c.albumRepo.GetBySpotifyID(ctx, spotifyAlbumID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (c *AlbumController) GetAlbum(ctx context.Context, albumID uuid.UUID) (*AlbumWithRating, error) {
	album, err := c.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}

	rating, err := c.ratingService.AverageRating(ctx, albumID, true)
	if err != nil {
		return nil, err
	}

	count, err := c.reviewRepo.CountForAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	return &AlbumWithRating{Album: *album, Rating: rating, ReviewCount: int(count)}, nil
}

func (c *AlbumController) GetAlbums(ctx context.Context) ([]Album, error) {
	return c.albumRepo.GetAll(ctx)
}

func (c *AlbumController) GetRecentAlbums(ctx context.Context, count int) ([]Album, error) {
	if count <= 0 {
		count = 10
	}
	return c.albumRepo.GetRecent(ctx, count)
}

// DeleteAlbum removes an album from the pool. Deletion without an attributed
// actor is refused outright; an attributed deletion archives the full album
// record in the audit log before the row goes away, in one transaction.
func (c *AlbumController) DeleteAlbum(
	ctx context.Context,
	deleter *User,
	albumID uuid.UUID,
	reason string,
) error {
	log := c.log.Function("DeleteAlbum")

	if deleter == nil {
		return log.ErrorWithType(
			ErrMissingActor,
			"CRITICAL: album deletion attempted without an attributed actor",
			"albumID", albumID,
		)
	}

	album, err := c.albumRepo.GetByID(ctx, albumID)
	if err != nil {
		return err
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		details, err := json.Marshal(map[string]any{
			"reason":        reason,
			"deleted_album": album.String(),
			"album":         album,
		})
		if err != nil {
			return log.Err("failed to marshal deletion audit details", err)
		}

		if err := c.userActionRepo.Record(ctx, tx, &UserAction{
			UserID:     &deleter.ID,
			ActionType: ActionDelete,
			EntityType: EntityAlbum,
			EntityID:   album.ID,
			Details:    datatypes.JSON(details),
		}); err != nil {
			return err
		}

		return c.albumRepo.Delete(ctx, tx, album)
	})
	if err != nil {
		return err
	}

	log.Info("album deleted", "albumID", album.ID, "title", album.Title, "deletedBy", deleter.ID, "reason", reason)

	c.publish(events.ALBUM_DELETED, &deleter.ID, map[string]any{
		"albumId": album.ID.String(),
		"title":   album.Title,
		"reason":  reason,
	})

	return nil
}

// GetAuditTrail returns every audit entry recorded against an album, oldest
// first. Entries survive the album's deletion.
func (c *AlbumController) GetAuditTrail(ctx context.Context, albumID uuid.UUID) ([]UserAction, error) {
	return c.userActionRepo.GetForEntity(ctx, EntityAlbum, albumID)
}

// GetSubmitterStats returns the total pool size and per-user submission counts.
func (c *AlbumController) GetSubmitterStats(ctx context.Context) (int64, []SubmitterStats, error) {
	total, err := c.albumRepo.Count(ctx)
	if err != nil {
		return 0, nil, err
	}

	counts, err := c.albumRepo.CountBySubmitter(ctx)
	if err != nil {
		return 0, nil, err
	}

	users, err := c.userRepo.GetAll(ctx)
	if err != nil {
		return 0, nil, err
	}

	stats := make([]SubmitterStats, 0, len(counts))
	for i := range users {
		count, ok := counts[users[i].ID]
		if !ok {
			continue
		}
		stats = append(stats, SubmitterStats{User: users[i].ToProfile(), Count: count})
	}

	return total, stats, nil
}

func (c *AlbumController) publish(eventType events.MessageType, userID *uuid.UUID, data map[string]any) {
	if c.eventBus == nil {
		return
	}

	if err := c.eventBus.Publish(events.ACTIVITY_CHANNEL, events.Event{
		Type:   eventType,
		UserID: userID,
		Data:   data,
	}); err != nil {
		c.log.Warn("failed to publish album event", "eventType", eventType, "error", err)
	}
}
