package reviewController

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
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewController struct {
	reviewRepo     repositories.ReviewRepository
	albumRepo      repositories.AlbumRepository
	userActionRepo repositories.UserActionRepository
	ratingService  *services.RatingService
	transaction    services.Transactor
	eventBus       *events.EventBus
	clock          *utils.Clock
	db             database.DB
	Config         config.Config
	log            logger.Logger
}

type SubmitReviewRequest struct {
	AlbumID     uuid.UUID `json:"albumId"`
	Score       float64   `json:"score"`
	ReviewText  *string   `json:"reviewText,omitempty"`
	FirstListen *bool     `json:"firstListen,omitempty"`
}

type ReviewControllerInterface interface {
	SubmitReview(ctx context.Context, reviewer *User, req SubmitReviewRequest) (*Review, error)
	GetReviewsForAlbum(ctx context.Context, albumID uuid.UUID) ([]Review, *float64, error)
	GetOwnReview(ctx context.Context, reviewer *User, albumID uuid.UUID) (*Review, error)
	GetReviewHistory(ctx context.Context, reviewID uuid.UUID) ([]ReviewHistory, error)
	GetUserStats(ctx context.Context) (int, []services.UserReviewStats, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	clock *utils.Clock,
	config config.Config,
	db database.DB,
) ReviewControllerInterface {
	return &ReviewController{
		reviewRepo:     repos.Review,
		albumRepo:      repos.Album,
		userActionRepo: repos.UserAction,
		ratingService:  services.Rating,
		transaction:    services.Transaction,
		eventBus:       eventBus,
		clock:          clock,
		db:             db,
		Config:         config,
		log:            logger.New("reviewController"),
	}
}

// SubmitReview creates or updates the reviewer's review of an album. The first
// submission creates version 1; any later submission snapshots the live state
// into history, applies the new values, and bumps the version. Each path
// writes its audit entry in the same transaction as the review mutation.
func (c *ReviewController) SubmitReview(
	ctx context.Context,
	reviewer *User,
	req SubmitReviewRequest,
) (*Review, error) {
	log := c.log.Function("SubmitReview")

	if req.Score < MinReviewScore || req.Score > MaxReviewScore {
		return nil, log.ErrorWithType(
			ErrValidation,
			"score out of range",
			"score", req.Score,
			"min", MinReviewScore,
			"max", MaxReviewScore,
		)
	}

	album, err := c.albumRepo.GetByID(ctx, req.AlbumID)
	if err != nil {
		return nil, err
	}

	existing, err := c.reviewRepo.GetByAlbumAndUser(ctx, req.AlbumID, reviewer.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var review *Review
	if existing == nil {
		review, err = c.createReview(ctx, reviewer, album, req)
		// A concurrent first submission may have won the insert; retry as an
		// update against the row it created.
		if errors.Is(err, ErrConflict) {
			log.Warn("lost review creation race, retrying as update", "albumID", req.AlbumID, "userID", reviewer.ID)
			review, err = c.updateReview(ctx, reviewer, req)
		}
	} else {
		review, err = c.updateReview(ctx, reviewer, req)
	}
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (c *ReviewController) createReview(
	ctx context.Context,
	reviewer *User,
	album *Album,
	req SubmitReviewRequest,
) (*Review, error) {
	log := c.log.Function("createReview")

	review := &Review{
		AlbumID:     album.ID,
		UserID:      reviewer.ID,
		Score:       req.Score,
		ReviewText:  req.ReviewText,
		FirstListen: req.FirstListen,
		AotdDate:    c.clock.Today(),
		Version:     1,
	}

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.reviewRepo.Create(ctx, tx, review); err != nil {
			return err
		}

		details, err := json.Marshal(map[string]any{
			"album_pk":  album.ID.String(),
			"review_pk": review.ID.String(),
		})
		if err != nil {
			return log.Err("failed to marshal review audit details", err)
		}

		return c.userActionRepo.Record(ctx, tx, &UserAction{
			UserID:     &reviewer.ID,
			ActionType: ActionCreate,
			EntityType: EntityReview,
			EntityID:   review.ID,
			Details:    datatypes.JSON(details),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info("review created", "reviewID", review.ID, "albumID", album.ID, "userID", reviewer.ID)

	c.publish(events.REVIEW_CREATED, &reviewer.ID, review)
	return review, nil
}

func (c *ReviewController) updateReview(
	ctx context.Context,
	reviewer *User,
	req SubmitReviewRequest,
) (*Review, error) {
	log := c.log.Function("updateReview")

	var review *Review
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		current, err := c.reviewRepo.GetForUpdate(ctx, tx, req.AlbumID, reviewer.ID)
		if err != nil {
			return err
		}

		snapshot := current.Snapshot()
		if err := c.reviewRepo.CreateHistory(ctx, tx, snapshot); err != nil {
			return err
		}

		oldScore := current.Score
		oldText := current.ReviewText

		current.Score = req.Score
		current.ReviewText = req.ReviewText
		current.FirstListen = req.FirstListen
		current.Version++

		if err := c.reviewRepo.Save(ctx, tx, current); err != nil {
			return err
		}

		details, err := json.Marshal(map[string]any{
			"old_review_score": oldScore,
			"old_review_text":  oldText,
			"reviewhistory_pk": snapshot.ID.String(),
		})
		if err != nil {
			return log.Err("failed to marshal review update audit details", err)
		}

		if err := c.userActionRepo.Record(ctx, tx, &UserAction{
			UserID:     &reviewer.ID,
			ActionType: ActionUpdate,
			EntityType: EntityReview,
			EntityID:   current.ID,
			Details:    datatypes.JSON(details),
		}); err != nil {
			return err
		}

		review = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"review updated",
		"reviewID", review.ID,
		"albumID", review.AlbumID,
		"userID", reviewer.ID,
		"version", review.Version,
	)

	c.publish(events.REVIEW_UPDATED, &reviewer.ID, review)
	return review, nil
}

// GetReviewsForAlbum returns every review of an album with its rounded
// aggregate rating, nil when unrated.
func (c *ReviewController) GetReviewsForAlbum(ctx context.Context, albumID uuid.UUID) ([]Review, *float64, error) {
	if _, err := c.albumRepo.GetByID(ctx, albumID); err != nil {
		return nil, nil, err
	}

	reviews, err := c.reviewRepo.GetAllForAlbum(ctx, albumID)
	if err != nil {
		return nil, nil, err
	}

	rating, err := c.ratingService.AverageRating(ctx, albumID, true)
	if err != nil {
		return nil, nil, err
	}

	return reviews, rating, nil
}

func (c *ReviewController) GetOwnReview(ctx context.Context, reviewer *User, albumID uuid.UUID) (*Review, error) {
	return c.reviewRepo.GetByAlbumAndUser(ctx, albumID, reviewer.ID)
}

func (c *ReviewController) GetReviewHistory(ctx context.Context, reviewID uuid.UUID) ([]ReviewHistory, error) {
	return c.reviewRepo.GetHistoryForReview(ctx, reviewID)
}

func (c *ReviewController) GetUserStats(ctx context.Context) (int, []services.UserReviewStats, error) {
	return c.ratingService.AllUserStats(ctx)
}

func (c *ReviewController) publish(eventType events.MessageType, userID *uuid.UUID, review *Review) {
	if c.eventBus == nil {
		return
	}

	if err := c.eventBus.Publish(events.ACTIVITY_CHANNEL, events.Event{
		Type:   eventType,
		UserID: userID,
		Data: map[string]any{
			"reviewId": review.ID.String(),
			"albumId":  review.AlbumID.String(),
			"score":    review.Score,
			"version":  review.Version,
		},
	}); err != nil {
		c.log.Warn("failed to publish review event", "eventType", eventType, "error", err)
	}
}
