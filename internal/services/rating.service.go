package services

import (
	"context"
	"time"

	"aotd/config"
	. "aotd/internal/models"
	"aotd/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RatingService aggregates review scores. An album with zero reviews has no
// rating at all (nil), which callers must keep distinct from a rating of zero.
type RatingService struct {
	reviewRepo repositories.ReviewRepository
	dailyRepo  repositories.DailyAlbumRepository
	albumRepo  repositories.AlbumRepository
	minReviews int
	production bool
	log        logger.Logger
}

func NewRatingService(repos repositories.Repository, config config.Config) *RatingService {
	return &RatingService{
		reviewRepo: repos.Review,
		dailyRepo:  repos.DailyAlbum,
		albumRepo:  repos.Album,
		minReviews: config.AotdMinReviews,
		production: config.IsProduction(),
		log:        logger.New("ratingService"),
	}
}

// AverageRating returns the mean review score for an album, nil when the
// album is unrated. When rounded, the mean is rounded half-up to one decimal
// for display.
func (s *RatingService) AverageRating(ctx context.Context, albumID uuid.UUID, rounded bool) (*float64, error) {
	scores, err := s.reviewRepo.GetScoresForAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	avg := average(scores)
	if avg == nil {
		return nil, nil
	}

	if rounded {
		displayValue := roundScore(*avg)
		return &displayValue, nil
	}

	return avg, nil
}

// AlbumRating is one album's aggregate standing on a featured date.
type AlbumRating struct {
	Album       Album     `json:"album"`
	Date        time.Time `json:"date"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
}

// RatingExtremes holds the lowest and highest rated albums ever featured.
type RatingExtremes struct {
	Lowest  *AlbumRating `json:"lowestAlbum"`
	Highest *AlbumRating `json:"highestAlbum"`
}

// LowestAndHighest scans every featured album and returns the rating
// extremes. In production albums with fewer than the configured minimum
// review count are excluded so single-review outliers cannot dominate the
// leaderboard. Ties resolve to the earliest featured date: the scan is
// ordered by date ascending and first seen wins.
func (s *RatingService) LowestAndHighest(ctx context.Context) (*RatingExtremes, error) {
	log := s.log.Function("LowestAndHighest")

	dailies, err := s.dailyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]AlbumRating, 0, len(dailies))
	seen := make(map[uuid.UUID]struct{}, len(dailies))
	for _, daily := range dailies {
		// An album can be featured on several dates; rate it once, against
		// its earliest appearance.
		if _, ok := seen[daily.AlbumID]; ok {
			continue
		}
		seen[daily.AlbumID] = struct{}{}

		scores, err := s.reviewRepo.GetScoresForAlbum(ctx, daily.AlbumID)
		if err != nil {
			return nil, err
		}

		avg := average(scores)
		if avg == nil {
			continue
		}

		entries = append(entries, AlbumRating{
			Album:       daily.Album,
			Date:        daily.Date,
			Rating:      *avg,
			ReviewCount: len(scores),
		})
	}

	lowest, highest := extremes(entries, s.minReviews, s.production)
	log.Info(
		"computed rating extremes",
		"candidates", len(entries),
		"minReviewsEnforced", s.production,
	)

	return &RatingExtremes{Lowest: lowest, Highest: highest}, nil
}

// UserReviewStats is one user's aggregate reviewing record.
type UserReviewStats struct {
	UserID       uuid.UUID  `json:"userId"`
	DiscordID    string     `json:"discordId"`
	Nickname     string     `json:"nickname"`
	TotalReviews int        `json:"totalReviews"`
	AverageScore float64    `json:"averageScore"`
	LowestScore  *float64   `json:"lowestScoreGiven,omitempty"`
	LowestAlbum  *uuid.UUID `json:"lowestScoreAlbum,omitempty"`
	HighestScore *float64   `json:"highestScoreGiven,omitempty"`
	HighestAlbum *uuid.UUID `json:"highestScoreAlbum,omitempty"`
}

// AllUserStats aggregates every review by reviewer: totals, average given,
// and the lowest/highest scores they have handed out.
func (s *RatingService) AllUserStats(ctx context.Context) (int, []UserReviewStats, error) {
	reviews, err := s.reviewRepo.GetAll(ctx)
	if err != nil {
		return 0, nil, err
	}

	return len(reviews), aggregateUserStats(reviews), nil
}

func average(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}

	var sum float64
	for _, score := range scores {
		sum += score
	}

	avg := sum / float64(len(scores))
	return &avg
}

// roundScore rounds half-up to one decimal place, the display precision used
// across the frontend.
func roundScore(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(1).Float64()
	return rounded
}

// extremes picks the lowest and highest rated entries. Entries are expected
// in date-ascending order; on equal ratings the earlier entry is kept.
func extremes(entries []AlbumRating, minReviews int, enforceMin bool) (lowest, highest *AlbumRating) {
	for i := range entries {
		entry := &entries[i]

		if enforceMin && entry.ReviewCount < minReviews {
			continue
		}

		if lowest == nil || entry.Rating < lowest.Rating {
			lowest = entry
		}
		if highest == nil || entry.Rating > highest.Rating {
			highest = entry
		}
	}

	return lowest, highest
}

func aggregateUserStats(reviews []Review) []UserReviewStats {
	byUser := make(map[uuid.UUID]*UserReviewStats)
	order := make([]uuid.UUID, 0)

	for i := range reviews {
		review := &reviews[i]

		stats, ok := byUser[review.UserID]
		if !ok {
			stats = &UserReviewStats{
				UserID:    review.UserID,
				DiscordID: review.User.DiscordID,
				Nickname:  review.User.DisplayName(),
			}
			byUser[review.UserID] = stats
			order = append(order, review.UserID)
		}

		stats.TotalReviews++
		stats.AverageScore += review.Score

		score := review.Score
		albumID := review.AlbumID
		if stats.LowestScore == nil || score < *stats.LowestScore {
			stats.LowestScore = &score
			stats.LowestAlbum = &albumID
		}
		if stats.HighestScore == nil || score >= *stats.HighestScore {
			stats.HighestScore = &score
			stats.HighestAlbum = &albumID
		}
	}

	out := make([]UserReviewStats, 0, len(order))
	for _, userID := range order {
		stats := byUser[userID]
		stats.AverageScore /= float64(stats.TotalReviews)
		out = append(out, *stats)
	}

	return out
}
