package repositories

import (
	"aotd/internal/database"
)

type Repository struct {
	User           UserRepository
	SpotifyProfile SpotifyProfileRepository
	Album          AlbumRepository
	DailyAlbum     DailyAlbumRepository
	Review         ReviewRepository
	UserAction     UserActionRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:           NewUserRepository(db),
		SpotifyProfile: NewSpotifyProfileRepository(db),
		Album:          NewAlbumRepository(db),
		DailyAlbum:     NewDailyAlbumRepository(db),
		Review:         NewReviewRepository(db),
		UserAction:     NewUserActionRepository(db),
	}
}
