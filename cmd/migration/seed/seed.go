package seed

import (
	"time"

	"aotd/config"
	. "aotd/internal/models"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed loads development data: a few users, a small album pool, yesterday's
// selection, and reviews of it. Enough to exercise selection, rating, and the
// review flow locally.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			DiscordID: "100000000000000001",
			Username:  "admin",
			Nickname:  "Administrator",
			Email:     stringPtr("admin@example.com"),
			IsAdmin:   true,
			IsActive:  true,
		},
		{
			DiscordID: "100000000000000002",
			Username:  "ada",
			Nickname:  "Ada Lovelace",
			Email:     stringPtr("ada.lovelace@example.com"),
			IsActive:  true,
		},
		{
			DiscordID: "100000000000000003",
			Username:  "grace",
			Nickname:  "Grace Hopper",
			Email:     stringPtr("grace.hopper@example.com"),
			IsActive:  true,
		},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to seed user", err, "discordID", users[i].DiscordID)
		}
	}

	albums := []Album{
		{
			SpotifyID:     "4LH4d3cOWNNsVw41Gqt2kv",
			Title:         "The Dark Side of the Moon",
			Artist:        "Pink Floyd",
			SubmittedByID: &users[1].ID,
		},
		{
			SpotifyID:     "2fenSS68JI1h4Fo296JfGr",
			Title:         "Doolittle",
			Artist:        "Pixies",
			SubmittedByID: &users[1].ID,
		},
		{
			SpotifyID:     "0ETFjACtuP2ADo6LFhL6HN",
			Title:         "Abbey Road",
			Artist:        "The Beatles",
			SubmittedByID: &users[2].ID,
		},
	}

	for i := range albums {
		if err := db.Create(&albums[i]).Error; err != nil {
			return log.Err("failed to seed album", err, "title", albums[i].Title)
		}
	}

	yesterday := utils.CivilDate(time.Now().AddDate(0, 0, -1))
	daily := DailyAlbum{
		AlbumID: albums[0].ID,
		Date:    yesterday,
	}
	if err := db.Create(&daily).Error; err != nil {
		return log.Err("failed to seed daily album", err)
	}

	reviews := []Review{
		{
			AlbumID:  albums[0].ID,
			UserID:   users[1].ID,
			Score:    9,
			AotdDate: yesterday,
			Version:  1,
		},
		{
			AlbumID:    albums[0].ID,
			UserID:     users[2].ID,
			Score:      7.5,
			ReviewText: stringPtr("Holds up on every listen."),
			AotdDate:   yesterday,
			Version:    1,
		},
	}

	for i := range reviews {
		if err := db.Create(&reviews[i]).Error; err != nil {
			return log.Err("failed to seed review", err, "albumID", reviews[i].AlbumID)
		}
	}

	log.Info("Development data seeded", "users", len(users), "albums", len(albums), "reviews", len(reviews))
	return nil
}
