package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"aotd/config"
	. "aotd/internal/models"
	"aotd/internal/repositories"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"
)

const spotifyAPIBase = "https://api.spotify.com/v1"

var spotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// SpotifyService links user accounts to Spotify and resolves album metadata
// for submissions. Catalog lookups use the submitting user's token, refreshed
// on expiry through the stored refresh token.
type SpotifyService struct {
	oauth       *oauth2.Config
	profileRepo repositories.SpotifyProfileRepository
	userRepo    repositories.UserRepository
	clock       *utils.Clock
	httpClient  *http.Client
	log         logger.Logger
}

func NewSpotifyService(repos repositories.Repository, clock *utils.Clock, config config.Config) *SpotifyService {
	return &SpotifyService{
		oauth: &oauth2.Config{
			ClientID:     config.SpotifyClientID,
			ClientSecret: config.SpotifyClientSecret,
			RedirectURL:  config.SpotifyRedirectURI,
			Scopes:       []string{"user-read-email", "user-read-private"},
			Endpoint:     spotifyEndpoint,
		},
		profileRepo: repos.SpotifyProfile,
		userRepo:    repos.User,
		clock:       clock,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         logger.New("spotifyService"),
	}
}

// AuthURL returns the Spotify consent page URL for the given CSRF state.
func (s *SpotifyService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// spotifyMe mirrors the GET /v1/me response.
type spotifyMe struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
	ExternalURL struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Followers struct {
		Total int `json:"total"`
	} `json:"followers"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// HandleCallback completes the OAuth link: exchanges the code, fetches the
// Spotify profile, and stores the profile with its token set against the user.
func (s *SpotifyService) HandleCallback(ctx context.Context, userID uuid.UUID, code string) (*SpotifyProfile, error) {
	log := s.log.Function("HandleCallback")

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, log.Err("failed to exchange spotify authorization code", err, "userID", userID)
	}

	var me spotifyMe
	if err := s.getJSON(ctx, token.AccessToken, "/me", &me); err != nil {
		return nil, err
	}

	profile := &SpotifyProfile{
		UserID:         userID,
		SpotifyID:      me.ID,
		Email:          me.Email,
		Country:        me.Country,
		SpotifyURL:     me.ExternalURL.Spotify,
		FollowerCount:  me.Followers.Total,
		MembershipType: me.Product,
		AccessToken:    &token.AccessToken,
		TokenType:      &token.TokenType,
	}
	if me.DisplayName != "" {
		profile.DisplayName = &me.DisplayName
	}
	if len(me.Images) > 0 {
		profile.AvatarURL = &me.Images[0].URL
	}
	if token.RefreshToken != "" {
		profile.RefreshToken = &token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		profile.TokenExpiry = &expiry
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.SpotifyConnected {
		user.SpotifyConnected = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	log.Info("linked spotify account", "userID", userID, "spotifyID", me.ID)
	return profile, nil
}

// SpotifyAlbum is the subset of album metadata used to build a submission.
type SpotifyAlbum struct {
	SpotifyID string
	Title     string
	Artist    string
	ArtistURL string
	CoverURL  string
	AlbumURL  string
	RawData   datatypes.JSON
}

// GetAlbum fetches album metadata from the Spotify catalog using the given
// user's linked account. The full API response is preserved as raw data so
// deletions can archive the complete record.
func (s *SpotifyService) GetAlbum(ctx context.Context, userID uuid.UUID, spotifyAlbumID string) (*SpotifyAlbum, error) {
	log := s.log.Function("GetAlbum")

	accessToken, err := s.ensureToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.getRaw(ctx, accessToken, "/albums/"+spotifyAlbumID)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Artists []struct {
			Name        string `json:"name"`
			ExternalURL struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"artists"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
		ExternalURL struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, log.Err("failed to decode spotify album", err, "albumID", spotifyAlbumID)
	}

	album := &SpotifyAlbum{
		SpotifyID: payload.ID,
		Title:     payload.Name,
		AlbumURL:  payload.ExternalURL.Spotify,
		RawData:   datatypes.JSON(raw),
	}
	if len(payload.Artists) > 0 {
		names := make([]string, 0, len(payload.Artists))
		for _, artist := range payload.Artists {
			names = append(names, artist.Name)
		}
		album.Artist = strings.Join(names, ", ")
		album.ArtistURL = payload.Artists[0].ExternalURL.Spotify
	}
	if len(payload.Images) > 0 {
		album.CoverURL = payload.Images[0].URL
	}

	return album, nil
}

// ensureToken returns a valid access token for the user, refreshing through
// the oauth2 token source when the stored one has expired.
func (s *SpotifyService) ensureToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := s.log.Function("ensureToken")

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	if !profile.TokenExpired(s.clock.Now()) {
		return *profile.AccessToken, nil
	}

	if profile.RefreshToken == nil {
		return "", log.ErrorWithType(ErrUnauthenticated, "spotify token expired with no refresh token", "userID", userID)
	}

	stale := &oauth2.Token{RefreshToken: *profile.RefreshToken}
	fresh, err := s.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		return "", log.Err("failed to refresh spotify token", err, "userID", userID)
	}

	if err := s.profileRepo.UpdateTokens(ctx, userID, fresh.AccessToken, fresh.Expiry); err != nil {
		return "", err
	}

	return fresh.AccessToken, nil
}

func (s *SpotifyService) getJSON(ctx context.Context, accessToken, path string, out any) error {
	raw, err := s.getRaw(ctx, accessToken, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return s.log.Function("getJSON").Err("failed to decode spotify response", err, "path", path)
	}
	return nil
}

func (s *SpotifyService) getRaw(ctx context.Context, accessToken, path string) ([]byte, error) {
	log := s.log.Function("getRaw")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spotifyAPIBase+path, nil)
	if err != nil {
		return nil, log.Err("failed to build spotify request", err, "path", path)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("spotify request failed", err, "path", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, log.Err("failed to read spotify response", err, "path", path)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, log.Error("spotify request returned error status", "path", path, "status", resp.StatusCode)
	}
}
