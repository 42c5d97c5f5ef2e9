package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"aotd/config"
	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/oauth2"
)

const discordAPIBase = "https://discord.com/api/v10"

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// DiscordService handles the OAuth login flow against Discord, the only
// identity provider. There is no local password auth.
type DiscordService struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	log        logger.Logger
}

func NewDiscordService(config config.Config) *DiscordService {
	return &DiscordService{
		oauth: &oauth2.Config{
			ClientID:     config.DiscordClientID,
			ClientSecret: config.DiscordClientSecret,
			RedirectURL:  config.DiscordRedirectURI,
			Scopes:       []string{"identify", "email"},
			Endpoint:     discordEndpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.New("discordService"),
	}
}

// AuthURL returns the Discord consent page URL for the given CSRF state.
func (s *DiscordService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// discordIdentity mirrors the GET /users/@me response.
type discordIdentity struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	GlobalName    *string `json:"global_name"`
	Discriminator *string `json:"discriminator"`
	Avatar        *string `json:"avatar"`
	Verified      bool    `json:"verified"`
	Email         *string `json:"email"`
}

// ExchangeCode trades the authorization code for a token and fetches the
// authenticated user's identity.
func (s *DiscordService) ExchangeCode(ctx context.Context, code string) (*User, error) {
	log := s.log.Function("ExchangeCode")

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, log.Err("failed to exchange discord authorization code", err)
	}

	identity, err := s.fetchIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	return identity.toUser(), nil
}

func (s *DiscordService) fetchIdentity(ctx context.Context, token *oauth2.Token) (*discordIdentity, error) {
	log := s.log.Function("fetchIdentity")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordAPIBase+"/users/@me", nil)
	if err != nil {
		return nil, log.Err("failed to build identity request", err)
	}
	token.SetAuthHeader(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch discord identity", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("discord identity request failed", "status", resp.StatusCode)
	}

	var identity discordIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, log.Err("failed to decode discord identity", err)
	}

	if identity.ID == "" {
		return nil, log.Error("discord identity response missing user id")
	}

	return &identity, nil
}

// toUser maps a Discord identity onto the local user model. The nickname
// defaults to the global display name when present; legacy "0" discriminators
// are dropped.
func (i *discordIdentity) toUser() *User {
	user := &User{
		DiscordID:       i.ID,
		Username:        i.Username,
		DiscordAvatar:   i.Avatar,
		DiscordVerified: i.Verified,
		Email:           i.Email,
		IsActive:        true,
	}

	if i.GlobalName != nil && *i.GlobalName != "" {
		user.Nickname = *i.GlobalName
	}

	if i.Discriminator != nil && *i.Discriminator != "0" {
		user.DiscordDiscriminator = i.Discriminator
	}

	return user
}
