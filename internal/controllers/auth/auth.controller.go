package authController

import (
	"context"

	"aotd/internal/database"
	. "aotd/internal/models"
	"aotd/internal/repositories"
	"aotd/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type AuthController struct {
	userRepo       repositories.UserRepository
	userActionRepo repositories.UserActionRepository
	discordService *services.DiscordService
	spotifyService *services.SpotifyService
	sessionService *services.SessionService
	db             database.DB
	log            logger.Logger
}

// LoginResult is the outcome of a completed Discord login.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type AuthControllerInterface interface {
	GetDiscordAuthURL(state string) string
	HandleDiscordCallback(ctx context.Context, code string) (*LoginResult, error)
	GetSpotifyAuthURL(state string) string
	HandleSpotifyCallback(ctx context.Context, userID uuid.UUID, code string) (*SpotifyProfile, error)
	GetUserActions(ctx context.Context, userID uuid.UUID) ([]UserAction, error)
	ResolveSession(ctx context.Context, token string) (*User, error)
}

func New(services services.Service, repos repositories.Repository, db database.DB) AuthControllerInterface {
	return &AuthController{
		userRepo:       repos.User,
		userActionRepo: repos.UserAction,
		discordService: services.Discord,
		spotifyService: services.Spotify,
		sessionService: services.Session,
		db:             db,
		log:            logger.New("authController"),
	}
}

func (c *AuthController) GetDiscordAuthURL(state string) string {
	return c.discordService.AuthURL(state)
}

// HandleDiscordCallback completes the login: exchanges the code, resolves or
// creates the local user, and issues a session token. A deactivated account
// cannot log in.
func (c *AuthController) HandleDiscordCallback(ctx context.Context, code string) (*LoginResult, error) {
	log := c.log.Function("HandleDiscordCallback")

	identity, err := c.discordService.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := c.userRepo.FindOrCreateByDiscord(ctx, identity)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, log.ErrorWithType(ErrUnauthenticated, "deactivated account attempted login", "userID", user.ID)
	}

	token, err := c.sessionService.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", "userID", user.ID, "discordID", user.DiscordID)
	return &LoginResult{User: user, Token: token}, nil
}

func (c *AuthController) GetSpotifyAuthURL(state string) string {
	return c.spotifyService.AuthURL(state)
}

func (c *AuthController) HandleSpotifyCallback(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (*SpotifyProfile, error) {
	return c.spotifyService.HandleCallback(ctx, userID, code)
}

// GetUserActions returns the user's own audit trail, oldest first.
func (c *AuthController) GetUserActions(ctx context.Context, userID uuid.UUID) ([]UserAction, error) {
	return c.userActionRepo.GetForUser(ctx, userID)
}

// ResolveSession validates a session token and loads its user.
func (c *AuthController) ResolveSession(ctx context.Context, token string) (*User, error) {
	userID, err := c.sessionService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return user, nil
}
