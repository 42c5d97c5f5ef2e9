package handlers

import (
	"aotd/internal/app"
	authController "aotd/internal/controllers/auth"
	"aotd/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	// Public endpoints
	auth.Get("/discord/login-url", h.getDiscordLoginURL)
	auth.Get("/discord/callback", h.handleDiscordCallback)

	// Protected endpoints
	protected := auth.Group("/", h.middleware.RequireAuth(h.authController))
	protected.Get("/me", h.getCurrentUser)
	protected.Get("/me/actions", h.getOwnActions)
	protected.Get("/spotify/login-url", h.getSpotifyLoginURL)
	protected.Get("/spotify/callback", h.handleSpotifyCallback)
}

func (h *AuthHandler) getDiscordLoginURL(c *fiber.Ctx) error {
	state := c.Query("state", "default-state")

	return c.JSON(fiber.Map{
		"authorizationUrl": h.authController.GetDiscordAuthURL(state),
		"state":            state,
	})
}

// handleDiscordCallback completes a Discord login and returns the session
// token alongside the user profile.
func (h *AuthHandler) handleDiscordCallback(c *fiber.Ctx) error {
	log := h.log.Function("handleDiscordCallback")

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code parameter is required",
		})
	}

	result, err := h.authController.HandleDiscordCallback(c.UserContext(), code)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"user":  result.User.ToProfile(),
		"token": result.Token,
	})
}

func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToProfile(),
	})
}

// getOwnActions returns the authenticated user's audit trail.
func (h *AuthHandler) getOwnActions(c *fiber.Ctx) error {
	log := h.log.Function("getOwnActions")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	actions, err := h.authController.GetUserActions(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"actions": actions})
}

func (h *AuthHandler) getSpotifyLoginURL(c *fiber.Ctx) error {
	state := c.Query("state", "default-state")

	return c.JSON(fiber.Map{
		"authorizationUrl": h.authController.GetSpotifyAuthURL(state),
		"state":            state,
	})
}

// handleSpotifyCallback links the authenticated user's Spotify account.
func (h *AuthHandler) handleSpotifyCallback(c *fiber.Ctx) error {
	log := h.log.Function("handleSpotifyCallback")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code parameter is required",
		})
	}

	profile, err := h.authController.HandleSpotifyCallback(c.UserContext(), user.ID, code)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"profile": profile,
	})
}
