package handlers

import (
	"errors"

	"aotd/internal/app"
	"aotd/internal/handlers/middleware"
	"aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewAlbumHandler(*app, api).Register()
	NewReviewHandler(*app, api).Register()
	NewAotdHandler(*app, api).Register()

	return nil
}

// respondError maps expected domain errors to HTTP statuses. Anything outside
// the known set is a 500 and gets logged as such.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	case errors.Is(err, models.ErrMissingActor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "An attributed actor is required"})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrNoEligibleAlbum):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadySelected):
		// 425 mirrors the selection contract: the day's album exists, come back
		// tomorrow.
		return c.Status(fiber.StatusTooEarly).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Er("unhandled error in request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
