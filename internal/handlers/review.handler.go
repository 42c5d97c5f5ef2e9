package handlers

import (
	"aotd/internal/app"
	authController "aotd/internal/controllers/auth"
	reviewController "aotd/internal/controllers/reviews"
	"aotd/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	Handler
	reviewController reviewController.ReviewControllerInterface
	authController   authController.AuthControllerInterface
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		reviewController: app.Controllers.Review,
		authController:   app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	reviews := h.router.Group("/reviews", h.middleware.RequireAuth(h.authController))

	reviews.Post("/", h.submitReview)
	reviews.Get("/stats", h.getUserStats)
	reviews.Get("/album/:albumId", h.getReviewsForAlbum)
	reviews.Get("/album/:albumId/mine", h.getOwnReview)
	reviews.Get("/:id/history", h.getReviewHistory)
}

// submitReview creates the caller's review of an album, or updates it with a
// history snapshot if one already exists.
func (h *ReviewHandler) submitReview(c *fiber.Ctx) error {
	log := h.log.Function("submitReview")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req reviewController.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	review, err := h.reviewController.SubmitReview(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err)
	}

	status := fiber.StatusCreated
	if review.Version > 1 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) getReviewsForAlbum(c *fiber.Ctx) error {
	log := h.log.Function("getReviewsForAlbum")

	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	reviews, rating, err := h.reviewController.GetReviewsForAlbum(c.UserContext(), albumID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"rating":  rating,
	})
}

func (h *ReviewHandler) getOwnReview(c *fiber.Ctx) error {
	log := h.log.Function("getOwnReview")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	albumID, err := uuid.Parse(c.Params("albumId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	review, err := h.reviewController.GetOwnReview(c.UserContext(), user, albumID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) getReviewHistory(c *fiber.Ctx) error {
	log := h.log.Function("getReviewHistory")

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review id"})
	}

	history, err := h.reviewController.GetReviewHistory(c.UserContext(), reviewID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"history": history})
}

func (h *ReviewHandler) getUserStats(c *fiber.Ctx) error {
	log := h.log.Function("getUserStats")

	total, stats, err := h.reviewController.GetUserStats(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"totalReviews": total,
		"users":        stats,
	})
}
