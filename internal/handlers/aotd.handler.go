package handlers

import (
	"aotd/internal/app"
	aotdController "aotd/internal/controllers/aotd"
	authController "aotd/internal/controllers/auth"
	"aotd/internal/handlers/middleware"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AotdHandler struct {
	Handler
	aotdController aotdController.AotdControllerInterface
	authController authController.AuthControllerInterface
}

func NewAotdHandler(app app.App, router fiber.Router) *AotdHandler {
	log := logger.New("handlers").File("aotd_handler")
	return &AotdHandler{
		aotdController: app.Controllers.Aotd,
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AotdHandler) Register() {
	aotd := h.router.Group("/aotd", h.middleware.RequireAuth(h.authController))

	aotd.Get("/", h.getToday)
	aotd.Get("/history", h.getHistory)
	aotd.Get("/extremes", h.getExtremes)
	aotd.Get("/:date", h.getByDate)

	admin := aotd.Group("/", h.middleware.RequireAdmin())
	admin.Post("/select", h.selectNow)
	admin.Put("/:date", h.setAlbumForDate)
}

func (h *AotdHandler) getToday(c *fiber.Ctx) error {
	log := h.log.Function("getToday")

	view, err := h.aotdController.GetToday(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(view)
}

func (h *AotdHandler) getHistory(c *fiber.Ctx) error {
	log := h.log.Function("getHistory")

	history, err := h.aotdController.GetHistory(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"history": history})
}

func (h *AotdHandler) getExtremes(c *fiber.Ctx) error {
	log := h.log.Function("getExtremes")

	extremes, err := h.aotdController.GetExtremes(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(extremes)
}

func (h *AotdHandler) getByDate(c *fiber.Ctx) error {
	log := h.log.Function("getByDate")

	date, err := utils.ParseCalendarDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	view, err := h.aotdController.GetByDate(c.UserContext(), date)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(view)
}

// selectNow triggers today's selection outside the schedule. Responds 425 when
// the day already has an album.
func (h *AotdHandler) selectNow(c *fiber.Ctx) error {
	log := h.log.Function("selectNow")

	user := middleware.GetUser(c)

	daily, err := h.aotdController.SelectNow(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"dailyAlbum": daily})
}

type setAlbumRequest struct {
	AlbumID uuid.UUID `json:"albumId"`
}

func (h *AotdHandler) setAlbumForDate(c *fiber.Ctx) error {
	log := h.log.Function("setAlbumForDate")

	user := middleware.GetUser(c)

	date, err := utils.ParseCalendarDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	var req setAlbumRequest
	if err := c.BodyParser(&req); err != nil || req.AlbumID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "albumId is required"})
	}

	daily, err := h.aotdController.SetAlbumForDate(c.UserContext(), user, date, req.AlbumID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"dailyAlbum": daily})
}
