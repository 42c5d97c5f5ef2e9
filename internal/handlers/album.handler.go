package handlers

import (
	"aotd/internal/app"
	albumController "aotd/internal/controllers/albums"
	authController "aotd/internal/controllers/auth"
	"aotd/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AlbumHandler struct {
	Handler
	albumController albumController.AlbumControllerInterface
	authController  authController.AuthControllerInterface
}

func NewAlbumHandler(app app.App, router fiber.Router) *AlbumHandler {
	log := logger.New("handlers").File("album_handler")
	return &AlbumHandler{
		albumController: app.Controllers.Album,
		authController:  app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AlbumHandler) Register() {
	albums := h.router.Group("/albums", h.middleware.RequireAuth(h.authController))

	albums.Get("/", h.getAlbums)
	albums.Get("/recent", h.getRecentAlbums)
	albums.Get("/stats", h.getSubmitterStats)
	albums.Get("/check/:spotifyId", h.checkAlbumExists)
	albums.Get("/:id", h.getAlbum)
	albums.Post("/", h.submitAlbum)

	admin := albums.Group("/", h.middleware.RequireAdmin())
	admin.Delete("/:id", h.deleteAlbum)
	admin.Get("/:id/audit", h.getAuditTrail)
}

func (h *AlbumHandler) getAlbums(c *fiber.Ctx) error {
	log := h.log.Function("getAlbums")

	albums, err := h.albumController.GetAlbums(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"albums": albums})
}

func (h *AlbumHandler) getRecentAlbums(c *fiber.Ctx) error {
	log := h.log.Function("getRecentAlbums")

	count := c.QueryInt("count", 10)
	albums, err := h.albumController.GetRecentAlbums(c.UserContext(), count)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"albums": albums})
}

func (h *AlbumHandler) getSubmitterStats(c *fiber.Ctx) error {
	log := h.log.Function("getSubmitterStats")

	total, stats, err := h.albumController.GetSubmitterStats(c.UserContext())
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"totalAlbums": total,
		"submitters":  stats,
	})
}

// checkAlbumExists lets the client warn about a duplicate before the user
// submits.
func (h *AlbumHandler) checkAlbumExists(c *fiber.Ctx) error {
	log := h.log.Function("checkAlbumExists")

	exists, err := h.albumController.AlbumExists(c.UserContext(), c.Params("spotifyId"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"exists": exists})
}

func (h *AlbumHandler) getAlbum(c *fiber.Ctx) error {
	log := h.log.Function("getAlbum")

	albumID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	album, err := h.albumController.GetAlbum(c.UserContext(), albumID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(album)
}

func (h *AlbumHandler) submitAlbum(c *fiber.Ctx) error {
	log := h.log.Function("submitAlbum")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req albumController.SubmitAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	album, err := h.albumController.SubmitAlbum(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"album": album})
}

type deleteAlbumRequest struct {
	Reason string `json:"reason"`
}

func (h *AlbumHandler) deleteAlbum(c *fiber.Ctx) error {
	log := h.log.Function("deleteAlbum")

	user := middleware.GetUser(c)

	albumID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	var req deleteAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.albumController.DeleteAlbum(c.UserContext(), user, albumID, req.Reason); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlbumHandler) getAuditTrail(c *fiber.Ctx) error {
	log := h.log.Function("getAuditTrail")

	albumID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid album id"})
	}

	actions, err := h.albumController.GetAuditTrail(c.UserContext(), albumID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"actions": actions})
}
