package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"room-planner/internal/catalog/models"
	"room-planner/internal/catalog/repository"
	design "room-planner/internal/design/models"
)

// ============================================================
// Furniture Handler
// ============================================================

type FurnitureHandler struct {
	repo *repository.Repository
}

func NewFurnitureHandler(repo *repository.Repository) *FurnitureHandler {
	return &FurnitureHandler{repo: repo}
}

// Register mounts the catalog routes on r.
func (h *FurnitureHandler) Register(r fiber.Router) {
	r.Get("/health", h.Health)
	r.Get("/furniture", h.List)
	r.Get("/furniture/categories", h.Categories)
	r.Post("/furniture", h.Create)
	r.Get("/furniture/:id", h.Get)
	r.Put("/furniture/:id", h.Update)
	r.Delete("/furniture/:id", h.Delete)
	r.Post("/furniture/:id/download", h.Download)
}

// List: GET /furniture?category=&search=&limit=
func (h *FurnitureHandler) List(c fiber.Ctx) error {
	f := models.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		f.Limit = n
	}

	items, err := h.repo.List(c.Context(), f)
	if err != nil {
		log.Printf("[CATALOG] list error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list furniture"})
	}
	return c.JSON(items)
}

func (h *FurnitureHandler) Categories(c fiber.Ctx) error {
	cats, err := h.repo.Categories(c.Context())
	if err != nil {
		log.Printf("[CATALOG] categories error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list categories"})
	}
	return c.JSON(cats)
}

func (h *FurnitureHandler) Get(c fiber.Ctx) error {
	f, err := h.repo.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f)
}

func (h *FurnitureHandler) Create(c fiber.Ctx) error {
	var req models.Furniture
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	req.Downloads = 0

	f, err := h.repo.Create(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	log.Printf("[CATALOG] created %s (%s)", f.ID, f.Name)
	return c.Status(http.StatusCreated).JSON(f)
}

func (h *FurnitureHandler) Update(c fiber.Ctx) error {
	var p models.Patch
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	f, err := h.repo.Update(c.Context(), c.Params("id"), p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(f)
}

func (h *FurnitureHandler) Delete(c fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *FurnitureHandler) Download(c fiber.Ctx) error {
	n, err := h.repo.IncrementDownloads(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "downloads": n})
}

func (h *FurnitureHandler) Health(c fiber.Ctx) error {
	if err := h.repo.Ping(c.Context()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *FurnitureHandler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "furniture not found"})
	case design.IsValidation(err):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[CATALOG] error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
