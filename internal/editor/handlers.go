package editor

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"room-planner/internal/common/middleware"
	"room-planner/internal/design/models"
	"room-planner/internal/design/store"
	"room-planner/internal/design/templates"
	"room-planner/internal/design/views"
	"room-planner/internal/settings"
	"room-planner/internal/storage"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	workspaces *Workspaces
	files      *storage.FileStorage
	now        func() time.Time
}

func NewEditorHandler(workspaces *Workspaces, files *storage.FileStorage) *EditorHandler {
	return &EditorHandler{workspaces: workspaces, files: files, now: time.Now}
}

// Register mounts the editor routes. r must already require auth.
func (h *EditorHandler) Register(r fiber.Router) {
	r.Get("/state", h.State)

	r.Get("/designs", h.ListDesigns)
	r.Post("/designs", h.CreateDesign)
	r.Get("/designs/stats", h.Stats)
	r.Get("/designs/search", h.Search)
	r.Post("/designs/save", h.SaveCurrent)
	r.Get("/designs/:id", h.GetDesign)
	r.Delete("/designs/:id", h.DeleteDesign)
	r.Post("/designs/:id/load", h.LoadDesign)
	r.Post("/designs/:id/duplicate", h.DuplicateDesign)
	r.Post("/designs/:id/export", h.ExportDesign)
	r.Get("/exports", h.ListExports)

	r.Get("/current", h.Current)
	r.Patch("/current", h.UpdateInfo)
	r.Get("/current/render.svg", h.RenderSVG)
	r.Get("/current/scene", h.Scene)
	r.Post("/current/elements", h.AddElement)
	r.Patch("/current/elements/:id", h.UpdateElement)
	r.Delete("/current/elements/:id", h.DeleteElement)
	r.Post("/current/elements/:id/move", h.MoveElement)
	r.Post("/current/elements/:id/resize", h.ResizeElement)
	r.Post("/current/elements/:id/rotate", h.RotateElement)

	r.Get("/selection", h.Selection)
	r.Put("/selection", h.Select)
	r.Get("/view-mode", h.GetViewMode)
	r.Put("/view-mode", h.SetViewMode)

	r.Get("/templates", h.Templates)
	r.Post("/templates/:id/use", h.UseTemplate)

	r.Get("/palette", h.Palette)
	r.Get("/palette/categories", h.PaletteCategories)
	r.Post("/palette/:id/place", h.PlaceFromPalette)

	r.Get("/settings", h.GetSettings)
	r.Patch("/settings", h.PatchSettings)
	r.Post("/settings/reset", h.ResetSettings)

	r.Post("/import", h.ImportSVG)
}

type stateResponse struct {
	CurrentDesign   *models.Design    `json:"currentDesign"`
	SelectedElement *models.Element   `json:"selectedElement"`
	ViewMode        models.ViewMode   `json:"viewMode"`
	SavedCount      int               `json:"savedCount"`
	Settings        settings.Settings `json:"settings"`
	PersistError    string            `json:"persistError,omitempty"`
}

func (h *EditorHandler) State(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	resp := stateResponse{
		CurrentDesign:   ws.Store.CurrentDesign(),
		SelectedElement: ws.Store.SelectedElement(),
		ViewMode:        ws.Store.ViewMode(),
		SavedCount:      len(ws.Store.SavedDesigns()),
		Settings:        ws.Settings.Get(),
	}
	if perr := ws.Store.PersistErr(); perr != nil {
		resp.PersistError = perr.Error()
	}
	return c.JSON(resp)
}

// ============================================================
// Designs
// ============================================================

// ListDesigns: GET /designs?q=&category=&filter=recent|templates&sort=&order=
func (h *EditorHandler) ListDesigns(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	key, order, err := views.ParseSort(c.Query("sort"), c.Query("order"))
	if err != nil {
		return respondError(c, err)
	}
	opts := views.Options{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		SortBy:   key,
		Order:    order,
	}
	switch c.Query("filter") {
	case "", "all":
	case "recent":
		now := h.now()
		opts.Predicate = func(d *models.Design) bool { return views.IsRecent(d, now) }
	case "templates":
		opts.Predicate = func(d *models.Design) bool { return d.IsTemplate }
	default:
		return respondError(c, models.NewValidationError("filter", "unknown filter "+c.Query("filter")))
	}
	return c.JSON(ws.Store.ListDesigns(opts))
}

type createDesignRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Room        *models.Room `json:"room"`
}

func (h *EditorHandler) CreateDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req createDesignRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	info := store.DesignInfo{Room: req.Room}
	if req.Description != "" {
		info.Description = &req.Description
	}
	if req.Category != "" {
		info.Category = &req.Category
	}
	d, err := ws.Store.Checked().CreateDesign(req.Name, info)
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("[EDITOR] %s created design %s", ws.UserID, d.ID)
	return c.Status(http.StatusCreated).JSON(d)
}

func (h *EditorHandler) Stats(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(ws.Store.DesignStats())
}

func (h *EditorHandler) Search(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(ws.Store.SearchDesigns(c.Query("q")))
}

func (h *EditorHandler) SaveCurrent(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d, err := ws.Store.Checked().SaveCurrentDesign()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (h *EditorHandler) GetDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d, ok := ws.Store.SavedDesign(c.Params("id"))
	if !ok {
		return respondError(c, models.ErrDesignNotFound)
	}
	return c.JSON(d)
}

func (h *EditorHandler) DeleteDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Store.Checked().DeleteDesign(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) LoadDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Store.Checked().LoadSavedDesign(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Store.CurrentDesign())
}

func (h *EditorHandler) DuplicateDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	src, ok := ws.Store.SavedDesign(c.Params("id"))
	if !ok {
		return respondError(c, models.ErrDesignNotFound)
	}
	return c.Status(http.StatusCreated).JSON(ws.Store.DuplicateDesign(src))
}

// ============================================================
// Current design
// ============================================================

func (h *EditorHandler) Current(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d := ws.Store.CurrentDesign()
	if d == nil {
		return respondError(c, models.ErrNoCurrentDesign)
	}
	return c.JSON(d)
}

func (h *EditorHandler) UpdateInfo(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var info store.DesignInfo
	if err := json.Unmarshal(c.Body(), &info); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := ws.Store.Checked().UpdateDesignInfo(info); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ws.Store.CurrentDesign())
}

func (h *EditorHandler) AddElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var in models.ElementInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	e, err := ws.Store.Checked().AddElement(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(e)
}

func (h *EditorHandler) UpdateElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var u models.ElementUpdate
	if err := json.Unmarshal(c.Body(), &u); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	e, err := ws.Store.Checked().UpdateElement(c.Params("id"), u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(e)
}

func (h *EditorHandler) DeleteElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Store.Checked().DeleteElement(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type rotateRequest struct {
	Degrees float64 `json:"degrees"`
}

func (h *EditorHandler) MoveElement(c fiber.Ctx) error {
	var req moveRequest
	return h.manipulate(c, &req, func(chk store.Checked, id string) (*models.Element, error) {
		return chk.MoveElement(id, req.DX, req.DY)
	})
}

func (h *EditorHandler) ResizeElement(c fiber.Ctx) error {
	var req resizeRequest
	return h.manipulate(c, &req, func(chk store.Checked, id string) (*models.Element, error) {
		return chk.ResizeElement(id, req.Width, req.Height)
	})
}

func (h *EditorHandler) RotateElement(c fiber.Ctx) error {
	var req rotateRequest
	return h.manipulate(c, &req, func(chk store.Checked, id string) (*models.Element, error) {
		return chk.RotateElement(id, req.Degrees)
	})
}

func (h *EditorHandler) manipulate(c fiber.Ctx, req any, fn func(store.Checked, string) (*models.Element, error)) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	e, err := fn(ws.Store.Checked(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(e)
}

// ============================================================
// Selection & view mode
// ============================================================

func (h *EditorHandler) Selection(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"selectedElement": ws.Store.SelectedElement()})
}

func (h *EditorHandler) Select(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := ws.Store.Checked().SelectElement(req.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"selectedElement": ws.Store.SelectedElement()})
}

func (h *EditorHandler) GetViewMode(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mode": ws.Store.ViewMode()})
}

func (h *EditorHandler) SetViewMode(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := ws.Store.SetViewMode(models.ViewMode(req.Mode)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"mode": ws.Store.ViewMode()})
}

// ============================================================
// Templates & palette
// ============================================================

func (h *EditorHandler) Templates(c fiber.Ctx) error {
	return c.JSON(templates.All())
}

func (h *EditorHandler) UseTemplate(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	t, err := templates.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(ws.Store.UseTemplate(t))
}

func (h *EditorHandler) Palette(c fiber.Ctx) error {
	return c.JSON(views.FilterCatalog(views.Catalog(), c.Query("category")))
}

func (h *EditorHandler) PaletteCategories(c fiber.Ctx) error {
	return c.JSON(views.CategoryCounts(views.Catalog()))
}

// PlaceFromPalette adds a palette item to the current design at {x, y}.
func (h *EditorHandler) PlaceFromPalette(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	item, ok := views.CatalogItemByID(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "palette item not found"})
	}
	var pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &pos); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	e, err := ws.Store.Checked().AddElement(item.Input(pos.X, pos.Y))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(e)
}

// ============================================================
// Settings
// ============================================================

func (h *EditorHandler) GetSettings(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(ws.Settings.Get())
}

func (h *EditorHandler) PatchSettings(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var p settings.Patch
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	s, err := ws.Settings.Apply(p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

func (h *EditorHandler) ResetSettings(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ws.Settings.Reset()
	return c.JSON(ws.Settings.Get())
}

// ============================================================
// Helpers
// ============================================================

// workspace resolves the caller's workspace. Failures come back as a
// fiber.Error for the app's error handler.
func (h *EditorHandler) workspace(c fiber.Ctx) (*Workspace, error) {
	ws, err := h.workspaces.Get(middleware.UserID(c))
	if err != nil {
		log.Printf("[EDITOR] workspace error: %v", err)
		return nil, fiber.NewError(http.StatusInternalServerError, "workspace unavailable")
	}
	return ws, nil
}

func respondError(c fiber.Ctx, err error) error {
	switch {
	case models.IsValidation(err):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrElementNotFound),
		errors.Is(err, models.ErrDesignNotFound),
		errors.Is(err, models.ErrTemplateNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrNoCurrentDesign),
		errors.Is(err, models.ErrElementLocked):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[EDITOR] error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
