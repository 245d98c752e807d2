package editor

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"room-planner/internal/converter"
	"room-planner/internal/design/models"
	"room-planner/internal/render"
)

// ============================================================
// Render, export and import
// ============================================================

// RenderSVG draws the current design; the grid follows the user's
// settings.
func (h *EditorHandler) RenderSVG(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d := ws.Store.CurrentDesign()
	if d == nil {
		return respondError(c, models.ErrNoCurrentDesign)
	}

	opts := render.SVGOptions{Grid: ws.Settings.Get().GridEnabled}
	if sel := ws.Store.SelectedElement(); sel != nil {
		opts.Selected = sel.ID
	}
	svg, err := render.NewRenderer(opts).Render(d)
	if err != nil {
		log.Printf("[RENDER] render error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func (h *EditorHandler) Scene(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d := ws.Store.CurrentDesign()
	if d == nil {
		return respondError(c, models.ErrNoCurrentDesign)
	}
	scene, err := render.BuildScene(d)
	if err != nil {
		log.Printf("[RENDER] scene error: %v", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(scene)
}

// ExportDesign writes a saved design as JSON and SVG into the user's
// exports directory.
func (h *EditorHandler) ExportDesign(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	d, ok := ws.Store.SavedDesign(c.Params("id"))
	if !ok {
		return respondError(c, models.ErrDesignNotFound)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode design"})
	}
	svg, err := render.NewRenderer(render.SVGOptions{}).Render(d)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render design"})
	}

	jsonPath := h.files.ExportJSONPath(ws.UserID, d.ID)
	svgPath := h.files.ExportSVGPath(ws.UserID, d.ID)
	for path, body := range map[string][]byte{jsonPath: data, svgPath: []byte(svg)} {
		if err := h.files.SaveFile(path, body); err != nil {
			log.Printf("[EDITOR] export error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"json": filepath.Base(jsonPath),
		"svg":  filepath.Base(svgPath),
	})
}

func (h *EditorHandler) ListExports(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	names, err := h.files.ListExports(ws.UserID)
	if err != nil {
		log.Printf("[EDITOR] list exports: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list exports"})
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(fiber.Map{"files": names})
}

// ImportSVG принимает SVG-план (multipart "file" или тело запроса),
// сохраняет его в uploads и делает импортированный дизайн текущим.
func (h *EditorHandler) ImportSVG(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}

	data, filename, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	name := c.Query("name")
	if name == "" {
		name = base
	}
	res, err := converter.Import(bytes.NewReader(data), converter.Options{Name: name, Now: h.now()})
	if err != nil {
		if models.IsValidation(err) {
			return respondError(c, err)
		}
		log.Printf("[CONVERTER] import error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid svg"})
	}

	if err := h.files.SaveFile(h.files.UploadSVGPath(ws.UserID, base), data); err != nil {
		log.Printf("[EDITOR] save upload: %v", err)
	}
	if err := ws.Store.Checked().LoadDesign(res.Design); err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(res)
}

func readUpload(c fiber.Ctx) ([]byte, string, error) {
	if fh, err := c.FormFile("file"); err == nil {
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".svg" {
			return nil, "", fiber.NewError(http.StatusBadRequest, "only svg allowed")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return data, fh.Filename, err
	}
	if len(c.Body()) == 0 {
		return nil, "", fiber.NewError(http.StatusBadRequest, "svg body or file required")
	}
	return c.Body(), "plan.svg", nil
}
