package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"room-planner/internal/converter"
	"room-planner/internal/design/models"
	"room-planner/internal/design/store"
	"room-planner/internal/design/templates"
	"room-planner/internal/design/views"
	"room-planner/internal/render"
	"room-planner/internal/settings"
)

// ============================================================
// Designs
// ============================================================

func (c *CLI) handleNew(args []string) error {
	pos, fields := splitFields(args, "room")
	if len(pos) != 1 {
		return fmt.Errorf("usage: new <name> [room:<w>x<l>[cm|inch]]")
	}
	var info store.DesignInfo
	if v, ok := fields["room"]; ok {
		room, err := parseRoom(v)
		if err != nil {
			return err
		}
		info.Room = room
	}
	d, err := c.ws.Store.Checked().CreateDesign(pos[0], info)
	if err != nil {
		return err
	}
	c.printf("Created design %q (%s)\n", d.Name, shortID(d.ID))
	return nil
}

func (c *CLI) handleList(args []string) error {
	var opts views.Options
	var sortKey, order string
	var query []string
	now := c.now()

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--sort", "--order", "--category":
			if i+1 >= len(args) {
				return fmt.Errorf("%s needs a value", args[i])
			}
			switch args[i] {
			case "--sort":
				sortKey = args[i+1]
			case "--order":
				order = args[i+1]
			case "--category":
				opts.Category = args[i+1]
			}
			i++
		case "--recent":
			opts.Predicate = func(d *models.Design) bool { return views.IsRecent(d, now) }
		case "--templates":
			opts.Predicate = func(d *models.Design) bool { return d.IsTemplate }
		default:
			query = append(query, args[i])
		}
	}
	key, ord, err := views.ParseSort(sortKey, order)
	if err != nil {
		return err
	}
	opts.Query = strings.Join(query, " ")
	opts.SortBy, opts.Order = key, ord

	designs := c.ws.Store.ListDesigns(opts)
	if len(designs) == 0 {
		c.printf("No saved designs.\n")
		return nil
	}
	all := c.ws.Store.SavedDesigns()
	for _, d := range designs {
		c.printf("%3d  %s  %-24s %3d elements  %-10s updated %s\n",
			indexOf(all, d.ID)+1, shortID(d.ID), d.Name, d.ElementCount(), d.Category,
			humanize.RelTime(d.UpdatedAt, now, "ago", "from now"))
	}
	return nil
}

func (c *CLI) handleShow(_ []string) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	c.printf("%s (%s)", d.Name, shortID(d.ID))
	if d.Room != nil {
		c.printf("  room %gx%g %s", d.Room.Width, d.Room.Length, d.Room.Unit)
	}
	c.printf("  view %s\n", c.ws.Store.ViewMode())
	if len(d.Elements) == 0 {
		c.printf("  (no elements)\n")
		return nil
	}

	selected := ""
	if sel := c.ws.Store.SelectedElement(); sel != nil {
		selected = sel.ID
	}
	for i, e := range d.Elements {
		mark := " "
		if e.ID == selected {
			mark = ">"
		}
		flags := ""
		if e.Locked {
			flags = " locked"
		}
		c.printf("%s%3d  %s  %-9s %-20s at %g,%g size %gx%g rot %g opacity %g%s\n",
			mark, i+1, shortID(e.ID), e.Type, e.Name, e.X, e.Y, e.Width, e.Height, e.Rotation, e.Opacity, flags)
	}
	return nil
}

func (c *CLI) handleLoad(args []string) error {
	d, err := c.savedArg(args, "load")
	if err != nil {
		return err
	}
	if err := c.ws.Store.Checked().LoadSavedDesign(d.ID); err != nil {
		return err
	}
	c.printf("Loaded %q\n", d.Name)
	return nil
}

func (c *CLI) handleSave(_ []string) error {
	d, err := c.ws.Store.Checked().SaveCurrentDesign()
	if err != nil {
		return err
	}
	if err := c.ws.Store.PersistErr(); err != nil {
		c.printf("Warning: saved in memory only: %v\n", err)
	}
	c.printf("Saved %q\n", d.Name)
	return nil
}

func (c *CLI) handleDuplicate(args []string) error {
	d, err := c.savedArg(args, "dup")
	if err != nil {
		return err
	}
	dup := c.ws.Store.DuplicateDesign(d)
	c.printf("Created %q (%s)\n", dup.Name, shortID(dup.ID))
	return nil
}

func (c *CLI) handleRemoveDesign(args []string) error {
	d, err := c.savedArg(args, "rm")
	if err != nil {
		return err
	}
	if err := c.ws.Store.Checked().DeleteDesign(d.ID); err != nil {
		return err
	}
	c.printf("Removed %q\n", d.Name)
	return nil
}

func (c *CLI) handleInfo(args []string) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		c.printf("id:          %s\n", d.ID)
		c.printf("name:        %s\n", d.Name)
		c.printf("description: %s\n", d.Description)
		c.printf("category:    %s\n", d.Category)
		if d.Room != nil {
			c.printf("room:        %gx%g%s\n", d.Room.Width, d.Room.Length, d.Room.Unit)
		}
		c.printf("created:     %s\n", humanize.RelTime(d.CreatedAt, c.now(), "ago", "from now"))
		c.printf("updated:     %s\n", humanize.RelTime(d.UpdatedAt, c.now(), "ago", "from now"))
		return nil
	}

	pos, fields := splitFields(args, "name", "description", "category", "room")
	if len(pos) > 0 {
		return fmt.Errorf("unexpected argument %q", pos[0])
	}
	var info store.DesignInfo
	if v, ok := fields["name"]; ok {
		info.Name = &v
	}
	if v, ok := fields["description"]; ok {
		info.Description = &v
	}
	if v, ok := fields["category"]; ok {
		info.Category = &v
	}
	if v, ok := fields["room"]; ok {
		if info.Room, err = parseRoom(v); err != nil {
			return err
		}
	}
	return c.ws.Store.Checked().UpdateDesignInfo(info)
}

func (c *CLI) handleStats(_ []string) error {
	s := c.ws.Store.DesignStats()
	c.printf("Designs:  %d\n", s.TotalDesigns)
	c.printf("Elements: %d (avg %d per design)\n", s.TotalElements, s.AverageElements)
	if s.LastUpdated != nil {
		c.printf("Last updated %s\n", humanize.RelTime(*s.LastUpdated, c.now(), "ago", "from now"))
	}
	return nil
}

func (c *CLI) handleView(args []string) error {
	if len(args) == 0 {
		c.printf("%s\n", c.ws.Store.ViewMode())
		return nil
	}
	return c.ws.Store.SetViewMode(models.ViewMode(strings.ToLower(args[0])))
}

// ============================================================
// Elements
// ============================================================

var elementFields = []string{
	"name", "type", "furniture", "x", "y", "width", "height",
	"rotation", "opacity", "color", "locked",
}

func (c *CLI) handleAdd(args []string) error {
	pos, fields := splitFields(args, elementFields...)
	if len(pos) < 5 || len(pos) > 6 {
		return fmt.Errorf("usage: add <type> <x> <y> <width> <height> [name] [field:value]...")
	}
	t, err := models.ParseElementType(pos[0])
	if err != nil {
		return err
	}
	nums, err := parseFloats(pos[1:5])
	if err != nil {
		return err
	}
	in := models.ElementInput{
		Type: t, X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3],
		Name: string(t),
	}
	if len(pos) == 6 {
		in.Name = pos[5]
	}

	u, err := parseUpdate(fields)
	if err != nil {
		return err
	}
	if u.Name != nil {
		in.Name = *u.Name
	}
	if u.FurnitureType != nil {
		in.FurnitureType = *u.FurnitureType
	}
	if u.Rotation != nil {
		in.Rotation = *u.Rotation
	}
	if u.Color != nil {
		in.Color = *u.Color
	}
	if u.Locked != nil {
		in.Locked = *u.Locked
	}
	in.Opacity = u.Opacity

	e, err := c.ws.Store.Checked().AddElement(in)
	if err != nil {
		return err
	}
	c.printf("Added %s %q (%s)\n", e.Type, e.Name, shortID(e.ID))
	return nil
}

func (c *CLI) handlePlace(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: place <palette-id> <x> <y>")
	}
	item, ok := views.CatalogItemByID(args[0])
	if !ok {
		return fmt.Errorf("unknown palette item %q", args[0])
	}
	nums, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	e, err := c.ws.Store.Checked().AddElement(item.Input(nums[0], nums[1]))
	if err != nil {
		return err
	}
	c.printf("Placed %q (%s)\n", e.Name, shortID(e.ID))
	return nil
}

func (c *CLI) handleSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <#|id> <field>:<value>...")
	}
	id, err := c.elementID(args[0])
	if err != nil {
		return err
	}
	pos, fields := splitFields(args[1:], elementFields...)
	if len(pos) > 0 {
		return fmt.Errorf("unexpected argument %q", pos[0])
	}
	u, err := parseUpdate(fields)
	if err != nil {
		return err
	}
	_, err = c.ws.Store.Checked().UpdateElement(id, u)
	return err
}

func (c *CLI) handleDeleteElement(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: del <#|id>")
	}
	id, err := c.elementID(args[0])
	if err != nil {
		return err
	}
	return c.ws.Store.Checked().DeleteElement(id)
}

func (c *CLI) handleMove(args []string) error {
	return c.manipulate(args, "move <#|id> <dx> <dy>", 2, func(id string, v []float64) error {
		_, err := c.ws.Store.Checked().MoveElement(id, v[0], v[1])
		return err
	})
}

func (c *CLI) handleResize(args []string) error {
	return c.manipulate(args, "resize <#|id> <width> <height>", 2, func(id string, v []float64) error {
		_, err := c.ws.Store.Checked().ResizeElement(id, v[0], v[1])
		return err
	})
}

func (c *CLI) handleRotate(args []string) error {
	return c.manipulate(args, "rotate <#|id> <degrees>", 1, func(id string, v []float64) error {
		_, err := c.ws.Store.Checked().RotateElement(id, v[0])
		return err
	})
}

func (c *CLI) manipulate(args []string, usage string, n int, fn func(string, []float64) error) error {
	if len(args) != n+1 {
		return fmt.Errorf("usage: %s", usage)
	}
	id, err := c.elementID(args[0])
	if err != nil {
		return err
	}
	nums, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	return fn(id, nums)
}

func (c *CLI) handleSelect(args []string) error {
	if len(args) == 0 {
		c.ws.Store.SelectElement("")
		return nil
	}
	id, err := c.elementID(args[0])
	if err != nil {
		return err
	}
	return c.ws.Store.Checked().SelectElement(id)
}

// ============================================================
// Templates, palette, settings
// ============================================================

func (c *CLI) handleTemplates(_ []string) error {
	for _, t := range templates.All() {
		c.printf("%-22s %-14s %2d elements  %s\n",
			strings.TrimPrefix(t.ID, "template-"), t.Name, t.ElementCount(), t.Description)
	}
	return nil
}

func (c *CLI) handleUseTemplate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <template-id>")
	}
	t, err := templates.Get(args[0])
	if err != nil {
		return err
	}
	d := c.ws.Store.UseTemplate(t)
	c.printf("Created %q from template\n", d.Name)
	return nil
}

func (c *CLI) handlePalette(args []string) error {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	for _, cc := range views.CategoryCounts(views.Catalog()) {
		c.printf("%s(%d) ", cc.Name, cc.Count)
	}
	c.printf("\n")
	for _, it := range views.FilterCatalog(views.Catalog(), category) {
		c.printf("  %-14s %-18s %-9s %gx%g\n", it.ID, it.Name, it.Category, it.Width, it.Height)
	}
	return nil
}

func (c *CLI) handleSettings(args []string) error {
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "reset":
		c.ws.Settings.Reset()
	case len(args) == 2:
		if err := c.setSetting(args[0], args[1]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("usage: settings [reset | <field> <value>]")
	}

	s := c.ws.Settings.Get()
	c.printf("theme %s, unit %s, grid %s, snap %s, autosave %s\n",
		s.Theme, s.Unit, onOff(s.GridEnabled), onOff(s.SnapToGrid), onOff(s.AutoSave))
	return nil
}

func (c *CLI) setSetting(field, value string) error {
	var p settings.Patch
	switch strings.ToLower(field) {
	case "theme":
		p.Theme = &value
	case "unit":
		p.Unit = &value
	case "grid", "snap", "autosave":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		switch strings.ToLower(field) {
		case "grid":
			p.GridEnabled = &b
		case "snap":
			p.SnapToGrid = &b
		default:
			p.AutoSave = &b
		}
	default:
		return fmt.Errorf("unknown setting %q", field)
	}
	_, err := c.ws.Settings.Apply(p)
	return err
}

// ============================================================
// Files
// ============================================================

func (c *CLI) handleRender(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: render <file.svg>")
	}
	d, err := c.current()
	if err != nil {
		return err
	}
	opts := render.SVGOptions{Grid: c.ws.Settings.Get().GridEnabled}
	if sel := c.ws.Store.SelectedElement(); sel != nil {
		opts.Selected = sel.ID
	}
	svg, err := render.NewRenderer(opts).Render(d)
	if err != nil {
		return err
	}
	if err := writeFile(args[0], []byte(svg)); err != nil {
		return err
	}
	c.printf("Wrote %s (%s)\n", args[0], humanize.Bytes(uint64(len(svg))))
	return nil
}

func (c *CLI) handleExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export <file.json>")
	}
	d, err := c.current()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	if err := writeFile(args[0], data); err != nil {
		return err
	}
	c.printf("Wrote %s (%s)\n", args[0], humanize.Bytes(uint64(len(data))))
	return nil
}

func (c *CLI) handleImport(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: import <file.svg> [name]")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if len(args) == 2 {
		name = args[1]
	}
	res, err := converter.Import(f, converter.Options{Name: name, Now: c.now()})
	if err != nil {
		return err
	}
	if err := c.ws.Store.Checked().LoadDesign(res.Design); err != nil {
		return err
	}
	c.printf("Imported %q: %d walls, %d doors, %d windows, %d rooms\n",
		res.Design.Name, res.Walls, res.Doors, res.Windows, res.Rooms)
	for _, s := range res.Skipped {
		c.printf("  skipped %s\n", s)
	}
	return nil
}

// ============================================================
// Helpers
// ============================================================

func (c *CLI) current() (*models.Design, error) {
	d := c.ws.Store.CurrentDesign()
	if d == nil {
		return nil, models.ErrNoCurrentDesign
	}
	return d, nil
}

// savedArg resolves a 1-based list position, a full id or a unique id
// prefix to a saved design.
func (c *CLI) savedArg(args []string, cmd string) (*models.Design, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: %s <#|id>", cmd)
	}
	saved := c.ws.Store.SavedDesigns()
	ids := make([]string, len(saved))
	for i, d := range saved {
		ids[i] = d.ID
	}
	i, err := resolve(ids, args[0])
	if err != nil {
		return nil, fmt.Errorf("design %q: %w", args[0], err)
	}
	return saved[i], nil
}

func (c *CLI) elementID(arg string) (string, error) {
	d, err := c.current()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(d.Elements))
	for i, e := range d.Elements {
		ids[i] = e.ID
	}
	i, err := resolve(ids, arg)
	if err != nil {
		return "", fmt.Errorf("element %q: %w", arg, err)
	}
	return ids[i], nil
}

func resolve(ids []string, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(ids) {
		return n - 1, nil
	}
	match := -1
	for i, id := range ids {
		if id == arg {
			return i, nil
		}
		if strings.HasPrefix(id, arg) {
			if match >= 0 {
				return -1, fmt.Errorf("ambiguous")
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("not found")
	}
	return match, nil
}

func indexOf(designs []*models.Design, id string) int {
	for i, d := range designs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// splitFields separates "key:value" arguments with a known key from
// positional ones.
func splitFields(args []string, keys ...string) ([]string, map[string]string) {
	var pos []string
	fields := make(map[string]string)
	for _, a := range args {
		k, v, ok := strings.Cut(a, ":")
		if ok && slices.Contains(keys, strings.ToLower(k)) {
			fields[strings.ToLower(k)] = v
			continue
		}
		pos = append(pos, a)
	}
	return pos, fields
}

func parseUpdate(fields map[string]string) (models.ElementUpdate, error) {
	var u models.ElementUpdate
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = &v
		case "color":
			u.Color = &v
		case "type":
			t, err := models.ParseElementType(v)
			if err != nil {
				return u, err
			}
			u.Type = &t
		case "furniture":
			ft, err := models.ParseFurnitureType(v)
			if err != nil {
				return u, err
			}
			u.FurnitureType = &ft
		case "locked":
			b, err := parseBool(v)
			if err != nil {
				return u, err
			}
			u.Locked = &b
		default:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return u, fmt.Errorf("%s: not a number: %q", k, v)
			}
			switch k {
			case "x":
				u.X = &f
			case "y":
				u.Y = &f
			case "width":
				u.Width = &f
			case "height":
				u.Height = &f
			case "rotation":
				u.Rotation = &f
			case "opacity":
				u.Opacity = &f
			}
		}
	}
	return u, nil
}

// parseRoom reads "400x350", "400x350cm" or "160x120inch".
func parseRoom(s string) (*models.Room, error) {
	unit := models.RoomUnitCM
	lower := strings.ToLower(s)
	for _, u := range []models.RoomUnit{models.RoomUnitInch, models.RoomUnitCM} {
		if strings.HasSuffix(lower, string(u)) {
			unit = u
			lower = strings.TrimSuffix(lower, string(u))
			break
		}
	}
	w, l, ok := strings.Cut(lower, "x")
	if !ok {
		return nil, fmt.Errorf("room: expected <width>x<length>, got %q", s)
	}
	nums, err := parseFloats([]string{w, l})
	if err != nil {
		return nil, fmt.Errorf("room: %w", err)
	}
	return &models.Room{Width: nums[0], Length: nums[1], Unit: unit}, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		out[i] = f
	}
	return out, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
