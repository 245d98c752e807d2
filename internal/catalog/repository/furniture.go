package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"room-planner/internal/catalog/models"
	"room-planner/internal/design/views"
)

var ErrNotFound = errors.New("furniture not found")

// ============================================================
// Furniture Repository
// ============================================================

type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// likeEscaper quotes LIKE wildcards so search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

const furnitureColumns = `id, name, category, description, furniture_type, width, depth, height,
        price, rating, downloads, thumbnail, model_url, created_at, updated_at`

// List returns furniture ordered by downloads, then rating, both
// descending.
func (r *Repository) List(ctx context.Context, f models.Filter) ([]models.Furniture, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" && f.Category != "all" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		where = append(where, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
		pattern := "%" + likeEscaper.Replace(q) + "%"
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + furnitureColumns + ` FROM furniture`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY downloads DESC, rating DESC, name ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	out := []models.Furniture{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list furniture: %w", err)
	}
	return out, nil
}

// Categories returns {"all", total} followed by each category
// alphabetically.
func (r *Repository) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	var rows []models.CategoryCount
	query := `SELECT category AS name, COUNT(*) AS count FROM furniture GROUP BY category ORDER BY category`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	total := 0
	for _, c := range rows {
		total += c.Count
	}
	return append([]models.CategoryCount{{Name: "all", Count: total}}, rows...), nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Furniture, error) {
	var f models.Furniture
	query := r.db.Rebind(`SELECT ` + furnitureColumns + ` FROM furniture WHERE id = ?`)
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get furniture: %w", err)
	}
	return &f, nil
}

// Create validates f, assigns id and timestamps, and inserts it.
func (r *Repository) Create(ctx context.Context, f models.Furniture) (*models.Furniture, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	stamp := r.stamp()
	f.CreatedAt, f.UpdatedAt = stamp, stamp

	query := `INSERT INTO furniture (` + furnitureColumns + `) VALUES (
        :id, :name, :category, :description, :furniture_type, :width, :depth, :height,
        :price, :rating, :downloads, :thumbnail, :model_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return nil, fmt.Errorf("insert furniture: %w", err)
	}
	return &f, nil
}

func (r *Repository) Update(ctx context.Context, id string, p models.Patch) (*models.Furniture, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := p.Apply(*cur)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = r.stamp()

	query := `UPDATE furniture SET name = :name, category = :category, description = :description,
        furniture_type = :furniture_type, width = :width, depth = :depth, height = :height,
        price = :price, rating = :rating, thumbnail = :thumbnail, model_url = :model_url,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, next); err != nil {
		return nil, fmt.Errorf("update furniture: %w", err)
	}
	return &next, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM furniture WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete furniture: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementDownloads bumps the counter and returns the new value.
func (r *Repository) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	query := r.db.Rebind(`UPDATE furniture SET downloads = downloads + 1 WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("increment downloads: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, ErrNotFound
	}
	f, err := r.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return f.Downloads, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Seeding
// ============================================================

// Seed fills an empty catalog from the built-in palette and reports how
// many rows were inserted.
func (r *Repository) Seed(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM furniture`); err != nil {
		return 0, fmt.Errorf("count furniture: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	items := views.Catalog()
	for i, it := range items {
		f := models.Furniture{
			ID:            it.ID,
			Name:          it.Name,
			Category:      it.Category,
			Description:   fmt.Sprintf("%s for the %s", it.Name, it.Category),
			FurnitureType: string(it.FurnitureType),
			Width:         it.Width,
			Depth:         it.Height,
			Price:         float64(50 + 25*(i%8)),
			Rating:        float64(35+(i*7)%16) / 10,
			Downloads:     int64((len(items) - i) * 10),
		}
		if _, err := r.Create(ctx, f); err != nil {
			return i, fmt.Errorf("seed %s: %w", it.ID, err)
		}
	}
	return len(items), nil
}

func (r *Repository) stamp() string {
	return r.now().UTC().Format(time.RFC3339)
}
