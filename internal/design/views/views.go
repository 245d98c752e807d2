// Package views holds read-only projections over designs. Nothing here
// mutates its inputs.
package views

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"room-planner/internal/design/models"
)

// ============================================================
// Stats
// ============================================================

type Stats struct {
	TotalDesigns    int        `json:"totalDesigns"`
	TotalElements   int        `json:"totalElements"`
	AverageElements int        `json:"averageElements"`
	LastUpdated     *time.Time `json:"lastUpdated"`
}

// ComputeStats aggregates over designs. An empty collection yields zero
// average and a nil LastUpdated.
func ComputeStats(designs []*models.Design) Stats {
	var s Stats
	s.TotalDesigns = len(designs)
	for _, d := range designs {
		s.TotalElements += d.ElementCount()
		if s.LastUpdated == nil || d.UpdatedAt.After(*s.LastUpdated) {
			t := d.UpdatedAt
			s.LastUpdated = &t
		}
	}
	if s.TotalDesigns > 0 {
		s.AverageElements = int(math.Round(float64(s.TotalElements) / float64(s.TotalDesigns)))
	}
	return s
}

// ============================================================
// Search
// ============================================================

// Search matches query case-insensitively against name and description.
// A blank query returns every design in its original order.
func Search(designs []*models.Design, query string) []*models.Design {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Design, 0, len(designs))
	for _, d := range designs {
		if q == "" ||
			strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			out = append(out, d)
		}
	}
	return out
}

// ============================================================
// Filter + sort
// ============================================================

type SortKey string

const (
	SortByName     SortKey = "name"
	SortByCreated  SortKey = "created"
	SortByUpdated  SortKey = "updated"
	SortByElements SortKey = "elements"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSort normalises user supplied sort parameters. Empty values fall
// back to most recently updated first.
func ParseSort(key, order string) (SortKey, SortOrder, error) {
	k := SortKey(strings.ToLower(key))
	switch k {
	case "":
		k = SortByUpdated
	case SortByName, SortByCreated, SortByUpdated, SortByElements:
	default:
		return "", "", models.NewValidationError("sort", "unknown sort key "+key)
	}

	o := SortOrder(strings.ToLower(order))
	switch o {
	case "":
		o = Desc
	case Asc, Desc:
	default:
		return "", "", models.NewValidationError("order", "unknown sort order "+order)
	}
	return k, o, nil
}

type Options struct {
	Query    string
	Category string
	// Predicate is an optional extra filter applied after Query/Category.
	Predicate func(*models.Design) bool
	SortBy    SortKey
	Order     SortOrder
}

// FilterSort filters designs and returns them in a deterministic order.
// Ties keep the input order regardless of direction.
func FilterSort(designs []*models.Design, opts Options) []*models.Design {
	out := Search(designs, opts.Query)
	if opts.Category != "" && opts.Category != "all" {
		out = slices.DeleteFunc(out, func(d *models.Design) bool {
			return !strings.EqualFold(d.Category, opts.Category)
		})
	}
	if opts.Predicate != nil {
		out = slices.DeleteFunc(out, func(d *models.Design) bool {
			return !opts.Predicate(d)
		})
	}

	if opts.SortBy == "" {
		return out
	}
	desc := opts.Order == Desc
	slices.SortStableFunc(out, func(a, b *models.Design) int {
		c := compareBy(opts.SortBy, a, b)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func compareBy(key SortKey, a, b *models.Design) int {
	switch key {
	case SortByName:
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortByCreated:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByUpdated:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByElements:
		return cmp.Compare(a.ElementCount(), b.ElementCount())
	}
	return 0
}

// ============================================================
// Recency
// ============================================================

const recentDays = 7

// IsRecent reports whether d was updated within the last seven calendar
// days of now. Both instants are reduced to their UTC date first.
func IsRecent(d *models.Design, now time.Time) bool {
	return DaysBetween(d.UpdatedAt, now) <= recentDays
}

// DaysBetween is the absolute calendar-day distance between a and b.
func DaysBetween(a, b time.Time) int {
	da := utcDate(a)
	db := utcDate(b)
	days := int(db.Sub(da).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
