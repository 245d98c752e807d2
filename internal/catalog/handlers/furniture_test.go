package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-planner/internal/catalog/models"
	"room-planner/internal/catalog/repository"
	"room-planner/internal/design/views"
	"room-planner/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	n, err := repo.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(views.Catalog()), n)

	app := fiber.New()
	NewFurnitureHandler(repo).Register(app.Group("/api"))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeList(t *testing.T, data []byte) []models.Furniture {
	t.Helper()
	var out []models.Furniture
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestListSortedByDownloadsThenRating(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, "GET", "/api/furniture", "")
	require.Equal(t, http.StatusOK, status)
	items := decodeList(t, body)
	require.Len(t, items, len(views.Catalog()))
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if prev.Downloads == cur.Downloads {
			assert.GreaterOrEqual(t, prev.Rating, cur.Rating)
		} else {
			assert.Greater(t, prev.Downloads, cur.Downloads)
		}
	}
}

func TestListFilters(t *testing.T) {
	app := newTestApp(t)

	_, body := call(t, app, "GET", "/api/furniture?category=bathroom", "")
	items := decodeList(t, body)
	require.Len(t, items, 3)
	for _, f := range items {
		assert.Equal(t, "bathroom", f.Category)
	}

	_, body = call(t, app, "GET", "/api/furniture?search=CHAIR", "")
	items = decodeList(t, body)
	require.Len(t, items, 2)

	_, body = call(t, app, "GET", "/api/furniture?limit=5", "")
	assert.Len(t, decodeList(t, body), 5)

	status, _ := call(t, app, "GET", "/api/furniture?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	app := newTestApp(t)

	for _, q := range []string{"_", "%25", "ch_ir", "%25chair", "%5C"} {
		status, body := call(t, app, "GET", "/api/furniture?search="+q, "")
		require.Equal(t, http.StatusOK, status, q)
		assert.Empty(t, decodeList(t, body), q)
	}
}

func TestCategories(t *testing.T) {
	app := newTestApp(t)
	status, body := call(t, app, "GET", "/api/furniture/categories", "")
	require.Equal(t, http.StatusOK, status)

	var cats []models.CategoryCount
	require.NoError(t, json.Unmarshal(body, &cats))
	require.NotEmpty(t, cats)
	assert.Equal(t, models.CategoryCount{Name: "all", Count: len(views.Catalog())}, cats[0])

	sum := 0
	for _, c := range cats[1:] {
		sum += c.Count
	}
	assert.Equal(t, cats[0].Count, sum)
}

func TestCRUDAndDownload(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, "POST", "/api/furniture", `{"name":"Stool","category":"kitchen","furnitureType":"chair","width":35,"depth":35,"rating":4}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created models.Furniture
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)

	status, body = call(t, app, "PUT", "/api/furniture/"+created.ID, `{"price":19.5}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var updated models.Furniture
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 19.5, updated.Price)
	assert.Equal(t, "Stool", updated.Name)

	status, body = call(t, app, "POST", "/api/furniture/"+created.ID+"/download", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"downloads":1`)

	status, _ = call(t, app, "DELETE", "/api/furniture/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, app, "GET", "/api/furniture/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, "DELETE", "/api/furniture/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, "POST", "/api/furniture/"+created.ID+"/download", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []string{
		`{"category":"kitchen"}`,
		`{"name":"X"}`,
		`{"name":"X","category":"c","furnitureType":"spaceship"}`,
		`{"name":"X","category":"c","width":-1}`,
		`{"name":"X","category":"c","rating":7}`,
		`not json`,
	}
	for _, body := range cases {
		status, _ := call(t, app, "POST", "/api/furniture", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, body := call(t, app, "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "ok")
}
