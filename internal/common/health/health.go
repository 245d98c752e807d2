package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Probes struct {
	db      Pinger
	started atomic.Bool
}

func NewProbes(db Pinger) *Probes {
	return &Probes{db: db}
}

// MarkStarted flips the startup probe once initialisation is complete.
func (p *Probes) MarkStarted() {
	p.started.Store(true)
}

func (p *Probes) Register(r fiber.Router) {
	r.Get("/health/live", p.Liveness)
	r.Get("/health/ready", p.Readiness)
	r.Get("/health/startup", p.Startup)
}

// Liveness проверяет, что приложение работает
func (p *Probes) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness проверяет подключение к БД.
func (p *Probes) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Startup проверяет, что приложение успешно запустилось
func (p *Probes) Startup(c fiber.Ctx) error {
	if !p.started.Load() {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "starting"})
	}
	return c.JSON(fiber.Map{"status": "started"})
}
