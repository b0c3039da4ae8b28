package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lively_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// ReviewsSubmitted counts accepted reviews, labelled by whether the
	// artist had to be created for them.
	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lively_reviews_submitted_total",
		Help: "Total number of reviews accepted",
	}, []string{"artist_created"})

	// SessionsOpened counts successful logins and registrations.
	SessionsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lively_sessions_opened_total",
		Help: "Total number of sessions opened",
	}, []string{"via"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics middleware. The collectors
// register with the default registry once, so repeated calls share one instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request metrics, skipping the scrape endpoint itself.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return p.Middleware(c)
	}
}
