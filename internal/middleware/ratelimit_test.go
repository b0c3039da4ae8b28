package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(rdb *redis.Client, limit int, policy FailPolicy) *fiber.App {
	app := fiber.New()
	app.Post("/api/login", RateLimitWithPolicy(rdb, limit, time.Minute, policy, "login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, mr.TTL("rl:login:ip:1.2.3.4") > 0)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window must reset after expiry")
}

func TestCheckRateLimit_BypassedOutsideProduction(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:x", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimit_Returns429(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := newLimitedApp(rdb, 1, FailOpen)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_FailPolicies(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	resp, err := newLimitedApp(nil, 5, FailOpen).Test(httptest.NewRequest("POST", "/api/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = newLimitedApp(nil, 5, FailClosed).Test(httptest.NewRequest("POST", "/api/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
