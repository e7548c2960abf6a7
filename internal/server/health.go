package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// LivenessCheck reports that the process is serving.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck reports database and Redis health. Redis is optional: a disabled
// cache keeps the service ready, an unreachable one does not.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{
		"database": s.probeDatabase(ctx),
		"redis":    s.probeRedis(ctx),
	}

	overall, code := statusHealthy, fiber.StatusOK
	if checks["database"] != statusHealthy || checks["redis"] == statusUnhealthy {
		overall, code = statusUnhealthy, fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
		"time":   time.Now(),
	})
}

func (s *Server) probeDatabase(ctx context.Context) string {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return statusUnhealthy
	}
	return statusHealthy
}

func (s *Server) probeRedis(ctx context.Context) string {
	if s.redis == nil {
		return statusDisabled
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}
