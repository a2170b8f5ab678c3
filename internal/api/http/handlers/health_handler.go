package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contact-service/internal/persistence"
)

// HealthHandler responds to the API index and health probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Index handles GET / with the endpoint directory.
func (h *HealthHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "API de Contactos",
		"version": h.version,
		"endpoints": fiber.Map{
			"POST /api/auth/login":                   "Iniciar sesión",
			"GET /api/auth/verify":                   "Verificar token (protegido)",
			"POST /api/contacto":                     "Crear nuevo contacto (público)",
			"GET /api/dashboard/contactos":           "Obtener todos los contactos (protegido)",
			"GET /api/dashboard/stats":               "Obtener estadísticas (protegido)",
			"POST /api/dashboard/enviar-correo":      "Enviar correo (protegido)",
			"POST /api/email/enviar-correo-contacto": "Enviar correo a un contacto (protegido)",
			"POST /api/email/enviar-correo-masivo":   "Envío masivo (protegido)",
			"GET /api/email/historial-correos":       "Historial de correos (protegido)",
			"GET /api/health":                        "Estado de la API",
		},
	})
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "API funcionando correctamente",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
	} else {
		depStatus["redis"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"success":      true,
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success":      false,
		"message":      "Dependencias no disponibles",
		"dependencies": depStatus,
	})
}
