package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contact-service/internal/api/http/handlers"
	"github.com/spec-kit/contact-service/internal/auth"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Contacts *handlers.ContactsHandler
	Email    *handlers.EmailHandler
	Guard    *auth.Guard
}

// RegisterRoutes wires HTTP routes. Public routes: index, health, login and
// the contact intake; everything else sits behind the access guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/api/health", cfg.Health.Health)
	app.Get("/api/health/ready", cfg.Health.Ready)

	app.Post("/api/auth/login", cfg.Auth.Login)
	app.Get("/api/auth/verify", cfg.Guard.Handle, cfg.Auth.Verify)

	app.Post("/api/contacto", cfg.Contacts.Create)

	dashboard := app.Group("/api/dashboard", cfg.Guard.Handle)
	dashboard.Get("/contactos", cfg.Contacts.List)
	dashboard.Get("/stats", cfg.Contacts.Stats)
	dashboard.Post("/enviar-correo", cfg.Email.SendDirect)

	email := app.Group("/api/email", cfg.Guard.Handle)
	email.Post("/enviar-correo-contacto", cfg.Email.SendToContact)
	email.Post("/enviar-correo-masivo", cfg.Email.SendBulk)
	email.Get("/historial-correos", cfg.Email.History)

	// Catch-all 404 in the standard envelope.
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("Endpoint no encontrado")
	})
}
