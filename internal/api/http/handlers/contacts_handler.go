package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contact-service/internal/api/dto"
	"github.com/spec-kit/contact-service/internal/service"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// ContactsHandler exposes the public intake plus dashboard reads.
type ContactsHandler struct {
	contacts *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{contacts: contactService}
}

// Create handles POST /api/contacto.
func (h *ContactsHandler) Create(c *fiber.Ctx) error {
	var req dto.ContactCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Datos inválidos")
	}

	req.Normalize()
	if fields := req.Validate(); len(fields) > 0 {
		return apperrors.NewValidationError("Datos inválidos", fields)
	}

	contact, err := h.contacts.Create(c.Context(), service.ContactInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Message:      req.Message,
		CaptchaToken: req.CaptchaToken,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Contacto guardado exitosamente",
		"id":      contact.ID,
	})
}

// List handles GET /api/dashboard/contactos.
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	contacts, err := h.contacts.List(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewContactListResponse(contacts),
	})
}

// Stats handles GET /api/dashboard/stats.
func (h *ContactsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.contacts.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
