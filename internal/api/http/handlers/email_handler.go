package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contact-service/internal/api/dto"
	"github.com/spec-kit/contact-service/internal/auth"
	"github.com/spec-kit/contact-service/internal/service"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// EmailHandler exposes notification email endpoints.
type EmailHandler struct {
	emails *service.EmailService
}

// NewEmailHandler constructs handler.
func NewEmailHandler(emailService *service.EmailService) *EmailHandler {
	return &EmailHandler{emails: emailService}
}

// SendDirect handles POST /api/dashboard/enviar-correo. Free-form send, no
// history row.
func (h *EmailHandler) SendDirect(c *fiber.Ctx) error {
	var req dto.SendDirectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Faltan datos requeridos: to, subject, message")
	}
	if req.To == "" || req.Subject == "" || req.Message == "" {
		return apperrors.NewBadRequest("Faltan datos requeridos: to, subject, message")
	}

	if err := h.emails.SendDirect(c.Context(), req.To, req.Subject, req.Message); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Correo enviado correctamente",
	})
}

// SendToContact handles POST /api/email/enviar-correo-contacto.
func (h *EmailHandler) SendToContact(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Token no proporcionado")
	}

	var req dto.SendToContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Faltan datos: contactoId, asunto y mensaje son requeridos")
	}
	if req.ContactID == "" || req.Subject == "" || req.Message == "" {
		return apperrors.NewBadRequest("Faltan datos: contactoId, asunto y mensaje son requeridos")
	}

	detail, err := h.emails.SendToContact(c.Context(), principal.UserID, req.ContactID, req.Subject, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Correo enviado exitosamente",
		"data":    detail,
	})
}

// SendBulk handles POST /api/email/enviar-correo-masivo.
func (h *EmailHandler) SendBulk(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Token no proporcionado")
	}

	var req dto.BulkSendRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Asunto y mensaje son requeridos")
	}
	if req.Subject == "" || req.Message == "" {
		return apperrors.NewBadRequest("Asunto y mensaje son requeridos")
	}

	input := service.BulkInput{
		ContactIDs: req.ContactIDs,
		Subject:    req.Subject,
		Message:    req.Message,
	}
	if req.Filters != nil {
		input.Filter = &service.BulkFilter{Tipo: req.Filters.Tipo, Dias: req.Filters.Dias}
	}

	result, err := h.emails.SendBulk(c.Context(), principal.UserID, input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Envío masivo completado",
		"resultados": result,
	})
}

// History handles GET /api/email/historial-correos.
func (h *EmailHandler) History(c *fiber.Ctx) error {
	contactID := c.Query("contactoId")
	limit := c.QueryInt("limite", 50)

	entries, err := h.emails.History(c.Context(), contactID, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewEmailLogResponse(entries),
	})
}
