package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/contact-service/internal/domain"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

var phonePattern = regexp.MustCompile(`^[0-9+\s\-().]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ContactCreateRequest is the public intake payload.
type ContactCreateRequest struct {
	FullName     string `json:"nombre_completo" validate:"required,min=3,max=100"`
	Email        string `json:"correo" validate:"required,email"`
	Phone        string `json:"telefono" validate:"required,telefono"`
	Message      string `json:"mensaje" validate:"required,min=5,max=1000"`
	CaptchaToken string `json:"recaptchaToken" validate:"required"`
}

// Normalize trims surrounding whitespace so length rules apply to the
// meaningful content.
func (r *ContactCreateRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.CaptchaToken = strings.TrimSpace(r.CaptchaToken)
}

var contactMessages = map[string]map[string]string{
	"nombre_completo": {
		"required": "El nombre completo es requerido",
		"min":      "El nombre debe tener al menos 3 caracteres",
		"max":      "El nombre no puede tener más de 100 caracteres",
	},
	"correo": {
		"required": "El correo es requerido",
		"email":    "El correo no es válido",
	},
	"telefono": {
		"required": "El teléfono es requerido",
		"telefono": "El teléfono no es válido",
	},
	"mensaje": {
		"required": "El mensaje es requerido",
		"min":      "El mensaje debe tener al menos 5 caracteres",
		"max":      "El mensaje no puede tener más de 1000 caracteres",
	},
	"recaptchaToken": {
		"required": "El token de reCAPTCHA es requerido",
	},
}

// Validate checks the schema and returns one message per failing field.
func (r ContactCreateRequest) Validate() []apperrors.FieldError {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Field: "", Message: "Datos inválidos"}}
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "Datos inválidos"
		if byTag, ok := contactMessages[fe.Field()]; ok {
			if m, ok := byTag[fe.Tag()]; ok {
				msg = m
			}
		}
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: msg})
	}
	return fields
}

// ContactResponse is a stored submission as exposed to the dashboard.
type ContactResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"nombre_completo"`
	Email        string    `json:"correo"`
	Phone        string    `json:"telefono"`
	Message      string    `json:"mensaje"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// NewContactResponse maps a domain contact.
func NewContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID,
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		Message:      c.Message,
		RegisteredAt: c.RegisteredAt,
	}
}

// NewContactListResponse maps a slice of domain contacts.
func NewContactListResponse(contacts []domain.Contact) []ContactResponse {
	resp := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		resp = append(resp, NewContactResponse(&contacts[i]))
	}
	return resp
}
