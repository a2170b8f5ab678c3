package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/contact-service/internal/config"
)

// ErrVerificationFailed means the verification service rejected the token.
type ErrVerificationFailed struct {
	Codes []string
}

func (e ErrVerificationFailed) Error() string {
	if len(e.Codes) == 0 {
		return "captcha verification failed"
	}
	return "captcha verification failed: " + strings.Join(e.Codes, ", ")
}

// Verifier checks that a submission token came from a human.
type Verifier interface {
	Enabled() bool
	Verify(ctx context.Context, token string) error
}

// HTTPVerifier calls the reCAPTCHA siteverify endpoint. The secret comes
// only from configuration; with no secret the verifier is disabled.
type HTTPVerifier struct {
	cfg    config.CaptchaConfig
	client *http.Client
}

// NewHTTPVerifier builds a verifier from config.
func NewHTTPVerifier(cfg config.CaptchaConfig) *HTTPVerifier {
	return &HTTPVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Enabled reports whether a secret is configured.
func (v *HTTPVerifier) Enabled() bool {
	return v.cfg.Enabled()
}

// Verify forwards the token to the verification service.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) error {
	form := url.Values{
		"secret":   {v.cfg.Secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("captcha response: %w", err)
	}

	if !payload.Success {
		return ErrVerificationFailed{Codes: payload.ErrorCodes}
	}
	return nil
}
