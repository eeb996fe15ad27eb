package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/config"

	"github.com/rs/zerolog"
)

// WhatsAppSender sends order notifications through the Twilio messaging API
// using basic credential auth. Configuration is held behind a mutex so the
// admin settings endpoint can update it at runtime without racing in-flight
// sends.
type WhatsAppSender struct {
	mu     sync.RWMutex
	cfg    config.WhatsAppConfig
	client *http.Client
	logger zerolog.Logger
}

// NewWhatsAppSender creates a sender with the given initial configuration.
func NewWhatsAppSender(cfg config.WhatsAppConfig, logger zerolog.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger.With().Str("component", "whatsapp").Logger(),
	}
}

// Update replaces configuration fields with any non-empty values from the
// supplied config. This is the documented reload operation backing the admin
// settings endpoint.
func (s *WhatsAppSender) Update(cfg config.WhatsAppConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.AccountSID != "" {
		s.cfg.AccountSID = cfg.AccountSID
	}
	if cfg.AuthToken != "" {
		s.cfg.AuthToken = cfg.AuthToken
	}
	if cfg.FromNumber != "" {
		s.cfg.FromNumber = cfg.FromNumber
	}
	if cfg.ToNumber != "" {
		s.cfg.ToNumber = cfg.ToNumber
	}
	if cfg.BaseURL != "" {
		s.cfg.BaseURL = cfg.BaseURL
	}

	s.logger.Info().Msg("whatsapp configuration updated")
}

// SendNewOrder sends the fixed-format new-order notification to the
// configured admin recipient.
func (s *WhatsAppSender) SendNewOrder(ctx context.Context, agentName string) error {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	return s.SendWith(ctx, cfg, agentName)
}

// SendWith sends the new-order notification using an explicit configuration.
// The admin test endpoint uses this to probe credentials before saving them.
func (s *WhatsAppSender) SendWith(ctx context.Context, cfg config.WhatsAppConfig, agentName string) error {
	if cfg.AccountSID != "" && !strings.HasPrefix(cfg.AccountSID, "AC") {
		return fmt.Errorf("invalid account SID format: must start with AC")
	}

	var missing []string
	if cfg.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if cfg.ToNumber == "" {
		missing = append(missing, "ADMIN_WHATSAPP_NUMBER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("whatsapp not configured, missing: %s", strings.Join(missing, ", "))
	}

	form := url.Values{}
	form.Set("To", whatsAppNumber(cfg.ToNumber))
	form.Set("From", whatsAppNumber(cfg.FromNumber))
	form.Set("Body", fmt.Sprintf("YOU HAVE A NEW ORDER FROM %s", agentName))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimSuffix(cfg.BaseURL, "/"), cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call messaging API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		var result struct {
			SID string `json:"sid"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		s.logger.Info().Str("message_sid", result.SID).Msg("whatsapp notification sent")
		return nil
	}

	var apiErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("messaging API authentication failed (code %d): %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("messaging API error: status %d (code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
}

// whatsAppNumber ensures the channel prefix the API expects.
func whatsAppNumber(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
