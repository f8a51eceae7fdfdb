// Package email sends transactional mail through an HTTP provider API.
// A dev-mode sender logs messages instead of delivering them so local
// environments never need provider credentials.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Message is one outbound email
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers transactional email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPSender delivers mail through a Resend-compatible HTTP API
type HTTPSender struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// HTTPConfig holds provider configuration for HTTPSender
type HTTPConfig struct {
	APIURL      string
	APIKey      string
	FromAddress string
}

// NewHTTPSender creates a provider-backed sender
func NewHTTPSender(config HTTPConfig) *HTTPSender {
	return &HTTPSender{
		apiURL: config.APIURL,
		apiKey: config.APIKey,
		from:   config.FromAddress,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts the message to the provider API
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		var apiErr sendResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}

	return nil
}

// DevSender logs messages instead of delivering them
type DevSender struct {
	logger *logrus.Logger
}

// NewDevSender creates a log-only sender for local development
func NewDevSender(logger *logrus.Logger) *DevSender {
	return &DevSender{logger: logger}
}

// Send logs the message and reports success
func (s *DevSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Dev mode: email not sent")
	return nil
}
