package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends one email. Demo reports whether messages are only logged.
type Mailer interface {
	Send(ctx context.Context, email Email) error
	Demo() bool
}

// ResendMailer posts to the Resend email API.
type ResendMailer struct {
	httpClient *http.Client
	url        string
	apiKey     string
	from       string
}

func NewResendMailer(url, apiKey, from string, timeout time.Duration) *ResendMailer {
	return &ResendMailer{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		apiKey:     apiKey,
		from:       from,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorData, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email API error: %s", bytes.TrimSpace(errorData))
	}
	return nil
}

func (m *ResendMailer) Demo() bool { return false }

// DemoMailer logs the message instead of sending it.
type DemoMailer struct {
	logger *zap.Logger
}

func NewDemoMailer(logger *zap.Logger) *DemoMailer {
	return &DemoMailer{logger: logger}
}

func (m *DemoMailer) Send(ctx context.Context, email Email) error {
	m.logger.Info("demo email notification",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("html", email.HTML),
		zap.String("text", email.Text),
	)
	return nil
}

func (m *DemoMailer) Demo() bool { return true }
