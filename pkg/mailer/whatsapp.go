package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type WhatsAppMessage struct {
	To   string
	Body string
}

// WhatsAppSender delivers one text message. Demo reports whether messages
// are only logged.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error
	Demo() bool
}

// GraphWhatsApp posts text messages to the WhatsApp Cloud API.
type GraphWhatsApp struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewGraphWhatsApp builds the messages endpoint of phoneNumberID under
// baseURL, e.g. https://graph.facebook.com/v18.0.
func NewGraphWhatsApp(baseURL, phoneNumberID, token string, timeout time.Duration) *GraphWhatsApp {
	return &GraphWhatsApp{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimRight(baseURL, "/") + "/" + phoneNumberID + "/messages",
		token:      token,
	}
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func (w *GraphWhatsApp) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error {
	body, err := json.Marshal(whatsAppRequest{
		MessagingProduct: "whatsapp",
		To:               msg.To,
		Type:             "text",
		Text:             whatsAppText{Body: msg.Body},
	})
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorData, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("WhatsApp API error: %s", bytes.TrimSpace(errorData))
	}
	return nil
}

func (w *GraphWhatsApp) Demo() bool { return false }

// DemoWhatsApp logs the message instead of sending it.
type DemoWhatsApp struct {
	logger *zap.Logger
}

func NewDemoWhatsApp(logger *zap.Logger) *DemoWhatsApp {
	return &DemoWhatsApp{logger: logger}
}

func (w *DemoWhatsApp) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error {
	w.logger.Info("demo whatsapp notification", zap.String("to", msg.To), zap.String("body", msg.Body))
	return nil
}

func (w *DemoWhatsApp) Demo() bool { return true }
