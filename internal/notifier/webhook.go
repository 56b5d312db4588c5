package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WebhookNotifier uploads the report image to a file host and posts the
// public link with a caption to a webhook.
type WebhookNotifier struct {
	WebhookURL string
	UploadURL  string
	client     *resty.Client
	logger     zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier with optional proxy support.
func NewWebhookNotifier(webhookURL, uploadURL string, timeout time.Duration, proxyURL string) *WebhookNotifier {
	client := resty.New().SetTimeout(timeout)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &WebhookNotifier{
		WebhookURL: webhookURL,
		UploadURL:  uploadURL,
		client:     client,
		logger:     log.With().Str("component", "webhook_notifier").Logger(),
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

type webhookPayload struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

// Notify uploads the alert image and posts it to the webhook.
func (w *WebhookNotifier) Notify(ctx context.Context, alert *Alert) error {
	imageURL, err := w.Upload(ctx, alert.ImagePath)
	if err != nil {
		return err
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{ImageURL: imageURL, Caption: alert.Caption}).
		Post(w.WebhookURL)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	w.logger.Info().Str("ticker", alert.Candidate.Ticker).Str("image_url", imageURL).Msg("alert sent")
	return nil
}

// Upload sends the file as multipart form field "file" and returns its public URL.
func (w *WebhookNotifier) Upload(ctx context.Context, path string) (string, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetFile("file", path).
		Post(w.UploadURL)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return parseUploadURL(resp.Body())
}

// parseUploadURL accepts either a JSON object carrying "link" or "url", or a
// plain-text body holding the URL.
func parseUploadURL(body []byte) (string, error) {
	var result struct {
		Link string `json:"link"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(body, &result); err == nil {
		if result.Link != "" {
			return result.Link, nil
		}
		if result.URL != "" {
			return result.URL, nil
		}
	}
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return text, nil
	}
	return "", fmt.Errorf("upload response has no url: %s", text)
}
