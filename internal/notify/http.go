package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// httpTransport posts messages to a transactional mail API.
type httpTransport struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.Logger
}

func newHTTPTransport(opts Options, logger *zap.Logger) (*httpTransport, error) {
	if opts.APIURL == "" {
		return nil, errors.New("notify.api_url is required for the http driver")
	}
	return &httpTransport{
		url:    opts.APIURL,
		apiKey: opts.APIKey,
		client: &http.Client{Timeout: opts.Timeout},
		log:    logger,
	}, nil
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (h *httpTransport) send(ctx context.Context, m Message) error {
	body, err := json.Marshal(mailRequest{From: m.From, To: m.To, Subject: m.Subject, HTML: m.HTML})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", m.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send %s: mail api status %d: %s", m.Kind, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	h.log.Debug("notification sent", zap.String("kind", m.Kind), zap.String("to", m.To))
	return nil
}
