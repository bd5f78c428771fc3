package pdfservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Client talks to the external HTML-to-PDF converter. The converter owns
// pagination: it resolves the page geometry directives and the running
// footer counters embedded in the markup.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, seconds int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(seconds) * time.Second},
	}
}

// FromHTML posts the styled markup and returns the paged document bytes.
func (c *Client) FromHTML(ctx context.Context, html []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/convert/html", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timed out: %w", err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request canceled: %w", err)
		}

		var netErr net.Error
		if errors.As(err, &netErr) {
			if netErr.Timeout() {
				return nil, fmt.Errorf("network timeout: %w", err)
			}
			return nil, fmt.Errorf("network error: %w", err)
		}

		return nil, fmt.Errorf("failed to reach pdf service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		pdf, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read pdf response: %w", err)
		}
		return pdf, nil

	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("pdf service unavailable")

	default:
		return nil, fmt.Errorf("unexpected response from pdf service: %s", resp.Status)
	}
}
