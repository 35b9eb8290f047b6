// Package tika extracts plain text from documents via an Apache Tika server.
package tika

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

const defaultTimeout = 60 * time.Second

// Extractor implements domain.Extractor against Tika's PUT /tika endpoint.
type Extractor struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Config holds Tika server settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a Tika extractor.
func New(cfg *Config) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Extractor{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

// Extract streams the file to Tika and returns the extracted plain text.
// Unreadable or unparseable files are reported as ErrExtractionFailed;
// ingestion degrades on that instead of failing the batch.
func (e *Extractor) Extract(ctx context.Context, filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", filename, domain.ErrExtractionFailed, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.baseURL+"/tika", f)
	if err != nil {
		return "", fmt.Errorf("build tika request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request for %s: %w: %w", filename, domain.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("tika returned %d for %s: %s: %w",
			resp.StatusCode, filename, strings.TrimSpace(string(body)), domain.ErrExtractionFailed)
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tika response for %s: %w: %w", filename, domain.ErrExtractionFailed, err)
	}

	return strings.TrimSpace(string(text)), nil
}
