package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hoopsline/wnba-updates/pkg/logger"
)

// APIError is returned when a provider answers with a non-2xx status
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d from %s", e.StatusCode, e.URL)
}

// newHTTPClient builds the client shared by every provider call
func newHTTPClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &http.Client{
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// getJSON issues a GET with the given query and headers and decodes the body into out
func getJSON(ctx context.Context, client *http.Client, log *logger.Logger, endpoint string, params url.Values, headers map[string]string, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	// query strings carry the API key, keep them out of logs
	logURL := u.Scheme + "://" + u.Host + u.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to make request: %w", err)
		log.LogAPICall(http.MethodGet, logURL, 0, time.Since(start), err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, URL: logURL}
		log.LogAPICall(http.MethodGet, logURL, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed to decode response: %w", err)
		log.LogAPICall(http.MethodGet, logURL, resp.StatusCode, time.Since(start), err)
		return err
	}

	log.LogAPICall(http.MethodGet, logURL, resp.StatusCode, time.Since(start), nil)
	return nil
}
