package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/logger"
)

// XPoster creates posts through the X API v2 with OAuth 1.0a user context
type XPoster struct {
	endpoint string
	client   *http.Client
	logger   *logger.Logger
}

func NewXPoster(cfg *config.Config, log *logger.Logger) *XPoster {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	base := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)

	oauthConfig := oauth1.NewConfig(cfg.X.APIKey, cfg.X.APISecret)
	token := oauth1.NewToken(cfg.X.AccessToken, cfg.X.AccessTokenSecret)

	// oauth1 reuses only the base transport, so the timeout is set again here
	client := oauthConfig.Client(ctx, token)
	client.Timeout = base.Timeout

	return &XPoster{
		endpoint: strings.TrimRight(cfg.X.BaseURL, "/") + "/2/tweets",
		client:   client,
		logger:   log,
	}
}

type createPostRequest struct {
	Text string `json:"text"`
}

type createPostResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (x *XPoster) Post(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createPostRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := x.client.Do(req)
	if err != nil {
		x.logger.LogAPICall(http.MethodPost, x.endpoint, 0, time.Since(start), err)
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		x.logger.LogAPICall(http.MethodPost, x.endpoint, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var created createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		x.logger.LogAPICall(http.MethodPost, x.endpoint, resp.StatusCode, time.Since(start), err)
		return "", fmt.Errorf("decode response: %w", err)
	}

	x.logger.LogAPICall(http.MethodPost, x.endpoint, resp.StatusCode, time.Since(start), nil)
	return created.Data.ID, nil
}

// LogPoster only writes posts to the log; used for dry runs and when
// credentials are missing
type LogPoster struct {
	logger *logger.Logger
}

func NewLogPoster(log *logger.Logger) *LogPoster {
	return &LogPoster{logger: log}
}

func (l *LogPoster) Post(ctx context.Context, text string) (string, error) {
	l.logger.Info().
		Str("action", "dry_run_post").
		Str("text", text).
		Msg("Post not submitted (dry run)")
	return "dry-run", nil
}
