package publisher

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/hoopsline/wnba-updates/pkg/ledger"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/metrics"
)

// MaxLength is the platform's per-post character limit
const MaxLength = 280

const ellipsis = "..."

// Poster submits one status update and returns its platform id
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

// Post is one message to publish
type Post struct {
	Kind string // metrics label, e.g. morning_odds
	Key  string // ledger key; empty disables dedup for this post
	Text string
}

type Status string

const (
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome reports what happened to a post. Err is set only for StatusFailed.
type Outcome struct {
	Status Status
	PostID string
	Text   string
	Err    error
}

// Truncate shortens text longer than MaxLength characters to exactly
// MaxLength, the last three being an ellipsis
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxLength-len(ellipsis)]) + ellipsis
}

// Publisher truncates, dedups and submits posts. Failures are logged and
// returned in the Outcome, never as errors.
type Publisher struct {
	poster Poster
	ledger ledger.Ledger
	logger *logger.Logger
}

func New(poster Poster, l ledger.Ledger, log *logger.Logger) *Publisher {
	if l == nil {
		l = ledger.NopLedger{}
	}
	return &Publisher{
		poster: poster,
		ledger: l,
		logger: log,
	}
}

func (p *Publisher) Publish(ctx context.Context, post Post) Outcome {
	text := Truncate(post.Text)
	if text != post.Text {
		metrics.PostsTruncated.Inc()
		p.logger.Debug().
			Str("post_kind", post.Kind).
			Int("original_length", utf8.RuneCountInString(post.Text)).
			Msg("Post truncated to platform limit")
	}

	outcome := p.publish(ctx, post, text)
	metrics.PostsTotal.WithLabelValues(post.Kind, string(outcome.Status)).Inc()
	p.logger.LogPost(post.Kind, utf8.RuneCountInString(text), string(outcome.Status), outcome.Err)
	return outcome
}

func (p *Publisher) publish(ctx context.Context, post Post, text string) Outcome {
	if post.Key != "" {
		claimed, err := p.ledger.Claim(ctx, post.Key, text)
		if err != nil {
			// ledger outages must not block posting
			p.logger.Warn().
				Err(err).
				Str("post_key", post.Key).
				Str("action", "ledger_unavailable").
				Msg("Could not claim post key, posting without dedup")
		} else if !claimed {
			p.logger.Info().
				Str("post_key", post.Key).
				Str("action", "post_duplicate").
				Msg("Post already published in this window")
			return Outcome{Status: StatusSkipped, Text: text}
		}
	}

	id, err := p.poster.Post(ctx, text)
	if err != nil {
		if post.Key != "" {
			if releaseErr := p.ledger.Release(ctx, post.Key); releaseErr != nil {
				p.logger.Error().Err(releaseErr).Str("post_key", post.Key).Msg("Failed to release post key")
			}
		}
		return Outcome{Status: StatusFailed, Text: text, Err: fmt.Errorf("submit %s post: %w", post.Kind, err)}
	}

	return Outcome{Status: StatusPublished, PostID: id, Text: text}
}
