// Package quota looks up remaining data quota for a phone number
// against an ordered list of upstream providers, falling back to the
// next provider when one fails, and renders the result as Telegram
// HTML.
package quota

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/lastsymphony/kuotabot/core/logger"
)

// ErrNotFound means the upstream answered but knows nothing about the
// number. It is terminal: falling back to another provider would just
// repeat the answer.
var ErrNotFound = errors.New("number not found")

// Provider performs a quota lookup against a single upstream and
// renders the provider-specific HTML report.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, msisdn string) (string, error)
}

// Client tries providers in order until one produces a report.
type Client struct {
	providers []Provider
}

// NewClient builds a Client over the given providers. Order matters:
// the first provider is the preferred one.
func NewClient(providers ...Provider) *Client {
	return &Client{providers: providers}
}

// Lookup returns the HTML report from the first provider that
// succeeds. ErrNotFound stops the chain; any other failure is logged
// and the next provider is tried. The last provider's error is
// returned when all fail.
func (c *Client) Lookup(ctx context.Context, msisdn string) (string, error) {
	if len(c.providers) == 0 {
		return "", errors.New("no quota providers configured")
	}

	var lastErr error
	for i, p := range c.providers {
		report, err := p.Lookup(ctx, msisdn)
		if err == nil {
			return report, nil
		}
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		lastErr = fmt.Errorf("%s: %w", p.Name(), err)
		if i < len(c.providers)-1 {
			logger.LogEvent(ctx, logger.Quota, slog.LevelWarn, "quota.fallback",
				slog.String("provider", p.Name()),
				slog.String("err", err.Error()),
			)
		}
	}
	return "", lastErr
}
