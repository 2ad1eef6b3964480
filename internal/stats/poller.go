package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultInterval is the fixed refresh period of the dashboard.
const DefaultInterval = 5 * time.Second

// Poller fetches the statistics endpoint on a fixed interval and merges
// the payload into a Board. Failures are logged and the next tick tries
// again; there is no backoff.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	board    *Board
	onChange func([]Change)
	logger   *slog.Logger
}

// PollerOption customizes a Poller.
type PollerOption func(*Poller)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithHTTPClient sets the client used for fetches.
func WithHTTPClient(c *http.Client) PollerOption {
	return func(p *Poller) { p.client = c }
}

// WithOnChange registers a callback for non-empty change sets.
func WithOnChange(fn func([]Change)) PollerOption {
	return func(p *Poller) { p.onChange = fn }
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) { p.logger = l }
}

// NewPoller creates a Poller for url writing into board.
func NewPoller(url string, board *Board, opts ...PollerOption) *Poller {
	p := &Poller{
		url:      url,
		interval: DefaultInterval,
		client:   &http.Client{Timeout: 10 * time.Second},
		board:    board,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Run ticks until ctx is cancelled. Ticks run one after another, so a slow
// fetch delays the next one instead of overlapping it.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.Tick(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Dashboard stats refresh failed", "error", err, "url", p.url, "component", "Poller")
			}
		}
	}
}

// Tick performs one fetch and merge.
func (p *Poller) Tick(ctx context.Context) ([]Change, error) {
	s, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	changes := p.board.Apply(s)
	if len(changes) > 0 && p.onChange != nil {
		p.onChange(changes)
	}
	return changes, nil
}

// Fetch GETs and decodes one payload.
func (p *Poller) Fetch(ctx context.Context) (Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("creating stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Stats{}, fmt.Errorf("stats endpoint returned status %d", resp.StatusCode)
	}

	var s Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Stats{}, fmt.Errorf("decoding stats: %w", err)
	}
	return s, nil
}
