package browser

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
)

// mobileWidthCutoff is the viewport width below which the device metrics
// report a mobile device. Responsive pages frequently gate their phone
// layout on the device flag, not just the width.
const mobileWidthCutoff = 768

//go:embed snapshot.js
var dumpScript string

// digestScript samples a cheap structural digest of the document: element
// count plus serialized length. Two consecutive equal samples mean the DOM
// has settled.
const digestScript = `() => {
	const count = document.getElementsByTagName('*').length;
	const root = document.documentElement;
	return count + ':' + (root ? root.outerHTML.length : 0);
}`

// Source renders live pages through a managed browser. One stealth page is
// opened per render and closed when the dump completes, so independent
// renders never share page state.
type Source struct {
	manager          *Manager
	userAgent        string
	pollInterval     time.Duration
	stabilityTimeout time.Duration
	logger           *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithUserAgent overrides the User-Agent reported during navigation.
func WithUserAgent(userAgent string) Option {
	return func(s *Source) {
		s.userAgent = userAgent
	}
}

// WithStabilityWait overrides the DOM settle wait: the digest sampling
// interval and the bound after which a still-mutating page is captured
// as-is and flagged partial.
func WithStabilityWait(interval, timeout time.Duration) Option {
	return func(s *Source) {
		if interval > 0 {
			s.pollInterval = interval
		}
		if timeout > 0 {
			s.stabilityTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for render events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSource creates a Source over the given manager.
func NewSource(manager *Manager, opts ...Option) *Source {
	s := &Source{
		manager:          manager,
		userAgent:        config.DefaultUserAgent,
		pollInterval:     config.DefaultStabilityPollInterval,
		stabilityTimeout: config.DefaultStabilityTimeout,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render navigates a fresh stealth page to the URL at the breakpoint's
// viewport size, waits for the document digest to stabilize, and dumps the
// element tree. A page that cannot be reached wraps
// dom.ErrInaccessibleDocument; a digest that never settles yields a partial
// snapshot instead of an error.
func (s *Source) Render(ctx context.Context, rawURL string, bp model.Breakpoint) (*dom.Snapshot, error) {
	b, err := s.manager.Browser()
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Debug("page close failed", "error", err)
		}
	}()

	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             bp.Width,
		Height:            bp.Height,
		DeviceScaleFactor: 1,
		Mobile:            bp.Width < mobileWidthCutoff,
	}); err != nil {
		return nil, fmt.Errorf("browser: set viewport %dx%d: %w", bp.Width, bp.Height, err)
	}

	if s.userAgent != "" {
		override := proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent}
		if err := override.Call(page); err != nil {
			s.logger.Warn("user agent override failed", "error", err)
		}
	}

	s.logger.Debug("rendering", "url", rawURL, "breakpoint", bp.Name)

	if err := page.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %v: %w", rawURL, err, dom.ErrInaccessibleDocument)
	}
	if err := page.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("browser: load %s: %w", rawURL, ctx.Err())
		}
		s.logger.Warn("load event did not fire, capturing anyway", "url", rawURL, "error", err)
	}

	stable := s.waitStable(ctx, page)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("browser: render %s: %w", rawURL, err)
	}
	if !stable {
		s.logger.Warn("document never settled, capturing as-is",
			"url", rawURL,
			"breakpoint", bp.Name,
			"timeout", s.stabilityTimeout,
		)
	}

	res, err := page.Eval(dumpScript)
	if err != nil {
		return nil, fmt.Errorf("browser: dump document: %w", err)
	}

	snap, err := dom.LoadSnapshot(strings.NewReader(res.Value.Str()))
	if err != nil {
		return nil, err
	}
	snap.Partial = !stable
	if snap.URL == "" {
		snap.URL = rawURL
	}
	return snap, nil
}

// waitStable polls the document digest until it stops changing.
func (s *Source) waitStable(ctx context.Context, page *rod.Page) bool {
	return waitForStableDigest(ctx, func() (string, error) {
		res, err := page.Eval(digestScript)
		if err != nil {
			return "", err
		}
		return res.Value.Str(), nil
	}, s.pollInterval, s.stabilityTimeout)
}

// waitForStableDigest polls sample every interval until two consecutive
// samples agree, the timeout expires, or the context ends. Only agreement
// reports stable. A sampling error discards the previous sample, so the
// next pair must agree from scratch.
func waitForStableDigest(ctx context.Context, sample func() (string, error), interval, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	prev, err := sample()
	if err != nil {
		prev = ""
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
			cur, err := sample()
			if err != nil {
				prev = ""
				continue
			}
			if cur != "" && cur == prev {
				return true
			}
			prev = cur
		}
	}
}

// Concurrent reports that renders may run in parallel; every render owns
// its own page.
func (s *Source) Concurrent() bool { return true }

// Name identifies the source in logs.
func (s *Source) Name() string { return "browser" }

// Close shuts down the managed browser.
func (s *Source) Close() error {
	return s.manager.Close()
}
