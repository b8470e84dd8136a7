package browser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/framecap/internal/config"
)

// quietLogger returns a logger that discards output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNewSource tests source construction and option wiring.
func TestNewSource(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()

		s := NewSource(NewManager())
		if s.userAgent != config.DefaultUserAgent {
			t.Errorf("got %q, expected %q", s.userAgent, config.DefaultUserAgent)
		}
		if s.pollInterval != config.DefaultStabilityPollInterval {
			t.Errorf("got %v, expected %v", s.pollInterval, config.DefaultStabilityPollInterval)
		}
		if s.stabilityTimeout != config.DefaultStabilityTimeout {
			t.Errorf("got %v, expected %v", s.stabilityTimeout, config.DefaultStabilityTimeout)
		}
		if s.Name() != "browser" {
			t.Errorf("got %q, expected %q", s.Name(), "browser")
		}
		if !s.Concurrent() {
			t.Error("expected concurrent renders")
		}
	})

	t.Run("options override defaults", func(t *testing.T) {
		t.Parallel()

		s := NewSource(NewManager(),
			WithUserAgent("probe/1.0"),
			WithStabilityWait(5*time.Millisecond, 100*time.Millisecond),
			WithLogger(quietLogger()),
		)
		if s.userAgent != "probe/1.0" {
			t.Errorf("got %q, expected %q", s.userAgent, "probe/1.0")
		}
		if s.pollInterval != 5*time.Millisecond {
			t.Errorf("got %v, expected %v", s.pollInterval, 5*time.Millisecond)
		}
		if s.stabilityTimeout != 100*time.Millisecond {
			t.Errorf("got %v, expected %v", s.stabilityTimeout, 100*time.Millisecond)
		}
	})

	t.Run("non-positive stability wait is ignored", func(t *testing.T) {
		t.Parallel()

		s := NewSource(NewManager(), WithStabilityWait(0, -time.Second))
		if s.pollInterval != config.DefaultStabilityPollInterval {
			t.Errorf("got %v, expected %v", s.pollInterval, config.DefaultStabilityPollInterval)
		}
		if s.stabilityTimeout != config.DefaultStabilityTimeout {
			t.Errorf("got %v, expected %v", s.stabilityTimeout, config.DefaultStabilityTimeout)
		}
	})
}

// TestWaitForStableDigest tests the settle-wait polling loop.
func TestWaitForStableDigest(t *testing.T) {
	t.Parallel()

	t.Run("reports stable when consecutive samples agree", func(t *testing.T) {
		t.Parallel()

		sample := func() (string, error) { return "12:3456", nil }

		if !waitForStableDigest(context.Background(), sample, time.Millisecond, 5*time.Second) {
			t.Error("expected a constant digest to report stable")
		}
	})

	t.Run("reports unstable when samples never settle", func(t *testing.T) {
		t.Parallel()

		calls := 0
		sample := func() (string, error) {
			calls++
			return strconv.Itoa(calls), nil
		}

		if waitForStableDigest(context.Background(), sample, time.Millisecond, 30*time.Millisecond) {
			t.Error("expected an ever-changing digest to report unstable")
		}
	})

	t.Run("sampling error resets the comparison", func(t *testing.T) {
		t.Parallel()

		calls := 0
		sample := func() (string, error) {
			calls++
			if calls == 2 {
				return "", errors.New("detached frame")
			}
			return "7:100", nil
		}

		if !waitForStableDigest(context.Background(), sample, time.Millisecond, 5*time.Second) {
			t.Error("expected stability after the error cleared")
		}
		if calls < 4 {
			t.Errorf("got %d samples, expected at least 4: the pre-error sample must not pair with the post-error one", calls)
		}
	})

	t.Run("persistent sampling errors never report stable", func(t *testing.T) {
		t.Parallel()

		sample := func() (string, error) { return "", errors.New("context canceled") }

		if waitForStableDigest(context.Background(), sample, time.Millisecond, 30*time.Millisecond) {
			t.Error("expected failing samples to report unstable")
		}
	})

	t.Run("context cancellation stops the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		timer := time.AfterFunc(10*time.Millisecond, cancel)
		defer timer.Stop()

		calls := 0
		sample := func() (string, error) {
			calls++
			return strconv.Itoa(calls), nil
		}

		start := time.Now()
		if waitForStableDigest(ctx, sample, time.Millisecond, 10*time.Second) {
			t.Error("expected cancellation to report unstable")
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("wait ran %v after cancellation, expected a prompt return", elapsed)
		}
	})
}

// TestNewManager tests manager construction and option wiring.
func TestNewManager(t *testing.T) {
	t.Parallel()

	m := NewManager(
		WithBrowserURL("ws://127.0.0.1:9222/devtools/browser/abc"),
		WithHeadful(true),
		WithUserDataDir("/tmp/profile"),
		WithManagerLogger(quietLogger()),
	)
	if m.browserURL != "ws://127.0.0.1:9222/devtools/browser/abc" {
		t.Errorf("got %q, expected the configured control URL", m.browserURL)
	}
	if !m.headful {
		t.Error("expected headful mode")
	}
	if m.userDataDir != "/tmp/profile" {
		t.Errorf("got %q, expected %q", m.userDataDir, "/tmp/profile")
	}
}

// TestManagerClose tests shutdown behavior without launching a browser.
func TestManagerClose(t *testing.T) {
	t.Parallel()

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		m := NewManager(WithManagerLogger(quietLogger()))
		if err := m.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := m.Close(); err != nil {
			t.Fatalf("unexpected error on second close: %v", err)
		}
	})

	t.Run("browser after close fails", func(t *testing.T) {
		t.Parallel()

		m := NewManager(WithManagerLogger(quietLogger()))
		if err := m.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := m.Browser(); err == nil {
			t.Error("expected an error from a closed manager")
		} else if !strings.Contains(err.Error(), "closed") {
			t.Errorf("got %q, expected the error to mention the closed manager", err)
		}
	})
}

// TestDumpScriptContract tests that the embedded script carries the names
// the Go side depends on: the synthetic svg attribute (exact casing), the
// scroll metric keys, and the style properties the traversal reads.
func TestDumpScriptContract(t *testing.T) {
	t.Parallel()

	if dumpScript == "" {
		t.Fatal("dump script was not embedded")
	}

	for _, marker := range []string{
		"outerHTML",
		"scrollWidth",
		"scrollHeight",
		"background-color",
		"background-image",
		"font-family",
		"z-index",
		"box-shadow",
		"flex-direction",
		"text-decoration-line",
	} {
		if !strings.Contains(dumpScript, marker) {
			t.Errorf("dump script is missing %q", marker)
		}
	}
}
