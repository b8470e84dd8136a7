package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Manager owns the browser process behind a Source. It launches a local
// headless instance on first use, or attaches to an already-running browser
// via its remote debugging URL, and tears everything down on Close.
type Manager struct {
	mu          sync.Mutex
	browser     *rod.Browser
	lnch        *launcher.Launcher
	browserURL  string
	headful     bool
	userDataDir string
	logger      *slog.Logger
	closed      bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBrowserURL attaches to an already-running browser's remote debugging
// endpoint instead of launching one.
func WithBrowserURL(rawURL string) ManagerOption {
	return func(m *Manager) {
		m.browserURL = rawURL
	}
}

// WithHeadful launches the browser with a visible window.
func WithHeadful(headful bool) ManagerOption {
	return func(m *Manager) {
		m.headful = headful
	}
}

// WithUserDataDir sets the browser profile directory. Empty means a
// throwaway profile managed by the launcher.
func WithUserDataDir(dir string) ManagerOption {
	return func(m *Manager) {
		m.userDataDir = dir
	}
}

// WithManagerLogger sets a custom logger for browser lifecycle events.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager. No browser starts until the first Browser
// call.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Browser returns the connected browser handle, launching or attaching on
// the first call. Concurrent callers share one instance.
func (m *Manager) Browser() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return m.browser, nil
	}

	b, err := m.connect()
	if err != nil {
		return nil, err
	}
	m.browser = b
	return b, nil
}

// connect launches a local browser or attaches to a remote one. Callers
// hold the mutex.
func (m *Manager) connect() (*rod.Browser, error) {
	var wsURL string

	if m.browserURL != "" {
		wsURL = m.browserURL
		m.logger.Info("attaching to running browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(!m.headful)
		if m.userDataDir != "" {
			l = l.UserDataDir(m.userDataDir)
		}
		// Some pages change behavior when they detect automation; hide it.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.logger.Info("launched browser", "headful", m.headful)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if m.lnch != nil {
			m.lnch.Cleanup()
			m.lnch = nil
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	if err := b.IgnoreCertErrors(true); err != nil {
		m.logger.Warn("ignore cert errors failed", "error", err)
	}

	return b, nil
}

// Close shuts the manager down. A launched browser is killed and its
// temporary profile removed; an attached browser is left running.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.browser != nil {
		if m.lnch != nil {
			if err := m.browser.Close(); err != nil {
				m.logger.Warn("browser close failed", "error", err)
			}
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}
