// Package browser owns the shared headless Chrome instance used for
// website analysis.
package browser

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"site-cloner/pkg/config"
	"site-cloner/pkg/utils"
)

// LaunchFunc starts a browser and returns a connected handle.
// Injectable so tests can substitute a fake.
type LaunchFunc func() (*rod.Browser, error)

// Manager lazily launches one shared browser and hands out configured pages.
// Concurrent first callers are collapsed into a single launch via
// singleflight; the browser stays up until Release.
type Manager struct {
	mu      sync.Mutex
	browser *rod.Browser
	group   singleflight.Group
	cfg     config.BrowserConfig
	launch  LaunchFunc
	log     *logrus.Entry
}

// NewManager creates a manager around the given browser config.
func NewManager(cfg config.BrowserConfig, logger *logrus.Entry) *Manager {
	m := &Manager{
		cfg: cfg,
		log: logger.WithField("component", "browser"),
	}
	m.launch = m.defaultLaunch
	return m
}

// SetLaunchFunc overrides the launch function. Test use only.
func (m *Manager) SetLaunchFunc(f LaunchFunc) {
	m.launch = f
}

// Acquire returns the shared browser, launching it on first use. All callers
// racing on a cold manager share one launch attempt and one error.
func (m *Manager) Acquire() (*rod.Browser, error) {
	m.mu.Lock()
	if m.browser != nil {
		b := m.browser
		m.mu.Unlock()
		return b, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("launch", func() (interface{}, error) {
		m.mu.Lock()
		if m.browser != nil {
			b := m.browser
			m.mu.Unlock()
			return b, nil
		}
		m.mu.Unlock()

		m.log.Info("Launching headless browser")
		b, err := m.launch()
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.browser = b
		m.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*rod.Browser), nil
}

// NewPage opens a fresh page on the shared browser with the configured
// viewport and user agent applied. The caller is responsible for closing it.
func (m *Manager) NewPage() (*rod.Page, error) {
	b, err := m.Acquire()
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: create page: %v", utils.ErrBrowserLaunch, err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.ViewportWidth,
		Height:            m.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		m.log.WithError(err).Warn("Failed to set viewport, continuing with defaults")
	}

	if m.cfg.UserAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{
			UserAgent: m.cfg.UserAgent,
		}).Call(page); err != nil {
			m.log.WithError(err).Warn("Failed to set user agent, continuing with default")
		}
	}

	return page, nil
}

// Release closes the shared browser if running. A later Acquire relaunches.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser == nil {
		return
	}
	if err := m.browser.Close(); err != nil {
		m.log.WithError(err).Warn("Error closing browser")
	} else {
		m.log.Info("Browser released")
	}
	m.browser = nil
}

func (m *Manager) defaultLaunch() (*rod.Browser, error) {
	l := launcher.New().Headless(m.cfg.Headless)
	if m.cfg.NoSandbox {
		l = l.Set(flags.NoSandbox)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrBrowserLaunch, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect: %v", utils.ErrBrowserLaunch, err)
	}
	return b, nil
}
