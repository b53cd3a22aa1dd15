package notify

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Metrics is an in-process request counter registry keyed by
// "resource|statusClass", e.g. "questions|2xx". Counters are atomics behind
// an RWMutex-guarded map, so the middleware stays off the write lock on the
// hot path.
type Metrics struct {
	mu       sync.RWMutex
	counters map[string]*int64
}

func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]*int64)}
}

func (m *Metrics) inc(key string) {
	m.mu.RLock()
	p, ok := m.counters[key]
	m.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, 1)
		return
	}
	m.mu.Lock()
	p, ok = m.counters[key]
	if !ok {
		v := int64(1)
		m.counters[key] = &v
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	atomic.AddInt64(p, 1)
}

// Get returns the current count for a resource and status class.
func (m *Metrics) Get(resource, statusClass string) int64 {
	m.mu.RLock()
	p, ok := m.counters[resource+"|"+statusClass]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

// Snapshot returns a copy of all counters.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string]int64, len(m.counters))
	for k, p := range m.counters {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

// Middleware counts every completed request by route group and status class.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			resource := resourceGroup(c.Request().URL.Path)
			class := statusClass(c.Response().Status)
			m.inc(resource + "|" + class)
			return err
		}
	}
}

// resourceGroup returns the first path segment after /api/v1/, the bare
// path segment otherwise ("health" for /health).
func resourceGroup(path string) string {
	rest := strings.TrimPrefix(path, "/api/v1/")
	rest = strings.TrimPrefix(rest, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "root"
	}
	return rest
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// Pusher periodically posts a metrics snapshot to a webhook. It is the one
// long-lived background goroutine in each binary; Stop blocks until it exits.
type Pusher struct {
	metrics  *Metrics
	client   *resty.Client
	url      string
	service  string
	interval time.Duration
	logger   zerolog.Logger

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func NewPusher(metrics *Metrics, webhookURL, service string, interval time.Duration, logger zerolog.Logger) *Pusher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Pusher{
		metrics:  metrics,
		client:   resty.New().SetTimeout(10 * time.Second).SetHeader("Content-Type", "application/json"),
		url:      webhookURL,
		service:  service,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the push loop. No-op when the webhook URL is empty.
func (p *Pusher) Start() {
	if p.url == "" {
		close(p.stopped)
		return
	}
	go p.loop()
}

func (p *Pusher) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	<-p.stopped
}

func (p *Pusher) loop() {
	defer close(p.stopped)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.push()
		case <-p.done:
			return
		}
	}
}

func (p *Pusher) push() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	body := map[string]interface{}{
		"service":   p.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"counters":  p.metrics.Snapshot(),
	}
	resp, err := p.client.R().SetContext(ctx).SetBody(body).Post(p.url)
	if err != nil {
		p.logger.Warn().Err(err).Msg("metrics push failed")
		return
	}
	if resp.IsError() {
		p.logger.Warn().Int("status", resp.StatusCode()).Msg("metrics webhook rejected snapshot")
	}
}
