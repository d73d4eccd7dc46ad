// Package offline keeps the application shell reachable without a network.
// A controller pre-caches the shell pages, intercepts outgoing requests with
// a network-first strategy, and replays cached responses when the network
// fails. It runs as a message-passing actor: the foreground talks to it
// through Post and Updates, never through shared memory.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State is a controller lifecycle phase.
type State string

const (
	// StateInstalling covers shell pre-caching.
	StateInstalling State = "installing"
	// StateWaiting means a newer controller installed behind an active one
	// and is holding until told to take over.
	StateWaiting State = "waiting"
	// StateActive means the controller owns request interception.
	StateActive State = "active"
	// StateRedundant means the controller was replaced or shut down.
	StateRedundant State = "redundant"
)

// Control message types understood by Post.
const (
	// MessageSkipWaiting promotes a waiting controller to active.
	MessageSkipWaiting = "SKIP_WAITING"
	// MessageCacheURLs pre-caches additional URLs into the current store.
	MessageCacheURLs = "CACHE_URLS"
)

// UpdateAvailable is the only outbound notification type.
const UpdateAvailable = "UPDATE_AVAILABLE"

// Message is an inbound control message.
type Message struct {
	Type    string
	Payload []string
}

// Update is an outbound notification to the foreground.
type Update struct {
	Type    string
	Version string
}

// Fetcher performs the actual network request. The default is a plain
// http.Client; tests substitute a fake to simulate outages.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a controller.
type Options struct {
	// Fetcher handles network requests. Defaults to http.DefaultClient.
	Fetcher Fetcher
	// Caches manages the versioned stores. Defaults to in-memory.
	Caches CacheOpener
	// Version tags this controller's cache store. Required.
	Version string
	// Shell lists the URLs pre-cached at install.
	Shell []string
	// OfflinePath is the cached page served for failed navigations.
	OfflinePath string
	// CachePrefix namespaces store names. Defaults to "centavo-offline".
	CachePrefix string
}

// Controller implements the offline strategy for one cache version.
type Controller struct {
	fetcher     Fetcher
	caches      CacheOpener
	id          string
	version     string
	prefix      string
	offlinePath string
	shell       []string

	msgs    chan Message
	updates chan Update
	done    chan struct{}

	mu       sync.Mutex
	state    State
	degraded bool
}

// NewController builds a controller in the installing state. Nothing happens
// until Start.
func NewController(opts Options) (*Controller, error) {
	if strings.TrimSpace(opts.Version) == "" {
		return nil, errors.New("controller version cannot be empty")
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = http.DefaultClient
	}
	caches := opts.Caches
	if caches == nil {
		caches = NewMemoryCaches()
	}
	prefix := opts.CachePrefix
	if prefix == "" {
		prefix = "centavo-offline"
	}
	return &Controller{
		fetcher:     fetcher,
		caches:      caches,
		id:          uuid.NewString(),
		version:     opts.Version,
		prefix:      prefix,
		offlinePath: opts.OfflinePath,
		shell:       opts.Shell,
		msgs:        make(chan Message, 16),
		updates:     make(chan Update, 4),
		done:        make(chan struct{}),
		state:       StateInstalling,
	}, nil
}

// ID identifies this controller instance in logs and notifications.
func (c *Controller) ID() string { return c.id }

// Version returns the cache version tag.
func (c *Controller) Version() string { return c.version }

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Updates delivers outbound notifications. The channel is buffered; slow
// consumers drop notifications rather than block the controller.
func (c *Controller) Updates() <-chan Update { return c.updates }

// Post sends a control message to the controller. It never blocks; messages
// beyond the buffer are dropped with a log line.
func (c *Controller) Post(msg Message) {
	select {
	case c.msgs <- msg:
	default:
		slog.Warn("dropped controller message", "type", msg.Type, "controller", c.id)
	}
}

// Start installs the controller and runs its message loop until ctx is
// cancelled or Stop is called. Install failure degrades the controller to
// network-only forwarding instead of failing Start.
func (c *Controller) Start(ctx context.Context) {
	c.install(ctx)
	go c.loop(ctx)
}

// Stop retires the controller. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRedundant {
		return
	}
	c.state = StateRedundant
	close(c.done)
}

func (c *Controller) storeName() string {
	return c.prefix + "-" + c.version
}

// install pre-caches the shell and decides whether to activate immediately
// or wait behind an existing generation.
func (c *Controller) install(ctx context.Context) {
	slog.Info("installing offline controller", "controller", c.id, "version", c.version)

	if err := c.cacheURLs(ctx, c.shell); err != nil {
		slog.Error("shell pre-cache failed, serving network-only", "error", err, "controller", c.id)
		c.mu.Lock()
		c.degraded = true
		c.state = StateActive
		c.mu.Unlock()
		return
	}

	stale := c.staleStores()
	if len(stale) > 0 {
		// An older generation is still live. Hold until the foreground
		// tells us to take over, and let it know an update is ready.
		c.mu.Lock()
		c.state = StateWaiting
		c.mu.Unlock()
		c.notify(Update{Type: UpdateAvailable, Version: c.version})
		slog.Info("offline controller waiting", "controller", c.id, "version", c.version)
		return
	}
	c.activate()
}

// activate sweeps stale cache generations and takes over interception.
func (c *Controller) activate() {
	for _, name := range c.staleStores() {
		slog.Info("deleting stale cache store", "store", name, "controller", c.id)
		c.caches.Delete(name)
	}
	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()
	slog.Info("offline controller active", "controller", c.id, "version", c.version)
}

// staleStores lists stores from other versions under our prefix.
func (c *Controller) staleStores() []string {
	var stale []string
	for _, name := range c.caches.Names() {
		if strings.HasPrefix(name, c.prefix+"-") && name != c.storeName() {
			stale = append(stale, name)
		}
	}
	return stale
}

func (c *Controller) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-c.done:
			return
		case msg := <-c.msgs:
			c.handle(ctx, msg)
		}
	}
}

func (c *Controller) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case MessageSkipWaiting:
		c.mu.Lock()
		waiting := c.state == StateWaiting
		c.mu.Unlock()
		if waiting {
			c.activate()
		}
	case MessageCacheURLs:
		if err := c.cacheURLs(ctx, msg.Payload); err != nil {
			slog.Error("failed to cache requested urls", "error", err, "controller", c.id)
		}
	default:
		slog.Debug("ignoring unknown controller message", "type", msg.Type, "controller", c.id)
	}
}

func (c *Controller) notify(update Update) {
	select {
	case c.updates <- update:
	default:
		slog.Warn("dropped controller update", "type", update.Type, "controller", c.id)
	}
}

// cacheURLs fetches each URL and stores successful responses. Any failure
// aborts the batch.
func (c *Controller) cacheURLs(ctx context.Context, urls []string) error {
	store := c.caches.Open(c.storeName())
	for _, url := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %q: %w", url, err)
		}
		resp, err := c.fetcher.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %q: %w", url, err)
		}
		cached, err := snapshot(resp)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", url, err)
		}
		if cached.Status != http.StatusOK {
			return fmt.Errorf("unexpected status %d caching %q", cached.Status, url)
		}
		store.Put(cacheKey(req), cached)
	}
	return nil
}

// Fetch applies the network-first strategy: forward the request, cache
// successful GET responses, and on network failure fall back to the cache,
// then to the offline page for navigations, then to a synthetic 503.
func (c *Controller) Fetch(req *http.Request) (*http.Response, error) {
	if req.URL == nil || !strings.HasPrefix(req.URL.Scheme, "http") {
		return c.fetcher.Do(req)
	}

	c.mu.Lock()
	degraded := c.degraded
	c.mu.Unlock()

	resp, err := c.fetcher.Do(req)
	if err == nil {
		if !degraded && req.Method == http.MethodGet && resp.StatusCode == http.StatusOK {
			cached, snapErr := snapshot(resp)
			if snapErr != nil {
				return nil, snapErr
			}
			c.caches.Open(c.storeName()).Put(cacheKey(req), cached)
			return cached.httpResponse(req), nil
		}
		return resp, nil
	}
	if degraded {
		return synthetic503(req), nil
	}

	store := c.caches.Open(c.storeName())
	if cached, ok := store.Match(cacheKey(req)); ok {
		slog.Debug("served from cache", "url", req.URL.String(), "controller", c.id)
		return cached.httpResponse(req), nil
	}
	if isNavigation(req) && c.offlinePath != "" {
		if cached, ok := store.Match(c.offlinePath); ok {
			slog.Debug("served offline page", "url", req.URL.String(), "controller", c.id)
			return cached.httpResponse(req), nil
		}
	}
	return synthetic503(req), nil
}

// cacheKey is the request URL, reduced to its path for same-origin requests
// so install-time keys ("/dashboard") and full URLs hit the same entry.
func cacheKey(req *http.Request) string {
	if req.URL.Path != "" {
		return req.URL.Path
	}
	return req.URL.String()
}

// isNavigation detects page navigations the way browsers label them.
func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}

// snapshot drains a response body into a replayable CachedResponse.
func snapshot(resp *http.Response) (CachedResponse, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CachedResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}
	return CachedResponse{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

// httpResponse rebuilds a replayable http.Response from the snapshot.
func (r CachedResponse) httpResponse(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    r.Status,
		Status:        http.StatusText(r.Status),
		Header:        r.Header.Clone(),
		Body:          io.NopCloser(strings.NewReader(string(r.Body))),
		ContentLength: int64(len(r.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}

func synthetic503(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Status:     http.StatusText(http.StatusServiceUnavailable),
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader("Offline")),
		Request:    req,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
	}
}
