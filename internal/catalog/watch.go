package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
	"github.com/fyrsmithlabs/triage/internal/logging"
	"github.com/fyrsmithlabs/triage/internal/metrics"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize rule file watcher")

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay between the last change and a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherMetrics records reload outcomes.
func WithWatcherMetrics(m *metrics.Metrics) WatcherOption {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// Watcher rebuilds the knowledge base whenever its rule file changes.
//
// The parent directory is watched rather than the file itself so editors that
// save by rename keep triggering reloads. A file that fails to load or build
// is logged and skipped; the previous knowledge base stays in effect.
type Watcher struct {
	path     string
	logger   *logging.Logger
	metrics  *metrics.Metrics
	debounce time.Duration

	watcher  *fsnotify.Watcher
	updates  chan *knowledge.KnowledgeBase
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewWatcher creates a watcher for the rule file at path.
func NewWatcher(path string, logger *logging.Logger, opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("rule file path is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving rule file path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	w := &Watcher{
		path:     abs,
		logger:   logger.Named("catalog.watcher"),
		debounce: DefaultDebounce,
		watcher:  fw,
		updates:  make(chan *knowledge.KnowledgeBase, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Reloaded knowledge bases arrive on Updates until the
// context is done or Stop is called, after which Updates is closed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.started = true
	go w.processEvents(ctx)
	w.logger.Debug(ctx, "watching rule file", zap.String("path", w.path))
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
		if w.started {
			<-w.done
		} else {
			close(w.updates)
		}
	})
}

// Updates returns the channel of rebuilt knowledge bases. Only the newest
// unread update is kept.
func (w *Watcher) Updates() <-chan *knowledge.KnowledgeBase {
	return w.updates
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.updates)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Trace(ctx, "rule file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "rule file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	kb, err := w.build()
	w.metrics.ObserveReload(err)
	if err != nil {
		w.logger.Warn(ctx, "rule file reload failed, keeping previous rules",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	stats := kb.Stats()
	w.metrics.SetKnowledgeBase(stats)
	w.logger.Info(ctx, "rules reloaded",
		zap.String("path", w.path),
		zap.Int("rules", stats.Total()),
		zap.Int("shadowed", stats.Shadowed))

	// Replace an unread update rather than block the event loop.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- kb:
	default:
	}
}

func (w *Watcher) build() (*knowledge.KnowledgeBase, error) {
	c, err := LoadFile(w.path)
	if err != nil {
		return nil, err
	}
	return c.Build()
}
