// Package watcher reloads a configuration file when it changes.
//
// The directory holding the file is watched rather than the file itself,
// so editors that save by writing a new file and renaming it over the old
// one are seen too. Bursts of events are debounced into one reload.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/logging"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 100 * time.Millisecond

// ErrDirNotExist indicates the config file's directory does not exist.
var ErrDirNotExist = errors.New("config directory does not exist")

// Update is delivered after every reload attempt.
type Update struct {
	// Config is the reloaded, validated configuration. It is nil when Err
	// is set.
	Config *config.Config

	// Warnings lists the settings Validate reset to defaults.
	Warnings error

	// Err is a load or watch failure.
	Err error

	// Time is when the reload happened.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithEnv applies environment overrides on every reload.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(w *Watcher) {
		w.lookup = lookup
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// Watcher reloads one config file on change.
type Watcher struct {
	path     string
	debounce time.Duration
	lookup   func(string) (string, bool)
	log      *logging.Logger

	fsw     *fsnotify.Watcher
	updates chan Update

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// New starts watching the config file at path. The file need not exist
// yet, but its directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     filepath.Clean(abs),
		debounce: DefaultDebounce,
		updates:  make(chan Update),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logging.Discard()
	}
	w.log = w.log.WithComponent("config-watcher").With("path", w.path)

	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDirNotExist
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Updates returns the channel reloads are delivered on. It is closed by
// Close.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()
	defer close(w.updates)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("config event", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
			w.send(Update{Err: err, Time: time.Now()})

		case <-fire:
			fire = nil
			w.send(w.reload())
		}
	}
}

// relevant reports whether ev concerns the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() Update {
	now := time.Now()
	cfg, err := config.Load(w.path)
	if err != nil {
		w.log.Warn("reload failed", "err", err)
		return Update{Err: err, Time: now}
	}

	var warnings []error
	if w.lookup != nil {
		if err := cfg.ApplyEnv(w.lookup); err != nil {
			warnings = append(warnings, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		warnings = append(warnings, err)
	}
	w.log.Info("config reloaded")
	return Update{Config: cfg, Warnings: errors.Join(warnings...), Time: now}
}

// send delivers u unless the watcher is closing.
func (w *Watcher) send(u Update) {
	select {
	case w.updates <- u:
	case <-w.closeCh:
	}
}
