// Package watch reports changes to a single source file.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period that ends a burst of writes.
const DefaultDebounce = 100 * time.Millisecond

// Event is one burst of changes to the watched file.
type Event struct {
	Path string
	// Ops is the union of the operations seen during the burst.
	Ops fsnotify.Op
	At  time.Time
}

// Watcher watches one file through its directory, so editors that replace
// the file by renaming are still followed.
type Watcher struct {
	w        *fsnotify.Watcher
	path     string
	debounce time.Duration

	evC  chan Event
	erC  chan error
	done chan struct{}
	once sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero emits one event per change.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New starts watching path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		w:        fw,
		path:     abs,
		debounce: DefaultDebounce,
		evC:      make(chan Event, 16),
		erC:      make(chan error, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.evC)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending fsnotify.Op
	)
	emit := func() {
		select {
		case w.evC <- Event{Path: w.path, Ops: pending, At: time.Now()}:
		case <-w.done:
		}
		pending = 0
	}

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			pending |= ev.Op
			if w.debounce <= 0 {
				emit()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if pending != 0 {
				emit()
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.erC <- err:
			default:
			}
		}
	}
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events delivers one event per burst. It is closed after Close.
func (w *Watcher) Events() <-chan Event { return w.evC }

// Errors delivers watcher errors. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error { return w.erC }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.w.Close()
	})
	return err
}
