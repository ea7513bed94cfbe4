package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"photo-picker/internal/logging"
	"photo-picker/internal/metrics"
)

// defaultDebounce is how long the notifier waits after the last raw event
// before fanning out, so bursts (imports, album moves) collapse into one
// notification.
const defaultDebounce = 500 * time.Millisecond

// Subscription is an observer's handle. The owner signals its own teardown
// by calling Unsubscribe.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. Safe to call more than once; after it
// returns, no new delivery to this handle begins.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.mu.Lock()
	if _, ok := s.notifier.subs[s.id]; ok {
		delete(s.notifier.subs, s.id)
		metrics.ObserversGauge.Dec()
	}
	s.notifier.mu.Unlock()
}

// Notifier watches the library root and delivers library-changed events.
type Notifier struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	subs   map[uint64]func()
	nextID uint64

	signal chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// New creates a Notifier watching root and its album directories. Start
// must be called to begin delivery.
func New(root string) (*Notifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(watcher, root); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logging.Warn("Failed to close watcher: %v", closeErr)
		}
		return nil, err
	}

	n := newNotifier(defaultDebounce)
	n.watcher = watcher
	return n, nil
}

// NewManual creates a Notifier with no filesystem watcher. Events are
// injected with Notify; used by tests and by callers that drive
// notifications from their own change detection.
func NewManual() *Notifier {
	return newNotifier(time.Millisecond)
}

func newNotifier(debounce time.Duration) *Notifier {
	return &Notifier{
		debounce: debounce,
		subs:     make(map[uint64]func()),
		signal:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// Subscribe registers fn to run on every library-changed event. fn runs on
// the notifier's dispatch goroutine and must not block for long.
func (n *Notifier) Subscribe(fn func()) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.subs[n.nextID] = fn
	metrics.ObserversGauge.Inc()
	return &Subscription{id: n.nextID, notifier: n}
}

// Notify injects a library-changed event, as if the store reported one.
func (n *Notifier) Notify() {
	select {
	case n.signal <- struct{}{}:
	default:
		// A signal is already pending; events carry no detail, so
		// coalescing loses nothing.
	}
}

// Start begins watching and dispatching. It returns immediately.
func (n *Notifier) Start() {
	if n.watcher != nil {
		go n.watchLoop()
	}
	go n.dispatchLoop()
}

// Close stops dispatch and releases the filesystem watcher. Pending
// deliveries finish first.
func (n *Notifier) Close() error {
	close(n.stop)
	<-n.done
	if n.watcher != nil {
		return n.watcher.Close()
	}
	return nil
}

// watchLoop translates raw fsnotify events into coalesced signals and
// keeps newly created album directories under watch.
func (n *Notifier) watchLoop() {
	for {
		select {
		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := n.watcher.Add(event.Name); err != nil {
						logging.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logging.Debug("Library change detected: %s (%s)", event.Name, event.Op)
				n.Notify()
			}
		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Watcher error: %v", err)
		case <-n.stop:
			return
		}
	}
}

// dispatchLoop is the single delivery context. It debounces signals and
// invokes observers one at a time.
func (n *Notifier) dispatchLoop() {
	defer close(n.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-n.signal:
			if timer == nil {
				timer = time.NewTimer(n.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(n.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			n.deliver()
		case <-n.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// deliver invokes every live observer. The subscription map is re-checked
// per observer so an Unsubscribe that completed during this fan-out round
// is honored.
func (n *Notifier) deliver() {
	metrics.ChangeNotificationsTotal.Inc()

	n.mu.Lock()
	ids := make([]uint64, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	n.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n.mu.Lock()
		fn := n.subs[id]
		n.mu.Unlock()
		if fn == nil {
			// Torn down between snapshot and delivery; skip silently.
			continue
		}
		fn()
	}
}
