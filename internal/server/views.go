package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
)

const (
	// ViewHeader carries the view ID between the page and the API.
	ViewHeader      = "X-View-ID"
	viewIdleTimeout = 30 * time.Minute
)

// View is the canvas of one loaded page.
type View interface {
	Show(ctx context.Context, cat overlay.Category, pos int) (*overlay.Layer, error)
	ToggleOutline(ctx context.Context) (*overlay.Layer, error)
	State() overlay.State
	Close()
}

type viewEntry struct {
	view     View
	lastSeen time.Time
}

// views hands every loaded page its own View, keyed by the ID the page
// sends in ViewHeader. Views idle for longer than viewIdleTimeout are closed.
type views struct {
	open  func() View
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]*viewEntry
}

func newViews(open func() View, clock clockwork.Clock) *views {
	return &views{open: open, clock: clock, entries: make(map[string]*viewEntry)}
}

// forRequest returns the caller's view. A request without a known view ID
// gets a new view, and its ID is returned in ViewHeader.
func (v *views) forRequest(w http.ResponseWriter, r *http.Request) View {
	now := v.clock.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	if e, ok := v.entries[r.Header.Get(ViewHeader)]; ok {
		e.lastSeen = now
		return e.view
	}

	id, view := v.openLocked(now)
	w.Header().Set(ViewHeader, id)
	return view
}

// openNew opens a view for a freshly loaded page.
func (v *views) openNew() string {
	now := v.clock.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	id, _ := v.openLocked(now)
	return id
}

func (v *views) openLocked(now time.Time) (string, View) {
	v.evictLocked(now)
	id := uuid.NewString()
	e := &viewEntry{view: v.open(), lastSeen: now}
	v.entries[id] = e
	return id, e.view
}

func (v *views) evictLocked(now time.Time) {
	for id, e := range v.entries {
		if now.Sub(e.lastSeen) > viewIdleTimeout {
			e.view.Close()
			delete(v.entries, id)
		}
	}
}

func (v *views) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
