package overlay

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSuperseded is returned when a render finishes after a newer view was begun.
var ErrSuperseded = errors.New("render superseded by a newer view")

// Canvas tracks the layers shown on the map: an optional county outline and
// at most one category overlay.
type Canvas struct {
	mu         sync.Mutex
	generation uint64
	outline    *Layer
	overlay    *Layer
}

// State is a snapshot of the canvas.
type State struct {
	Generation uint64 `json:"generation"`
	Outline    *Layer `json:"outline,omitempty"`
	Overlay    *Layer `json:"overlay,omitempty"`
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Begin starts a view change: it clears the mounted overlay and returns the
// generation the new overlay must be mounted with.
func (c *Canvas) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.overlay = nil
	return c.generation
}

// Mount replaces the overlay with l. It fails with ErrSuperseded when
// another view was begun after generation gen.
func (c *Canvas) Mount(gen uint64, l *Layer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return ErrSuperseded
	}
	l.ID = uuid.NewString()
	c.overlay = l
	return nil
}

// Overlay returns the mounted category overlay, or nil.
func (c *Canvas) Overlay() *Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

// ToggleOutline hides the outline when shown, or shows the layer built by build.
func (c *Canvas) ToggleOutline(build func() (*Layer, error)) (*Layer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outline != nil {
		c.outline = nil
		return nil, nil
	}
	l, err := build()
	if err != nil {
		return nil, err
	}
	l.ID = uuid.NewString()
	c.outline = l
	return l, nil
}

// Snapshot returns the current canvas state.
func (c *Canvas) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Generation: c.generation, Outline: c.outline, Overlay: c.overlay}
}
