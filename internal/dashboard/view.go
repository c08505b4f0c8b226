package dashboard

import (
	"context"
	"errors"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
)

// View is one browser's canvas. Views share the Controller's datasets but
// never each other's overlay, outline or generation.
type View struct {
	c      *Controller
	canvas *overlay.Canvas
}

// NewView opens a view with an empty canvas.
func (c *Controller) NewView() *View {
	return &View{c: c, canvas: overlay.NewCanvas()}
}

// Show switches the canvas to category cat rendered at slider position pos.
// The previous overlay is cleared before any data is loaded, so a failed
// load leaves the canvas without a category overlay.
func (v *View) Show(ctx context.Context, cat overlay.Category, pos int) (*overlay.Layer, error) {
	if err := validatePosition(cat, pos); err != nil {
		return nil, err
	}

	gen := v.canvas.Begin()
	layer, err := v.c.Render(ctx, cat, pos)
	if err != nil {
		return nil, err
	}
	if err := v.canvas.Mount(gen, layer); err != nil {
		if errors.Is(err, overlay.ErrSuperseded) {
			v.c.metrics.RendersSuperseded.Inc()
		}
		return nil, err
	}

	v.c.metrics.OverlaysMounted.WithLabelValues(string(cat)).Inc()
	v.c.logger.Info("overlay mounted", "category", cat, "position", pos, "layer", layer.ID)
	return layer, nil
}

// ToggleOutline shows the county outline, or hides it when already shown.
// The returned layer is nil when the outline was hidden.
func (v *View) ToggleOutline(ctx context.Context) (*overlay.Layer, error) {
	layer, err := v.canvas.ToggleOutline(func() (*overlay.Layer, error) {
		return v.c.OutlineLayer(ctx)
	})
	if err != nil {
		return nil, err
	}
	if layer != nil {
		v.c.metrics.OutlinesVisible.Inc()
	} else {
		v.c.metrics.OutlinesVisible.Dec()
	}
	return layer, nil
}

// State returns a snapshot of the canvas.
func (v *View) State() overlay.State {
	return v.canvas.Snapshot()
}

// Close releases the view's share of the outline gauge.
func (v *View) Close() {
	if v.canvas.Snapshot().Outline != nil {
		v.c.metrics.OutlinesVisible.Dec()
	}
}
