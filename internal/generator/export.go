package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/dashboard"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
)

// Renderer builds dashboard layers without mounting them.
type Renderer interface {
	Render(ctx context.Context, cat overlay.Category, pos int) (*overlay.Layer, error)
	OutlineLayer(ctx context.Context) (*overlay.Layer, error)
}

// Manifest is written next to the exported page.
type Manifest struct {
	LastUpdated  string   `json:"lastUpdated"`
	UpdatedAtUTC int64    `json:"updatedAtUTC"`
	Written      []string `json:"written"`
	Failed       []string `json:"failed"`
}

type errorDocument struct {
	Error string `json:"error"`
}

// Export writes a static copy of the dashboard to dir: index.html, the
// outline and every category at every slider position under overlays/.
//
// A layer that fails to render is written as {"error": "..."} so the page
// can report it; only the outline and file system errors abort the export.
func (g *Generator) Export(ctx context.Context, r Renderer, dir string, logger *slog.Logger) (*Manifest, error) {
	overlayDir := filepath.Join(dir, "overlays")
	if err := os.MkdirAll(overlayDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", overlayDir, err)
	}

	now := g.clock.Now().UTC()
	m := &Manifest{
		LastUpdated:  now.Format("Jan 2, 2006 at 15:04:05 UTC"),
		UpdatedAtUTC: now.Unix(),
		Written:      []string{},
		Failed:       []string{},
	}

	outline, err := r.OutlineLayer(ctx)
	if err != nil {
		return nil, fmt.Errorf("render outline: %w", err)
	}
	if err := writeJSON(filepath.Join(overlayDir, "outline.json"), outline); err != nil {
		return nil, err
	}
	m.Written = append(m.Written, "overlays/outline.json")

	for _, cat := range overlay.Categories {
		for _, pos := range dashboard.Positions(cat) {
			name := StaticEndpoints.OverlayPath(string(cat), pos)
			path := filepath.Join(dir, filepath.FromSlash(name))

			layer, err := r.Render(ctx, cat, pos)
			if err != nil {
				logger.Warn("overlay render failed", "category", cat, "position", pos, "error", err)
				if err := writeJSON(path, errorDocument{Error: err.Error()}); err != nil {
					return nil, err
				}
				m.Failed = append(m.Failed, name)
				continue
			}
			if err := writeJSON(path, layer); err != nil {
				return nil, err
			}
			m.Written = append(m.Written, name)
		}
	}

	var page bytes.Buffer
	if err := g.RenderPage(&page, StaticEndpoints); err != nil {
		return nil, err
	}
	if err := atomic.WriteFile(filepath.Join(dir, "index.html"), &page); err != nil {
		return nil, fmt.Errorf("write index.html: %w", err)
	}
	m.Written = append(m.Written, "index.html")

	if err := writeJSON(filepath.Join(dir, "manifest.json"), m); err != nil {
		return nil, err
	}

	logger.Info("dashboard exported", "dir", dir, "written", len(m.Written), "failed", len(m.Failed))
	return m, nil
}

// writeJSON replaces path atomically so a browser never reads a partial file.
func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
