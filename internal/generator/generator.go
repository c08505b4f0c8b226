package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// Map view over Taiwan.
const (
	centerLat = 23.6978
	centerLon = 120.9605
	zoom      = 8
)

const tileAttribution = `&copy; <a href="https://stadiamaps.com/">Stadia Maps</a>, &copy; <a href="https://openmaptiles.org/">OpenMapTiles</a> &copy; <a href="http://openstreetmap.org">OpenStreetMap</a> contributors`

// Endpoints tells the page where to load layers from.
//
// OverlayURL may contain {category} and {position} placeholders.
type Endpoints struct {
	OverlayURL string `json:"overlayURL"`
	OutlineURL string `json:"outlineURL"`
	// Static pages toggle the outline in the browser. Otherwise the
	// outline endpoint toggles it and reports {"visible": bool, "layer": ...}.
	Static bool `json:"static"`
	// ViewID names the server-side canvas of one loaded page.
	ViewID string `json:"viewID,omitempty"`
}

// ServerEndpoints are the routes served by the dashboard server.
var ServerEndpoints = Endpoints{
	OverlayURL: "/api/overlays/{category}?position={position}",
	OutlineURL: "/api/outline",
}

// StaticEndpoints point at the files written by Export.
var StaticEndpoints = Endpoints{
	OverlayURL: "overlays/{category}-{position}.json",
	OutlineURL: "overlays/outline.json",
	Static:     true,
}

// Generator renders the dashboard page.
type Generator struct {
	tileURL string
	clock   clockwork.Clock
	tmpl    *template.Template
}

// New creates a page generator. A nil clock uses the real time.
func New(tileURL string, clock clockwork.Clock) (*Generator, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"toJSON": toJSON,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Generator{tileURL: tileURL, clock: clock, tmpl: tmpl}, nil
}

type pageData struct {
	TileURL             string
	TileAttribution     template.HTML
	CenterLat           float64
	CenterLon           float64
	Zoom                int
	Endpoints           Endpoints
	RainfallWindows     []weather.RainfallWindow
	TemperatureVariants []weather.TemperatureVariant
	RainfallDefault     int
	RainfallMax         int
	TemperatureDefault  int
	TemperatureMax      int
	LastUpdated         string
}

// RenderPage writes the dashboard page to w.
func (g *Generator) RenderPage(w io.Writer, ep Endpoints) error {
	data := pageData{
		TileURL:             g.tileURL,
		TileAttribution:     template.HTML(tileAttribution),
		CenterLat:           centerLat,
		CenterLon:           centerLon,
		Zoom:                zoom,
		Endpoints:           ep,
		RainfallWindows:     weather.RainfallWindows(),
		TemperatureVariants: weather.TemperatureVariants(),
		RainfallDefault:     weather.DefaultRainfallPosition,
		RainfallMax:         len(weather.RainfallWindows()) - 1,
		TemperatureDefault:  weather.DefaultTemperaturePosition,
		TemperatureMax:      len(weather.TemperatureVariants()) - 1,
		LastUpdated:         g.clock.Now().UTC().Format("Jan 2, 2006 at 15:04:05 UTC"),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// OverlayPath expands the overlay URL pattern for one category and position.
func (ep Endpoints) OverlayPath(category string, position int) string {
	r := strings.NewReplacer("{category}", category, "{position}", fmt.Sprint(position))
	return r.Replace(ep.OverlayURL)
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
   <meta charset="UTF-8"/>
   <meta name="viewport" content="width=device-width, initial-scale=1"/>
   <title>Taiwan Weather Dashboard</title>
   <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
   <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
   <script src="https://cdn.jsdelivr.net/npm/heatmap.js@2.0.5/build/heatmap.min.js"></script>
   <script src="https://cdn.jsdelivr.net/npm/leaflet-heatmap@1.0.0/leaflet-heatmap.js"></script>
   <style>
      :root {
         --bg-color: #121212;
         --text-color: #e0e0e0;
         --card-bg: #1e1e1e;
         --card-border: #333;
         --button-bg: #2d2d45;
         --button-border: #444466;
         --button-active: #3d3d5c;
         --error-bg: #3d1a1a;
         --error-border: #a52a2a;
      }
      html { background-color: #121212; }
      body {
         font-family: Arial, sans-serif;
         margin: 0; padding: 20px;
         background-color: var(--bg-color);
         color: var(--text-color);
      }
      #map {
         height: 75vh; width: 100%;
         border: 2px solid var(--card-border);
         border-radius: 5px; margin-top: 10px;
      }
      #map.loading { opacity: 0.7; }
      .controls { display: flex; flex-wrap: wrap; gap: 8px; align-items: center; }
      .controls button {
         padding: 6px 12px; cursor: pointer; border-radius: 3px;
         background-color: var(--button-bg); color: var(--text-color);
         border: 1px solid var(--button-border);
      }
      .controls button.active { background-color: var(--button-active); }
      .slider { display: none; margin-top: 10px; }
      .slider input { width: 420px; max-width: 100%; }
      .slider .labels { display: flex; justify-content: space-between; width: 420px; max-width: 100%; font-size: 0.8em; color: #aaa; }
      #status {
         display: none; margin-top: 10px; padding: 8px;
         background-color: var(--error-bg); border: 1px solid var(--error-border); border-radius: 5px;
      }
      .map-legend {
         background-color: var(--card-bg); padding: 10px;
         border-radius: 5px; margin-top: 10px;
         border: 1px solid var(--card-border);
      }
      .legend-item { display: inline-flex; align-items: center; margin: 3px 12px 3px 0; }
      .legend-color { width: 24px; height: 16px; margin-right: 6px; border: 1px solid #fff; }
      .updated { font-size: 0.8em; color: #888; margin-top: 10px; }
   </style>
</head>
<body>
   <h1>Taiwan Weather Dashboard</h1>

   <div class="controls">
      <button id="switch">County Outline</button>
      <button id="stations" data-category="stations">Stations</button>
      <button id="rainfall" data-category="rainfall">Rainfall</button>
      <button id="uvi" data-category="uvi">UV Index</button>
      <button id="temp" data-category="temperature">Temperature</button>
   </div>

   <div class="slider" id="rainfallSlider">
      <input type="range" min="0" max="{{ .RainfallMax }}" step="1" value="{{ .RainfallDefault }}">
      <div class="labels">{{ range .RainfallWindows }}<span>{{ .Label }}</span>{{ end }}</div>
   </div>

   <div class="slider" id="tempSlider">
      <input type="range" min="0" max="{{ .TemperatureMax }}" step="1" value="{{ .TemperatureDefault }}">
      <div class="labels">{{ range .TemperatureVariants }}<span>{{ .Label }}</span>{{ end }}</div>
   </div>

   <div id="status"></div>
   <div id="map"></div>
   <div class="map-legend" id="legend" style="display:none;"></div>
   <div class="updated">Generated: {{ .LastUpdated }}</div>

   <script>
      const endpoints = {{ toJSON .Endpoints }};
      const map = L.map('map').setView([{{ .CenterLat }}, {{ .CenterLon }}], {{ .Zoom }});
      L.tileLayer({{ .TileURL }}, { maxZoom: 20, attribution: {{ .TileAttribution }} }).addTo(map);

      let outlineLayer = null;
      let overlayLayer = null;
      let current = null;
      let requestSeq = 0;

      const sliders = {
         rainfall: document.querySelector('#rainfallSlider'),
         temperature: document.querySelector('#tempSlider'),
      };

      function showStatus(message) {
         const el = document.getElementById('status');
         el.textContent = message || '';
         el.style.display = message ? 'block' : 'none';
      }

      // The server keeps one canvas per page, so every call names this
      // page's view and changes state with POST.
      async function getJSON(url) {
         const options = {};
         if (!endpoints.static) {
            options.method = 'POST';
            options.headers = { 'X-View-ID': endpoints.viewID || '' };
         }
         const response = await fetch(url, options);
         const viewID = response.headers.get('X-View-ID');
         if (viewID) endpoints.viewID = viewID;
         let body = null;
         try { body = await response.json(); } catch (e) {}
         if (!response.ok || (body && body.error)) {
            throw new Error((body && body.error) || ('request failed: ' + response.status));
         }
         return body;
      }

      function clearOverlay() {
         if (overlayLayer) {
            map.removeLayer(overlayLayer);
            overlayLayer = null;
         }
      }

      function buildLayer(layer) {
         switch (layer.kind) {
            case 'markers': {
               const group = L.layerGroup();
               layer.markers.forEach(m => {
                  const marker = L.circleMarker([m.lat, m.lon], Object.assign({ radius: m.radius }, m.style));
                  marker.bindPopup(m.popup);
                  marker.on('mouseover', function () { this.openPopup(); });
                  marker.on('mouseout', function () { this.closePopup(); });
                  marker.addTo(group);
               });
               return group;
            }
            case 'heatmap': {
               const heat = new HeatmapOverlay(layer.heatmap.options);
               heat.addTo(map);
               heat.setData({ max: layer.heatmap.max, data: layer.heatmap.data });
               map.removeLayer(heat);
               return heat;
            }
            case 'choropleth':
            case 'outline':
               return L.geoJSON(layer.features, { style: f => f.properties.style || {} });
         }
         throw new Error('unknown layer kind ' + layer.kind);
      }

      function showLegend(entries) {
         const el = document.getElementById('legend');
         el.innerHTML = '';
         if (!entries || entries.length === 0) {
            el.style.display = 'none';
            return;
         }
         entries.forEach(e => {
            const item = document.createElement('span');
            item.className = 'legend-item';
            const swatch = document.createElement('span');
            swatch.className = 'legend-color';
            swatch.style.backgroundColor = e.color;
            item.appendChild(swatch);
            item.appendChild(document.createTextNode(e.label));
            el.appendChild(item);
         });
         el.style.display = 'block';
      }

      async function showCategory(category, position) {
         const seq = ++requestSeq;
         clearOverlay();
         showStatus('');
         document.getElementById('map').classList.add('loading');
         try {
            const url = endpoints.overlayURL.replace('{category}', category).replace('{position}', position);
            const layer = await getJSON(url);
            if (seq !== requestSeq) return;
            clearOverlay();
            overlayLayer = buildLayer(layer).addTo(map);
            showLegend(layer.legend);
         } catch (err) {
            if (seq === requestSeq) showStatus(err.message);
         } finally {
            if (seq === requestSeq) document.getElementById('map').classList.remove('loading');
         }
      }

      function selectCategory(category) {
         current = category;
         document.querySelectorAll('.controls button[data-category]').forEach(b => {
            b.classList.toggle('active', b.dataset.category === category);
         });
         for (const [name, el] of Object.entries(sliders)) {
            el.style.display = name === category ? 'block' : 'none';
         }
         const slider = sliders[category];
         const position = slider ? slider.querySelector('input').value : 0;
         showCategory(category, position);
      }

      async function toggleOutline() {
         showStatus('');
         try {
            if (endpoints.static) {
               if (outlineLayer) {
                  map.removeLayer(outlineLayer);
                  outlineLayer = null;
                  return;
               }
               outlineLayer = buildLayer(await getJSON(endpoints.outlineURL)).addTo(map);
               return;
            }
            const result = await getJSON(endpoints.outlineURL);
            if (outlineLayer) {
               map.removeLayer(outlineLayer);
               outlineLayer = null;
            }
            if (result.visible) {
               outlineLayer = buildLayer(result.layer).addTo(map);
            }
         } catch (err) {
            showStatus(err.message);
         }
      }

      document.getElementById('switch').addEventListener('click', toggleOutline);
      document.querySelectorAll('.controls button[data-category]').forEach(b => {
         b.addEventListener('click', () => selectCategory(b.dataset.category));
      });
      for (const [name, el] of Object.entries(sliders)) {
         el.querySelector('input').addEventListener('change', e => {
            if (current === name) showCategory(name, e.target.value);
         });
      }
   </script>
</body>
</html>
`
