package weather

import "strconv"

// Bracket colors every value below Upper (or equal to it when Inclusive).
type Bracket struct {
	Upper     float64
	Inclusive bool
	Color     string
}

func (b Bracket) contains(f float64) bool {
	if b.Inclusive {
		return f <= b.Upper
	}
	return f < b.Upper
}

// ColorTable maps a value to a color through ascending brackets.
type ColorTable struct {
	Name     string
	Unit     string
	Brackets []Bracket
	Fallback string
}

// Classify returns the color for v. An absent value returns false and the
// caller leaves the feature unstyled.
func (t ColorTable) Classify(v Value) (string, bool) {
	if !v.Valid {
		return "", false
	}
	for _, b := range t.Brackets {
		if b.contains(v.Float) {
			return b.Color, true
		}
	}
	return t.Fallback, true
}

// LegendEntry is one row of a map legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend lists the table brackets in ascending order.
func (t ColorTable) Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(t.Brackets)+1)
	for _, b := range t.Brackets {
		op := "<"
		if b.Inclusive {
			op = "≤"
		}
		entries = append(entries, LegendEntry{Label: op + " " + formatBound(b.Upper) + t.Unit, Color: b.Color})
	}
	if n := len(t.Brackets); n > 0 {
		last := t.Brackets[n-1]
		op := "≥"
		if last.Inclusive {
			op = ">"
		}
		entries = append(entries, LegendEntry{Label: op + " " + formatBound(last.Upper) + t.Unit, Color: t.Fallback})
	}
	return entries
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var (
	TemperatureTable = ColorTable{
		Name: "temperature",
		Unit: "°C",
		Brackets: []Bracket{
			{Upper: 9, Inclusive: true, Color: "blue"},
			{Upper: 18, Inclusive: true, Color: "rgb(0,128,100)"},
			{Upper: 23, Inclusive: true, Color: "green"},
			{Upper: 26, Inclusive: true, Color: "rgb(94,128,0)"},
			{Upper: 32, Inclusive: true, Color: "yellow"},
			{Upper: 38, Color: "orange"},
		},
		Fallback: "red",
	}

	UVITable = ColorTable{
		Name: "uvi",
		Brackets: []Bracket{
			{Upper: 3, Color: "green"},
			{Upper: 6, Color: "orange"},
			{Upper: 8, Color: "brown"},
			{Upper: 11, Color: "red"},
		},
		Fallback: "purple",
	}

	RainfallTable = ColorTable{
		Name: "rainfall",
		Unit: "mm",
		Brackets: []Bracket{
			{Upper: 0, Inclusive: true, Color: "transparent"},
			{Upper: 2, Inclusive: true, Color: "rgb(155,255,255)"},
			{Upper: 10, Inclusive: true, Color: "rgb(0,150,255)"},
			{Upper: 30, Inclusive: true, Color: "rgb(0,200,0)"},
			{Upper: 50, Inclusive: true, Color: "yellow"},
			{Upper: 80, Inclusive: true, Color: "orange"},
			{Upper: 130, Inclusive: true, Color: "red"},
			{Upper: 200, Inclusive: true, Color: "rgb(170,0,170)"},
		},
		Fallback: "rgb(255,0,255)",
	}
)
