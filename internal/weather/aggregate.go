package weather

import "sort"

// Field extracts one metric from a reading of type T.
type Field[T any] struct {
	Metric Metric
	Value  func(T) Value
}

// Aggregates maps a region to its per-metric summary values.
type Aggregates map[string]map[Metric]Value

// Get returns the aggregate for region and metric, absent when either is unknown.
func (a Aggregates) Get(region string, m Metric) Value {
	metrics, ok := a[region]
	if !ok {
		return Value{}
	}
	return metrics[m]
}

// Regions returns the region names in sorted order.
func (a Aggregates) Regions() []string {
	regions := make([]string, 0, len(a))
	for r := range a {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// Aggregate folds readings into per-region values in arrival order.
//
// The first reading of a region seeds each metric. Every later valid value
// replaces the aggregate with the mean of the aggregate and the value,
// rounded to two decimals, so later readings weigh more than earlier ones.
// Absent values never take part: they leave a seeded aggregate unchanged and
// an unseeded one empty until a valid value arrives.
func Aggregate[T any](readings []T, region func(T) string, fields []Field[T]) Aggregates {
	out := make(Aggregates)
	for _, r := range readings {
		key := region(r)
		if key == "" {
			continue
		}
		metrics, seen := out[key]
		if !seen {
			metrics = make(map[Metric]Value, len(fields))
			out[key] = metrics
		}
		for _, f := range fields {
			metrics[f.Metric] = fold(metrics[f.Metric], f.Value(r))
		}
	}
	return out
}

func fold(acc, v Value) Value {
	switch {
	case !v.Valid:
		return acc
	case !acc.Valid:
		return v
	default:
		return Value{Float: round2((acc.Float + v.Float) / 2), Valid: true}
	}
}
