// Package weather holds the pure dashboard logic: optional readings with the
// upstream -99 sentinel, the per-county running-mean fold, the color tables
// used by the choropleth and heatmap layers, and the slider lookups.
//
// Nothing in this package performs I/O.
package weather
