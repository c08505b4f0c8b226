package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/dashboard"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// addListCmd adds a 'list' subcommand to print observations without a map
func addListCmd(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:       "list [stations|rainfall|uvi|temperature]",
		Short:     "List current observations in the terminal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"stations", "rainfall", "uvi", "temperature"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := dashboard.ParseCategory(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("position") {
				position = dashboard.DefaultPosition(cat)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			session := a.newSession()
			ctx := cmd.Context()

			switch cat {
			case overlay.CategoryStations:
				return listStations(ctx, cmd, session)
			case overlay.CategoryRainfall:
				return listRainfall(ctx, cmd, session, position)
			case overlay.CategoryUVI:
				agg, err := session.UVAggregates(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch UV index: %w", err)
				}
				printAggregates(cmd, agg, []weather.Metric{weather.MetricUVI}, weather.MetricUVI, weather.UVITable)
			case overlay.CategoryTemperature:
				variant, err := weather.TemperatureVariantAt(position)
				if err != nil {
					return err
				}
				agg, err := session.TemperatureAggregates(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch temperatures: %w", err)
				}
				metrics := []weather.Metric{weather.MetricMinTemp, weather.MetricTemp, weather.MetricMaxTemp}
				printAggregates(cmd, agg, metrics, variant.Metric, weather.TemperatureTable)
			}
			return nil
		},
	}

	listCmd.Flags().IntVarP(&position, "position", "p", 0, "Slider position for rainfall (0-8) or temperature (0-2)")

	rootCmd.AddCommand(listCmd)
}

func listStations(ctx context.Context, cmd *cobra.Command, session *dashboard.Controller) error {
	stations, err := session.Stations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stations: %w", err)
	}
	if len(stations) == 0 {
		cmd.Println("No stations reported.")
		return nil
	}

	cmd.Println("Weather Stations:")
	for _, s := range stations {
		temp := s.Element(string(weather.MetricTemp))
		c, _ := weather.TemperatureTable.Classify(temp)
		cmd.Println(fmt.Sprintf("%-8s %-10s %-6s %8.4f %9.4f %s",
			s.ID, s.Name, s.County(), s.Lat, s.Lon, paint(c, temp.String()+"°C")))
	}
	return nil
}

func listRainfall(ctx context.Context, cmd *cobra.Command, session *dashboard.Controller, pos int) error {
	window, err := weather.RainfallWindowAt(pos)
	if err != nil {
		return err
	}
	gauges, err := session.RainGauges(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rainfall: %w", err)
	}

	cmd.Println(fmt.Sprintf("Rainfall (%s, %s):", window.Label, window.Element))
	for _, g := range gauges {
		v := g.ElementAt(window.Element, window.Index)
		if !v.Valid {
			continue
		}
		c, _ := weather.RainfallTable.Classify(v)
		cmd.Println(fmt.Sprintf("%-8s %-10s %-6s %s", g.ID, g.Name, g.County(), paint(c, v.String()+"mm")))
	}
	return nil
}

// printAggregates prints one row per county, coloring the highlighted metric.
func printAggregates(cmd *cobra.Command, agg weather.Aggregates, metrics []weather.Metric, highlight weather.Metric, table weather.ColorTable) {
	regions := agg.Regions()
	if len(regions) == 0 {
		cmd.Println("No county aggregates.")
		return
	}

	header := make([]string, len(metrics))
	for i, m := range metrics {
		header[i] = fmt.Sprintf("%8s", m)
	}
	cmd.Println(fmt.Sprintf("%-6s %s", "County", strings.Join(header, " ")))

	for _, region := range regions {
		cols := make([]string, len(metrics))
		for i, m := range metrics {
			v := agg.Get(region, m)
			cell := fmt.Sprintf("%8s", v.String())
			if m == highlight {
				c, _ := table.Classify(v)
				cell = paint(c, cell)
			}
			cols[i] = cell
		}
		cmd.Println(fmt.Sprintf("%-6s %s", region, strings.Join(cols, " ")))
	}
}

var namedColors = map[string]color.Attribute{
	"blue":   color.FgBlue,
	"green":  color.FgGreen,
	"yellow": color.FgYellow,
	"orange": color.FgHiYellow,
	"red":    color.FgRed,
	"brown":  color.FgHiRed,
	"purple": color.FgMagenta,
}

// paint renders s in the terminal color closest to a map fill color.
func paint(fill, s string) string {
	if fill == "" || fill == "transparent" {
		return s
	}
	if attr, ok := namedColors[fill]; ok {
		return color.New(attr).Sprint(s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(fill, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
		return s
	}
	switch {
	case r >= g && r >= b:
		if b > g {
			return color.New(color.FgMagenta).Sprint(s)
		}
		return color.New(color.FgRed).Sprint(s)
	case g >= b:
		if b > 0 {
			return color.New(color.FgCyan).Sprint(s)
		}
		return color.New(color.FgGreen).Sprint(s)
	default:
		return color.New(color.FgBlue).Sprint(s)
	}
}
