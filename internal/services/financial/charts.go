package financial

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ternarybob/indago/internal/models"
)

// barChartPNG renders a year/value bar chart. Returns nil when there are
// fewer than two bars, a one-bar chart reads as noise.
func barChartPNG(title string, values []models.YearValue) *models.Chart {
	if len(values) < 2 {
		return nil
	}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: v.Year,
			Value: v.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"),
				StrokeColor: drawing.ColorFromHex("2563eb"),
			},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    700,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil
	}
	return &models.Chart{Title: title, PNG: buf.Bytes()}
}

// lineChartPNG renders a close-price line chart. Returns nil when there are
// fewer than two points.
func lineChartPNG(title string, points []models.PricePoint) *models.Chart {
	if len(points) < 2 {
		return nil
	}

	xValues := make([]float64, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = float64(i)
		yValues[i] = p.Close
	}

	first := points[0].Date
	last := points[len(points)-1].Date

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				idx := int(f)
				if idx <= 0 {
					return first
				}
				if idx >= len(points)-1 {
					return last
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.0,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil
	}
	return &models.Chart{Title: title, PNG: buf.Bytes()}
}
