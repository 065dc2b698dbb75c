// Package charts renders statistics as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

type Generator struct {
	currency string
}

func NewGenerator(currency string) *Generator {
	return &Generator{currency: currency}
}

// AssetTrend renders the running balance over time as a line chart. Points
// are plotted in timestamp order. Returns nil bytes when there is nothing
// to plot.
func (g *Generator) AssetTrend(trend map[int64]float64) ([]byte, error) {
	if len(trend) == 0 {
		return nil, nil
	}

	timestamps := make([]int64, 0, len(trend))
	for ts := range trend {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	xValues := make([]time.Time, len(timestamps))
	yValues := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		xValues[i] = time.Unix(ts, 0)
		yValues[i] = trend[ts]
	}

	// go-chart cannot derive an x range from a single point.
	if len(xValues) == 1 {
		xValues = append(xValues, xValues[0].Add(24*time.Hour))
		yValues = append(yValues, yValues[0])
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: g.amountFormatter,
			Range:          flatSafeRange(yValues),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Balance",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render asset trend: %w", err)
	}
	return buf.Bytes(), nil
}

// CategoryBreakdown renders expense totals per category as a bar chart,
// largest category first. Returns nil bytes when there is nothing to plot.
func (g *Generator) CategoryBreakdown(breakdown map[string]float64) ([]byte, error) {
	if len(breakdown) == 0 {
		return nil, nil
	}

	categories := make([]string, 0, len(breakdown))
	for name := range breakdown {
		categories = append(categories, name)
	}
	sort.Slice(categories, func(i, j int) bool {
		if breakdown[categories[i]] != breakdown[categories[j]] {
			return breakdown[categories[i]] > breakdown[categories[j]]
		}
		return categories[i] < categories[j]
	})

	bars := make([]chart.Value, len(categories))
	amounts := make([]float64, len(categories))
	for i, name := range categories {
		amounts[i] = breakdown[name]
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s: %.0f %s", name, breakdown[name], g.currency),
			Value: breakdown[name],
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		}
	}

	graph := chart.BarChart{
		Title: "Expenses by category",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: g.amountFormatter,
			Range:          flatSafeRange(amounts),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category breakdown: %w", err)
	}
	return buf.Bytes(), nil
}

// MonthlyTotals renders net totals per month as a bar chart in month order.
func (g *Generator) MonthlyTotals(totals map[string]float64) ([]byte, error) {
	if len(totals) == 0 {
		return nil, nil
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	bars := make([]chart.Value, len(months))
	amounts := make([]float64, len(months))
	for i, month := range months {
		amounts[i] = totals[month]
		color := chart.ColorGreen
		if totals[month] < 0 {
			color = chart.ColorRed
		}
		bars[i] = chart.Value{
			Label: month,
			Value: totals[month],
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		}
	}

	graph := chart.BarChart{
		Title: "Net by month",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: g.amountFormatter,
			Range:          flatSafeRange(amounts),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render monthly totals: %w", err)
	}
	return buf.Bytes(), nil
}

// flatSafeRange pins an explicit axis range when every value is identical;
// go-chart refuses to render a zero-delta range.
func flatSafeRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min != max {
		return nil
	}
	return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
}

func (g *Generator) amountFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.0f %s", f, g.currency)
}
