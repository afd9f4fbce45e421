package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

const ContentTypePNG = "image/png"

// Image is a rendered chart. NoData marks an empty input; Data is then nil.
type Image struct {
	Data        []byte
	ContentType string
	NoData      bool
}

// Style fixes titles, sizes and the per-category colour mapping (hex without '#').
type Style struct {
	TrendTitle      string            `yaml:"trendTitle"`
	ProportionTitle string            `yaml:"proportionTitle"`
	XAxisLabel      string            `yaml:"xAxisLabel"`
	YAxisLabel      string            `yaml:"yAxisLabel"`
	Colors          map[string]string `yaml:"colors"`
	TrendWidth      int               `yaml:"trendWidth"`
	TrendHeight     int               `yaml:"trendHeight"`
	PieSize         int               `yaml:"pieSize"`
}

func DefaultStyle() Style {
	return Style{
		TrendTitle:      "Skin Cancer Incidence vs. Mortality Trends (2007-2020)",
		ProportionTitle: "Proportion of Skin Cancer Cases by Gender (Male vs Female)",
		XAxisLabel:      "Year",
		YAxisLabel:      "Cases",
		Colors: map[string]string{
			stats.Incidence: "2E86C1",
			stats.Mortality: "D35400",
			stats.Males:     "3498db",
			stats.Females:   "e74c3c",
		},
		TrendWidth:  1200,
		TrendHeight: 600,
		PieSize:     800,
	}
}

// Renderer turns aggregated tables into PNGs. It holds no per-call state and is
// safe for concurrent use.
type Renderer struct {
	style Style
}

func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// RenderTimeSeries draws one line per data type, years on the x axis.
func (r *Renderer) RenderTimeSeries(ts stats.TimeSeries) (Image, error) {
	if ts.IsEmpty() {
		return Image{NoData: true}, nil
	}

	minYear, maxYear := ts.Points[0].Year, ts.Points[0].Year
	maxCount := 0.0
	for _, p := range ts.Points {
		minYear = min(minYear, p.Year)
		maxYear = max(maxYear, p.Year)
		maxCount = math.Max(maxCount, p.Count)
	}
	if minYear == maxYear {
		minYear--
		maxYear++
	}
	if maxCount <= 0 {
		maxCount = 1
	}

	ticks := make([]gochart.Tick, 0, maxYear-minYear+1)
	for y := minYear; y <= maxYear; y++ {
		ticks = append(ticks, gochart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}

	var series []gochart.Series
	for i, dt := range ts.DataTypes() {
		s := gochart.ContinuousSeries{
			Name: dt,
			Style: gochart.Style{
				StrokeColor: r.color(dt, i),
				StrokeWidth: 2,
			},
		}
		for _, p := range ts.Points {
			if p.DataType != dt {
				continue
			}
			s.XValues = append(s.XValues, float64(p.Year))
			s.YValues = append(s.YValues, p.Count)
		}
		series = append(series, s)
	}

	graph := gochart.Chart{
		Title:      r.style.TrendTitle,
		TitleStyle: gochart.Style{FontSize: 14},
		Width:      r.style.TrendWidth,
		Height:     r.style.TrendHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  r.style.XAxisLabel,
			Range: &gochart.ContinuousRange{Min: float64(minYear), Max: float64(maxYear)},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:           r.style.YAxisLabel,
			Range:          &gochart.ContinuousRange{Min: 0, Max: maxCount * 1.1},
			ValueFormatter: formatCount,
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	return encode(graph.Render)
}

// RenderProportion draws a pie with one slice per category, labelled with its
// share to one decimal place.
func (r *Renderer) RenderProportion(b stats.Breakdown) (Image, error) {
	total := b.Total()
	if b.IsEmpty() || total <= 0 {
		return Image{NoData: true}, nil
	}

	values := make([]gochart.Value, 0, len(b.Slices))
	for i, s := range b.Slices {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.Count/total*100),
			Value: s.Count,
			Style: gochart.Style{FillColor: r.color(s.Label, i)},
		})
	}

	pie := gochart.PieChart{
		Title:      r.style.ProportionTitle,
		TitleStyle: gochart.Style{FontSize: 14},
		Width:      r.style.PieSize,
		Height:     r.style.PieSize,
		Values:     values,
	}
	return encode(pie.Render)
}

func (r *Renderer) color(category string, index int) drawing.Color {
	if hex, ok := r.style.Colors[category]; ok {
		return drawing.ColorFromHex(hex)
	}
	return gochart.GetDefaultColor(index)
}

func encode(render func(gochart.RendererProvider, io.Writer) error) (Image, error) {
	var buf bytes.Buffer
	if err := render(gochart.PNG, &buf); err != nil {
		return Image{}, fmt.Errorf("render chart: %w", err)
	}
	return Image{Data: buf.Bytes(), ContentType: ContentTypePNG}, nil
}

func formatCount(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	return fmt.Sprint(v)
}
