package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkLength = 5

	pixelsPerTimeLabel  = 150.0
	pixelsPerValueLabel = 60.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 40
	defaultRightBorder  = 40
)

var (
	traceColor = color.RGBA{R: 0x1f, G: 0x3a, B: 0x93, A: 0xff}
	peakColor  = color.RGBA{R: 0xd0, G: 0x31, B: 0x2d, A: 0xff}
	gridColor  = color.RGBA{R: 0xe3, G: 0xe3, B: 0xe3, A: 0xff}
)

// BorderConfig defines the sizes of white space around the chart area
type BorderConfig struct {
	Top    int // Space for title and info bar
	Left   int // Space for amplitude scale
	Bottom int // Space for time scale
	Right  int // Right padding
}

// ChartConfig holds all configuration options for chart rendering
type ChartConfig struct {
	Width  int // Chart area width in pixels
	Height int // Chart area height in pixels

	FontSize float64 // Font size in points
	FontPath string  // TTF font used for annotations

	NoAnnotations bool // Skip scales and labels entirely

	BorderConfig BorderConfig
}

// ChartData is one IMU's series prepared for rendering.
type ChartData struct {
	Title      string
	ValueLabel string
	Times      []float64 // seconds
	Values     []float64
	Peaks      []int // indices of detected step events
}

// ChartRenderer draws a single-series strip chart with step markers.
type ChartRenderer struct {
	config   ChartConfig
	context  *freetype.Context
	fontFace font.Face
}

// NewChartRenderer creates a chart renderer. Annotations require a TTF
// font; without a font path the chart is rendered without text.
func NewChartRenderer(config ChartConfig) (*ChartRenderer, error) {
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}
	if config.FontPath == "" {
		config.NoAnnotations = true
	}

	r := ChartRenderer{config: config}
	if config.NoAnnotations {
		return &r, nil
	}

	fontBytes, err := os.ReadFile(config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}
	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	r.context = ctx
	r.fontFace = truetype.NewFace(parsedFont, &truetype.Options{
		Size:    config.FontSize,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	return &r, nil
}

func (r *ChartRenderer) Close() error {
	if r.fontFace != nil {
		return r.fontFace.Close()
	}
	return nil
}

// Render creates an image of the series with step markers and
// annotations.
func (r *ChartRenderer) Render(data *ChartData) (*image.RGBA, error) {
	if len(data.Times) == 0 || len(data.Times) != len(data.Values) {
		return nil, fmt.Errorf("invalid chart data: %d times, %d values", len(data.Times), len(data.Values))
	}

	fullWidth := r.config.Width + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := r.config.Height + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+r.config.Width,
		r.config.BorderConfig.Top+r.config.Height,
	)

	scale := newChartScale(area, data)

	r.drawGrid(img, area, scale)
	r.drawPeakMarkers(img, area, data, scale)
	r.drawTrace(img, data, scale)

	if !r.config.NoAnnotations {
		r.context.SetClip(img.Bounds())
		r.context.SetDst(img)

		if err := r.drawValueScale(img, area, scale); err != nil {
			return nil, fmt.Errorf("drawing value scale: %w", err)
		}
		if err := r.drawTimeScale(img, area, scale); err != nil {
			return nil, fmt.Errorf("drawing time scale: %w", err)
		}
		if err := r.drawInfoBar(img, data); err != nil {
			return nil, fmt.Errorf("drawing info bar: %w", err)
		}
	}

	return img, nil
}

// chartScale maps (time, value) pairs onto the chart area.
type chartScale struct {
	area image.Rectangle

	timeMin, timeMax   float64
	valueMin, valueMax float64
}

func newChartScale(area image.Rectangle, data *ChartData) chartScale {
	s := chartScale{
		area:    area,
		timeMin: data.Times[0],
		timeMax: data.Times[len(data.Times)-1],
	}

	s.valueMin, s.valueMax = data.Values[0], data.Values[0]
	for _, v := range data.Values[1:] {
		s.valueMin = math.Min(s.valueMin, v)
		s.valueMax = math.Max(s.valueMax, v)
	}

	// Pad the value range so the trace never touches the frame; guard
	// degenerate ranges.
	if s.valueMax == s.valueMin {
		s.valueMin--
		s.valueMax++
	}
	pad := (s.valueMax - s.valueMin) * 0.05
	s.valueMin -= pad
	s.valueMax += pad

	if s.timeMax == s.timeMin {
		s.timeMax = s.timeMin + 1
	}
	return s
}

func (s chartScale) x(t float64) int {
	ratio := (t - s.timeMin) / (s.timeMax - s.timeMin)
	return s.area.Min.X + int(ratio*float64(s.area.Dx()-1))
}

func (s chartScale) y(v float64) int {
	ratio := (v - s.valueMin) / (s.valueMax - s.valueMin)
	return s.area.Max.Y - 1 - int(ratio*float64(s.area.Dy()-1))
}

func (r *ChartRenderer) drawGrid(img *image.RGBA, area image.Rectangle, scale chartScale) {
	step := niceValueStep(scale.valueMax-scale.valueMin, area.Dy())
	start := math.Ceil(scale.valueMin/step) * step

	for v := start; v <= scale.valueMax; v += step {
		y := scale.y(v)
		for x := area.Min.X; x < area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
	}
}

func (r *ChartRenderer) drawTrace(img *image.RGBA, data *ChartData, scale chartScale) {
	prevX, prevY := scale.x(data.Times[0]), scale.y(data.Values[0])
	for i := 1; i < len(data.Times); i++ {
		x, y := scale.x(data.Times[i]), scale.y(data.Values[i])
		drawLine(img, prevX, prevY, x, y, traceColor)
		prevX, prevY = x, y
	}
}

func (r *ChartRenderer) drawPeakMarkers(img *image.RGBA, area image.Rectangle, data *ChartData, scale chartScale) {
	for _, p := range data.Peaks {
		if p < 0 || p >= len(data.Times) {
			continue
		}
		x := scale.x(data.Times[p])
		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.Set(x, y, peakColor)
		}
	}
}

func (r *ChartRenderer) drawValueScale(img *image.RGBA, area image.Rectangle, scale chartScale) error {
	step := niceValueStep(scale.valueMax-scale.valueMin, area.Dy())
	start := math.Ceil(scale.valueMin/step) * step

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := start; v <= scale.valueMax; v += step {
		y := scale.y(v)

		for x := area.Min.X - tickMarkLength; x < area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.2f", v)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(area.Min.X-tickMarkLength-width.Round()-4, y+fontHeight/2-metrics.Descent.Round())
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing value label: %w", err)
		}
	}
	return nil
}

func (r *ChartRenderer) drawTimeScale(img *image.RGBA, area image.Rectangle, scale chartScale) error {
	step := niceTimeStep(scale.timeMax-scale.timeMin, area.Dx())
	start := math.Ceil(scale.timeMin/step) * step

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Max.Y + tickMarkLength + fontHeight

	for t := start; t <= scale.timeMax; t += step {
		x := scale.x(t)

		for y := area.Max.Y; y < area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatSeconds(t)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(x-width.Round()/2, textY)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing time label: %w", err)
		}
	}
	return nil
}

func (r *ChartRenderer) drawInfoBar(img *image.RGBA, data *ChartData) error {
	info := fmt.Sprintf("%s; %s; %d points, %d steps",
		data.Title, data.ValueLabel, len(data.Values), len(data.Peaks))

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := r.config.BorderConfig.Top - fontHeight/2

	pt := freetype.Pt(r.config.BorderConfig.Left, textY)
	if _, err := r.context.DrawString(info, pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// niceValueStep picks a 1/2/5 scaled step giving readable label spacing.
func niceValueStep(valueRange float64, height int) float64 {
	desiredSteps := math.Max(float64(height)/pixelsPerValueLabel, 2)
	targetStep := valueRange / desiredSteps

	magnitude := math.Pow(10, math.Floor(math.Log10(targetStep)))
	for _, m := range []float64{1, 2, 5, 10} {
		if magnitude*m >= targetStep {
			return magnitude * m
		}
	}
	return magnitude * 10
}

// niceTimeStep picks a label interval in seconds fitting the chart
// width.
func niceTimeStep(timeRange float64, width int) float64 {
	desiredSteps := math.Max(float64(width)/pixelsPerTimeLabel, 2)
	targetStep := timeRange / desiredSteps

	steps := []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30, 60, 120, 300, 600}
	for _, step := range steps {
		if step >= targetStep {
			return step
		}
	}
	return 900
}

func formatSeconds(t float64) string {
	if t >= 60 {
		return fmt.Sprintf("%d:%04.1f", int(t)/60, math.Mod(t, 60))
	}
	return fmt.Sprintf("%.1fs", t)
}
