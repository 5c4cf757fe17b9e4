package waveform

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// Views in the order of the display columns.
var DisplayViews = []View{ViewZ, ViewU, ViewV}

// DisplayOptions control how event displays are drawn.
type DisplayOptions struct {
	// Colour scale is symmetric, [-CMax, CMax].
	CMax             float64
	TMin             *float64
	TMax             *float64
	UseChannelNumber bool
	CollectionOnly   bool
	Title            string
	ColorbarLabel    string
	// Figure size in inches.
	Width  float64
	Height float64
	DPI    int
}

func DisplayOptionsFromConfig(config Configuration) DisplayOptions {
	opts := DisplayOptions{
		CMax:             config.CMax,
		TMin:             config.TMin,
		TMax:             config.TMax,
		UseChannelNumber: config.UseChannelNumber,
		CollectionOnly:   config.CollectionOnly,
		ColorbarLabel:    "ADC",
		Width:            6.4,
		Height:           4.8,
		DPI:              config.DPI,
	}
	if len(config.FigSize) == 2 {
		opts.Width, opts.Height = config.FigSize[0], config.FigSize[1]
	}
	return opts
}

func (o DisplayOptions) validate() error {
	if !(o.CMax > 0) {
		return fmt.Errorf("colour scale limit must be positive, got %v", o.CMax)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid figure size %vx%v", o.Width, o.Height)
	}
	return nil
}

func (o DisplayOptions) colorMap() palette.ColorMap {
	cm := moreland.SmoothBlueRed()
	cm.SetMax(o.CMax)
	cm.SetMin(-o.CMax)
	return cm
}

// adcGrid exposes a block of channels as a heat map grid. Columns are ticks
// and rows are channels.
type adcGrid struct {
	w                Waveforms
	useChannelNumber bool
	offset           int
}

func (g adcGrid) Dims() (int, int) {
	return g.w.NSamples(), g.w.Len()
}

func (g adcGrid) Z(c, r int) float64 {
	return g.w.Rows[r].ADC[c]
}

func (g adcGrid) X(c int) float64 {
	return float64(c) + 0.5
}

func (g adcGrid) Y(r int) float64 {
	if g.useChannelNumber {
		return float64(g.w.Rows[r].Channel) + 0.5
	}
	return float64(g.offset+r) + 0.5
}

// PlotView draws a pedestal-subtracted view as a heat map, with hits on top
// when there are any. With UseChannelNumber the y axis is the offline
// channel number and every contiguous block of channels gets its own heat
// map; otherwise it is the channel index within the view.
func PlotView(s Waveforms, hits []Hit, opts DisplayOptions) (*plot.Plot, error) {
	p, _, err := plotView(s, hits, opts)
	return p, err
}

func plotView(s Waveforms, hits []Hit, opts DisplayOptions) (*plot.Plot, []*plotter.HeatMap, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if s.Len() == 0 || s.NSamples() == 0 {
		return nil, nil, fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.X.Label.Text = "Time (tick)"
	if opts.UseChannelNumber {
		p.Y.Label.Text = "Offline channel number"
	} else {
		p.Y.Label.Text = "Channel within view"
	}

	pal := opts.colorMap().Palette(255)
	colors := pal.Colors()

	var heatmaps []*plotter.HeatMap
	offset := 0
	for _, block := range SplitContiguous(s) {
		h := plotter.NewHeatMap(adcGrid{w: block, useChannelNumber: opts.UseChannelNumber, offset: offset}, pal)
		h.Min = -opts.CMax
		h.Max = opts.CMax
		h.Underflow = colors[0]
		h.Overflow = colors[len(colors)-1]
		h.Rasterized = true
		p.Add(h)
		heatmaps = append(heatmaps, h)
		offset += block.Len()
	}

	xmin, xmax := 0.0, float64(s.NSamples())
	if opts.TMin != nil {
		xmin = *opts.TMin
	}
	if opts.TMax != nil {
		xmax = *opts.TMax
	}
	ymin, ymax := 0.0, float64(s.Len())
	if opts.UseChannelNumber {
		ymin = float64(s.Rows[0].Channel)
		ymax = float64(s.Rows[s.Len()-1].Channel + 1)
	}

	if pts := hitPoints(s, hits, opts.UseChannelNumber, xmin, xmax); len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, nil, fmt.Errorf("error adding hits: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Color = color.RGBA{G: 128, A: 255}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
	}

	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax
	return p, heatmaps, nil
}

// hitPoints keeps the hits that fall on a channel of s inside the time window.
func hitPoints(s Waveforms, hits []Hit, useChannelNumber bool, tmin, tmax float64) plotter.XYs {
	var pts plotter.XYs
	for _, hit := range hits {
		if hit.Time < tmin || hit.Time > tmax {
			continue
		}
		idx := ViewIndex(s, int(hit.Channel))
		if idx < 0 {
			continue
		}
		y := float64(idx) + 0.5
		if useChannelNumber {
			y = hit.Channel + 0.5
		}
		pts = append(pts, plotter.XY{X: hit.Time, Y: y})
	}
	return pts
}

// EventViews holds the pedestal-subtracted views of each displayed APA.
type EventViews struct {
	APAs  []int
	Views map[int]map[View]Waveforms
}

// BuildEventViews selects and pedestal-subtracts every view of every APA.
func BuildEventViews(w Waveforms, apas []int, collectionOnly bool) (EventViews, error) {
	ev := EventViews{APAs: apas, Views: make(map[int]map[View]Waveforms)}
	for _, apa := range apas {
		ev.Views[apa] = make(map[View]Waveforms)
		for _, view := range DisplayViews {
			if collectionOnly && view != ViewZ {
				continue
			}
			s, err := SelectPedSub(w, apa, view, SideBoth)
			if err != nil {
				return EventViews{}, err
			}
			ev.Views[apa][view] = s
		}
	}
	return ev, nil
}

// EventDisplay is a grid of heat maps, one row per APA and one column per view.
type EventDisplay struct {
	Plots    [][]*plot.Plot
	Colorbar *plot.Plot
	Options  DisplayOptions
	heatmaps []*plotter.HeatMap
}

func NewEventDisplay(ev EventViews, hits []Hit, opts DisplayOptions) (*EventDisplay, error) {
	if len(ev.APAs) == 0 {
		return nil, fmt.Errorf("no APAs to display")
	}
	views := DisplayViews
	if opts.CollectionOnly {
		views = DisplayViews[:1]
	}

	d := &EventDisplay{Options: opts, Plots: make([][]*plot.Plot, len(ev.APAs))}
	for i, apa := range ev.APAs {
		d.Plots[i] = make([]*plot.Plot, len(views))
		for j, view := range views {
			s, ok := ev.Views[apa][view]
			if !ok {
				return nil, fmt.Errorf("apa %d view %s was not selected", apa, view)
			}
			p, heatmaps, err := plotView(s, hits, opts)
			if err != nil {
				return nil, fmt.Errorf("error plotting apa %d view %s: %w", apa, view, err)
			}
			d.heatmaps = append(d.heatmaps, heatmaps...)
			if i == 0 {
				p.Title.Text = strings.ToUpper(view.String()) + " view"
			}
			// Only the outer panels keep their axis labels
			if i != len(ev.APAs)-1 {
				p.X.Label.Text = ""
			}
			if j != 0 {
				p.Y.Label.Text = ""
			}
			d.Plots[i][j] = p
		}
	}

	cb := plot.New()
	cb.Add(&plotter.ColorBar{ColorMap: opts.colorMap(), Vertical: true, Colors: 255})
	cb.HideX()
	cb.Y.Label.Text = opts.ColorbarLabel
	d.Colorbar = cb
	return d, nil
}

// Draw lays the display out on c: title strip on top, colour bar on the right.
func (d *EventDisplay) Draw(c draw.Canvas) {
	height := c.Max.Y - c.Min.Y
	width := c.Max.X - c.Min.X

	if d.Options.Title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(8)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		c.FillText(sty, vg.Point{X: c.Min.X + width/2, Y: c.Max.Y - vg.Points(4)}, d.Options.Title)
	}

	// Top 15% holds the title
	body := draw.Crop(c, width*0.02, -width*0.05, 0, -height*0.15)
	cbWidth := vg.Length(math.Min(float64(width)*0.12, float64(vg.Inch)))
	grid := draw.Crop(body, 0, -cbWidth, 0, 0)
	bar := draw.Crop(body, body.Max.X-body.Min.X-cbWidth+vg.Points(6), 0, 0, 0)

	tiles := draw.Tiles{
		Rows:      len(d.Plots),
		Cols:      len(d.Plots[0]),
		PadX:      vg.Points(4),
		PadY:      vg.Points(2),
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(d.Plots, tiles, grid)
	for i := range d.Plots {
		for j := range d.Plots[i] {
			d.Plots[i][j].Draw(canvases[i][j])
		}
	}
	d.Colorbar.Draw(bar)
}

// Save writes the display to filename. The image format follows the extension.
// PDF heat maps are drawn cell by cell since fpdf cannot embed the 16-bit
// rasters.
func (d *EventDisplay) Save(filename string) error {
	w := vg.Length(d.Options.Width) * vg.Inch
	h := vg.Length(d.Options.Height) * vg.Inch
	d.setRasterized(!strings.EqualFold(filepath.Ext(filename), ".pdf"))
	defer d.setRasterized(true)
	return SaveFigure(filename, w, h, d.Options.DPI, d.Draw)
}

func (d *EventDisplay) setRasterized(raster bool) {
	for _, h := range d.heatmaps {
		h.Rasterized = raster
	}
}

// SaveFigure creates a canvas for the extension of filename, draws on it and
// writes it out. Raster formats honour dpi.
func SaveFigure(filename string, w, h vg.Length, dpi int, drawFn func(draw.Canvas)) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	var c vg.CanvasWriterTo
	switch ext {
	case "png", "jpg", "jpeg", "tif", "tiff":
		if dpi <= 0 {
			dpi = vgimg.DefaultDPI
		}
		img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
		switch ext {
		case "png":
			c = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			c = vgimg.JpegCanvas{Canvas: img}
		default:
			c = vgimg.TiffCanvas{Canvas: img}
		}
	default:
		var err error
		c, err = draw.NewFormattedCanvas(w, h, ext)
		if err != nil {
			return fmt.Errorf("error creating %q: %w", filename, err)
		}
	}

	drawFn(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %q: %w", filename, err)
	}
	return f.Close()
}

// Trace is one line of a step plot.
type Trace struct {
	Name   string
	Values []float64
}

// PlotSteps draws traces as step lines against the sample index.
func PlotSteps(title string, traces []Trace) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (tick)"
	p.Y.Label.Text = "ADC"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, tr := range traces {
		xys := make(plotter.XYs, len(tr.Values))
		for j, v := range tr.Values {
			xys[j].X = float64(j)
			xys[j].Y = v
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("error adding trace %q: %w", tr.Name, err)
		}
		l.StepStyle = plotter.PreStep
		l.LineStyle.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(tr.Name, l)
	}
	return p, nil
}
