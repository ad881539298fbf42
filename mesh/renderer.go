package mesh

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/soypat/geometry/md3"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SnapshotRenderer draws an orthographic XY projection of a registration:
// fixed vertices, moving vertices, optionally the displaced vertices and
// the correspondence segments between moving vertices and their targets.
// Purely a debugging aid; it has no effect on registration results.
type SnapshotRenderer struct {
	Fixed     *Mesh
	Moving    *Mesh
	Displaced *Mesh     // Optional
	Targets   []md3.Vec // Optional, indexed by moving vertex identifier

	PointRadius float64           // Marker radius in world units
	Padding     float64           // Border padding in world units
	Resolution  canvas.Resolution // Resolution for PNG output
}

// NewSnapshotRenderer creates a renderer with default settings
func NewSnapshotRenderer(fixed, moving *Mesh) *SnapshotRenderer {
	return &SnapshotRenderer{
		Fixed:       fixed,
		Moving:      moving,
		PointRadius: 1.0,
		Padding:     10.0,
		Resolution:  canvas.DPI(300),
	}
}

// ApplyConfig overrides the renderer's settings from a RenderConfig.
// Zero-valued fields keep their current setting.
func (r *SnapshotRenderer) ApplyConfig(cfg RenderConfig) {
	if cfg.PointRadius > 0 {
		r.PointRadius = cfg.PointRadius
	}
	if cfg.Padding > 0 {
		r.Padding = cfg.Padding
	}
	if cfg.DPI > 0 {
		r.Resolution = canvas.DPI(cfg.DPI)
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// WriteSVG writes the snapshot as an SVG to the provided writer
func (r *SnapshotRenderer) WriteSVG(w io.Writer) error {
	minX, minY, width, height := r.frame()

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, width, height)
	if err := svgRenderer.Close(); err != nil {
		return fmt.Errorf("closing SVG renderer: %w", err)
	}
	return nil
}

// WritePNG writes the snapshot as a PNG to the provided writer, with mesh
// name labels drawn on the rasterized image.
func (r *SnapshotRenderer) WritePNG(w io.Writer) error {
	minX, minY, width, height := r.frame()

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, width, height)
	r.drawLegend(rast)

	return png.Encode(w, rast)
}

// SavePNG renders the snapshot to a PNG file
func (r *SnapshotRenderer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return r.WritePNG(f)
}

// SaveSVG renders the snapshot to an SVG file
func (r *SnapshotRenderer) SaveSVG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return r.WriteSVG(f)
}

// frame computes the world-space bounds of all drawn meshes plus padding.
func (r *SnapshotRenderer) frame() (minX, minY, width, height float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	for _, m := range []*Mesh{r.Fixed, r.Moving, r.Displaced} {
		if m == nil {
			continue
		}
		for _, v := range m.Vertices() {
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}
	if minX > maxX {
		// Nothing to draw; keep a small non-degenerate frame.
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	width = (maxX - minX) + 2*r.Padding
	height = (maxY - minY) + 2*r.Padding
	return minX, minY, width, height
}

// renderToCanvas renders the snapshot to a canvas renderer (shared logic
// for SVG and PNG)
func (r *SnapshotRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, width, height float64) {
	// White background
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(v md3.Vec) (float64, float64) {
		return (v.X - minX) + r.Padding, (v.Y - minY) + r.Padding
	}

	// Correspondence segments under the markers
	if r.Targets != nil && r.Moving != nil {
		segStyle := canvas.DefaultStyle
		segStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		segStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		segStyle.StrokeWidth = r.PointRadius / 4

		for i, v := range r.Moving.Vertices() {
			if i >= len(r.Targets) {
				break
			}
			x0, y0 := toCanvas(v)
			x1, y1 := toCanvas(r.Targets[i])
			seg := &canvas.Path{}
			seg.MoveTo(x0, y0)
			seg.LineTo(x1, y1)
			renderer.RenderPath(seg, segStyle, canvas.Identity)
		}
	}

	r.renderVertices(renderer, r.Fixed, toCanvas, color.RGBA{R: 60, G: 60, B: 60, A: 255})
	r.renderVertices(renderer, r.Moving, toCanvas, color.RGBA{R: 220, G: 50, B: 50, A: 255})
	r.renderVertices(renderer, r.Displaced, toCanvas, color.RGBA{R: 40, G: 160, B: 60, A: 255})
}

func (r *SnapshotRenderer) renderVertices(renderer canvasRenderer, m *Mesh, toCanvas func(md3.Vec) (float64, float64), c color.RGBA) {
	if m == nil {
		return
	}
	style := canvas.DefaultStyle
	style.Fill = canvas.Paint{Color: c}
	style.Stroke = canvas.Paint{Color: canvas.Transparent}

	for _, v := range m.Vertices() {
		cx, cy := toCanvas(v)
		marker := canvas.Circle(r.PointRadius)
		marker = marker.Translate(cx, cy)
		renderer.RenderPath(marker, style, canvas.Identity)
	}
}

// drawLegend writes mesh names in the top-left corner of the raster image.
func (r *SnapshotRenderer) drawLegend(img draw.Image) {
	y := 16
	entries := []struct {
		m *Mesh
		c color.RGBA
	}{
		{r.Fixed, color.RGBA{R: 60, G: 60, B: 60, A: 255}},
		{r.Moving, color.RGBA{R: 220, G: 50, B: 50, A: 255}},
		{r.Displaced, color.RGBA{R: 40, G: 160, B: 60, A: 255}},
	}
	for _, e := range entries {
		if e.m == nil {
			continue
		}
		drawText(img, 8, y, fmt.Sprintf("%s (%d vertices)", e.m.Name, e.m.NumVertices()), e.c)
		y += 16
	}
}

// drawText renders text onto an image at the specified position
func drawText(img draw.Image, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
