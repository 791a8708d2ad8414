package ggrenderer

import (
	"bytes"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

// Raster preview backend. Pages are stacked vertically into a single PNG
// so a whole brief can be eyeballed in one image. All layout geometry is
// in mm; this backend converts to pixels at a fixed density. Glyph sizes
// do not follow the context transform in gg, so text positions are
// computed in pixel space directly and the transform stack is only used
// for scaled image blits.
const defaultDPMM = 96.0 / 25.4

type Renderer struct {
	baseDir  string
	fontPath string
	dpmm     float64

	// scratch context for measurement; renderers are single-render-at-a-time
	scratch *gg.Context
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the raster renderer. With an empty FontPath the
// context keeps gg's built-in bitmap face, which is deterministic and
// good enough for previews and tests.
type Options struct {
	BaseDir  string
	FontPath string
	DPMM     float64
}

func NewRenderer(opts Options) *Renderer {
	dpmm := opts.DPMM
	if dpmm <= 0 {
		dpmm = defaultDPMM
	}
	return &Renderer{baseDir: opts.BaseDir, fontPath: opts.FontPath, dpmm: dpmm}
}

// Render rasterises all pages into one PNG.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	width := 0
	height := 0
	for _, page := range result.Pages {
		if w := int(r.px(page.Width)); w > width {
			width = w
		}
		height += int(r.px(page.Height))
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	offsetY := 0.0
	for _, page := range result.Pages {
		if err := r.drawPage(dc, page, offsetY); err != nil {
			return nil, err
		}
		offsetY += r.px(page.Height)
		// page boundary marker
		dc.SetRGB255(200, 200, 200)
		dc.SetLineWidth(1)
		dc.DrawLine(0, offsetY, float64(width), offsetY)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) px(mm float64) float64 { return mm * r.dpmm }

// TextWidth implements layout.Measurer via gg's MeasureString, converted
// back to mm. With the built-in bitmap face the width does not track
// font.Size; configure a TTF via Options.FontPath when this renderer also
// drives layout.
func (r *Renderer) TextWidth(text string, font layout.Font) float64 {
	if r.scratch == nil {
		r.scratch = gg.NewContext(1, 1)
	}
	r.setFace(r.scratch, font)
	w, _ := r.scratch.MeasureString(text)
	return w / r.dpmm
}

func (r *Renderer) drawPage(dc *gg.Context, page layout.Page, offsetY float64) error {
	for _, ln := range page.Rules {
		w := ln.Width
		if w <= 0 {
			w = 0.2
		}
		dc.SetRGB255(ln.Color.R, ln.Color.G, ln.Color.B)
		dc.SetLineWidth(r.px(w))
		dc.DrawLine(r.px(ln.X1), r.px(ln.Y1)+offsetY, r.px(ln.X2), r.px(ln.Y2)+offsetY)
		dc.Stroke()
	}
	for _, tb := range page.Texts {
		r.drawTextBox(dc, tb, offsetY)
	}
	for _, table := range page.Tables {
		r.drawTable(dc, table, offsetY)
	}
	for _, img := range page.Images {
		r.drawImage(dc, img, offsetY)
	}
	if page.Footer != nil {
		r.drawTextBox(dc, *page.Footer, offsetY)
	}
	return nil
}

func (r *Renderer) drawTextBox(dc *gg.Context, tb layout.TextBox, offsetY float64) {
	r.setFace(dc, tb.Font)
	dc.SetRGB255(tb.Color.R, tb.Color.G, tb.Color.B)

	lines := tb.Lines
	if len(lines) == 0 && tb.Content != "" {
		lines = []layout.TextLine{{Content: tb.Content}}
	}

	ascent := dc.FontHeight() * 0.8
	y := r.px(tb.Y) + offsetY
	for _, line := range lines {
		if line.Content != "" {
			x := r.px(tb.X)
			switch strings.ToLower(tb.Align) {
			case "center":
				w, _ := dc.MeasureString(line.Content)
				x = r.px(tb.X) + (r.px(tb.Width)-w)/2
			case "right", "end":
				w, _ := dc.MeasureString(line.Content)
				x = r.px(tb.X) + r.px(tb.Width) - w
			}
			dc.DrawString(line.Content, x, y+ascent)
		}
		y += r.px(tb.LineHeight)
	}
}

func (r *Renderer) drawTable(dc *gg.Context, table layout.TableBox, offsetY float64) {
	for _, row := range table.Rows {
		fill := layout.Color{R: 255, G: 255, B: 255}
		switch {
		case row.IsHeader:
			fill = table.HeaderFill
		case row.Stripe:
			fill = table.StripeFill
		}
		x := r.px(table.X)
		y := r.px(row.Y) + offsetY
		for _, w := range table.ColumnWidths {
			dc.DrawRectangle(x, y, r.px(w), r.px(row.Height))
			dc.SetRGB255(fill.R, fill.G, fill.B)
			dc.FillPreserve()
			dc.SetRGB255(table.BorderColor.R, table.BorderColor.G, table.BorderColor.B)
			dc.SetLineWidth(r.px(0.2))
			dc.Stroke()
			x += r.px(w)
		}
		for _, cell := range row.Cells {
			if cell.Text != nil {
				r.drawTextBox(dc, *cell.Text, offsetY)
			}
			if cell.Image != nil {
				r.drawImage(dc, *cell.Image, offsetY)
			}
		}
	}
}

func (r *Renderer) drawImage(dc *gg.Context, box layout.ImageBox, offsetY float64) {
	if box.Path == "" || box.Width <= 0 || box.Height <= 0 {
		return
	}
	path := box.Path
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	img, err := gg.LoadImage(path)
	if err != nil {
		log.Printf("render: 图片 %s 加载失败: %v", box.Path, err)
		// broken image placeholder
		x, y := r.px(box.X), r.px(box.Y)+offsetY
		w, h := r.px(box.Width), r.px(box.Height)
		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		dc.SetRGB(0.5, 0.5, 0.5)
		dc.SetLineWidth(2)
		dc.DrawLine(x, y, x+w, y+h)
		dc.DrawLine(x+w, y, x, y+h)
		dc.Stroke()
		return
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Translate(r.px(box.X), r.px(box.Y)+offsetY)
	dc.Scale(r.px(box.Width)/float64(bounds.Dx()), r.px(box.Height)/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// setFace switches the context to the configured font at the pixel size
// matching font.Size. Without a font file gg keeps its built-in face.
func (r *Renderer) setFace(dc *gg.Context, font layout.Font) {
	if r.fontPath == "" {
		return
	}
	path := r.fontPath
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	if err := dc.LoadFontFace(path, r.px(font.Size)); err != nil {
		log.Printf("render: 加载字体 %s 失败: %v", r.fontPath, err)
	}
}
