package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

const tableBorderWidth = 0.2

// Renderer 基于 github.com/tdewolff/canvas 将布局结果绘制为 PDF。
// 同时实现 layout.Measurer，使布局与渲染使用同一套字体度量。
type Renderer struct {
	baseDir string

	// 按样式名（""/Bold/Italic 等）映射到 TTF 路径；缺失的样式回退到系统字体。
	fontPaths map[string]string

	fontMu   sync.Mutex
	families map[string]*familyEntry
	estimate layout.Estimator
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type familyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
	err    error
}

// Options 配置 canvas 渲染器。
type Options struct {
	BaseDir   string            // 相对路径资源（图片、字体）的根目录
	FontPaths map[string]string // 样式名 -> TTF 文件路径
}

// NewRenderer 创建以 baseDir 为资源根目录的渲染器。
func NewRenderer(baseDir string) *Renderer {
	return NewRendererWithOptions(Options{BaseDir: baseDir})
}

// NewRendererWithOptions 创建带字体配置的渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		baseDir:   opts.BaseDir,
		fontPaths: opts.FontPaths,
		families:  map[string]*familyEntry{},
	}
}

// Render 将结果渲染为 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
}

// TextWidth 实现 layout.Measurer。入参与返回值均为 mm；与字体系统交互
// 使用 pt，在边界做 mm↔pt 换算。字体不可用时退回估算测量，保证布局总能进行。
func (r *Renderer) TextWidth(text string, font layout.Font) float64 {
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		return r.estimate.TextWidth(text, font)
	}
	return face.TextWidth(text) * layout.PtToMm
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, ln := range page.Rules {
		r.drawLine(ctx, ln)
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	if err := r.drawTables(ctx, page.Tables); err != nil {
		return err
	}
	for _, img := range page.Images {
		if err := r.drawImage(ctx, img); err != nil {
			return err
		}
	}
	if page.Footer != nil {
		if err := r.drawTextBox(ctx, *page.Footer); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 && tb.Content != "" {
		lines = []layout.TextLine{{Content: tb.Content}}
	}

	// 水平对齐：left（默认）/center/right
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent * layout.PtToMm
	cursorY := tb.Y
	for _, line := range lines {
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, textAlign)
			ctx.DrawText(anchorX, cursorY+ascent, textLine)
		}
		cursorY += tb.LineHeight
	}
	return nil
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox) error {
	for _, table := range tables {
		for _, row := range table.Rows {
			var fill color.Color = canvas.White
			switch {
			case row.IsHeader:
				fill = colorFromLayout(table.HeaderFill)
			case row.Stripe:
				fill = colorFromLayout(table.StripeFill)
			}
			x := table.X
			for _, w := range table.ColumnWidths {
				ctx.SetFillColor(fill)
				ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
				ctx.SetStrokeWidth(tableBorderWidth)
				ctx.DrawPath(x, row.Y, canvas.Rectangle(w, row.Height))
				x += w
			}
			for _, cell := range row.Cells {
				if cell.Text != nil {
					if err := r.drawTextBox(ctx, *cell.Text); err != nil {
						return err
					}
				}
				if cell.Image != nil {
					if err := r.drawImage(ctx, *cell.Image); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// drawImage 绘制图片。图片读取或解码失败降级为路径文本，不中断渲染。
func (r *Renderer) drawImage(ctx *canvas.Context, img layout.ImageBox) error {
	if img.Path == "" || img.Width <= 0 {
		return nil
	}
	data, err := r.decodeImage(img.Path)
	if err != nil {
		log.Printf("render: 图片 %s 加载失败，按路径文本绘制: %v", img.Path, err)
		return r.drawTextBox(ctx, layout.TextBox{
			Content:    img.Path,
			X:          img.X,
			Y:          img.Y,
			Width:      img.Width,
			LineHeight: 8 * layout.PtToMm * 1.4,
			Font:       layout.Font{Family: "Body", Size: 8 * layout.PtToMm},
			Color:      layout.Color{R: 128, G: 128, B: 128},
			Lines:      []layout.TextLine{{Content: img.Path}},
		})
	}
	dpmm := float64(data.Bounds().Dx()) / img.Width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(img.X, img.Y, data, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) decodeImage(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, _, err := image.Decode(file)
	return data, err
}

func (r *Renderer) drawLine(ctx *canvas.Context, ln layout.Line) {
	w := ln.Width
	if w <= 0 {
		w = tableBorderWidth
	}
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	ctx.DrawPath(ln.X1, ln.Y1, p)
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size*layout.MmToPt, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 按样式缓存字体族。加载顺序：配置的 TTF 路径，其次
// 系统无衬线字体。失败结果同样缓存，避免反复读盘。
func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Family + "|" + font.Style
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.families[key]; ok {
		return entry.family, entry.style, entry.err
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)
	err := r.loadFontIntoFamily(family, font.Style, style)
	if err != nil {
		family = nil
	}
	r.families[key] = &familyEntry{family: family, style: style, err: err}
	return family, style, err
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, styleName string, style canvas.FontStyle) error {
	path, ok := r.fontPaths[styleName]
	if !ok {
		path = r.fontPaths[""]
	}
	if path != "" {
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("读取字体 %s 失败: %w", path, err)
		}
		return family.LoadFont(data, 0, style)
	}
	if err := family.LoadSystemFont("sans-serif", style); err != nil {
		return fmt.Errorf("加载系统字体失败: %w", err)
	}
	return nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
