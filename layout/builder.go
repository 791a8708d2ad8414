package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/vellum/doc"
)

// 布局常量（mm 或 pt，按名称区分）。字号沿用简报 PDF 的既定样式。
const (
	blockSpacing   = 3.0  // 块与块之间的纵向间距（mm）
	cellPadding    = 1.2  // 单元格内边距（mm）
	bulletIndent   = 5.0  // 列表项缩进（mm）
	lineFactor     = 1.4  // 行高 = 字号 × lineFactor
	imageRowHeight = 18.0 // 图片单元格的固定内容高度（mm）
	ruleGap        = 1.5  // 标题与下划线之间的间距（mm）

	bodySizePt   = 9.0
	tableSizePt  = 9.0
	footerSizePt = 8.0
)

// 标题字号按级别递减；3 级以上按 3 级处理。
var headingSizesPt = [3]float64{20, 14, 12}

var (
	textColor   = Color{R: 30, G: 30, B: 30}
	borderColor = Color{R: 200, G: 200, B: 200}
	headerFill  = Color{R: 240, G: 240, B: 240}
	stripeFill  = Color{R: 247, G: 247, B: 247}
)

// Build 将文档模型排版为页面序列。
// 排版严格单线程：每个块的落点取决于前一个块留下的光标位置。
// 布局永远会产出结果；几何上放不下的内容以 Warning 形式降级记录。
func Build(d *doc.Document, opts BuildOptions) (*Result, error) {
	if d == nil {
		return nil, fmt.Errorf("文档为空")
	}
	opts = opts.withDefaults()

	b := &builder{
		m:         opts.Measurer,
		family:    opts.FontFamily,
		collector: newPageCollector(opts.Page),
	}
	b.cursorY = b.collector.contentTop()

	for _, blk := range d.Blocks {
		switch {
		case blk == nil:
			continue
		case blk.Heading != nil:
			b.placeHeading(blk.Heading)
		case blk.Paragraph != nil:
			b.placeParagraph(blk.Paragraph)
		case blk.Bullet != nil:
			b.placeBullet(blk.Bullet)
		case blk.Table != nil:
			b.placeTable(blk.Table)
		}
	}

	meta := DocumentMeta{
		Title:    d.Meta.Title,
		Author:   d.Meta.Author,
		Subject:  d.Meta.Subject,
		Creator:  d.Meta.Creator,
		Keywords: d.Meta.Keywords,
	}
	if meta.Creator == "" {
		meta.Creator = "Vellum"
	}

	return &Result{
		Pages:    b.collector.pages(b.footerFont(), b.m),
		Warnings: b.warnings,
		Meta:     meta,
	}, nil
}

// builder 持有一次 Build 的全部可变状态。
type builder struct {
	m         Measurer
	family    string
	collector *pageCollector
	cursorY   float64
	warnings  []Warning
}

func (b *builder) warn(kind WarnKind, detail string) {
	b.warnings = append(b.warnings, Warning{Kind: kind, Detail: detail})
}

func (b *builder) usableWidth() float64 {
	return b.collector.width - b.collector.margin.Left - b.collector.margin.Right
}

// ensureSpace 在任何光标移动之前判断剩余高度，必要时换页。
// required 必须在调用前算好；先判断后落点，避免判定与落点之间的偏差产生空页。
func (b *builder) ensureSpace(required float64) bool {
	if b.cursorY+required <= b.collector.contentBottom()+1e-9 {
		return false
	}
	b.pageBreak()
	return true
}

func (b *builder) pageBreak() {
	b.collector.newPage()
	b.cursorY = b.collector.contentTop()
}

func lineHeightFor(font Font) float64 {
	return font.Size * lineFactor
}

func (b *builder) bodyFont() Font {
	return Font{Family: b.family, Size: bodySizePt * PtToMm}
}

func (b *builder) headingFont(level int) Font {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(headingSizesPt) {
		idx = len(headingSizesPt) - 1
	}
	return Font{Family: b.family, Size: headingSizesPt[idx] * PtToMm, Style: "Bold"}
}

func (b *builder) tableFont(header bool) Font {
	f := Font{Family: b.family, Size: tableSizePt * PtToMm}
	if header {
		f.Style = "Bold"
	}
	return f
}

func (b *builder) footerFont() Font {
	return Font{Family: b.family, Size: footerSizePt * PtToMm, Style: "Italic"}
}

// placeHeading 整体放置标题（标题不跨页拆行），2 级标题下加分隔线。
func (b *builder) placeHeading(h *doc.Heading) {
	font := b.headingFont(h.Level)
	lh := lineHeightFor(font)
	lines := wrapText(h.Text, b.usableWidth(), font, b.m)
	if len(lines) == 0 {
		return
	}
	height := float64(len(lines)) * lh
	extra := 0.0
	if h.Level == 2 {
		extra = ruleGap
	}
	b.ensureSpace(height + extra)

	acc := b.collector.curr()
	acc.texts = append(acc.texts, TextBox{
		Content:    joinLines(lines),
		X:          b.collector.margin.Left,
		Y:          b.cursorY,
		Width:      b.usableWidth(),
		Height:     height,
		LineHeight: lh,
		Font:       font,
		Color:      textColor,
		Lines:      lines,
	})
	if h.Level == 2 {
		y := b.cursorY + height + ruleGap
		acc.rules = append(acc.rules, Line{
			X1:    b.collector.margin.Left,
			Y1:    y,
			X2:    b.collector.margin.Left + b.usableWidth(),
			Y2:    y,
			Width: 0.2,
			Color: borderColor,
		})
	}
	b.cursorY += height + extra + blockSpacing
}

func (b *builder) placeParagraph(p *doc.Paragraph) {
	font := b.bodyFont()
	lines := wrapText(p.Text, b.usableWidth(), font, b.m)
	b.placeLines(lines, b.collector.margin.Left, b.usableWidth(), font)
}

// placeBullet 放置列表项：圆点并入首行内容，整体缩进。
func (b *builder) placeBullet(bl *doc.Bullet) {
	font := b.bodyFont()
	width := b.usableWidth() - bulletIndent
	lines := wrapText("•  "+bl.Text, width, font, b.m)
	b.placeLines(lines, b.collector.margin.Left+bulletIndent, width, font)
}

// placeLines 以折行后的行为最小放置单位，段落允许按行跨页。
func (b *builder) placeLines(lines []TextLine, x, width float64, font Font) {
	if len(lines) == 0 {
		return
	}
	lh := lineHeightFor(font)
	for len(lines) > 0 {
		avail := b.collector.contentBottom() - b.cursorY
		fit := int(math.Floor((avail + 1e-9) / lh))
		if fit <= 0 {
			b.pageBreak()
			continue
		}
		if fit > len(lines) {
			fit = len(lines)
		}
		chunk := lines[:fit]
		lines = lines[fit:]
		h := float64(len(chunk)) * lh
		acc := b.collector.curr()
		acc.texts = append(acc.texts, TextBox{
			Content:    joinLines(chunk),
			X:          x,
			Y:          b.cursorY,
			Width:      width,
			Height:     h,
			LineHeight: lh,
			Font:       font,
			Color:      textColor,
			Lines:      chunk,
		})
		b.cursorY += h
	}
	b.cursorY += blockSpacing
}

// placeTable 放置表格：列宽一次性分配，行是原子放置单位（不跨页拆单元格），
// 表格跨到的每一页都先重排表头行再继续数据行。
func (b *builder) placeTable(t *doc.Table) {
	if len(t.Headers) == 0 {
		return
	}
	widths, warn := allocateColumns(t, b.usableWidth(), b.tableFont(false), b.m)
	if warn != nil {
		b.warnings = append(b.warnings, *warn)
	}

	headerRow := b.layoutRow(doc.TextRow(t.Headers...), widths, b.tableFont(true))
	dataFont := b.tableFont(false)
	rows := make([]rowLayout, len(t.Rows))
	for i := range t.Rows {
		rows[i] = b.layoutRow(t.Rows[i], widths, dataFont)
	}
	budget := b.collector.pageBudget() - headerRow.height

	// 避免孤立表头：表头连同首行一起判断换页
	need := headerRow.height
	if len(rows) > 0 {
		need += math.Min(rows[0].height, budget)
	}
	b.ensureSpace(need)

	tb := b.beginTable(widths)
	b.appendRow(tb, headerRow, b.tableFont(true), true, false)

	stripe := false
	for i, rl := range rows {
		if rl.height > budget {
			b.warn(WarnRowOverflow, fmt.Sprintf("第 %d 行高度 %.1fmm 超过整页可用高度 %.1fmm，该行独占一页", i+1, rl.height, budget))
		}
		if b.cursorY+rl.height > b.collector.contentBottom()+1e-9 {
			b.pageBreak()
			tb = b.beginTable(widths)
			b.appendRow(tb, headerRow, b.tableFont(true), true, false)
			// 换页加表头后仍放不下的超高行就地落下，纵向溢出但不拆行
		}
		b.appendRow(tb, rl, dataFont, false, stripe)
		stripe = !stripe
	}
	b.cursorY += blockSpacing
}

// beginTable 在当前页开启一个表格片段。
func (b *builder) beginTable(widths []float64) *TableBox {
	acc := b.collector.curr()
	acc.tables = append(acc.tables, TableBox{
		X:            b.collector.margin.Left,
		Y:            b.cursorY,
		Width:        sumWidths(widths),
		ColumnWidths: append([]float64(nil), widths...),
		BorderColor:  borderColor,
		HeaderFill:   headerFill,
		StripeFill:   stripeFill,
	})
	return &acc.tables[len(acc.tables)-1]
}

// appendRow 把一行落到当前光标处并推进光标。
// 单元格内容顶部对齐；图片在单元格内水平居中。
func (b *builder) appendRow(tb *TableBox, rl rowLayout, font Font, header, stripe bool) {
	tr := TableRow{Y: b.cursorY, Height: rl.height, IsHeader: header, Stripe: stripe}
	lh := lineHeightFor(font)
	x := tb.X
	for i, cl := range rl.cells {
		if i >= len(tb.ColumnWidths) {
			break
		}
		w := tb.ColumnWidths[i]
		cell := TableCell{X: x, Width: w}
		switch {
		case cl.image != nil:
			cell.Image = &ImageBox{
				Path:   cl.image.path,
				X:      x + (w-cl.image.width)/2,
				Y:      b.cursorY + cellPadding,
				Width:  cl.image.width,
				Height: cl.image.height,
			}
		default:
			align := ""
			if header {
				align = "center"
			}
			cell.Text = &TextBox{
				Content:    joinLines(cl.lines),
				X:          x + cellPadding,
				Y:          b.cursorY + cellPadding,
				Width:      w - 2*cellPadding,
				Height:     float64(len(cl.lines)) * lh,
				LineHeight: lh,
				Font:       font,
				Color:      textColor,
				Align:      align,
				Lines:      cl.lines,
			}
		}
		tr.Cells = append(tr.Cells, cell)
		x += w
	}
	tb.Rows = append(tb.Rows, tr)
	b.cursorY += rl.height
}
