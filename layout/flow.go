package layout

import "fmt"

// 页面收集器与光标：跨页状态唯一地由 builder.cursorY 与 collector 持有，
// 每次 Build 拥有独立实例，文档之间不共享任何可变状态。

type pageAccumulator struct {
	texts  []TextBox
	images []ImageBox
	tables []TableBox
	rules  []Line
}

type pageCollector struct {
	width      float64
	height     float64
	margin     Margin
	footerBand float64
	accs       []*pageAccumulator
	current    int
}

func newPageCollector(cfg PageConfig) *pageCollector {
	pc := &pageCollector{
		width:      cfg.Width,
		height:     cfg.Height,
		margin:     cfg.Margin,
		footerBand: cfg.FooterBand,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	return pc.accs[pc.current]
}

func (pc *pageCollector) contentTop() float64 {
	return pc.margin.Top
}

// contentBottom：内容区底部 = 页高 - max(下边距, 页脚区高度)。
func (pc *pageCollector) contentBottom() float64 {
	b := pc.margin.Bottom
	if pc.footerBand > b {
		b = pc.footerBand
	}
	return pc.height - b
}

// pageBudget 是一页可用的内容高度。
func (pc *pageCollector) pageBudget() float64 {
	return pc.contentBottom() - pc.contentTop()
}

// pages 把累积的页面收尾为结果页，并给每页盖上 "Page n/N" 页脚。
func (pc *pageCollector) pages(footerFont Font, m Measurer) []Page {
	total := len(pc.accs)
	out := make([]Page, total)
	for i, acc := range pc.accs {
		out[i] = Page{
			Number: i + 1,
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Texts:  acc.texts,
			Images: acc.images,
			Tables: acc.tables,
			Rules:  acc.rules,
			Footer: pc.footerBox(i+1, total, footerFont, m),
		}
	}
	return out
}

func (pc *pageCollector) footerBox(number, total int, font Font, m Measurer) *TextBox {
	if pc.footerBand <= 0 {
		return nil
	}
	content := fmt.Sprintf("Page %d/%d", number, total)
	lh := lineHeightFor(font)
	width := pc.width - pc.margin.Left - pc.margin.Right
	return &TextBox{
		Content:    content,
		X:          pc.margin.Left,
		Y:          pc.height - pc.footerBand + (pc.footerBand-lh)/2,
		Width:      width,
		Height:     lh,
		LineHeight: lh,
		Font:       font,
		Color:      Color{R: 128, G: 128, B: 128},
		Align:      "center",
		Lines:      []TextLine{{Content: content, Width: m.TextWidth(content, font)}},
	}
}
