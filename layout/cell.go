package layout

import (
	"fmt"

	"github.com/ByLCY/vellum/doc"
)

// 单元格与行的布局计算。行高取各单元格所需高度的最大值；
// 较矮的单元格在多出的空间里顶部对齐（确定性规则，影响观感不影响正确性）。

// cellLayout 是单个单元格的布局结果：折行文本或图片槽位，以及所需高度。
type cellLayout struct {
	lines  []TextLine
	image  *imageSlot
	height float64
}

// imageSlot 记录图片在单元格内的缩放尺寸；水平居中在组装行时计算。
type imageSlot struct {
	path   string
	width  float64
	height float64
}

// rowLayout 聚合一行所有单元格的布局结果。
type rowLayout struct {
	height float64
	cells  []cellLayout
}

// layoutCell 计算一个单元格的折行与高度。
// 文本在 colWidth - 2*cellPadding 内折行；图片按固定行高等比缩放并钳制到
// 单元格内宽。尺寸无效的图片退化为路径文本并记录警告。
func (b *builder) layoutCell(cell doc.Cell, colWidth float64, font Font) cellLayout {
	inner := colWidth - 2*cellPadding
	if inner <= 0 {
		inner = colWidth
	}
	lh := lineHeightFor(font)

	switch {
	case cell.Image != nil:
		img := cell.Image
		if img.Width <= 0 || img.Height <= 0 {
			b.warn(WarnImageFallback, fmt.Sprintf("图片 %s 尺寸无效，按路径文本渲染", img.Path))
			return b.textCellLayout(img.Path, inner, font, lh)
		}
		w := scaledImageWidth(img)
		if w > inner {
			w = inner
		}
		return cellLayout{
			image:  &imageSlot{path: img.Path, width: w, height: imageRowHeight},
			height: imageRowHeight + 2*cellPadding,
		}
	case cell.Text != nil:
		return b.textCellLayout(cell.Text.Content, inner, font, lh)
	default:
		// 空单元格仍占一行高，保持行框完整
		return cellLayout{height: lh + 2*cellPadding}
	}
}

func (b *builder) textCellLayout(content string, inner float64, font Font, lh float64) cellLayout {
	lines := wrapText(content, inner, font, b.m)
	h := float64(len(lines))*lh + 2*cellPadding
	if len(lines) == 0 {
		h = lh + 2*cellPadding
	}
	return cellLayout{lines: lines, height: h}
}

// layoutRow 计算一行的布局；行高 = max(单元格高度)。
func (b *builder) layoutRow(row doc.Row, widths []float64, font Font) rowLayout {
	rl := rowLayout{}
	for i, cell := range row.Cells {
		if i >= len(widths) {
			break
		}
		cl := b.layoutCell(cell, widths[i], font)
		rl.cells = append(rl.cells, cl)
		if cl.height > rl.height {
			rl.height = cl.height
		}
	}
	return rl
}
