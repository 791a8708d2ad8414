package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vellum/doc"
)

// 列宽分配：以测量宽度之和作为列权重做比例分配，同时以
// “最长不可断词宽度 + 两侧内边距”为每列下限。权重与下限使用同一个
// 测量 oracle，保证两者量纲一致（权重口径在此固定为测量宽度而非字符数）。

// allocateColumns 计算各列宽度，返回的宽度之和等于 totalWidth（浮点容差内）。
// 下限锁定后按剩余宽度对未锁定列重分配；若所有列都被下限锁定且仍放不下，
// 保持下限并返回 WarnColumnOverflow（表格横向溢出但不中断渲染）。
// 单列下限不会超过 totalWidth：比总宽还宽的词无论如何都要靠字符折行消化。
func allocateColumns(t *doc.Table, totalWidth float64, font Font, m Measurer) ([]float64, *Warning) {
	n := len(t.Headers)
	if n == 0 || totalWidth <= 0 {
		return nil, nil
	}

	minw := make([]float64, n)
	weight := make([]float64, n)
	consider := func(col int, content string) {
		if content == "" {
			return
		}
		weight[col] += m.TextWidth(content, font)
		for _, word := range strings.Fields(content) {
			if w := m.TextWidth(word, font) + 2*cellPadding; w > minw[col] {
				minw[col] = w
			}
		}
	}
	for col := 0; col < n; col++ {
		consider(col, t.Headers[col])
		for _, row := range t.Rows {
			if col >= len(row.Cells) {
				continue
			}
			cell := row.Cells[col]
			switch {
			case cell.Text != nil:
				consider(col, cell.Text.Content)
			case cell.Image != nil:
				// 图片按固定行高等比缩放，目标宽度同时计入权重与下限
				w := scaledImageWidth(cell.Image) + 2*cellPadding
				weight[col] += w
				if w > minw[col] {
					minw[col] = w
				}
			}
		}
		if minw[col] > totalWidth {
			minw[col] = totalWidth
		}
	}

	widths := make([]float64, n)
	locked := make([]bool, n)
	for {
		remaining := totalWidth
		totalWeight := 0.0
		unlocked := 0
		for i := 0; i < n; i++ {
			if locked[i] {
				remaining -= minw[i]
			} else {
				totalWeight += weight[i]
				unlocked++
			}
		}
		if unlocked == 0 || remaining <= 0 {
			break
		}

		changed := false
		for i := 0; i < n; i++ {
			if locked[i] {
				continue
			}
			var w float64
			if totalWeight > 0 {
				w = weight[i] / totalWeight * remaining
			} else {
				w = remaining / float64(unlocked)
			}
			if w < minw[i]-1e-9 {
				locked[i] = true
				changed = true
			} else {
				widths[i] = w
			}
		}
		if !changed {
			for i := 0; i < n; i++ {
				if locked[i] {
					widths[i] = minw[i]
				}
			}
			return widths, nil
		}
	}

	// 所有列锁定在下限：可能横向溢出
	sum := 0.0
	for i := 0; i < n; i++ {
		widths[i] = minw[i]
		sum += minw[i]
	}
	if sum > totalWidth+1e-9 {
		return widths, &Warning{
			Kind:   WarnColumnOverflow,
			Detail: fmt.Sprintf("列最小宽度之和 %.2fmm 超出表格可用宽度 %.2fmm", sum, totalWidth),
		}
	}
	return widths, nil
}

// scaledImageWidth 返回图片在固定单元格行高下的等比宽度。
func scaledImageWidth(img *doc.ImageCell) float64 {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return 0
	}
	return imageRowHeight * float64(img.Width) / float64(img.Height)
}

// sumWidths 求列宽之和。
func sumWidths(widths []float64) float64 {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	return total
}
