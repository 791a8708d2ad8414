package layout

import "github.com/mattn/go-runewidth"

// Estimator 在没有真实字体后端时按终端显示宽度估算文本宽度。
// runewidth 把全角字符记为 2 个单元，对中英文混排的估算比纯字符数更稳。
// 估算是确定性的，因此也用于测试与无渲染器的布局调试。
type Estimator struct {
	// CharWidth 是单个显示单元相对字号的宽度比例，<=0 时取 0.55。
	CharWidth float64
}

var _ Measurer = Estimator{}

// TextWidth 实现 Measurer。
func (e Estimator) TextWidth(text string, font Font) float64 {
	f := e.CharWidth
	if f <= 0 {
		f = 0.55
	}
	return float64(runewidth.StringWidth(text)) * font.Size * f
}
