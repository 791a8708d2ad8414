package layout

// Measurer 是布局阶段依赖的唯一后端能力：给定字体与字号测量字符串宽度（mm）。
// 度量必须是 (text, font) 的纯函数；同一输入在一次 Build 过程中必须返回同一结果。
// 度量失败由实现方内部降级（例如退回 Estimator），不向引擎传播错误。
type Measurer interface {
	TextWidth(text string, font Font) float64
}

// BuildOptions 配置布局阶段所需的依赖与页面几何。
type BuildOptions struct {
	// Measurer 为空时使用 Estimator 估算宽度。
	Measurer Measurer
	// Page 的零值表示 A4 纵向、四边 15mm 边距、15mm 页脚区。
	Page PageConfig
	// FontFamily 是渲染后端解析字体的族名，默认 "Body"。
	FontFamily string
}

// PageConfig 描述页面几何；FooterBand 是页面底部为页码保留的区域高度。
// 内容区底部 = 页高 - max(下边距, FooterBand)。
type PageConfig struct {
	Width      float64
	Height     float64
	Margin     Margin
	FooterBand float64
}

// A4 纵向（mm）。
const (
	defaultPageWidth  = 210.0
	defaultPageHeight = 297.0
	defaultMarginMM   = 15.0
	defaultFooterBand = 15.0
)

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Measurer == nil {
		o.Measurer = Estimator{}
	}
	if o.Page.Width <= 0 {
		o.Page.Width = defaultPageWidth
	}
	if o.Page.Height <= 0 {
		o.Page.Height = defaultPageHeight
	}
	if o.Page.Margin == (Margin{}) {
		o.Page.Margin = Margin{Top: defaultMarginMM, Right: defaultMarginMM, Bottom: defaultMarginMM, Left: defaultMarginMM}
	}
	if o.Page.FooterBand <= 0 {
		o.Page.FooterBand = defaultFooterBand
	}
	if o.FontFamily == "" {
		o.FontFamily = "Body"
	}
	return o
}
