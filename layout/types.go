package layout

// 该文件定义布局结果类型，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以毫米为单位，原点在页面左上角。

// Result 保存布局后的页面序列与布局过程中收集的警告。
// 页面内的元素序列即交给渲染后端的全部绘制指令；引擎不会回读它们。
type Result struct {
	Pages    []Page       `json:"pages"`
	Warnings []Warning    `json:"warnings,omitempty"`
	Meta     DocumentMeta `json:"meta"`
}

// DocumentMeta 保存输出文件元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Page 记录页面尺寸、边距与可以直接渲染的元素。
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images,omitempty"`
	Tables []TableBox `json:"tables,omitempty"`
	Rules  []Line     `json:"rules,omitempty"`
	// Footer 在收尾阶段统一盖章，携带页码。
	Footer *TextBox `json:"footer,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Font 描述一次文本度量/绘制使用的字体：族名、字号（mm）与样式。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Style  string  `json:"style,omitempty"` // ""/Bold/Italic/BoldItalic
}

// TextBox 表示一个已经排好坐标与折行的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	LineHeight float64    `json:"lineHeight"`
	Font       Font       `json:"font"`
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left(默认)/center/right
	Lines      []TextLine `json:"lines"`
}

// TextLine 表示排版后的一行文本及其测量宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// ImageBox 描述图片位置与缩放后的尺寸。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableBox 保存一张表格在单个页面上的片段。
// 跨页的表格会产生多个 TableBox，每个片段都以表头行开始。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	HeaderFill   Color      `json:"headerFill"`
	StripeFill   Color      `json:"stripeFill"`
}

// TableRow 记录每一行的纵向位置、高度与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Stripe   bool        `json:"stripe"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 是文本或图片二选一；X/Width 为单元格外框（含内边距）。
type TableCell struct {
	X     float64   `json:"x"`
	Width float64   `json:"width"`
	Text  *TextBox  `json:"text,omitempty"`
	Image *ImageBox `json:"image,omitempty"`
}

// Line 表示一条线段（标题下划线等装饰）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`
	Color Color   `json:"color"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// WarnKind 区分布局警告类别。
type WarnKind string

const (
	// WarnColumnOverflow 表示列最小宽度之和超出表格可用宽度，表格将横向溢出。
	WarnColumnOverflow WarnKind = "column-overflow"
	// WarnRowOverflow 表示单行高度超过整页可用高度，该行独占一页并纵向溢出。
	WarnRowOverflow WarnKind = "row-overflow"
	// WarnImageFallback 表示图片单元格退化为路径文本。
	WarnImageFallback WarnKind = "image-fallback"
)

// Warning 是非致命的布局降级记录；渲染总是继续。
type Warning struct {
	Kind   WarnKind `json:"kind"`
	Detail string   `json:"detail"`
}
