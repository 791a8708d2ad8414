package doc

// 该文件定义布局引擎输入的文档模型：块序列、表格与单元格变体。
// 模型一经构建即视为只读，布局阶段不会修改它。

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Document 是一次渲染的输入：有序的块序列加上 PDF 元信息。
type Document struct {
	Meta   Meta     `json:"meta"`
	Blocks []*Block `json:"blocks"`
}

// Meta 保存输出文件的元信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Block 是块级变体：Heading/Paragraph/Bullet/Table 四选一。
type Block struct {
	Heading   *Heading   `json:"heading,omitempty"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Bullet    *Bullet    `json:"bullet,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

// Kind returns the human-readable block type.
func (b *Block) Kind() string {
	switch {
	case b == nil:
		return "unknown"
	case b.Heading != nil:
		return "heading"
	case b.Paragraph != nil:
		return "paragraph"
	case b.Bullet != nil:
		return "bullet"
	case b.Table != nil:
		return "table"
	default:
		return "unknown"
	}
}

// Heading 级别从 1 开始，3 级以上按 3 级排版。
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Paragraph 是一段连续文本，内部允许显式换行。
type Paragraph struct {
	Text string `json:"text"`
}

// Bullet 是一条列表项。
type Bullet struct {
	Text string `json:"text"`
}

// Table 不变式：每一行的单元格数与表头列数一致。
// 该不变式由 NewTable 在构建时补齐空单元格保证，布局阶段不再处理。
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Row 是一行单元格。
type Row struct {
	Cells []Cell `json:"cells"`
}

// Cell 是单元格变体：文本或图片，构建时确定，绘制阶段不再探测。
type Cell struct {
	Text  *TextCell  `json:"text,omitempty"`
	Image *ImageCell `json:"image,omitempty"`
}

// Kind returns the human-readable cell type.
func (c Cell) Kind() string {
	switch {
	case c.Text != nil:
		return "text"
	case c.Image != nil:
		return "image"
	default:
		return "empty"
	}
}

// TextCell 保存纯文本内容。
type TextCell struct {
	Content string `json:"content"`
}

// ImageCell 记录图片路径与固有像素尺寸。
// 尺寸在构建时读取一次，布局阶段据此按固定单元格高度等比缩放。
type ImageCell struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TextCellOf 构造文本单元格。
func TextCellOf(content string) Cell {
	return Cell{Text: &TextCell{Content: content}}
}

// NewImageCell 读取图片头部获取固有尺寸并构造图片单元格。
// 只解码图片配置，不加载像素数据。
func NewImageCell(path string) (Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return Cell{}, fmt.Errorf("打开图片 %s 失败: %w", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Cell{}, fmt.Errorf("解析图片 %s 尺寸失败: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Cell{}, fmt.Errorf("图片 %s 尺寸无效: %dx%d", path, cfg.Width, cfg.Height)
	}
	return Cell{Image: &ImageCell{Path: path, Width: cfg.Width, Height: cfg.Height}}, nil
}

// ImageOrTextCell 尝试构造图片单元格，失败时退化为路径文本单元格。
func ImageOrTextCell(path string) Cell {
	cell, err := NewImageCell(path)
	if err != nil {
		return TextCellOf(path)
	}
	return cell
}

// NewTable 构造表格并补齐短行：不足表头列数的行在尾部填充空文本单元格，
// 多出的单元格被截断。
func NewTable(headers []string, rows []Row) *Table {
	n := len(headers)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		cells := row.Cells
		if len(cells) > n {
			cells = cells[:n]
		}
		padded := make([]Cell, n)
		copy(padded, cells)
		for i := len(cells); i < n; i++ {
			padded[i] = TextCellOf("")
		}
		out = append(out, Row{Cells: padded})
	}
	return &Table{Headers: headers, Rows: out}
}

// TextRow 是由纯文本构造一行的便捷方式。
func TextRow(cells ...string) Row {
	row := Row{Cells: make([]Cell, 0, len(cells))}
	for _, c := range cells {
		row.Cells = append(row.Cells, TextCellOf(c))
	}
	return row
}

// AddHeading 追加标题块。
func (d *Document) AddHeading(level int, text string) {
	if level < 1 {
		level = 1
	}
	d.Blocks = append(d.Blocks, &Block{Heading: &Heading{Level: level, Text: text}})
}

// AddParagraph 追加段落块。
func (d *Document) AddParagraph(text string) {
	d.Blocks = append(d.Blocks, &Block{Paragraph: &Paragraph{Text: text}})
}

// AddBullet 追加列表项块。
func (d *Document) AddBullet(text string) {
	d.Blocks = append(d.Blocks, &Block{Bullet: &Bullet{Text: text}})
}

// AddTable 追加表格块。
func (d *Document) AddTable(t *Table) {
	if t == nil {
		return
	}
	d.Blocks = append(d.Blocks, &Block{Table: t})
}
