package layout

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/vellum/doc"
)

// 测试统一用小页面放大分页效应：内容区 80x40mm。
func testPage() PageConfig {
	return PageConfig{
		Width:      100,
		Height:     60,
		Margin:     Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
		FooterBand: 10,
	}
}

func buildDoc(t *testing.T, d *doc.Document) *Result {
	t.Helper()
	res, err := Build(d, BuildOptions{Measurer: unitMeasurer{unit: 1}, Page: testPage()})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

// 生成恰好折出 lines 行的单元格文本：每行 7 个 10 字符词。
func cellText(lines int) string {
	return strings.TrimSpace(strings.Repeat(strings.Repeat("abcdefghij ", 7), lines))
}

func TestBuildNilDocument(t *testing.T) {
	if _, err := Build(nil, BuildOptions{}); err == nil {
		t.Fatalf("空文档应返回错误")
	}
}

func TestParagraphSplitsAcrossPages(t *testing.T) {
	d := &doc.Document{}
	d.AddParagraph(strings.TrimSpace(strings.Repeat("word ", 400)))
	res := buildDoc(t, d)

	if len(res.Pages) < 2 {
		t.Fatalf("长段落应跨页，实际 %d 页", len(res.Pages))
	}
	bottom := 60.0 - 10.0
	for _, page := range res.Pages {
		for _, tb := range page.Texts {
			if tb.Y+tb.Height > bottom+1e-6 {
				t.Fatalf("第 %d 页文本框越过内容区底部: y=%g h=%g", page.Number, tb.Y, tb.Height)
			}
			if tb.Y < 10-1e-6 {
				t.Fatalf("第 %d 页文本框越过内容区顶部: y=%g", page.Number, tb.Y)
			}
		}
	}
}

func TestHeadingKeepsTogether(t *testing.T) {
	d := &doc.Document{}
	d.AddParagraph(strings.TrimSpace(strings.Repeat("word ", 60)))
	d.AddHeading(2, "Section Title")
	res := buildDoc(t, d)

	var heading *TextBox
	for pi := range res.Pages {
		for ti := range res.Pages[pi].Texts {
			tb := &res.Pages[pi].Texts[ti]
			if tb.Font.Style == "Bold" && strings.Contains(tb.Content, "Section") {
				heading = tb
			}
		}
	}
	if heading == nil {
		t.Fatalf("未找到标题文本框")
	}
	if heading.Y+heading.Height > 50+1e-6 {
		t.Fatalf("标题不应被截断: y=%g h=%g", heading.Y, heading.Height)
	}
}

func TestLevel2HeadingRule(t *testing.T) {
	d := &doc.Document{}
	d.AddHeading(2, "Product Facts")
	res := buildDoc(t, d)

	if len(res.Pages) != 1 || len(res.Pages[0].Rules) != 1 {
		t.Fatalf("2 级标题应产生一条分隔线")
	}
	rule := res.Pages[0].Rules[0]
	if rule.Y1 != rule.Y2 {
		t.Fatalf("分隔线应水平: %+v", rule)
	}
}

// 表格跨 N 页时表头恰好出现 N 次，且每个片段首行是表头。
func TestTableHeaderRepeatsAcrossPages(t *testing.T) {
	rows := make([]doc.Row, 3)
	for i := range rows {
		rows[i] = doc.TextRow(cellText(6))
	}
	d := &doc.Document{}
	d.AddTable(doc.NewTable([]string{"Content"}, rows))
	res := buildDoc(t, d)

	if len(res.Pages) != 3 {
		t.Fatalf("三个整页行应产生 3 页，实际 %d 页", len(res.Pages))
	}
	headerCount := 0
	dataCount := 0
	for _, page := range res.Pages {
		if len(page.Tables) != 1 {
			t.Fatalf("第 %d 页应有且仅有一个表格片段，实际 %d", page.Number, len(page.Tables))
		}
		seg := page.Tables[0]
		if len(seg.Rows) == 0 || !seg.Rows[0].IsHeader {
			t.Fatalf("第 %d 页表格片段应以表头行开头", page.Number)
		}
		for _, row := range seg.Rows {
			if row.IsHeader {
				headerCount++
			} else {
				dataCount++
			}
		}
	}
	if headerCount != 3 {
		t.Fatalf("表头应出现 3 次，实际 %d", headerCount)
	}
	if dataCount != 3 {
		t.Fatalf("数据行应共 3 行，实际 %d", dataCount)
	}
}

func TestTableRowAtomicity(t *testing.T) {
	rows := make([]doc.Row, 8)
	for i := range rows {
		rows[i] = doc.TextRow(cellText(2))
	}
	d := &doc.Document{}
	d.AddTable(doc.NewTable([]string{"Content"}, rows))
	res := buildDoc(t, d)

	if len(res.Warnings) != 0 {
		t.Fatalf("正常行高不应产生警告: %v", res.Warnings)
	}
	for _, page := range res.Pages {
		for _, seg := range page.Tables {
			for _, row := range seg.Rows {
				if row.Y+row.Height > 50+1e-6 {
					t.Fatalf("第 %d 页有行越过内容区底部: y=%g h=%g", page.Number, row.Y, row.Height)
				}
			}
		}
	}
}

func TestOversizedRowWarning(t *testing.T) {
	d := &doc.Document{}
	d.AddTable(doc.NewTable([]string{"Content"}, []doc.Row{doc.TextRow(cellText(8))}))
	res := buildDoc(t, d)

	found := false
	for _, w := range res.Warnings {
		if w.Kind == WarnRowOverflow {
			found = true
		}
	}
	if !found {
		t.Fatalf("超过整页高度的行应产生 WarnRowOverflow，实际警告: %v", res.Warnings)
	}
	// 行仍然被放置，不会丢失
	placed := 0
	for _, page := range res.Pages {
		for _, seg := range page.Tables {
			for _, row := range seg.Rows {
				if !row.IsHeader {
					placed++
				}
			}
		}
	}
	if placed != 1 {
		t.Fatalf("超高行应恰好放置一次，实际 %d", placed)
	}
}

func TestBuildIdempotent(t *testing.T) {
	d := &doc.Document{}
	d.AddHeading(1, "Brief")
	d.AddParagraph(strings.TrimSpace(strings.Repeat("word ", 120)))
	d.AddBullet("first point")
	d.AddBullet("second point")
	d.AddTable(doc.NewTable([]string{"A", "B"}, []doc.Row{
		doc.TextRow("one", "two"),
		doc.TextRow(cellText(3), "x"),
	}))

	first := buildDoc(t, d)
	second := buildDoc(t, d)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("同一文档两次布局结果应完全一致")
	}
}

func TestFooterNumbering(t *testing.T) {
	d := &doc.Document{}
	d.AddParagraph(strings.TrimSpace(strings.Repeat("word ", 300)))
	res := buildDoc(t, d)

	total := len(res.Pages)
	if total < 2 {
		t.Fatalf("测试前提不成立：应产生多页")
	}
	for i, page := range res.Pages {
		if page.Number != i+1 {
			t.Fatalf("页码应从 1 连续递增: got=%d want=%d", page.Number, i+1)
		}
		if page.Footer == nil {
			t.Fatalf("第 %d 页缺少页脚", page.Number)
		}
		want := fmt.Sprintf("Page %d/%d", i+1, total)
		if page.Footer.Content != want {
			t.Fatalf("页脚内容不符: got=%q want=%q", page.Footer.Content, want)
		}
		if page.Footer.Align != "center" {
			t.Fatalf("页脚应居中")
		}
	}
}

func TestBulletIndentation(t *testing.T) {
	d := &doc.Document{}
	d.AddBullet("claim")
	res := buildDoc(t, d)

	if len(res.Pages[0].Texts) != 1 {
		t.Fatalf("应产生一个文本框")
	}
	tb := res.Pages[0].Texts[0]
	if tb.X != 10+bulletIndent {
		t.Fatalf("列表项应缩进 %gmm，实际 x=%g", bulletIndent, tb.X)
	}
	if !strings.HasPrefix(tb.Content, "•") {
		t.Fatalf("列表项应以圆点开头: %q", tb.Content)
	}
}

func TestMetaDefaults(t *testing.T) {
	d := &doc.Document{}
	d.Meta.Title = "T"
	res := buildDoc(t, d)
	if res.Meta.Creator != "Vellum" {
		t.Fatalf("Creator 缺省值应为 Vellum，实际 %q", res.Meta.Creator)
	}
	if res.Meta.Title != "T" {
		t.Fatalf("Title 应透传")
	}
}
