package brief

import (
	"strings"
	"testing"

	"github.com/ByLCY/vellum/mark"
)

const sampleJSON = `{
  "title": "Acme Serum Brief",
  "analyzer": {
    "video_metadata": {"platform": "TikTok", "duration_s": 32.5},
    "global_style": {"hook_type": ["question", "pov"], "cta_core": "Link in bio"}
  },
  "script": {
    "script": {
      "scenes": [
        {"idx": 1, "action": "Opens box", "dialogue_vo": "Check this out",
         "on_screen_text": [{"text": "NEW"}, {"text": "Acme"}]},
        {"idx": 2, "action": "Applies serum", "dialogue_vo": "So smooth",
         "on_screen_text": []}
      ]
    }
  },
  "product_facts": {
    "brand": "Acme",
    "product_name": "Glow Serum",
    "approved_claims": ["hydrates skin"],
    "forbidden": ["cures acne"],
    "required_disclaimers": ["results may vary"]
  }
}`

func decodeSample(t *testing.T) *Brief {
	t.Helper()
	b, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("解码简报失败: %v", err)
	}
	return b
}

func TestDecode(t *testing.T) {
	b := decodeSample(t)
	if b.Analyzer.VideoMetadata.Platform != "TikTok" {
		t.Fatalf("平台字段不符: %q", b.Analyzer.VideoMetadata.Platform)
	}
	if len(b.Script.Script.Scenes) != 2 {
		t.Fatalf("场景数不符: %d", len(b.Script.Script.Scenes))
	}
	if b.Facts.Brand != "Acme" {
		t.Fatalf("品牌字段不符: %q", b.Facts.Brand)
	}
}

func TestDocumentStructure(t *testing.T) {
	d := decodeSample(t).Document()

	if d.Meta.Title != "Acme Serum Brief" {
		t.Fatalf("标题不符: %q", d.Meta.Title)
	}
	if d.Meta.Subject != "Acme Glow Serum" {
		t.Fatalf("主题不符: %q", d.Meta.Subject)
	}

	var headings []string
	var tables int
	for _, blk := range d.Blocks {
		if blk.Heading != nil {
			headings = append(headings, blk.Heading.Text)
		}
		if blk.Table != nil {
			tables++
		}
	}
	for _, want := range []string{"Product Facts", "Reference Video Breakdown", "Generated Script Storyboard"} {
		found := false
		for _, h := range headings {
			if h == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("缺少小节标题 %q，实际 %v", want, headings)
		}
	}
	if tables != 1 {
		t.Fatalf("应恰好有一个分镜表，实际 %d", tables)
	}
}

func TestStoryboardTable(t *testing.T) {
	d := decodeSample(t).Document()
	for _, blk := range d.Blocks {
		if blk.Table == nil {
			continue
		}
		table := blk.Table
		if len(table.Headers) != 4 || table.Headers[0] != "#" {
			t.Fatalf("无截图时表头应为 4 列: %v", table.Headers)
		}
		if len(table.Rows) != 2 {
			t.Fatalf("数据行数不符: %d", len(table.Rows))
		}
		if table.Rows[0].Cells[3].Text.Content != "NEW; Acme" {
			t.Fatalf("屏幕文字应以分号连接: %q", table.Rows[0].Cells[3].Text.Content)
		}
		return
	}
	t.Fatalf("未找到分镜表")
}

func TestStoryboardFrameColumn(t *testing.T) {
	b := decodeSample(t)
	b.Script.Script.Scenes[0].ScreenshotPath = "missing/shot1.jpg"
	d := b.Document()
	for _, blk := range d.Blocks {
		if blk.Table == nil {
			continue
		}
		if blk.Table.Headers[0] != "Frame" {
			t.Fatalf("带截图时应有 Frame 首列: %v", blk.Table.Headers)
		}
		if len(blk.Table.Headers) != 5 {
			t.Fatalf("表头应为 5 列: %v", blk.Table.Headers)
		}
		// 截图不可读时退化为路径文本，另一行的空位保持为空
		if blk.Table.Rows[0].Cells[0].Text.Content != "missing/shot1.jpg" {
			t.Fatalf("不可读截图应退化为路径文本: %+v", blk.Table.Rows[0].Cells[0])
		}
		if blk.Table.Rows[1].Cells[0].Text.Content != "" {
			t.Fatalf("无截图的场景首列应为空")
		}
		return
	}
	t.Fatalf("未找到分镜表")
}

func TestEmptyScriptFallback(t *testing.T) {
	b := &Brief{}
	d := b.Document()
	found := false
	for _, blk := range d.Blocks {
		if blk.Paragraph != nil && blk.Paragraph.Text == "Could not parse script scenes." {
			found = true
		}
		if blk.Table != nil {
			t.Fatalf("无场景时不应产生表格")
		}
	}
	if !found {
		t.Fatalf("缺少场景回退提示")
	}
	if d.Meta.Title != DefaultTitle {
		t.Fatalf("缺省标题不符: %q", d.Meta.Title)
	}
}

func TestClaimsDefaultToNoneProvided(t *testing.T) {
	b := &Brief{}
	d := b.Document()
	none := 0
	for _, blk := range d.Blocks {
		if blk.Bullet != nil && blk.Bullet.Text == "None provided." {
			none++
		}
	}
	if none != 3 {
		t.Fatalf("三类条款缺省时各应有一条占位列表项，实际 %d", none)
	}
}

// Markdown 输出应能经 mark 解析回到等价结构。
func TestMarkdownRoundTrip(t *testing.T) {
	b := decodeSample(t)
	md := b.Markdown()

	file, err := mark.ParseString(md)
	if err != nil {
		t.Fatalf("解析 Markdown 输出失败: %v", err)
	}
	parsed := file.ToDocument(nil)
	direct := b.Document()

	var parsedKinds, directKinds []string
	for _, blk := range parsed.Blocks {
		parsedKinds = append(parsedKinds, blk.Kind())
	}
	for _, blk := range direct.Blocks {
		directKinds = append(directKinds, blk.Kind())
	}
	if strings.Join(parsedKinds, ",") != strings.Join(directKinds, ",") {
		t.Fatalf("往返块序列不一致:\nparsed=%v\ndirect=%v", parsedKinds, directKinds)
	}

	for i, blk := range parsed.Blocks {
		if blk.Table == nil {
			continue
		}
		other := direct.Blocks[i].Table
		if len(blk.Table.Headers) != len(other.Headers) || len(blk.Table.Rows) != len(other.Rows) {
			t.Fatalf("往返表格维度不一致")
		}
	}
}
