package ggrenderer

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ByLCY/vellum/layout"
)

func sampleResult() *layout.Result {
	font := layout.Font{Family: "Body", Size: 9 * layout.PtToMm}
	lh := font.Size * 1.4
	return &layout.Result{
		Pages: []layout.Page{
			{
				Number: 1,
				Width:  100,
				Height: 60,
				Texts: []layout.TextBox{
					{
						Content:    "hello",
						X:          10,
						Y:          10,
						Width:      80,
						Height:     lh,
						LineHeight: lh,
						Font:       font,
						Color:      layout.Color{R: 30, G: 30, B: 30},
						Lines:      []layout.TextLine{{Content: "hello", Width: 12}},
					},
				},
				Tables: []layout.TableBox{
					{
						X:            10,
						Y:            20,
						Width:        80,
						ColumnWidths: []float64{40, 40},
						BorderColor:  layout.Color{R: 200, G: 200, B: 200},
						HeaderFill:   layout.Color{R: 240, G: 240, B: 240},
						Rows: []layout.TableRow{
							{Y: 20, Height: 8, IsHeader: true},
						},
					},
				},
				Footer: &layout.TextBox{
					Content:    "Page 1/1",
					X:          10,
					Y:          52,
					Width:      80,
					LineHeight: lh,
					Font:       font,
					Align:      "center",
					Lines:      []layout.TextLine{{Content: "Page 1/1"}},
				},
			},
		},
	}
}

func TestRenderProducesPNGWithPageSize(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render(sampleResult())
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	dpmm := float64(defaultDPMM)
	wantW := int(100 * dpmm)
	wantH := int(60 * dpmm)
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Fatalf("画布尺寸不符: got=%dx%d want=%dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}
}

func TestRenderStacksPages(t *testing.T) {
	res := sampleResult()
	res.Pages = append(res.Pages, layout.Page{Number: 2, Width: 100, Height: 60})
	r := NewRenderer(Options{DPMM: 2})
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出不是合法 PNG: %v", err)
	}
	if img.Bounds().Dy() != 240 {
		t.Fatalf("两页应纵向堆叠为 240px，实际 %d", img.Bounds().Dy())
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空结果应返回错误")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("无页面应返回错误")
	}
}

func TestTextWidthGrowsWithContent(t *testing.T) {
	r := NewRenderer(Options{})
	font := layout.Font{Size: 9 * layout.PtToMm}
	short := r.TextWidth("ab", font)
	long := r.TextWidth("abcd", font)
	if short <= 0 || long <= short {
		t.Fatalf("测量宽度应随内容增长: short=%g long=%g", short, long)
	}
}

// 图片加载失败画占位符而不是中断渲染。
func TestRenderBrokenImagePlaceholder(t *testing.T) {
	res := sampleResult()
	res.Pages[0].Images = []layout.ImageBox{
		{Path: "no/such.png", X: 10, Y: 30, Width: 20, Height: 15},
	}
	r := NewRenderer(Options{})
	if _, err := r.Render(res); err != nil {
		t.Fatalf("图片缺失不应致命: %v", err)
	}
}
