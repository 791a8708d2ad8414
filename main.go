package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/brief"
	"github.com/ByLCY/vellum/doc"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/mark"
	"github.com/ByLCY/vellum/renderer"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
	ggrenderer "github.com/ByLCY/vellum/renderer/gg"
)

func main() {
	input := flag.String("in", "examples/brief.md", "输入文件路径（.md 标记文本或 .json 简报数据）")
	output := flag.String("out", "output/brief.pdf", "PDF 输出路径")
	pngOut := flag.String("png", "", "PNG 预览输出路径（可选）")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 ${path} 占位符的 JSON 数据")
	dataFile := flag.String("data-file", "", "绑定数据的 JSON 文件路径")
	title := flag.String("title", "", "覆盖文档标题")
	fontPath := flag.String("font", "", "TTF 字体文件路径（缺省使用系统字体）")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	} else if *dataFile != "" {
		var err error
		inputData, err = binding.LoadJSON(*dataFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	baseDir := filepath.Dir(*input)
	fonts := map[string]string{}
	if *fontPath != "" {
		fonts[""] = *fontPath
	}
	pdfRenderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:   baseDir,
		FontPaths: fonts,
	})

	if err := run(*input, *output, *pngOut, *debug, *title, inputData, pdfRenderer, *fontPath); err != nil {
		log.Fatalf("生成简报失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// run 串联解析、布局与渲染。
func run(inputPath, outputPath, pngPath, debugPath, title string, data any, pdfRenderer *canvasrenderer.Renderer, fontPath string) error {
	if pdfRenderer == nil {
		return fmt.Errorf("renderer 不能为空")
	}

	document, err := loadDocument(inputPath, title, data)
	if err != nil {
		return err
	}

	// 布局与 PDF 渲染共用同一套字体度量
	result, err := layout.Build(document, layout.BuildOptions{Measurer: pdfRenderer})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	layout.LogWarnings(result)

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := writeRendered(pdfRenderer, result, outputPath); err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	if pngPath != "" {
		preview := ggrenderer.NewRenderer(ggrenderer.Options{
			BaseDir:  filepath.Dir(inputPath),
			FontPath: fontPath,
		})
		if err := writeRendered(preview, result, pngPath); err != nil {
			return fmt.Errorf("渲染 PNG 预览失败: %w", err)
		}
	}
	return nil
}

// loadDocument 按扩展名选择输入形态：.json 为简报数据，其余按标记文本解析。
func loadDocument(inputPath, title string, data any) (*doc.Document, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开输入文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(inputPath), ".json") {
		b, err := brief.Decode(file)
		if err != nil {
			return nil, err
		}
		if title != "" {
			b.Title = title
		}
		return b.Document(), nil
	}

	parsed, err := mark.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析标记文本失败: %w", err)
	}
	document := parsed.ToDocument(data)
	if title != "" {
		document.Meta.Title = title
	}
	return document, nil
}

func writeRendered(r renderer.Renderer, result *layout.Result, outputPath string) error {
	out, err := r.Render(result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	file, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer file.Close()
	if err := layout.WriteDebugJSON(file, result); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
