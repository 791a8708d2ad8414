package renderer

import "github.com/ByLCY/vellum/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据以及可能的错误；后端绘制失败视为致命错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
