package layout

import (
	"encoding/json"
	"io"
	"log"
)

// WriteDebugJSON 将布局结果以缩进 JSON 写出，便于离线检查几何。
func WriteDebugJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// LogWarnings 把布局警告逐条打到标准日志；没有警告时保持安静。
func LogWarnings(r *Result) {
	for _, warn := range r.Warnings {
		log.Printf("layout: %s: %s", warn.Kind, warn.Detail)
	}
}
