package brief

import (
	"encoding/json"
	"fmt"
	"io"
)

// Brief bundles the three JSON payloads a creative brief is generated
// from: the reference-video analysis, the generated script and the
// product fact sheet. Field names mirror the upstream JSON keys.
type Brief struct {
	Title    string         `json:"title"`
	Analyzer Analyzer       `json:"analyzer"`
	Script   ScriptEnvelope `json:"script"`
	Facts    ProductFacts   `json:"product_facts"`
}

// Analyzer is the reference-video breakdown.
type Analyzer struct {
	VideoMetadata VideoMetadata `json:"video_metadata"`
	GlobalStyle   GlobalStyle   `json:"global_style"`
}

type VideoMetadata struct {
	Platform  string  `json:"platform"`
	DurationS float64 `json:"duration_s"`
}

type GlobalStyle struct {
	HookType []string `json:"hook_type"`
	CTACore  string   `json:"cta_core"`
}

// ScriptEnvelope mirrors the nested {"script": {"scenes": [...]}} shape.
type ScriptEnvelope struct {
	Script *Script `json:"script"`
}

type Script struct {
	Scenes []Scene `json:"scenes"`
}

// Scene is one storyboard row. ScreenshotPath is optional; when any
// scene carries one the storyboard gains a frame column.
type Scene struct {
	Idx            int       `json:"idx"`
	Action         string    `json:"action"`
	DialogueVO     string    `json:"dialogue_vo"`
	OnScreenText   []Overlay `json:"on_screen_text"`
	ScreenshotPath string    `json:"screenshot_path"`
}

type Overlay struct {
	Text string `json:"text"`
}

type ProductFacts struct {
	Brand               string   `json:"brand"`
	ProductName         string   `json:"product_name"`
	ApprovedClaims      []string `json:"approved_claims"`
	Forbidden           []string `json:"forbidden"`
	RequiredDisclaimers []string `json:"required_disclaimers"`
}

// Decode reads a combined brief payload from r.
func Decode(r io.Reader) (*Brief, error) {
	var b Brief
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("解析简报 JSON 失败: %w", err)
	}
	return &b, nil
}
