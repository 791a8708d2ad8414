package brief

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vellum/doc"
)

// DefaultTitle is used when the payload does not name the brief.
const DefaultTitle = "AI-Generated Influencer Brief"

const scenesFallback = "Could not parse script scenes."

var storyboardHeaders = []string{"#", "Action / Visuals", "Dialogue / VO", "On-Screen Text"}

// Document lowers the brief into the document model: a title block, the
// product fact sheet, the reference-video breakdown and the storyboard
// table. When any scene carries a screenshot the storyboard gains a
// leading Frame column with the image embedded.
func (b *Brief) Document() *doc.Document {
	d := &doc.Document{}
	title := b.Title
	if title == "" {
		title = DefaultTitle
	}
	d.Meta.Title = title
	d.Meta.Subject = strings.TrimSpace(b.Facts.Brand + " " + b.Facts.ProductName)

	d.AddHeading(1, title)
	if sub := d.Meta.Subject; sub != "" {
		d.AddParagraph("Product: " + sub)
	}

	d.AddHeading(2, "Product Facts")
	addClaims(d, "Approved Claims", b.Facts.ApprovedClaims)
	addClaims(d, "Forbidden Claims", b.Facts.Forbidden)
	addClaims(d, "Required Disclaimers", b.Facts.RequiredDisclaimers)

	d.AddHeading(2, "Reference Video Breakdown")
	d.AddParagraph("Platform: " + orNA(b.Analyzer.VideoMetadata.Platform))
	d.AddParagraph("Duration: " + durationText(b.Analyzer.VideoMetadata.DurationS))
	d.AddParagraph("Hook Type: " + orNA(strings.Join(b.Analyzer.GlobalStyle.HookType, ", ")))
	d.AddParagraph("Core CTA: " + orNA(b.Analyzer.GlobalStyle.CTACore))

	d.AddHeading(2, "Generated Script Storyboard")
	scenes := b.scenes()
	if len(scenes) == 0 {
		d.AddParagraph(scenesFallback)
		return d
	}

	withFrames := false
	for _, s := range scenes {
		if s.ScreenshotPath != "" {
			withFrames = true
			break
		}
	}

	headers := storyboardHeaders
	if withFrames {
		headers = append([]string{"Frame"}, headers...)
	}
	rows := make([]doc.Row, 0, len(scenes))
	for i, s := range scenes {
		row := doc.Row{}
		if withFrames {
			if s.ScreenshotPath != "" {
				row.Cells = append(row.Cells, doc.ImageOrTextCell(s.ScreenshotPath))
			} else {
				row.Cells = append(row.Cells, doc.TextCellOf(""))
			}
		}
		row.Cells = append(row.Cells,
			doc.TextCellOf(sceneIndex(s, i)),
			doc.TextCellOf(s.Action),
			doc.TextCellOf(s.DialogueVO),
			doc.TextCellOf(joinOverlays(s.OnScreenText)),
		)
		rows = append(rows, row)
	}
	d.AddTable(doc.NewTable(headers, rows))
	return d
}

// Markdown renders the brief in the mark dialect, so the output can be
// fed back through mark.Parse and produce the same document.
func (b *Brief) Markdown() string {
	title := b.Title
	if title == "" {
		title = DefaultTitle
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if sub := strings.TrimSpace(b.Facts.Brand + " " + b.Facts.ProductName); sub != "" {
		fmt.Fprintf(&sb, "Product: %s\n\n", sub)
	}

	sb.WriteString("## Product Facts\n\n")
	writeClaims(&sb, "Approved Claims", b.Facts.ApprovedClaims)
	writeClaims(&sb, "Forbidden Claims", b.Facts.Forbidden)
	writeClaims(&sb, "Required Disclaimers", b.Facts.RequiredDisclaimers)

	sb.WriteString("## Reference Video Breakdown\n\n")
	fmt.Fprintf(&sb, "Platform: %s\n\n", orNA(b.Analyzer.VideoMetadata.Platform))
	fmt.Fprintf(&sb, "Duration: %s\n\n", durationText(b.Analyzer.VideoMetadata.DurationS))
	fmt.Fprintf(&sb, "Hook Type: %s\n\n", orNA(strings.Join(b.Analyzer.GlobalStyle.HookType, ", ")))
	fmt.Fprintf(&sb, "Core CTA: %s\n\n", orNA(b.Analyzer.GlobalStyle.CTACore))

	sb.WriteString("## Generated Script Storyboard\n\n")
	scenes := b.scenes()
	if len(scenes) == 0 {
		sb.WriteString(scenesFallback + "\n")
		return sb.String()
	}

	withFrames := false
	for _, s := range scenes {
		if s.ScreenshotPath != "" {
			withFrames = true
			break
		}
	}
	headers := storyboardHeaders
	if withFrames {
		headers = append([]string{"Frame"}, headers...)
	}
	writePipeRow(&sb, headers)
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	writePipeRow(&sb, seps)
	for i, s := range scenes {
		cells := []string{}
		if withFrames {
			frame := ""
			if s.ScreenshotPath != "" {
				frame = fmt.Sprintf("![frame](%s)", s.ScreenshotPath)
			}
			cells = append(cells, frame)
		}
		cells = append(cells, sceneIndex(s, i), s.Action, s.DialogueVO, joinOverlays(s.OnScreenText))
		writePipeRow(&sb, cells)
	}
	return sb.String()
}

func (b *Brief) scenes() []Scene {
	if b.Script.Script == nil {
		return nil
	}
	return b.Script.Script.Scenes
}

func addClaims(d *doc.Document, title string, items []string) {
	d.AddHeading(3, title)
	if len(items) == 0 {
		items = []string{"None provided."}
	}
	for _, it := range items {
		d.AddBullet(it)
	}
}

func writeClaims(sb *strings.Builder, title string, items []string) {
	fmt.Fprintf(sb, "### %s\n\n", title)
	if len(items) == 0 {
		items = []string{"None provided."}
	}
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", it)
	}
	sb.WriteString("\n")
}

func writePipeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" " + strings.ReplaceAll(c, "|", "/") + " |")
	}
	sb.WriteString("\n")
}

func sceneIndex(s Scene, pos int) string {
	if s.Idx > 0 {
		return fmt.Sprintf("%d", s.Idx)
	}
	return fmt.Sprintf("%d", pos+1)
}

func joinOverlays(items []Overlay) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Text != "" {
			parts = append(parts, it.Text)
		}
	}
	return strings.Join(parts, "; ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func durationText(d float64) string {
	if d <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%gs", d)
}
