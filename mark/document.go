package mark

import (
	"regexp"
	"strings"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/doc"
)

var (
	separatorCell = regexp.MustCompile(`^:?-{3,}:?$`)
	imageCell     = regexp.MustCompile(`^!\[[^\]]*\]\(([^)]+)\)$`)
)

// ToDocument lowers the parsed AST into the document model, applying
// ${path} interpolation against data (nil data leaves placeholders as-is).
//
// Table handling: the first pipe row supplies the headers, an optional
// |---|---| row is dropped, every later row becomes a data row. A cell
// holding exactly an image reference ![alt](path) becomes an image cell
// when the file decodes, and falls back to the path as text otherwise.
func (f *File) ToDocument(data any) *doc.Document {
	d := &doc.Document{}
	if f == nil {
		return d
	}
	for _, node := range f.Blocks {
		switch {
		case node == nil:
			continue
		case node.Heading != nil:
			level, text := splitHeading(*node.Heading)
			d.AddHeading(level, binding.Interpolate(text, data))
		case node.Bullet != nil:
			text := strings.TrimSpace((*node.Bullet)[1:])
			d.AddBullet(binding.Interpolate(text, data))
		case len(node.TableRows) > 0:
			d.AddTable(buildTable(node.TableRows, data))
		case len(node.ParaLines) > 0:
			text := strings.Join(node.ParaLines, " ")
			d.AddParagraph(binding.Interpolate(text, data))
		}
	}
	return d
}

func splitHeading(raw string) (int, string) {
	level := 0
	for level < len(raw) && raw[level] == '#' {
		level++
	}
	return level, strings.TrimSpace(raw[level:])
}

func buildTable(rawRows []string, data any) *doc.Table {
	headers := splitPipeRow(rawRows[0])
	if len(headers) == 0 {
		return nil
	}
	for i := range headers {
		headers[i] = binding.Interpolate(headers[i], data)
	}

	var rows []doc.Row
	for _, raw := range rawRows[1:] {
		cells := splitPipeRow(raw)
		if isSeparatorRow(cells) {
			continue
		}
		row := doc.Row{}
		for _, c := range cells {
			c = binding.Interpolate(c, data)
			if groups := imageCell.FindStringSubmatch(c); groups != nil {
				row.Cells = append(row.Cells, doc.ImageOrTextCell(strings.TrimSpace(groups[1])))
				continue
			}
			row.Cells = append(row.Cells, doc.TextCellOf(c))
		}
		rows = append(rows, row)
	}
	return doc.NewTable(headers, rows)
}

// splitPipeRow splits "| a | b |" into its trimmed cell contents.
func splitPipeRow(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "|")
	raw = strings.TrimSuffix(raw, "|")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return true
}
