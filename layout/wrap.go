package layout

import (
	"strings"
	"unicode/utf8"
)

// 贪心折行：优先在空白处分行，单词超宽时退化为按字符切块。
// 不变式：除单个字符本身已超宽的退化情况外，每行测量宽度 <= maxWidth。

// wrapText 将文本折成不超过 maxWidth 的行序列。
// 空文本返回空序列；文本内的空行保留为一个空字符串行（维持段落间距）；
// maxWidth <= 0 返回空序列，由调用方按“放不下任何内容”处理。
func wrapText(text string, maxWidth float64, font Font, m Measurer) []TextLine {
	if text == "" || maxWidth <= 0 {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []TextLine
	for _, raw := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(raw, maxWidth, font, m)...)
	}
	return lines
}

func wrapLine(raw string, maxWidth float64, font Font, m Measurer) []TextLine {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return []TextLine{{Content: ""}}
	}

	// 超宽的词先切块，块再参与贪心累积
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if m.TextWidth(w, font) > maxWidth {
			tokens = append(tokens, splitWordByWidth(w, maxWidth, font, m)...)
		} else {
			tokens = append(tokens, w)
		}
	}

	var lines []TextLine
	current := ""
	flush := func() {
		if current == "" {
			return
		}
		lines = append(lines, TextLine{Content: current, Width: m.TextWidth(current, font)})
		current = ""
	}
	for _, tok := range tokens {
		if current == "" {
			current = tok
			continue
		}
		if m.TextWidth(current+" "+tok, font) <= maxWidth {
			current += " " + tok
			continue
		}
		flush()
		current = tok
	}
	flush()
	return lines
}

// splitWordByWidth 按字符累积切分超宽词；每块至少保留一个字符以保证终止。
func splitWordByWidth(word string, maxWidth float64, font Font, m Measurer) []string {
	var parts []string
	var b strings.Builder
	for _, r := range word {
		b.WriteRune(r)
		if m.TextWidth(b.String(), font) > maxWidth && utf8.RuneCountInString(b.String()) > 1 {
			runes := []rune(b.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			b.Reset()
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}

func joinLines(lines []TextLine) string {
	parts := make([]string, 0, len(lines))
	for _, ln := range lines {
		parts = append(parts, ln.Content)
	}
	return strings.Join(parts, "\n")
}
