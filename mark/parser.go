package mark

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// mark implements the line-oriented markup dialect used for briefs:
// ATX headings, dash/star bullets, pipe tables and blank-line separated
// paragraphs. The lexer tokenises whole lines so the grammar only has to
// group them into blocks.
var (
	markLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n`},
		{Name: "Heading", Pattern: `#{1,6}[ \t][^\r\n]*`},
		{Name: "Bullet", Pattern: `[-*][ \t][^\r\n]*`},
		{Name: "Pipe", Pattern: `\|[^\r\n]*`},
		{Name: "Line", Pattern: `[^\r\n]+`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(markLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// File is the root AST node for a mark document.
type File struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Blocks []*BlockNode   `parser:"Newline* ( @@ Newline* )*"`
}

// BlockNode is one block-level construct. Consecutive pipe lines form a
// single table; consecutive plain lines form a single paragraph; a blank
// line (double newline) ends either run.
type BlockNode struct {
	Heading   *string  `parser:"  @Heading"`
	Bullet    *string  `parser:"| @Bullet"`
	TableRows []string `parser:"| @Pipe ( Newline @Pipe )*"`
	ParaLines []string `parser:"| @Line ( Newline @Line )*"`
}

// Kind returns the human-readable block type.
func (n *BlockNode) Kind() string {
	switch {
	case n == nil:
		return "unknown"
	case n.Heading != nil:
		return "heading"
	case n.Bullet != nil:
		return "bullet"
	case len(n.TableRows) > 0:
		return "table"
	case len(n.ParaLines) > 0:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Parse parses mark content from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses mark content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
