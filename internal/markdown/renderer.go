// Package markdown converts plain text with a small set of Markdown-like
// markers into display blocks. It is a line-oriented formatter, not a full
// Markdown grammar: no escaping of literal markup characters and no nested
// emphasis.
package markdown

import (
	"regexp"
	"strings"
)

// BlockType identifies the kind of a rendered display block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockRule      BlockType = "rule"
)

// SpanStyle identifies the inline styling of a span of text.
type SpanStyle string

const (
	SpanText   SpanStyle = "text"
	SpanBold   SpanStyle = "bold"
	SpanItalic SpanStyle = "italic"
	SpanCode   SpanStyle = "code"
)

// Span is a run of inline text with a single style.
type Span struct {
	Style SpanStyle `json:"style"`
	Text  string    `json:"text"`
}

// Block is one display-ready element.
type Block struct {
	Type     BlockType `json:"type"`
	Level    int       `json:"level,omitempty"` // headings only, 1-4
	Spans    []Span    `json:"spans,omitempty"` // heading, paragraph, quote
	Items    [][]Span  `json:"items,omitempty"` // lists only
	Ordered  bool      `json:"ordered,omitempty"`
	Code     string    `json:"code,omitempty"`     // code blocks only
	Language string    `json:"language,omitempty"` // code blocks, from the opening fence
}

var orderedItemRe = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)

// Render converts the input into an ordered sequence of blocks. It processes
// the input line by line; the only state carried across lines is an open
// code fence and an accumulating list. An unterminated fence consumes all
// remaining lines as code.
func Render(input string) []Block {
	var (
		blocks   []Block
		inCode   bool
		codeLang string
		codeBuf  []string

		listItems   [][]Span
		listOrdered bool
	)

	flushList := func() {
		if listItems == nil {
			return
		}
		blocks = append(blocks, Block{Type: BlockList, Items: listItems, Ordered: listOrdered})
		listItems = nil
		listOrdered = false
	}

	for _, rawLine := range strings.Split(input, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))

		if inCode {
			if isFence(line) {
				blocks = append(blocks, Block{Type: BlockCode, Code: strings.Join(codeBuf, "\n"), Language: codeLang})
				inCode = false
				codeBuf = nil
				codeLang = ""
				continue
			}
			// Code content keeps its original indentation.
			codeBuf = append(codeBuf, strings.TrimSuffix(rawLine, "\r"))
			continue
		}

		if isFence(line) {
			flushList()
			inCode = true
			codeLang = strings.TrimSpace(strings.TrimLeft(line, "`"))
			continue
		}

		if line == "" {
			flushList()
			continue
		}

		if level, text, ok := parseHeading(line); ok {
			flushList()
			blocks = append(blocks, Block{Type: BlockHeading, Level: level, Spans: ParseInline(text)})
			continue
		}

		// Rule before list: "---" is a rule, "- a" is a list item.
		if isRule(line) {
			flushList()
			blocks = append(blocks, Block{Type: BlockRule})
			continue
		}

		if strings.HasPrefix(line, "> ") {
			flushList()
			blocks = append(blocks, Block{Type: BlockQuote, Spans: ParseInline(line[2:])})
			continue
		}

		if item, ok := parseUnorderedItem(line); ok {
			if listItems != nil && listOrdered {
				flushList() // list type changed, close the ordered block
			}
			listOrdered = false
			listItems = append(listItems, ParseInline(item))
			continue
		}

		if m := orderedItemRe.FindStringSubmatch(line); m != nil {
			if listItems != nil && !listOrdered {
				flushList() // list type changed, close the unordered block
			}
			listOrdered = true
			listItems = append(listItems, ParseInline(m[2]))
			continue
		}

		flushList()
		blocks = append(blocks, Block{Type: BlockParagraph, Spans: ParseInline(line)})
	}

	flushList()
	if inCode {
		blocks = append(blocks, Block{Type: BlockCode, Code: strings.Join(codeBuf, "\n"), Language: codeLang})
	}

	return blocks
}

// isFence reports whether the line opens or closes a fenced code block:
// three or more backticks, optionally followed by a language tag.
func isFence(line string) bool {
	return strings.HasPrefix(line, "```")
}

// isRule reports whether the line is a horizontal rule: three or more
// repetitions of the same character out of -, * or _.
func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

// parseHeading recognizes heading levels 1-4. Five or more hashes are not
// a heading and fall through to paragraph handling.
func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 4 {
		return 0, "", false
	}
	rest := line[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return 0, "", false
	}
	return level, strings.TrimSpace(rest), true
}

func parseUnorderedItem(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	return "", false
}

// ParseInline splits a line into styled spans. Markers are recognized
// left-to-right in a single pass: bold (**text**), italic (*text*) and
// inline code (`text`). A marker with no closer is kept as literal text.
func ParseInline(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flushPlain := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Style: SpanText, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "**"):
			if end := strings.Index(text[i+2:], "**"); end >= 0 {
				flushPlain()
				spans = append(spans, Span{Style: SpanBold, Text: text[i+2 : i+2+end]})
				i += 2 + end + 2
				continue
			}
			plain.WriteString("**")
			i += 2
		case text[i] == '*':
			if end := strings.IndexByte(text[i+1:], '*'); end >= 0 {
				flushPlain()
				spans = append(spans, Span{Style: SpanItalic, Text: text[i+1 : i+1+end]})
				i += 1 + end + 1
				continue
			}
			plain.WriteByte('*')
			i++
		case text[i] == '`':
			if end := strings.IndexByte(text[i+1:], '`'); end >= 0 {
				flushPlain()
				spans = append(spans, Span{Style: SpanCode, Text: text[i+1 : i+1+end]})
				i += 1 + end + 1
				continue
			}
			plain.WriteByte('`')
			i++
		default:
			plain.WriteByte(text[i])
			i++
		}
	}
	flushPlain()

	if spans == nil {
		return []Span{}
	}
	return spans
}
