package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textOf(spans []Span) string {
	out := ""
	for _, s := range spans {
		out += s.Text
	}
	return out
}

func TestRender_Headings(t *testing.T) {
	blocks := Render("# One\n## Two\n### Three\n#### Four")
	require.Len(t, blocks, 4)
	for i, b := range blocks {
		assert.Equal(t, BlockHeading, b.Type)
		assert.Equal(t, i+1, b.Level)
	}
	assert.Equal(t, "Three", textOf(blocks[2].Spans))
}

func TestRender_FiveHashesIsParagraph(t *testing.T) {
	blocks := Render("##### not a heading")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockParagraph, blocks[0].Type)
}

func TestRender_HeadingInsideFenceStaysCode(t *testing.T) {
	blocks := Render("```\n### Title\nplain\n```")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockCode, blocks[0].Type)
	assert.Equal(t, "### Title\nplain", blocks[0].Code)
}

func TestRender_UnterminatedFenceConsumesRest(t *testing.T) {
	blocks := Render("before\n```go\nline 1\n- not a list\nline 3")
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockParagraph, blocks[0].Type)
	assert.Equal(t, BlockCode, blocks[1].Type)
	assert.Equal(t, "go", blocks[1].Language)
	assert.Equal(t, "line 1\n- not a list\nline 3", blocks[1].Code)
}

func TestRender_ListTypeChangeFlushes(t *testing.T) {
	blocks := Render("- a\n- b\n1. c")
	require.Len(t, blocks, 2)

	assert.Equal(t, BlockList, blocks[0].Type)
	assert.False(t, blocks[0].Ordered)
	require.Len(t, blocks[0].Items, 2)
	assert.Equal(t, "a", textOf(blocks[0].Items[0]))
	assert.Equal(t, "b", textOf(blocks[0].Items[1]))

	assert.Equal(t, BlockList, blocks[1].Type)
	assert.True(t, blocks[1].Ordered)
	require.Len(t, blocks[1].Items, 1)
	assert.Equal(t, "c", textOf(blocks[1].Items[0]))
}

func TestRender_ListFlushedByNonListLine(t *testing.T) {
	blocks := Render("* one\n+ two\nparagraph after")
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockList, blocks[0].Type)
	require.Len(t, blocks[0].Items, 2)
	assert.Equal(t, BlockParagraph, blocks[1].Type)
}

func TestRender_HorizontalRules(t *testing.T) {
	for _, line := range []string{"---", "----", "***", "___"} {
		blocks := Render(line)
		require.Len(t, blocks, 1, line)
		assert.Equal(t, BlockRule, blocks[0].Type, line)
	}

	// Two characters are not a rule; a list marker is not a rule.
	blocks := Render("--")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockParagraph, blocks[0].Type)

	blocks = Render("- item")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockList, blocks[0].Type)
}

func TestRender_BlockQuote(t *testing.T) {
	blocks := Render("> quoted words")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockQuote, blocks[0].Type)
	assert.Equal(t, "quoted words", textOf(blocks[0].Spans))
}

func TestRender_BlankLinesEmitNothing(t *testing.T) {
	blocks := Render("one\n\n\ntwo")
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockParagraph, blocks[0].Type)
	assert.Equal(t, BlockParagraph, blocks[1].Type)
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{
			name: "plain",
			in:   "hello",
			want: []Span{{SpanText, "hello"}},
		},
		{
			name: "bold italic code",
			in:   "a **b** c *d* e `f`",
			want: []Span{
				{SpanText, "a "},
				{SpanBold, "b"},
				{SpanText, " c "},
				{SpanItalic, "d"},
				{SpanText, " e "},
				{SpanCode, "f"},
			},
		},
		{
			name: "unclosed bold is literal",
			in:   "a **b",
			want: []Span{{SpanText, "a **b"}},
		},
		{
			name: "unclosed backtick is literal",
			in:   "a `b",
			want: []Span{{SpanText, "a `b"}},
		},
		{
			name: "no nesting inside bold",
			in:   "**a *b* c**",
			want: []Span{{SpanBold, "a *b* c"}},
		},
		{
			name: "empty input",
			in:   "",
			want: []Span{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInline(tt.in))
		})
	}
}

func TestRender_MixedDocument(t *testing.T) {
	input := "## Dosage\n" +
		"Take **two** tablets daily.\n" +
		"- morning\n" +
		"- evening\n" +
		"---\n" +
		"> consult the leaflet\n" +
		"```\ncode sample\n```"

	blocks := Render(input)
	require.Len(t, blocks, 6)
	assert.Equal(t, BlockHeading, blocks[0].Type)
	assert.Equal(t, BlockParagraph, blocks[1].Type)
	assert.Equal(t, BlockList, blocks[2].Type)
	assert.Equal(t, BlockRule, blocks[3].Type)
	assert.Equal(t, BlockQuote, blocks[4].Type)
	assert.Equal(t, BlockCode, blocks[5].Type)
}
