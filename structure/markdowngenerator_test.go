/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfmd/pdfmd/model"
)

func TestRenderElementHeaderClampsLevel(t *testing.T) {
	el := &model.DocumentElement{Type: model.Header, Content: "Title", HeadingLevel: 0}
	assert.Equal(t, "# Title", renderElement(el))

	el2 := &model.DocumentElement{Type: model.Header, Content: "Deep", HeadingLevel: 9}
	assert.Equal(t, "###### Deep", renderElement(el2))
}

func TestRenderElementHorizontalLine(t *testing.T) {
	el := &model.DocumentElement{Type: model.HorizontalLine, Content: "---"}
	assert.Equal(t, "---", renderElement(el))
}

func TestRenderListItemStripsMarkerAndIndents(t *testing.T) {
	el := &model.DocumentElement{Type: model.ListItem, Content: "- first item", LeftMargin: 50}
	assert.Equal(t, "  - first item", renderListItem(el, 1))
}

func TestNextListLevelTracksRelativeMargins(t *testing.T) {
	var stack []float64
	assert.Equal(t, 0, nextListLevel(&stack, 40))
	assert.Equal(t, 1, nextListLevel(&stack, 60))
	assert.Equal(t, 0, nextListLevel(&stack, 40))
}

func TestGenerateMarkdownNestsListBySpecCoordinates(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.ListItem, Content: "- item1", LeftMargin: 40},
		{Type: model.ListItem, Content: "- sub", LeftMargin: 60},
	}
	out := generateMarkdown(elements)
	assert.Equal(t, "- item1\n  - sub", out)
}

func TestStripListMarkerNumbered(t *testing.T) {
	assert.Equal(t, "step one", stripListMarker("1. step one"))
}

func TestRenderCodeBlockDetectsPython(t *testing.T) {
	out := renderCodeBlock("def run():\n    pass")
	assert.Equal(t, "```python\ndef run():\n    pass\n```", out)
}

func TestRenderCodeBlockUnknownLanguage(t *testing.T) {
	out := renderCodeBlock("plain text block")
	assert.Equal(t, "```\nplain text block\n```", out)
}

func TestRenderQuoteBlockPrefixesEveryLine(t *testing.T) {
	out := renderQuoteBlock("line one\nline two")
	assert.Equal(t, "> line one\n> line two", out)
}

func TestConsolidateParagraphsMergesCompatibleRuns(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.Paragraph, Content: "first part", FontSize: 11, LeftMargin: 50},
		{Type: model.Paragraph, Content: "continues here", FontSize: 11, LeftMargin: 50},
	}
	out := consolidateParagraphs(elements)
	assert.Len(t, out, 1)
	assert.Equal(t, "first part continues here", out[0].Content)
}

func TestConsolidateParagraphsStopsAtSentenceEnd(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.Paragraph, Content: "A complete sentence.", FontSize: 11, LeftMargin: 50},
		{Type: model.Paragraph, Content: "Another one follows.", FontSize: 11, LeftMargin: 50},
	}
	out := consolidateParagraphs(elements)
	assert.Len(t, out, 2)
}

func TestIsCJKTextMajorityWide(t *testing.T) {
	assert.True(t, isCJKText("你好世界"))
	assert.False(t, isCJKText("hello world"))
}

func TestGenerateMarkdownInsertsBlankLineAfterHeader(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.Header, Content: "Title", HeadingLevel: 1},
		{Type: model.Paragraph, Content: "Body text here is long enough."},
	}
	out := generateMarkdown(elements)
	assert.Equal(t, "# Title\n\nBody text here is long enough.", out)
}

func TestGenerateMarkdownRendersTableRunAsOneBlock(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.Paragraph, Content: "Intro paragraph goes here."},
		{Type: model.TableRow, Content: "Name | Age"},
		{Type: model.TableRow, Content: "Alice | 30"},
		{Type: model.Paragraph, Content: "Closing paragraph goes here."},
	}
	out := generateMarkdown(elements)
	assert.Contains(t, out, "| Name | Age |\n| --- | --- |\n| Alice | 30 |")
	introIdx := strings.Index(out, "Intro paragraph")
	tableIdx := strings.Index(out, "| Name")
	closingIdx := strings.Index(out, "Closing paragraph")
	assert.True(t, introIdx < tableIdx)
	assert.True(t, tableIdx < closingIdx)
}
