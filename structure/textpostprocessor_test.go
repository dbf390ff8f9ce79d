/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfmd/pdfmd/common"
)

func TestStripControlCharactersDropsNulAndReplacement(t *testing.T) {
	out := stripControlCharacters("a\x00b�c\td\ne")
	assert.Equal(t, "abc\td\ne", out)
}

func TestStripControlCharactersLogsEncodingCorruption(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(common.NewWriterLogger(common.LogLevelTrace, &buf))
	defer common.SetLogger(common.DummyLogger{})

	stripControlCharacters("a\x00b")
	assert.Contains(t, buf.String(), "encoding corruption")
}

func TestStripControlCharactersCleanInputLogsNothing(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(common.NewWriterLogger(common.LogLevelTrace, &buf))
	defer common.SetLogger(common.DummyLogger{})

	stripControlCharacters("clean text")
	assert.Empty(t, buf.String())
}

func TestStripHTMLPreservingBrKeepsBrMarker(t *testing.T) {
	out := stripHTMLPreservingBr("first<br>second")
	assert.Equal(t, "first<br>second", out)
}

func TestStripHTMLPreservingBrDropsOtherTags(t *testing.T) {
	out := stripHTMLPreservingBr("<b>bold</b> plain")
	assert.Equal(t, "bold plain", out)
}

func TestRestoreProtectedEscapesUnescapesMarkup(t *testing.T) {
	out := restoreProtectedEscapes(`\*not bold\*`)
	assert.Equal(t, "*not bold*", out)
}

func TestRestoreProtectedEscapesKeepsBackslashEscape(t *testing.T) {
	out := restoreProtectedEscapes(`a\\b`)
	assert.Equal(t, `a\b`, out)
}

func TestCanonicalizePunctuationRewritesCurlyQuotesAndDashes(t *testing.T) {
	out := canonicalizePunctuation("“quoted” and ‘single’ and em—dash")
	assert.Equal(t, `"quoted" and 'single' and em-dash`, out)
}

func TestCanonicalizePunctuationRewritesNbsp(t *testing.T) {
	out := canonicalizePunctuation("a b")
	assert.Equal(t, "a b", out)
}

func TestExtractInlineBoldHeadersRewritesSparseBoldRow(t *testing.T) {
	in := "| **A** |  |  |  | **B** |"
	out := extractInlineBoldHeaders(in)
	assert.Equal(t, "## A B", out)
}

func TestRemoveDuplicateSeparatorRowsDropsRepeat(t *testing.T) {
	in := "| --- | --- |\n| --- | --- |\n| a | b |"
	out := removeDuplicateSeparatorRows(in)
	assert.Equal(t, "| --- | --- |\n| a | b |", out)
}

func TestDropPageNumberLinesRemovesIsolatedDigits(t *testing.T) {
	in := "Heading\n42\nBody text"
	out := dropPageNumberLines(in)
	assert.Equal(t, "Heading\nBody text", out)
}

func TestCollapseBlankLinesCollapsesAndTrims(t *testing.T) {
	in := "a\n\n\n\nb\n\n\n"
	out := collapseBlankLines(in)
	assert.Equal(t, "a\n\nb", out)
}

func TestCollapseBlankLinesIsIdempotent(t *testing.T) {
	in := "a\n\n\n\nb\n\n\n"
	once := collapseBlankLines(in)
	twice := collapseBlankLines(once)
	assert.Equal(t, once, twice)
}

func TestPostProcessTextFullPipeline(t *testing.T) {
	in := "# Title\x00\n\n\nBody “quoted” text.\n\n\n42\n"
	out := postProcessText(in)
	assert.Equal(t, "# Title\n\nBody \"quoted\" text.\n", out)
}
