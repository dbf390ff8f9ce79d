/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfmd/pdfmd/model"
)

// --- spec.md §8 end-to-end scenarios ---

func TestConvertHeaderAndParagraph(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("Overview", 50, 700, 130, 718, "Helvetica"),
			word("Plain", 50, 660, 80, 671, "Helvetica"),
			word("prose", 84, 660, 114, 671, "Helvetica"),
			word("sentence.", 118, 660, 168, 671, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, "# Overview\n\nPlain prose sentence.\n", out.Text)
	assert.Empty(t, out.Warnings)
}

func TestConvertPlainTable(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("A", 50, 700, 60, 711, "Helvetica"),
			word("B", 100, 700, 110, 711, "Helvetica"),
			word("C", 150, 700, 160, 711, "Helvetica"),
			word("1", 50, 680, 60, 691, "Helvetica"),
			word("2", 100, 680, 110, 691, "Helvetica"),
			word("3", 150, 680, 160, 691, "Helvetica"),
			word("4", 50, 660, 60, 671, "Helvetica"),
			word("5", 100, 660, 110, 671, "Helvetica"),
			word("6", 150, 660, 160, 671, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, "| A | B | C |\n| --- | --- | --- |\n| 1 | 2 | 3 |\n| 4 | 5 | 6 |\n", out.Text)
}

func TestConvertBoldInlineParagraph(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("This", 50, 700, 80, 711, "Helvetica"),
			word("is", 84, 700, 92, 711, "Helvetica"),
			word("important", 96, 700, 166, 711, "Helvetica-Bold"),
			word("text.", 170, 700, 190, 711, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, "This is **important** text.\n", out.Text)
}

func TestConvertNestedList(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("- item1", 40, 700, 110, 711, "Helvetica"),
			word("- sub", 60, 680, 110, 691, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, "- item1\n  - sub\n", out.Text)
}

func TestConvertSuppressesPageNumber(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("Closing", 50, 700, 80, 711, "Helvetica"),
			word("remarks", 84, 700, 114, 711, "Helvetica"),
			word("follow", 118, 700, 148, 711, "Helvetica"),
			word("here.", 152, 700, 172, 711, "Helvetica"),
			word("12", 300, 50, 310, 61, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, "Closing remarks follow here.\n", out.Text)
	assert.NotContains(t, out.Text, "12")
}

// Scenario 3 (multi-line cell continuation) exercises TableProcessor's
// row-level merge directly: reconstructing it through Convert would need a
// placeholder word with empty text at a real position, which sanitizeWords
// rejects as malformed input (spec.md §7 ErrMalformedInput) before the rest
// of the pipeline ever sees it.
func TestConvertMultiLineCellContinuation(t *testing.T) {
	cfg := model.DefaultConfig()
	elements := []*model.DocumentElement{
		{Content: "| Name | Note |"},
		{Content: "| Alice | first |"},
		{Content: "| | line |"},
	}
	out := renderTable(elements, cfg)
	assert.Equal(t, "| Name | Note |\n| --- | --- |\n| Alice | first<br>line |", out)
}

// --- invariants (spec.md §8) ---

func TestInvariantElementWordsAreSubsequenceOfInput(t *testing.T) {
	cfg := model.DefaultConfig()
	words := []model.Word{
		word("Alpha", 50, 700, 90, 711, "Helvetica"),
		word("Beta", 94, 700, 130, 711, "Helvetica"),
		word("Gamma", 50, 660, 95, 671, "Helvetica"),
	}
	fonts := analyzeDistribution(words)
	lines := groupIntoLines(words, cfg.YLineThreshold)
	input := map[string]bool{}
	for _, w := range words {
		input[w.Text] = true
	}
	for _, ln := range lines {
		el := analyzeLine(ln, fonts, cfg, cfg.XMergeThreshold)
		for _, w := range el.Words {
			assert.True(t, input[w.Text], "element word %q not present in input stream", w.Text)
		}
	}
}

func TestInvariantHeadingLevelsClampAndMonotone(t *testing.T) {
	fonts := model.FontAnalysis{AllFontSizesAscending: []float64{9, 10, 11, 12, 13, 14, 30, 50}}
	elements := []*model.DocumentElement{
		{Type: model.Header, FontSize: 50},
		{Type: model.Header, FontSize: 30},
		{Type: model.Header, FontSize: 9},
	}
	assignHeadingLevels(elements, fonts)
	for _, el := range elements {
		assert.GreaterOrEqual(t, el.HeadingLevel, 1)
		assert.LessOrEqual(t, el.HeadingLevel, 6)
	}
	// Higher font size must never produce a deeper (larger) heading level.
	assert.LessOrEqual(t, elements[0].HeadingLevel, elements[1].HeadingLevel)
	assert.LessOrEqual(t, elements[1].HeadingLevel, elements[2].HeadingLevel)
}

func TestInvariantTableHasHeaderAndSingleSeparator(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("A", 50, 700, 60, 711, "Helvetica"),
			word("B", 100, 700, 110, 711, "Helvetica"),
			word("1", 50, 680, 60, 691, "Helvetica"),
			word("2", 100, 680, 110, 691, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	lines := strings.Split(strings.TrimRight(out.Text, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "| A"))
	assert.Equal(t, "| --- | --- |", lines[1])
	for _, l := range lines[2:] {
		assert.False(t, separatorRowRe.MatchString(l), "unexpected extra separator row %q", l)
	}
}

func TestInvariantTableColumnCountConsistent(t *testing.T) {
	rows := [][]string{
		{"Name", "Age", "City"},
		{"Alice", "30", "Oslo"},
		{"Bob", "40"},
	}
	out := normalizeColumns(rows)
	width := len(out[0])
	for _, row := range out {
		assert.Len(t, row, width)
	}
}

func TestInvariantNoNulOrReplacementCharacterInOutput(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("Bad\x00Word", 50, 700, 100, 711, "Helvetica"),
			word("�more", 104, 700, 150, 711, "Helvetica"),
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.NotContains(t, out.Text, "\x00")
	assert.NotContains(t, out.Text, "�")
}

func TestInvariantConvertIsDeterministic(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("Summary", 50, 700, 130, 718, "Helvetica"),
			word("Body", 50, 660, 80, 671, "Helvetica"),
			word("text", 84, 660, 114, 671, "Helvetica"),
			word("here.", 118, 660, 158, 671, "Helvetica"),
		},
	}
	first := Convert([]model.PageInput{page}, model.DefaultConfig())
	second := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Equal(t, first.Text, second.Text)
}

// --- round-trip and boundary laws (spec.md §8) ---

func TestLawPipeEscapeRoundTrips(t *testing.T) {
	escaped := emitRow([]string{"a|b", "plain"})
	cells := splitOnUnescapedPipe(strings.TrimSuffix(strings.TrimPrefix(escaped, "| "), " |"))
	assert.Equal(t, []string{"a|b", "plain"}, cells)
}

func TestLawHorizontalOverlapGuardHoldsOverRandomizedPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := model.DefaultConfig()
	for i := 0; i < 50; i++ {
		left1 := rng.Float64() * 100
		width1 := 20 + rng.Float64()*80
		left2 := rng.Float64() * 100
		width2 := 20 + rng.Float64()*80
		box1 := model.Rectangle{Left: left1, Right: left1 + width1, Bottom: 700, Top: 711}
		box2 := model.Rectangle{Left: left2, Right: left2 + width2, Bottom: 690, Top: 701}
		elements := []*model.DocumentElement{
			{Type: model.TableRow, Content: "row one", Words: []model.Word{{Text: "x", Box: box1}}},
			{Type: model.TableRow, Content: "row two", Words: []model.Word{{Text: "y", Box: box2}}},
		}
		overlap := box1.HorizontalOverlapFraction(box2)
		require := overlap > 0.5
		out := consolidateBrokenCells(elements, cfg)
		if require {
			assert.Len(t, out, 2, "heavily overlapping rows must never merge (iteration %d)", i)
		}
	}
}

func TestLawParagraphConsolidationStopsAtSentenceEnd(t *testing.T) {
	elements := []*model.DocumentElement{
		{Type: model.Paragraph, Content: "終わりです。", FontSize: 11, LeftMargin: 50},
		{Type: model.Paragraph, Content: "次の文です。", FontSize: 11, LeftMargin: 50},
	}
	out := consolidateParagraphs(elements)
	assert.Len(t, out, 2)
}

func TestLawFontTagAppliedOnceForUniformlyFormattedRun(t *testing.T) {
	cfg := model.DefaultConfig()
	words := []model.Word{
		word("Strongly", 50, 700, 100, 711, "Helvetica-Bold"),
		word("worded", 102, 700, 150, 711, "Helvetica-Bold"),
	}
	groups := mergeWordsInLine(&line{words: words}, cfg.XMergeThreshold)
	content := assembleContent(groups)
	assert.Equal(t, "**Strongly worded**", content)
	assert.Equal(t, 2, strings.Count(content, "**"), "expected exactly one opening and one closing marker, got content %q", content)
}

// --- error handling (spec.md §7) ---

func TestConvertRecordsWarningForMalformedWordWithoutAbortingPage(t *testing.T) {
	page := model.PageInput{
		Words: []model.Word{
			word("Good", 50, 700, 90, 711, "Helvetica"),
			{Text: "", Box: model.Rectangle{Left: 100, Right: 140, Bottom: 700, Top: 711}},
		},
	}
	out := Convert([]model.PageInput{page}, model.DefaultConfig())
	assert.Contains(t, out.Text, "Good")
	assert.NotEmpty(t, out.Warnings)
}

func TestConvertPagesIsolatesFailureToSinglePage(t *testing.T) {
	good := model.PageInput{
		Words: []model.Word{word("Fine", 50, 700, 90, 711, "Helvetica")},
	}
	broken := model.PageInput{
		Words: []model.Word{
			{Text: "bad", Box: model.Rectangle{Left: 10, Right: 0, Bottom: 0, Top: 10}},
		},
	}
	out := ConvertPages(context.Background(), []model.PageInput{good, broken}, model.DefaultConfig())
	assert.Contains(t, out.Text, "Fine")
}

func TestConvertPagesRespectsContextCancellation(t *testing.T) {
	pages := make([]model.PageInput, 20)
	for i := range pages {
		pages[i] = model.PageInput{Words: []model.Word{word("Page", 50, 700, 90, 711, "Helvetica")}}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := ConvertPages(ctx, pages, model.DefaultConfig())
	assert.NotNil(t, out)
	assert.Empty(t, out.Text)
}

func TestJoinPagesSeparatesWithBlankLine(t *testing.T) {
	out := joinPages([]string{"first\n", "second\n"})
	assert.Equal(t, "first\n\nsecond\n", out)
}

var separatorRowTestRe = regexp.MustCompile(`^\|(\s*---\s*\|)+$`)

func TestSeparatorRowRegexSanity(t *testing.T) {
	assert.True(t, separatorRowTestRe.MatchString("| --- | --- |"))
}
