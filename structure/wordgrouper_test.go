/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfmd/pdfmd/model"
)

func word(text string, left, bottom, right, top float64, font string) model.Word {
	return model.Word{Text: text, FontName: font, Box: model.Rectangle{Left: left, Bottom: bottom, Right: right, Top: top}}
}

func TestGroupIntoLinesPreservesDenseTableRows(t *testing.T) {
	// Two adjacent table rows close enough in baseline that a naive
	// threshold would collapse them; the 40% overlap rule must keep them
	// separate (spec.md §4.1).
	words := []model.Word{
		word("A", 50, 700, 60, 712, "Helvetica"),
		word("B", 150, 700, 160, 712, "Helvetica"),
		word("1", 50, 688, 60, 700, "Helvetica"),
		word("2", 150, 688, 160, 700, "Helvetica"),
	}
	lines := groupIntoLines(words, 3)
	assert.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].words[0].Text)
	assert.Equal(t, "1", lines[1].words[0].Text)
}

func TestGroupIntoLinesSortsReadingOrder(t *testing.T) {
	words := []model.Word{
		word("world", 60, 700, 100, 712, "Helvetica"),
		word("hello", 10, 700, 50, 712, "Helvetica"),
	}
	lines := groupIntoLines(words, 3)
	assert.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0].words[0].Text)
	assert.Equal(t, "world", lines[0].words[1].Text)
}

func TestMergeWordsInLineKeepsColumnsSeparate(t *testing.T) {
	// A wide gap between two words in a table row must not be merged into
	// one run: merging across a column boundary corrupts every
	// downstream table (spec.md §4.1).
	ln := &line{words: []model.Word{
		word("Name", 50, 700, 90, 712, "Helvetica"),
		word("Note", 250, 700, 290, 712, "Helvetica"),
	}}
	groups := mergeWordsInLine(ln, 2)
	assert.Len(t, groups, 2)
}

func TestMergeWordsInLineMergesCloseRun(t *testing.T) {
	ln := &line{words: []model.Word{
		word("Hello", 50, 700, 90, 712, "Helvetica"),
		word("World", 92, 700, 130, 712, "Helvetica"),
	}}
	groups := mergeWordsInLine(ln, 2)
	assert.Len(t, groups, 1)
	assert.Equal(t, "Hello World", groups[0].text())
}

func TestCleanFontNameStripsSubsetTag(t *testing.T) {
	assert.Equal(t, "Arial-Bold", cleanFontName("ABCDEF+Arial-Bold"))
	assert.Equal(t, "Arial", cleanFontName("Arial"))
}
