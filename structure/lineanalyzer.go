/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"regexp"
	"strings"

	"github.com/pdfmd/pdfmd/model"
)

var shebangRe = regexp.MustCompile(`^#!`)
var commentOnlyRe = regexp.MustCompile(`^\s*(//|#\s|;;|--\s)`)

// analyzeLine produces one DocumentElement from a line (spec.md §4.3).
//
// Pipeline: merge words into reading-direction groups, assemble the
// formatting-aware content string, derive font size / left margin / indent,
// then classify by the precedence list in spec.md §4.3 step 1-9.
func analyzeLine(ln *line, fonts model.FontAnalysis, cfg *model.Config, xTolerance float64) *model.DocumentElement {
	if len(ln.words) == 0 {
		return &model.DocumentElement{Type: model.Empty}
	}
	groups := mergeWordsInLine(ln, xTolerance)
	content := assembleContent(groups)

	heights := make([]float64, len(ln.words))
	for i, w := range ln.words {
		heights[i] = w.Height()
	}
	fontSize := mean(heights)
	leftMargin := minLeft(ln.words)
	indented := leftMargin > cfg.IndentThreshold

	el := &model.DocumentElement{
		Content:    content,
		FontSize:   fontSize,
		LeftMargin: leftMargin,
		IsIndented: indented,
		Words:      append([]model.Word(nil), ln.words...),
	}
	el.Type = classify(content, ln.words, fontSize, leftMargin, fonts, cfg)
	return el
}

// assembleContent builds the content string from merged word groups,
// opening/closing emphasis markers only at formatting boundaries so that a
// run of same-formatting words is wrapped exactly once (spec.md §4.3,
// font-tag idempotence, §8).
func assembleContent(groups []*wordGroup) string {
	if len(groups) == 0 {
		return ""
	}
	// Derive each group's formatting from its (assumed uniform) words: a
	// group is bold/italic only if every word in it is, since
	// mergeWordsInLine already refuses to merge across a font-family
	// change but not necessarily a weight/style change within the same
	// family (e.g. a bold run inside a regular family name).
	for _, g := range groups {
		allBold, allItalic := true, true
		for _, w := range g.words {
			f := analyzeFormatting(w.FontName)
			allBold = allBold && f.Bold
			allItalic = allItalic && f.Italic
		}
		g.fmt = model.FontFormatting{Bold: allBold, Italic: allItalic}
	}

	var b strings.Builder
	run, runFmt := groups[0].text(), groups[0].fmt
	for i := 1; i < len(groups); i++ {
		g, sep := groups[i], concatSeparator(groups[i-1], groups[i])
		if g.fmt == runFmt {
			run += sep + g.text()
			continue
		}
		b.WriteString(applyFormatting(run, runFmt) + sep)
		run, runFmt = g.text(), g.fmt
	}
	b.WriteString(applyFormatting(run, runFmt))
	return b.String()
}

// concatSeparator returns the separator between two adjacent word groups:
// empty when both sides are CJK (see markdowngenerator.go isCJKText), a single
// space otherwise.
func concatSeparator(a, b *wordGroup) string {
	if isCJKText(a.text()) && isCJKText(b.text()) {
		return ""
	}
	return " "
}

// classify applies spec.md §4.3's ordered classification precedence.
func classify(content string, words []model.Word, fontSize, leftMargin float64, fonts model.FontAnalysis, cfg *model.Config) model.ElementType {
	trimmed := strings.TrimSpace(content)

	// 1. Already-Markdown prefixes.
	switch {
	case strings.HasPrefix(trimmed, "#"):
		return model.Header
	case strings.HasPrefix(trimmed, ">"):
		return model.QuoteBlock
	case strings.HasPrefix(trimmed, "```"):
		return model.CodeBlock
	}

	// 2. Pure code comment / shebang-like lines.
	if shebangRe.MatchString(trimmed) || commentOnlyRe.MatchString(trimmed) {
		return model.CodeBlock
	}

	// 3. Whitespace-only / single printable character.
	if trimmed == "" {
		return model.Empty
	}
	if len([]rune(trimmed)) == 1 {
		return model.Paragraph
	}

	// 4. Horizontal line.
	if isHorizontalLinePattern(trimmed) {
		return model.HorizontalLine
	}

	// 5. Header structure.
	if isHeaderStructure(trimmed, fontSize, leftMargin, fonts, cfg) {
		return model.Header
	}

	// 6. CodeBlock, QuoteBlock, ListItem, TableRow predicates, in order.
	if isCodeBlockLike(trimmed, words, cfg) {
		return model.CodeBlock
	}
	if isQuoteBlockLike(trimmed) {
		return model.QuoteBlock
	}
	if isListItemLike(trimmed) {
		return model.ListItem
	}
	if isTableRowLike(trimmed, words) {
		return model.TableRow
	}

	// 7. Table-content heuristic (density/spacing signature) is folded
	// into isTableRowLike above; no separate check runs at this step.

	// 8. Secondary font-size heuristic for Header.
	if fonts.BaseFontSize > 0 && fontSize/fonts.BaseFontSize >= 1.5 && !looksLikeParagraph(trimmed) {
		return model.Header
	}

	// 9. Default.
	return model.Paragraph
}

func looksLikeParagraph(text string) bool {
	return sentenceEndRe.MatchString(text) || strings.Contains(text, ",") || len([]rune(text)) > 80
}
