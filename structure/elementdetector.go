/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfmd/pdfmd/model"
)

// ElementDetector is a stateless library of classification predicates,
// each total over (string, words): empty or nil input returns false
// (spec.md §4.4).

var (
	listBulletPrefixes = []string{"- ", "* ", "+ ", "・", "• ", "•", "◦ ", "◦", "‒ ", "‒", "– ", "– ", "— ", "—"}
	listNumberRe       = regexp.MustCompile(`^\d{1,3}[.)]\s+`)
	listParenRe        = regexp.MustCompile(`^\(\d{1,3}\)`)
	listAlphaRe        = regexp.MustCompile(`^[a-zA-Z][.)]\s+`)
	listBoldDashRe     = regexp.MustCompile(`^\*\*[‒–—\-*+•・]\*\*`)
)

// isListItemLike implements spec.md §4.4 isListItemLike.
func isListItemLike(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range listBulletPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return listNumberRe.MatchString(text) ||
		listParenRe.MatchString(text) ||
		listAlphaRe.MatchString(text) ||
		listBoldDashRe.MatchString(text)
}

// isTableRowLike implements spec.md §4.4 isTableRowLike: pipe/tab
// presence, numeric-dominant words, regular inter-word spacing, a cluster
// of short words, or a single large gap between sorted words.
func isTableRowLike(text string, words []model.Word) bool {
	if text == "" || len(words) == 0 {
		return false
	}
	if strings.Contains(text, "|") || strings.Contains(text, "\t") {
		return true
	}

	numericCount := 0
	shortCount := 0
	var lens []float64
	for _, w := range words {
		if isNumericDominant(w.Text) {
			numericCount++
		}
		if len(w.Text) <= 20 {
			shortCount++
		}
		lens = append(lens, float64(len(w.Text)))
	}
	if len(words) >= 2 && float64(numericCount)/float64(len(words)) >= 0.4 {
		return true
	}

	sorted := append([]model.Word(nil), words...)
	sortByLeft(sorted)
	var gaps []float64
	maxGap := 0.0
	for i := 1; i < len(sorted); i++ {
		g := sorted[i].Box.Left - sorted[i-1].Box.Right
		if g > 0 {
			gaps = append(gaps, g)
			if g > maxGap {
				maxGap = g
			}
		}
	}
	if maxGap > 20 {
		return true
	}
	regularlySpaced := false
	if len(gaps) > 0 {
		vc := variationCoefficient(gaps)
		m := mean(gaps)
		if (vc < 0.6 && m > 8) || maxGap > 15 {
			regularlySpaced = true
		}
	}
	if regularlySpaced {
		return true
	}
	// A cluster of short words is only table-like when it also carries a
	// spacing signal; without one it is indistinguishable from an ordinary
	// short prose sentence at normal single-space word gaps.
	if shortCount >= 3 && mean(lens) <= 10 && maxGap > 8 {
		return true
	}
	return false
}

func sortByLeft(words []model.Word) {
	for i := 1; i < len(words); i++ {
		for j := i; j > 0 && words[j].Box.Left < words[j-1].Box.Left; j-- {
			words[j], words[j-1] = words[j-1], words[j]
		}
	}
}

func isNumericDominant(text string) bool {
	if text == "" {
		return false
	}
	digits := 0
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits)/float64(len([]rune(text))) >= 0.4
}

var sentenceEndRe = regexp.MustCompile(`[.!?。]\s*$`)
var emphasisMarkerRe = regexp.MustCompile(`[*_` + "`" + `]`)

// isHeaderStructure implements spec.md §4.4 isHeaderStructure: an explicit
// `#` prefix, or a font-size ratio (against base or large-font threshold)
// above a length/position-modulated tier of thresholds, with sentence
// punctuation, embedded commas, list markers, and inline emphasis as
// disqualifiers.
func isHeaderStructure(text string, fontSize float64, leftMargin float64, fonts model.FontAnalysis, cfg *model.Config) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	if sentenceEndRe.MatchString(trimmed) {
		return false
	}
	if strings.Contains(trimmed, ",") {
		return false
	}
	if isListItemLike(trimmed) {
		return false
	}
	if emphasisMarkerRe.MatchString(trimmed) {
		return false
	}
	if fonts.BaseFontSize <= 0 {
		return false
	}
	ratio := fontSize / fonts.BaseFontSize
	length := len([]rune(trimmed))

	switch {
	case length <= cfg.HeaderShortLengthThreshold && ratio >= 2.0:
		return true
	case length <= cfg.HeaderMediumLengthThreshold && ratio >= 1.2 && leftMargin <= cfg.HeaderLeftMarginThreshold:
		return true
	case isAllUpperShort(trimmed):
		return true
	}
	return false
}

func isAllUpperShort(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 || len(runes) > 60 {
		return false
	}
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	if !hasLetter {
		return false
	}
	// A run of single/double-letter tokens ("A B C") is a table header row,
	// not a title; require at least one token with real title-like length.
	tokens := strings.Fields(text)
	if len(tokens) >= 2 {
		allShort := true
		for _, tok := range tokens {
			if len([]rune(tok)) > 2 {
				allShort = false
				break
			}
		}
		if allShort {
			return false
		}
	}
	return true
}

var monospaceFontRe = regexp.MustCompile(`(?i)mono|courier|consolas`)
var codeKeywordRe = regexp.MustCompile(`[{}();=<>]|^\s*(func|def|class|import|return|var|let|const)\b`)

// isCodeBlockLike implements spec.md §4.4 isCodeBlockLike.
func isCodeBlockLike(text string, words []model.Word, cfg *model.Config) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "```") {
		return true
	}
	if strings.HasPrefix(trimmed, "`") && strings.HasSuffix(trimmed, "`") && len([]rune(trimmed)) > 1 {
		return true
	}
	leftMargin := minLeft(words)
	if leftMargin > cfg.CodeBlockIndentThreshold && codeKeywordRe.MatchString(trimmed) {
		return true
	}
	for _, w := range words {
		if monospaceFontRe.MatchString(w.FontName) {
			return true
		}
	}
	return false
}

func minLeft(words []model.Word) float64 {
	if len(words) == 0 {
		return 0
	}
	m := words[0].Box.Left
	for _, w := range words[1:] {
		if w.Box.Left < m {
			m = w.Box.Left
		}
	}
	return m
}

var quotePairs = [][2]rune{
	{'"', '"'}, {'\'', '\''}, {'“', '”'}, {'‘', '’'},
	{'「', '」'}, {'『', '』'},
}

// isQuoteBlockLike implements spec.md §4.4 isQuoteBlockLike: a leading
// "> " marker, or content fully enclosed in a paired straight, curly, or
// CJK quote mark.
func isQuoteBlockLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "> ") {
		return true
	}
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return false
	}
	first, last := runes[0], runes[len(runes)-1]
	for _, pair := range quotePairs {
		if first == pair[0] && last == pair[1] {
			return true
		}
	}
	return false
}

// isHorizontalLinePattern implements spec.md §4.3 step 4: "---", "***",
// "___", or a run of >= 3 of one of -, *, _.
func isHorizontalLinePattern(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return false
	}
	switch trimmed {
	case "---", "***", "___":
		return true
	}
	first := rune(trimmed[0])
	if first != '-' && first != '*' && first != '_' {
		return false
	}
	for _, r := range trimmed {
		if r != first {
			return false
		}
	}
	return true
}
