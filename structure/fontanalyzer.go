/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfmd/pdfmd/model"
)

// boldRe matches the weight/style vocabulary spec.md §4.2 lists for bold
// detection, case-insensitive.
var boldRe = regexp.MustCompile(`(?i)bold|black|heavy|semibold|demibold|extrabold|ultrabold|medium|thick|w[5-9]`)

// italicRe matches the italic vocabulary, plus the explicit suffix forms
// spec.md §4.2 calls out separately.
var italicRe = regexp.MustCompile(`(?i)italic|oblique|slanted|cursive|kursiv`)
var italicSuffixRe = regexp.MustCompile(`(?i)-italic$|_italic$|-oblique$|italicmt$`)

// numericWeightRe extracts an explicit numeric font weight (e.g. "Roboto-500").
var numericWeightRe = regexp.MustCompile(`(?:^|[-_])([1-9]00)(?:$|[-_])`)

// analyzeFormatting derives FontFormatting from a font name via
// case-insensitive substring/regex matching against the weight/style
// vocabulary, after stripping a leading PostScript subset tag (spec.md
// §4.2).
func analyzeFormatting(fontName string) model.FontFormatting {
	clean := cleanFontName(fontName)
	bold := boldRe.MatchString(fontName) || boldRe.MatchString(clean)
	if !bold {
		if m := numericWeightRe.FindStringSubmatch(fontName); m != nil {
			if w, err := strconv.Atoi(m[1]); err == nil && w >= 600 {
				bold = true
			}
		}
	}
	italic := italicRe.MatchString(fontName) || italicRe.MatchString(clean) ||
		italicSuffixRe.MatchString(fontName) || italicSuffixRe.MatchString(clean)
	return model.FontFormatting{Bold: bold, Italic: italic}
}

// applyFormatting wraps text in the appropriate Markdown emphasis markers,
// after stripping NUL and the Unicode replacement character (spec.md §4.2).
func applyFormatting(text string, f model.FontFormatting) string {
	text = stripNulAndReplacement(text)
	switch {
	case f.Bold && f.Italic:
		return "***" + text + "***"
	case f.Bold:
		return "**" + text + "**"
	case f.Italic:
		return "*" + text + "*"
	default:
		return text
	}
}

func stripNulAndReplacement(s string) string {
	if !strings.ContainsAny(s, "\x00�") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 || r == '�' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// analyzeDistribution computes the per-page font-size distribution used to
// classify lines (spec.md §3, §4.2): the modal height within the
// inter-quartile range of observed heights (base size), the smallest
// distinct size strictly greater than base (large-font threshold, promoted
// or scaled up when too close to base), and the ascending set of all
// distinct sizes.
func analyzeDistribution(words []model.Word) model.FontAnalysis {
	if len(words) == 0 {
		return model.FontAnalysis{}
	}
	heights := make([]float64, len(words))
	for i, w := range words {
		heights[i] = w.Height()
	}
	q1, q3 := quartiles(heights)
	base := modeWithinRange(heights, q1, q3)

	sizes := distinctSorted(heights)
	large := base
	found := false
	for _, s := range sizes {
		if s > base+tol {
			large = s
			found = true
			break
		}
	}
	if !found {
		large = base * 1.15
	} else if base > 0 && large/base < 1.05 {
		promoted := false
		for _, s := range sizes {
			if s > large+tol {
				large = s
				promoted = true
				break
			}
		}
		if !promoted {
			large = base * 1.15
		}
	}

	return model.FontAnalysis{
		BaseFontSize:          base,
		LargeFontThreshold:    large,
		AllFontSizesAscending: sizes,
	}
}
