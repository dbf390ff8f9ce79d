/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/pdfmd/pdfmd/model"
)

// generateMarkdown walks the refined element sequence, dispatching per
// type and consolidating paragraphs, inserting structural whitespace per
// spec.md §4.8's blank-line state machine.
func generateMarkdown(elements []*model.DocumentElement) string {
	elements = consolidateParagraphs(elements)

	var blocks []string
	var prevType model.ElementType
	hasPrev := false
	inTableRun := false
	var listMarginStack []float64

	for i := 0; i < len(elements); i++ {
		el := elements[i]
		if el.Type == model.Empty {
			continue
		}
		startsTableRun := el.Type == model.TableRow && !inTableRun
		endsTableRun := inTableRun && el.Type != model.TableRow

		if startsTableRun && hasPrev {
			blocks = append(blocks, "")
		}
		if endsTableRun {
			blocks = append(blocks, "")
		}
		if hasPrev && prevType == model.Header {
			blocks = append(blocks, "")
		}
		if hasPrev && prevType == model.Paragraph &&
			(el.Type == model.Paragraph || el.Type == model.TableRow || el.Type == model.ListItem) {
			blocks = append(blocks, "")
		}

		if el.Type == model.TableRow {
			run, consumed := collectTableRun(elements[i:])
			blocks = append(blocks, renderTable(run, defaultConfigForRender()))
			i += consumed - 1
			inTableRun = true
			prevType = model.TableRow
			hasPrev = true
			continue
		}

		if el.Type == model.ListItem {
			if !(hasPrev && prevType == model.ListItem) {
				listMarginStack = nil
			}
			level := nextListLevel(&listMarginStack, el.LeftMargin)
			blocks = append(blocks, renderListItem(el, level))
			inTableRun = false
			prevType = el.Type
			hasPrev = true
			continue
		}

		blocks = append(blocks, renderElement(el))
		inTableRun = false
		prevType = el.Type
		hasPrev = true
	}

	return strings.Join(blocks, "\n")
}

// defaultConfigForRender supplies TableProcessor's Config when
// MarkdownGenerator invokes it directly on a collected run; callers that
// need custom thresholds should call renderTable themselves before
// assembly.
func defaultConfigForRender() *model.Config {
	return model.DefaultConfig()
}

func collectTableRun(elements []*model.DocumentElement) ([]*model.DocumentElement, int) {
	var run []*model.DocumentElement
	i := 0
	for i < len(elements) && elements[i].Type == model.TableRow {
		run = append(run, elements[i])
		i++
	}
	return run, i
}

// renderElement dispatches a single (non-table) element to its Markdown
// form (spec.md §4.8).
func renderElement(el *model.DocumentElement) string {
	switch el.Type {
	case model.Header:
		level := el.HeadingLevel
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + strings.TrimSpace(trimLeadingHashes(el.Content))
	case model.ListItem:
		return renderListItem(el, 0)
	case model.CodeBlock:
		return renderCodeBlock(el.Content)
	case model.QuoteBlock:
		return renderQuoteBlock(el.Content)
	case model.HorizontalLine:
		return "---"
	default:
		return el.Content
	}
}

func trimLeadingHashes(s string) string {
	trimmed := strings.TrimSpace(s)
	for strings.HasPrefix(trimmed, "#") {
		trimmed = strings.TrimPrefix(trimmed, "#")
	}
	return strings.TrimSpace(trimmed)
}

// renderListItem renders a list item at the given nesting level (0 =
// top-level), as derived by nextListLevel from the run's own margins
// rather than any absolute page coordinate.
func renderListItem(el *model.DocumentElement, level int) string {
	indent := strings.Repeat("  ", maxInt(level, 0))
	text := strings.TrimSpace(el.Content)
	text = stripListMarker(text)
	return indent + "- " + text
}

// listMarginEpsilon is the slack allowed between two list items' left
// margins before they're treated as different nesting depths; small
// enough to separate genuine indent steps, large enough to absorb
// per-word positioning jitter within the same depth.
const listMarginEpsilon = 10.0

// nextListLevel derives a list item's nesting depth from its left margin
// relative to the margins already seen in the current run, not from any
// absolute page coordinate: a deeper margin than the current innermost
// level pushes a new level, a shallower one pops back out, matching
// margins stay at the current level (spec.md §8 scenario 5).
func nextListLevel(stack *[]float64, margin float64) int {
	s := *stack
	for len(s) > 0 && margin < s[len(s)-1]-listMarginEpsilon {
		s = s[:len(s)-1]
	}
	if len(s) == 0 || margin > s[len(s)-1]+listMarginEpsilon {
		s = append(s, margin)
	} else {
		s[len(s)-1] = margin
	}
	*stack = s
	return len(s) - 1
}

func stripListMarker(s string) string {
	for _, p := range []string{"- ", "* ", "+ ", "・", "• ", "•", "◦ ", "◦", "‒ ", "‒", "– ", "— "} {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(strings.TrimPrefix(s, p))
		}
	}
	if m := listNumberRe.FindString(s); m != "" {
		return strings.TrimSpace(strings.TrimPrefix(s, m))
	}
	return s
}

func renderCodeBlock(content string) string {
	lang := detectCodeLanguage(content)
	return "```" + lang + "\n" + content + "\n```"
}

var codeLanguages = []struct {
	name string
	re   func(string) bool
}{
	{"python", func(s string) bool { return strings.Contains(s, "def ") || strings.Contains(s, "import ") && !strings.Contains(s, ";") }},
	{"javascript", func(s string) bool { return strings.Contains(s, "function ") || strings.Contains(s, "const ") || strings.Contains(s, "=>") }},
	{"json", func(s string) bool {
		t := strings.TrimSpace(s)
		return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")
	}},
	{"bash", func(s string) bool { return strings.HasPrefix(strings.TrimSpace(s), "#!/") || strings.Contains(s, "$ ") }},
	{"csharp", func(s string) bool { return strings.Contains(s, "namespace ") || strings.Contains(s, "using System") }},
	{"html", func(s string) bool { return strings.Contains(s, "</") || strings.Contains(s, "<div") }},
	{"css", func(s string) bool { return strings.Contains(s, "{") && strings.Contains(s, ":") && strings.Contains(s, ";") }},
}

// detectCodeLanguage returns one of python|javascript|json|bash|csharp|
// html|css, or empty, per spec.md §6's Markdown emission conventions.
func detectCodeLanguage(content string) string {
	for _, l := range codeLanguages {
		if l.re(content) {
			return l.name
		}
	}
	return ""
}

func renderQuoteBlock(content string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		l = strings.TrimPrefix(strings.TrimSpace(l), "> ")
		l = strings.TrimPrefix(l, ">")
		lines[i] = "> " + strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// consolidateParagraphs folds consecutive Paragraph elements into one
// unless disqualified by font-size, indent, margin, sentence-ending
// punctuation, inline emphasis, or an ambiguous uppercase sentence
// boundary (spec.md §4.8).
func consolidateParagraphs(elements []*model.DocumentElement) []*model.DocumentElement {
	var out []*model.DocumentElement
	for _, el := range elements {
		if len(out) > 0 && out[len(out)-1].Type == model.Paragraph && el.Type == model.Paragraph &&
			canConsolidate(out[len(out)-1], el) {
			prev := out[len(out)-1]
			sep := " "
			if isCJKText(prev.Content) && isCJKText(el.Content) {
				sep = ""
			}
			prev.Content = prev.Content + sep + el.Content
			prev.Words = append(prev.Words, el.Words...)
			continue
		}
		out = append(out, el)
	}
	return out
}

func canConsolidate(prev, next *model.DocumentElement) bool {
	if absf(prev.FontSize-next.FontSize) > 1.0 {
		return false
	}
	if prev.IsIndented != next.IsIndented {
		return false
	}
	if absf(prev.LeftMargin-next.LeftMargin) > 10 {
		return false
	}
	trimmed := strings.TrimSpace(prev.Content)
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "。") {
		return false
	}
	if emphasisMarkerRe.MatchString(next.Content) {
		return false
	}
	if startsUppercase(next.Content) {
		return false
	}
	return true
}

func startsUppercase(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	r := []rune(trimmed)[0]
	return unicode.IsUpper(r)
}

// isCJKText reports whether a majority of the runes in s are East-Asian
// wide/ambiguous script characters, via golang.org/x/text/width, the
// ecosystem way to classify this (spec.md §4.8 concatenation separator
// rule, §4.3 assembleContent).
func isCJKText(s string) bool {
	total, wide := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		total++
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
			wide++
		}
	}
	if total == 0 {
		return false
	}
	return float64(wide)/float64(total) > 0.5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
