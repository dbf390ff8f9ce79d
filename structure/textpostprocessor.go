/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/pdfmd/pdfmd/common"
)

// postProcessText runs the final normalization pass over the emitted
// Markdown string (spec.md §4.9).
func postProcessText(s string) string {
	s = stripControlCharacters(s)
	s = stripHTMLPreservingBr(s)
	s = restoreProtectedEscapes(s)
	s = norm.NFC.String(s)
	s = canonicalizePunctuation(s)
	s = extractInlineBoldHeaders(s)
	s = removeDuplicateSeparatorRows(s)
	s = dropPageNumberLines(s)
	s = collapseBlankLines(s)
	s = strings.TrimRight(s, "\n") + "\n"
	return s
}

// stripControlCharacters drops NUL, U+FFFD, and other control characters
// except \n, \r, \t (spec.md §4.9, §8 invariant 5).
func stripControlCharacters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	corrupted := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case r == 0 || r == '�':
			corrupted = true
			continue
		case r < 0x20 || r == 0x7F:
			corrupted = true
			continue
		default:
			b.WriteRune(r)
		}
	}
	if corrupted {
		common.Log.Trace("stripControlCharacters: %v", ErrEncodingCorruption)
	}
	return b.String()
}

const brPlaceholder = "\x01BR\x01"

// stripHTMLPreservingBr protects <br> (the table-cell line-break marker)
// before tokenizing the string with golang.org/x/net/html, emitting only
// the text content of any other tag and decoding entities along the way
// (spec.md §4.9), grounded on the teacher's creator/html_content.go and
// creator/html_paragraph.go, which walk the same tokenizer for the inverse
// operation (HTML -> PDF layout).
func stripHTMLPreservingBr(s string) string {
	protected := regexp.MustCompile(`(?i)<br\s*/?>`).ReplaceAllString(s, brPlaceholder)
	if !strings.Contains(protected, "<") {
		return strings.ReplaceAll(protected, brPlaceholder, "<br>")
	}

	tok := html.NewTokenizer(strings.NewReader(protected))
	var b strings.Builder
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return strings.ReplaceAll(b.String(), brPlaceholder, "<br>")
		case html.TextToken:
			b.Write(tok.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			// Markup is dropped; only its enclosed text content survives.
		}
	}
}

var escapedMarkupRe = regexp.MustCompile(`\\\\|\\([*_#\[\]()|])`)

// restoreProtectedEscapes restores \*, \_, \#, \[, \], \(, \), \| after
// protecting \\ (spec.md §4.9).
func restoreProtectedEscapes(s string) string {
	return escapedMarkupRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == `\\` {
			return `\`
		}
		return m[1:]
	})
}

var (
	curlyDoubleOpen  = regexp.MustCompile("[“‟]")
	curlyDoubleClose = regexp.MustCompile("[”]")
	curlySingleOpen  = regexp.MustCompile("[‘‛]")
	curlySingleClose = regexp.MustCompile("[’]")
	emDashRe         = regexp.MustCompile("[—–]")
	nbspRe           = regexp.MustCompile(" ")
)

// canonicalizePunctuation rewrites curly quotes, en/em dashes, and
// non-breaking spaces to their plain-ASCII equivalents (spec.md §4.9).
func canonicalizePunctuation(s string) string {
	s = curlyDoubleOpen.ReplaceAllString(s, `"`)
	s = curlyDoubleClose.ReplaceAllString(s, `"`)
	s = curlySingleOpen.ReplaceAllString(s, "'")
	s = curlySingleClose.ReplaceAllString(s, "'")
	s = emDashRe.ReplaceAllString(s, "-")
	s = nbspRe.ReplaceAllString(s, " ")
	return s
}

var pipeRowRe = regexp.MustCompile(`^\|.*\|$`)

// extractInlineBoldHeaders re-scans the emitted document for table rows
// whose cells are all bold-wrapped and mostly empty, which
// MarkdownGenerator's per-element dispatch cannot see across row
// boundaries, and rewrites them as `#` lines (spec.md §4.9).
func extractInlineBoldHeaders(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !pipeRowRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cells := splitOnUnescapedPipe(line)
		if text, ok := inlineHeaderText(cells); ok {
			lines[i] = "## " + text
		}
	}
	return strings.Join(lines, "\n")
}

var separatorRowRe = regexp.MustCompile(`^\|(\s*-{1,}\s*\|)+$`)

// removeDuplicateSeparatorRows drops a separator row that immediately
// repeats the previous line (spec.md §4.9).
func removeDuplicateSeparatorRows(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for i, line := range lines {
		if i > 0 && separatorRowRe.MatchString(strings.TrimSpace(line)) &&
			strings.TrimSpace(lines[i-1]) == strings.TrimSpace(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var pageNumberLineRe = regexp.MustCompile(`^\d{1,3}$`)
var hashDigitsLineRe = regexp.MustCompile(`^#+\s*\d+\s*$`)

// dropPageNumberLines drops isolated 1-3 digit lines (standalone page
// numbers) and `#<digits>` lines (spec.md §4.9, §8 scenario 6).
func dropPageNumberLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if pageNumberLineRe.MatchString(trimmed) || hashDigitsLineRe.MatchString(trimmed) {
			common.Log.Trace("dropPageNumberLines: dropped %q", line)
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines collapses runs of blank lines to one and trims
// trailing blank lines (spec.md §4.9). Applying it twice is idempotent
// (spec.md §8 invariant 6): once collapsed, no run of 3+ newlines remains
// for a second pass to act on.
func collapseBlankLines(s string) string {
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimRight(s, "\n")
}
