/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"sort"
	"strings"

	"github.com/pdfmd/pdfmd/common"
	"github.com/pdfmd/pdfmd/model"
)

// tableRun is a contiguous run of TableRow elements, TableProcessor's unit
// of work (spec.md §4.7).
type tableRun struct {
	rows [][]string // rows[i][j] = cell text
}

// renderTable converts a contiguous run of TableRow elements into a
// GitHub-flavored Markdown pipe-table string (spec.md §4.7).
func renderTable(elements []*model.DocumentElement, cfg *model.Config) string {
	var rows [][]string
	for _, el := range elements {
		rows = append(rows, parseCells(el, cfg))
	}
	rows = mergeContinuationRows(rows)
	rows = normalizeColumns(rows)
	return emitTable(rows)
}

// parseCells implements spec.md §4.7 cell parsing: split on `|` if
// present, else use the word-level coordinate splitter.
func parseCells(el *model.DocumentElement, cfg *model.Config) []string {
	if strings.Contains(el.Content, "|") {
		return splitOnUnescapedPipe(el.Content)
	}
	return splitByCoordinates(el.Words, cfg)
}

// splitOnUnescapedPipe splits on `|` that is not preceded by a backslash,
// the inverse of the pipe-escape law tested in spec.md §8.
func splitOnUnescapedPipe(s string) []string {
	var cells []string
	var cur strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == '|' {
			cur.WriteRune('|')
			i++
			continue
		}
		if r == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	last := strings.TrimSpace(cur.String())
	if last != "" || len(cells) > 0 {
		cells = append(cells, last)
	}
	return trimOuterEmpty(cells)
}

// trimOuterEmpty drops the empty cell produced by a row's own wrapping
// pipe on each side (`| a | b |` splits to ["","a","b",""]), at most once
// per side, so a genuinely empty leading or trailing data cell survives.
func trimOuterEmpty(cells []string) []string {
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// splitByCoordinates implements the word-level coordinate splitter of
// spec.md §4.7: order words by Left, compute inter-word gaps, select a
// threshold from four candidates, clamp into a font-height-relative range,
// and close a cell whenever a gap exceeds the threshold.
func splitByCoordinates(words []model.Word, cfg *model.Config) []string {
	if len(words) == 0 {
		return nil
	}
	sorted := append([]model.Word(nil), words...)
	sortByLeft(sorted)

	fontHeight := mean(heightsOf(sorted))
	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		g := sorted[i].Box.Left - sorted[i-1].Box.Right
		if g > 0 {
			gaps = append(gaps, g)
		}
	}
	threshold := cellGapThreshold(gaps, fontHeight)

	var cells []string
	var cur []model.Word
	cur = append(cur, sorted[0])
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Box.Left - sorted[i-1].Box.Right
		if gap > threshold {
			cells = append(cells, joinCellWords(cur, fontHeight))
			cur = nil
		}
		cur = append(cur, sorted[i])
	}
	cells = append(cells, joinCellWords(cur, fontHeight))
	return cells
}

func heightsOf(words []model.Word) []float64 {
	hs := make([]float64, len(words))
	for i, w := range words {
		hs[i] = w.Height()
	}
	return hs
}

// cellGapThreshold picks the gap threshold from four candidates in order,
// clamped into [fontHeight*0.3, fontHeight*2.5] (spec.md §4.7).
func cellGapThreshold(gaps []float64, fontHeight float64) float64 {
	lo, hi := fontHeight*0.3, fontHeight*2.5
	if len(gaps) == 0 {
		return clamp(fontHeight, lo, hi)
	}
	m := mean(gaps)
	largeGaps := filterAbove(gaps, m*1.5)
	if len(largeGaps) > 0 {
		return clamp(minOf(largeGaps)*0.7, lo, hi)
	}
	q1, q3 := quartiles(gaps)
	iqr := q3 - q1
	if iqr > tol {
		return clamp(q1+iqr*0.3, lo, hi)
	}
	return clamp(median(gaps)*0.8, lo, hi)
}

func filterAbove(xs []float64, threshold float64) []float64 {
	var out []float64
	for _, x := range xs {
		if x > threshold {
			out = append(out, x)
		}
	}
	return out
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// joinCellWords joins a cell's words with spaces inserted only where the
// inter-word gap exceeds 30% of the font height, preserving intra-word
// continuity in languages without space-separated tokens (spec.md §4.7).
func joinCellWords(words []model.Word, fontHeight float64) string {
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0].Text)
	for i := 1; i < len(words); i++ {
		gap := words[i].Box.Left - words[i-1].Box.Right
		if fontHeight > 0 && gap > 0.3*fontHeight {
			b.WriteByte(' ')
		}
		b.WriteString(words[i].Text)
	}
	return b.String()
}

// mergeContinuationRows implements spec.md §4.7 row merging: two adjacent
// rows merge when their column counts match within one and, in addition,
// either the next row's first cell is empty with subsequent cells
// non-empty, or the next row's average cell length is less than half the
// current row's. Merging joins per-cell content with <br>.
func mergeContinuationRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		if len(out) == 0 {
			out = append(out, row)
			continue
		}
		last := out[len(out)-1]
		if shouldMergeRows(last, row) {
			out[len(out)-1] = mergeRowCells(last, row)
			continue
		}
		out = append(out, row)
	}
	return out
}

func shouldMergeRows(prev, next []string) bool {
	if len(next) == 0 {
		return false
	}
	countClose := abs(len(prev)-len(next)) <= 1
	firstEmptyRestFull := next[0] == "" && allNonEmpty(next[1:])
	avgPrev := avgLen(prev)
	avgNext := avgLen(next)
	shorterContinuation := avgPrev > 0 && avgNext < avgPrev/2
	return countClose && (firstEmptyRestFull || shorterContinuation)
}

func allNonEmpty(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c == "" {
			return false
		}
	}
	return true
}

func avgLen(cells []string) float64 {
	if len(cells) == 0 {
		return 0
	}
	total := 0
	for _, c := range cells {
		total += len([]rune(c))
	}
	return float64(total) / float64(len(cells))
}

func mergeRowCells(prev, next []string) []string {
	n := len(prev)
	if len(next) > n {
		n = len(next)
	}
	merged := make([]string, n)
	for i := 0; i < n; i++ {
		var p, nx string
		if i < len(prev) {
			p = prev[i]
		}
		if i < len(next) {
			nx = next[i]
		}
		switch {
		case p == "":
			merged[i] = nx
		case nx == "":
			merged[i] = p
		default:
			merged[i] = p + "<br>" + nx
		}
	}
	return merged
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// normalizeColumns implements spec.md §4.7 column normalization: target
// column count is the mode of observed row lengths (ties within 1 of the
// top two resolved toward the larger), minimum 3 when ambiguous; short
// rows are padded, long rows trimmed from the right.
func normalizeColumns(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	target := modalColumnCount(rows)
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = padOrTrim(row, target)
	}
	return out
}

func modalColumnCount(rows [][]string) int {
	counts := map[int]int{}
	for _, row := range rows {
		counts[len(row)]++
	}
	type kv struct {
		k, v int
	}
	var kvs []kv
	for k, v := range counts {
		kvs = append(kvs, kv{k, v})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].v != kvs[j].v {
			return kvs[i].v > kvs[j].v
		}
		return kvs[i].k > kvs[j].k
	})
	if len(kvs) == 0 {
		return 3
	}
	best := kvs[0].k
	if len(kvs) > 1 && abs(kvs[0].v-kvs[1].v) <= 1 {
		// Two column-count modes are nearly tied: spec.md §4.7's pattern is
		// genuinely ambiguous here, resolved toward the larger count rather
		// than failing the row.
		common.Log.Trace("modalColumnCount: %v (%d vs %d)", ErrPatternAmbiguous, kvs[0].k, kvs[1].k)
		if kvs[1].k > best {
			best = kvs[1].k
		}
	}
	if best < 3 {
		ambiguous := len(kvs) > 1
		if ambiguous {
			return 3
		}
	}
	return best
}

func padOrTrim(row []string, target int) []string {
	if len(row) == target {
		return row
	}
	if len(row) < target {
		padded := make([]string, target)
		copy(padded, row)
		return padded
	}
	return row[:target]
}

// emitTable implements spec.md §4.7 emission: first row becomes header, a
// separator row follows, subsequent rows become data rows. Cells escape
// `|` and rewrite internal newlines as <br>. Rows whose cells are all
// bold-wrapped, short, and sparse are rewritten as an inline `## header`
// line instead of a table row (spec.md §4.7 "inline header extraction").
func emitTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var out []string
	header := rows[0]
	if inline, ok := inlineHeaderText(header); ok {
		out = append(out, "## "+inline)
		if len(rows) == 1 {
			return strings.Join(out, "\n")
		}
		header = rows[1]
		rows = rows[1:]
	}
	out = append(out, emitRow(header))
	out = append(out, emitSeparator(len(header)))
	for _, row := range rows[1:] {
		out = append(out, emitRow(row))
	}
	return strings.Join(out, "\n")
}

func emitRow(row []string) string {
	escaped := make([]string, len(row))
	for i, c := range row {
		escaped[i] = escapeCell(c)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

func escapeCell(c string) string {
	c = strings.ReplaceAll(c, "\\", "\\\\")
	c = strings.ReplaceAll(c, "|", "\\|")
	c = strings.ReplaceAll(c, "\n", "<br>")
	return c
}

func emitSeparator(n int) string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// inlineHeaderText implements spec.md §4.7's inline header extraction:
// when empty-cell ratio >= 0.6 and bold-content ratio >= 0.5, render the
// row as a heading instead of a table row.
func inlineHeaderText(row []string) (string, bool) {
	if len(row) == 0 {
		return "", false
	}
	empty, bold, nonEmpty := 0, 0, 0
	var content []string
	for _, c := range row {
		if strings.TrimSpace(c) == "" {
			empty++
			continue
		}
		nonEmpty++
		if isFullyBoldWrapped(c) {
			bold++
			content = append(content, strings.Trim(c, "*"))
		}
	}
	if nonEmpty == 0 {
		return "", false
	}
	emptyRatio := float64(empty) / float64(len(row))
	boldRatio := float64(bold) / float64(nonEmpty)
	if emptyRatio >= 0.6 && boldRatio >= 0.5 {
		return strings.Join(content, " "), true
	}
	return "", false
}

func isFullyBoldWrapped(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) > 4
}
