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

// postProcess runs the seven refinement passes of spec.md §4.6 in order
// over the page's DocumentStructure (spec.md §3), the element sequence
// plus the FontAnalysis every pass needs to re-judge font-size-relative
// decisions.
func postProcess(doc *model.DocumentStructure, graphics model.GraphicsInfo, cfg *model.Config) *model.DocumentStructure {
	elements := doc.Elements
	elements = contextualReclassify(elements, doc.Fonts, cfg)
	elements = headerRecovery(elements, doc.Fonts, cfg)
	elements = graphicsGuidedTableDetection(elements, graphics, cfg)
	elements = assembleTableRowsColumns(elements, cfg)
	elements = integrateHeaderIntoTable(elements, cfg)
	elements = coalesceCodeAndQuoteRuns(elements)
	elements = consolidateBrokenCells(elements, cfg)
	doc.Elements = elements
	return doc
}

// contextualReclassify is pass 1: Paragraph -> Header on a strict
// "definitely-header" test; Paragraph -> ListItem by list-continuation
// adjacency; Paragraph -> TableRow by isTableRowLike plus nearby TableRow
// context (spec.md §4.6 pass 1).
func contextualReclassify(elements []*model.DocumentElement, fonts model.FontAnalysis, cfg *model.Config) []*model.DocumentElement {
	for i, el := range elements {
		if el.Type != model.Paragraph {
			continue
		}
		if isDefinitelyHeader(el, fonts, cfg) {
			el.Type = model.Header
			continue
		}
		if adjacentListContinuation(elements, i) {
			el.Type = model.ListItem
			continue
		}
		if isTableRowLike(el.Content, el.Words) && nearbyTableRow(elements, i, cfg) {
			el.Type = model.TableRow
		}
	}
	return elements
}

func isDefinitelyHeader(el *model.DocumentElement, fonts model.FontAnalysis, cfg *model.Config) bool {
	trimmed := strings.TrimSpace(el.Content)
	if sentenceEndRe.MatchString(trimmed) || strings.Contains(trimmed, ",") || emphasisMarkerRe.MatchString(trimmed) {
		return false
	}
	if fonts.BaseFontSize <= 0 {
		return false
	}
	ratio := el.FontSize / fonts.BaseFontSize
	length := len([]rune(trimmed))
	switch {
	case length <= cfg.HeaderShortLengthThreshold && ratio >= 2.0:
		return true
	case length <= cfg.HeaderMediumLengthThreshold && ratio >= 1.2 && el.LeftMargin <= cfg.HeaderLeftMarginThreshold:
		return true
	case isAllUpperShort(trimmed):
		return true
	}
	return false
}

func adjacentListContinuation(elements []*model.DocumentElement, i int) bool {
	for _, j := range []int{i - 1, i + 1} {
		if j < 0 || j >= len(elements) {
			continue
		}
		n := elements[j]
		if n.Type == model.ListItem && isZero(n.LeftMargin-elements[i].LeftMargin) {
			return true
		}
	}
	return false
}

func nearbyTableRow(elements []*model.DocumentElement, i int, cfg *model.Config) bool {
	lo, hi := i-3, i+3
	if lo < 0 {
		lo = 0
	}
	if hi >= len(elements) {
		hi = len(elements) - 1
	}
	for j := lo; j <= hi; j++ {
		if j == i || elements[j].Type != model.TableRow {
			continue
		}
		if !elements[j].Bbox().Intersects(model.Rectangle{
			Left: elements[i].Bbox().Left, Right: elements[i].Bbox().Right,
			Bottom: -1e9, Top: 1e9,
		}) {
			continue
		}
		if absf(diffDepth(boundedElement{elements[i]}, boundedElement{elements[j]})) < cfg.MaxTableRowElementDistance {
			return true
		}
	}
	return false
}

type boundedElement struct{ el *model.DocumentElement }

func (b boundedElement) bbox() model.Rectangle { return b.el.Bbox() }

// headerRecovery is pass 2: re-validate Header candidates, demoting ones
// that fail both isHeaderStructure and isHeaderLike, except an explicit
// `#`-prefixed line which is always a Header (spec.md §4.6 pass 2).
func headerRecovery(elements []*model.DocumentElement, fonts model.FontAnalysis, cfg *model.Config) []*model.DocumentElement {
	for _, el := range elements {
		if el.Type != model.Header {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(el.Content), "#") {
			continue
		}
		if !isHeaderStructure(el.Content, el.FontSize, el.LeftMargin, fonts, cfg) && !isDefinitelyHeader(el, fonts, cfg) {
			el.Type = model.Paragraph
		}
	}
	assignHeadingLevels(elements, fonts)
	return elements
}

// assignHeadingLevels derives each Header's level from the font-size rank
// of its originating line, monotone and capped at 6 (spec.md §8 invariant
// 2).
func assignHeadingLevels(elements []*model.DocumentElement, fonts model.FontAnalysis) {
	sizes := fonts.AllFontSizesAscending
	for _, el := range elements {
		if el.Type != model.Header {
			continue
		}
		rank := rankOf(el.FontSize, sizes)
		level := len(sizes) - rank
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		el.HeadingLevel = level
	}
}

func rankOf(size float64, sizes []float64) int {
	for i, s := range sizes {
		if isZero(s - size) {
			return i
		}
		if s > size {
			if i == 0 {
				return 0
			}
			return i - 1
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	return len(sizes) - 1
}

// graphicsGuidedTableDetection is pass 3: promote elements fully enclosed
// in a TablePattern's bounding rectangle to TableRow, when the pattern's
// confidence clears the floor or the coordinate-only fallback
// independently agrees (spec.md §4.6 pass 3, §9 Open Question 3).
func graphicsGuidedTableDetection(elements []*model.DocumentElement, graphics model.GraphicsInfo, cfg *model.Config) []*model.DocumentElement {
	for _, el := range elements {
		if el.Type == model.Empty {
			continue
		}
		for i := range graphics.Tables {
			pat := &graphics.Tables[i]
			if !pat.Bounds.Contains(el.Bbox()) {
				continue
			}
			if el.Type == model.TableRow {
				// Already classified as a row by LineAnalyzer; still tag it
				// with its owning pattern so pass 4 can bucket its words by
				// the pattern's own internal rule segments.
				el.TablePattern = pat
				continue
			}
			fallbackAgrees := coordinateFallbackAgrees(el)
			if pat.Confidence >= cfg.TablePatternMinConfidence || fallbackAgrees {
				if el.Type == model.Paragraph || el.Type == model.ListItem {
					el.Type = model.TableRow
					el.TablePattern = pat
				}
			}
		}
	}
	if len(graphics.Tables) == 0 {
		promoteByRepeatedColumnClusters(elements)
	}
	return elements
}

// coordinateFallbackAgrees reports whether an element's own words cluster
// into >= 2 horizontal groups, the coordinate-only signal independent of
// any graphics evidence.
func coordinateFallbackAgrees(el *model.DocumentElement) bool {
	return countHorizontalClusters(el.Words) >= 2
}

func countHorizontalClusters(words []model.Word) int {
	if len(words) == 0 {
		return 0
	}
	sorted := append([]model.Word(nil), words...)
	sortByLeft(sorted)
	clusters := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Box.Left-sorted[i-1].Box.Right > 20 {
			clusters++
		}
	}
	return clusters
}

// promoteByRepeatedColumnClusters is the coordinate-only fallback: absent
// graphics, paragraphs whose words cluster into >= 2 horizontal groups are
// promoted to TableRow when the pattern repeats in surrounding elements
// (spec.md §4.6 pass 3).
func promoteByRepeatedColumnClusters(elements []*model.DocumentElement) {
	clusterCounts := make([]int, len(elements))
	for i, el := range elements {
		if el.Type == model.Paragraph {
			clusterCounts[i] = countHorizontalClusters(el.Words)
		}
	}
	for i, el := range elements {
		if el.Type != model.Paragraph || clusterCounts[i] < 2 {
			continue
		}
		repeated := 0
		for j := i - 2; j <= i+2; j++ {
			if j < 0 || j >= len(elements) || j == i {
				continue
			}
			if clusterCounts[j] >= 2 {
				repeated++
			}
		}
		if repeated >= 1 {
			el.Type = model.TableRow
		}
	}
}

// assembleTableRowsColumns is pass 4: for every TableRow tagged with a
// TablePattern (pass 3), rewrite its Content into pipe-delimited cells
// bucketed by the pattern's own internal vertical rule segments rather
// than leaving TableProcessor's generic gap-threshold splitter to guess
// column boundaries blind to the page's actual ruling (spec.md §4.6 pass
// 4). Rows whose pattern has no internal vertical divider carry no usable
// graphics evidence beyond their own bounding rectangle and are left for
// the coordinate-only splitter.
func assembleTableRowsColumns(elements []*model.DocumentElement, cfg *model.Config) []*model.DocumentElement {
	for _, el := range elements {
		if el.Type != model.TableRow || el.TablePattern == nil {
			continue
		}
		bounds := columnBoundsFromPattern(el.TablePattern)
		if len(bounds) < 3 {
			continue
		}
		cells := bucketWordsByColumns(el.Words, bounds)
		if len(cells) < 2 {
			continue
		}
		el.Content = emitRow(cells)
	}
	return elements
}

// columnBoundsFromPattern returns the sorted x-coordinates of a
// TablePattern's column boundaries: its own left/right edges plus every
// vertical segment in Internal.
func columnBoundsFromPattern(pat *model.TablePattern) []float64 {
	bounds := []float64{pat.Bounds.Left, pat.Bounds.Right}
	for _, seg := range pat.Internal {
		if seg.Vertical() {
			bounds = append(bounds, seg.X1)
		}
	}
	sort.Float64s(bounds)
	return bounds
}

// bucketWordsByColumns assigns each word to the column its horizontal
// midpoint falls into, then joins each column's words left-to-right.
func bucketWordsByColumns(words []model.Word, bounds []float64) []string {
	if len(bounds) < 2 {
		return nil
	}
	cols := make([][]model.Word, len(bounds)-1)
	for _, w := range words {
		mid := (w.Box.Left + w.Box.Right) / 2
		cols[columnIndex(mid, bounds)] = append(cols[columnIndex(mid, bounds)], w)
	}
	out := make([]string, len(cols))
	for i, ws := range cols {
		sorted := append([]model.Word(nil), ws...)
		sortByLeft(sorted)
		parts := make([]string, len(sorted))
		for j, w := range sorted {
			parts[j] = w.Text
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}

// columnIndex returns the index of the bounds interval containing x,
// clamped to the last interval for x at or beyond the final boundary.
func columnIndex(x float64, bounds []float64) int {
	for i := 1; i < len(bounds)-1; i++ {
		if x <= bounds[i] {
			return i - 1
		}
	}
	return len(bounds) - 2
}

// integrateHeaderIntoTable is pass 5: a Header immediately preceding a
// TableRow is absorbed as the table's first line when short enough and the
// table is non-trivial (spec.md §4.6 pass 5).
func integrateHeaderIntoTable(elements []*model.DocumentElement, cfg *model.Config) []*model.DocumentElement {
	var out []*model.DocumentElement
	for i := 0; i < len(elements); i++ {
		el := elements[i]
		if el.Type == model.Header && i+1 < len(elements) && elements[i+1].Type == model.TableRow {
			tableLen := 0
			for j := i + 1; j < len(elements) && elements[j].Type == model.TableRow; j++ {
				tableLen++
			}
			if len([]rune(strings.TrimSpace(el.Content))) <= cfg.InlineHeaderMaxLength && tableLen >= 2 {
				converted := &model.DocumentElement{
					Type:       model.TableRow,
					Content:    el.Content,
					FontSize:   el.FontSize,
					LeftMargin: el.LeftMargin,
					IsIndented: el.IsIndented,
					Words:      el.Words,
				}
				out = append(out, converted)
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

// coalesceCodeAndQuoteRuns is pass 6: contiguous runs of CodeBlock (resp.
// QuoteBlock) elements are merged into one element whose content is
// newline-joined (spec.md §4.6 pass 6).
func coalesceCodeAndQuoteRuns(elements []*model.DocumentElement) []*model.DocumentElement {
	var out []*model.DocumentElement
	i := 0
	for i < len(elements) {
		el := elements[i]
		if el.Type != model.CodeBlock && el.Type != model.QuoteBlock {
			out = append(out, el)
			i++
			continue
		}
		runType := el.Type
		lines := []string{el.Content}
		words := append([]model.Word(nil), el.Words...)
		j := i + 1
		for j < len(elements) && elements[j].Type == runType {
			lines = append(lines, elements[j].Content)
			words = append(words, elements[j].Words...)
			j++
		}
		out = append(out, &model.DocumentElement{
			Type:       runType,
			Content:    strings.Join(lines, "\n"),
			FontSize:   el.FontSize,
			LeftMargin: el.LeftMargin,
			IsIndented: el.IsIndented,
			Words:      words,
		})
		i = j
	}
	return out
}

// consolidateBrokenCells is pass 7: an element that bled onto a following
// line (very small vertical gap, no large horizontal overlap with the
// prior cell, compatible type) is appended to the preceding table-row
// cell with <br>. The horizontal-overlap guard (>50% => refuse to merge)
// is the single most important anti-corruption rule here (spec.md §4.6
// pass 7, §8).
func consolidateBrokenCells(elements []*model.DocumentElement, cfg *model.Config) []*model.DocumentElement {
	var out []*model.DocumentElement
	for _, el := range elements {
		if len(out) == 0 {
			out = append(out, el)
			continue
		}
		prev := out[len(out)-1]
		if !compatibleBrokenCellTypes(prev.Type, el.Type) {
			out = append(out, el)
			continue
		}
		gap := prev.Bbox().Bottom - el.Bbox().Top
		if gap < 0 {
			gap = -gap
		}
		smallGap := gap <= cfg.RowYBucketTolerance*2
		overlap := prev.Bbox().HorizontalOverlapFraction(el.Bbox())
		if smallGap && overlap <= 0.5 {
			prev.Content = prev.Content + "<br>" + el.Content
			prev.Words = append(prev.Words, el.Words...)
			common.Log.Trace("consolidateBrokenCells: merged %q into %q", el.Content, prev.Content)
			continue
		}
		out = append(out, el)
	}
	return out
}

func compatibleBrokenCellTypes(a, b model.ElementType) bool {
	if a != model.TableRow {
		return false
	}
	return b == model.TableRow || b == model.Paragraph
}
