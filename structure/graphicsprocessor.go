/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"sort"

	"github.com/pdfmd/pdfmd/common"
	"github.com/pdfmd/pdfmd/model"
)

// extractGraphics recovers horizontal/vertical rule segments, rectangles,
// and derived table patterns from a page's vector-path stream (spec.md
// §4.5). When paths is empty, it infers table structure from word
// positions instead.
func extractGraphics(paths []model.PathCommand, words []model.Word, cfg *model.Config) model.GraphicsInfo {
	var info model.GraphicsInfo
	if len(paths) > 0 {
		info = segmentsFromPaths(paths)
	} else {
		common.Log.Debug("extractGraphics: no vector paths, falling back to word-position inference")
		info = inferGraphicsFromWords(words, cfg)
	}
	info.Tables = synthesizeTablePatterns(info, cfg)
	return info
}

// segmentsFromPaths walks path commands in move/line pairs, turning a
// move->line pair into a segment, and four consecutive line commands whose
// endpoints form a closed rectangle into a Rectangle (spec.md §4.5).
func segmentsFromPaths(paths []model.PathCommand) model.GraphicsInfo {
	var info model.GraphicsInfo
	var cur model.PathCommand
	var haveCur bool
	var ring []model.PathCommand

	flushRing := func() {
		if len(ring) >= 4 {
			if r, ok := closedRectangle(ring); ok {
				info.Rectangles = append(info.Rectangles, r)
			}
		}
		ring = nil
	}

	for _, p := range paths {
		switch p.Op {
		case model.PathMoveTo:
			flushRing()
			cur = p
			haveCur = true
			ring = []model.PathCommand{p}
		case model.PathLineTo:
			if haveCur {
				seg := model.LineSegment{X1: cur.X, Y1: cur.Y, X2: p.X, Y2: p.Y}
				if seg.Horizontal() || seg.Vertical() {
					if seg.Horizontal() {
						info.Horizontal = append(info.Horizontal, seg)
					} else {
						info.Vertical = append(info.Vertical, seg)
					}
				}
			}
			cur = p
			haveCur = true
			ring = append(ring, p)
		case model.PathClose:
			flushRing()
			haveCur = false
		}
	}
	flushRing()
	return info
}

// closedRectangle reports whether the four corners in ring (a move plus
// three or more line-tos) describe an axis-aligned closed rectangle.
func closedRectangle(ring []model.PathCommand) (model.Rectangle, bool) {
	if len(ring) < 4 {
		return model.Rectangle{}, false
	}
	pts := ring[:4]
	xs := []float64{pts[0].X, pts[1].X, pts[2].X, pts[3].X}
	ys := []float64{pts[0].Y, pts[1].Y, pts[2].Y, pts[3].Y}
	minX, maxX := minMax(xs)
	minY, maxY := minMax(ys)
	for _, p := range pts {
		onVerticalEdge := isZero(p.X-minX) || isZero(p.X-maxX)
		onHorizontalEdge := isZero(p.Y-minY) || isZero(p.Y-maxY)
		if !onVerticalEdge || !onHorizontalEdge {
			return model.Rectangle{}, false
		}
	}
	if isZero(maxX-minX) || isZero(maxY-minY) {
		return model.Rectangle{}, false
	}
	return model.Rectangle{Left: minX, Right: maxX, Bottom: minY, Top: maxY}, true
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// inferGraphicsFromWords groups words into y-bucketed rows (tolerance
// RowYBucketTolerance) and, for each row, emits top/bottom horizontal
// segments at its y-extent and vertical segments at significant
// inter-word gaps, when no vector paths are available (spec.md §4.5).
func inferGraphicsFromWords(words []model.Word, cfg *model.Config) model.GraphicsInfo {
	var info model.GraphicsInfo
	if len(words) == 0 {
		return info
	}
	rows := bucketRows(words, cfg.RowYBucketTolerance)
	for _, row := range rows {
		sortByLeft(row)
		top, bottom := rowExtent(row)
		left := minLeft(row)
		right := maxRight(row)
		info.Horizontal = append(info.Horizontal,
			model.LineSegment{X1: left, Y1: top, X2: right, Y2: top},
			model.LineSegment{X1: left, Y1: bottom, X2: right, Y2: bottom},
		)
		for i := 1; i < len(row); i++ {
			gap := row[i].Box.Left - row[i-1].Box.Right
			if gap > cfg.LargeGapThreshold {
				mid := (row[i].Box.Left + row[i-1].Box.Right) / 2
				info.Vertical = append(info.Vertical, model.LineSegment{X1: mid, Y1: bottom, X2: mid, Y2: top})
			}
		}
	}
	return info
}

func bucketRows(words []model.Word, tolerance float64) [][]model.Word {
	sorted := append([]model.Word(nil), words...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Box.Bottom > sorted[j].Box.Bottom })
	var rows [][]model.Word
	for _, w := range sorted {
		placed := false
		for i := range rows {
			if len(rows[i]) > 0 && absf(rows[i][0].Box.Bottom-w.Box.Bottom) <= tolerance {
				rows[i] = append(rows[i], w)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []model.Word{w})
		}
	}
	return rows
}

func rowExtent(row []model.Word) (top, bottom float64) {
	top, bottom = row[0].Box.Top, row[0].Box.Bottom
	for _, w := range row[1:] {
		if w.Box.Top > top {
			top = w.Box.Top
		}
		if w.Box.Bottom < bottom {
			bottom = w.Box.Bottom
		}
	}
	return top, bottom
}

func maxRight(words []model.Word) float64 {
	m := words[0].Box.Right
	for _, w := range words[1:] {
		if w.Box.Right > m {
			m = w.Box.Right
		}
	}
	return m
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// synthesizeTablePatterns builds at most one candidate table rectangle,
// spanning the x-range of all vertical segments and the y-range of all
// horizontal segments, kept only when both extents exceed the configured
// minimums, and scores it with a confidence derived from the internal
// segment counts and their spacing regularity (spec.md §4.5). Segments are
// not intersected into grid points, so separate tables on one page are
// reported as a single pattern.
func synthesizeTablePatterns(info model.GraphicsInfo, cfg *model.Config) []model.TablePattern {
	if len(info.Horizontal) == 0 || len(info.Vertical) == 0 {
		return nil
	}
	minX, maxX := segmentXRange(info.Vertical)
	minY, maxY := segmentYRange(info.Horizontal)
	if maxX-minX <= cfg.MinTableCandidateWidth || maxY-minY <= cfg.MinTableCandidateHeight {
		return nil
	}

	bounds := model.Rectangle{Left: minX, Right: maxX, Bottom: minY, Top: maxY}
	border, internalH := splitBorderInternal(info.Horizontal, bounds, true)
	_, internalV := splitBorderInternal(info.Vertical, bounds, false)
	border = append(border, borderOnly(info.Vertical, bounds, false)...)

	rows := len(internalH) + 1
	cols := len(internalV) + 1

	confidence := clamp(
		float64(len(internalH))*0.1+float64(len(internalV))*0.1+
			0.1*boolToFloat(isRegularSpacing(internalH))+
			0.1*boolToFloat(isRegularSpacing(internalV)),
		0, 1)

	borderType := classifyBorderType(border, internalH, internalV)

	pattern := model.TablePattern{
		Bounds:     bounds,
		Border:     border,
		Internal:   append(internalH, internalV...),
		Rows:       rows,
		Columns:    cols,
		BorderType: borderType,
		Confidence: confidence,
	}
	return []model.TablePattern{pattern}
}

func segmentXRange(vertical []model.LineSegment) (float64, float64) {
	min, max := vertical[0].X1, vertical[0].X1
	for _, s := range vertical {
		if s.X1 < min {
			min = s.X1
		}
		if s.X1 > max {
			max = s.X1
		}
	}
	return min, max
}

func segmentYRange(horizontal []model.LineSegment) (float64, float64) {
	min, max := horizontal[0].Y1, horizontal[0].Y1
	for _, s := range horizontal {
		if s.Y1 < min {
			min = s.Y1
		}
		if s.Y1 > max {
			max = s.Y1
		}
	}
	return min, max
}

func splitBorderInternal(segs []model.LineSegment, bounds model.Rectangle, horizontal bool) (border, internal []model.LineSegment) {
	for _, s := range segs {
		var onBorder bool
		if horizontal {
			onBorder = isZero(s.Y1-bounds.Bottom) || isZero(s.Y1-bounds.Top)
		} else {
			onBorder = isZero(s.X1-bounds.Left) || isZero(s.X1-bounds.Right)
		}
		if onBorder {
			border = append(border, s)
		} else {
			internal = append(internal, s)
		}
	}
	return border, internal
}

func borderOnly(segs []model.LineSegment, bounds model.Rectangle, horizontal bool) []model.LineSegment {
	b, _ := splitBorderInternal(segs, bounds, horizontal)
	return b
}

// isRegularSpacing reports whether the variance of gap-spacing between
// consecutive segments is < 20% of the mean (spec.md §4.5 "Regular").
func isRegularSpacing(segs []model.LineSegment) bool {
	if len(segs) < 2 {
		return true
	}
	positions := make([]float64, len(segs))
	for i, s := range segs {
		positions[i] = s.X1 + s.Y1
	}
	sort.Float64s(positions)
	var gaps []float64
	for i := 1; i < len(positions); i++ {
		gaps = append(gaps, positions[i]-positions[i-1])
	}
	if len(gaps) == 0 {
		return true
	}
	m := mean(gaps)
	if isZero(m) {
		return true
	}
	sd := stddev(gaps)
	return sd*sd < 0.2*m
}

func classifyBorderType(border, internalH, internalV []model.LineSegment) model.BorderType {
	switch {
	case len(border) == 0:
		return model.BorderNone
	case len(internalH) > 0 && len(internalV) > 0:
		return model.BorderGridLines
	case len(internalH) == 1 && len(internalV) == 0:
		return model.BorderHeaderSeparator
	case len(border) >= 4:
		return model.BorderRectangle
	case len(internalH) > 0:
		return model.BorderTopBottomOnly
	default:
		return model.BorderPartial
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
