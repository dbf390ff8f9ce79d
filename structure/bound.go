/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

/*
  Mods from the teacher's extractor/text_bound.go:
	textStrata -> lineBin
	textPara   -> DocumentElement
	depth axis -> Bottom/Top directly (no separate page-size-relative depth)
*/

package structure

import "github.com/pdfmd/pdfmd/model"

// bounded is an object with a bounding box: a word, a line, or an element.
type bounded interface {
	bbox() model.Rectangle
}

// diffReading returns a-b in the reading (left-to-right) direction.
func diffReading(a, b bounded) float64 {
	return a.bbox().Left - b.bbox().Left
}

// diffDepth returns a-b in the depth (top-to-bottom) direction. Larger
// depth means further down the page.
func diffDepth(a, b bounded) float64 {
	return b.bbox().Top - a.bbox().Top
}

// gapReading returns the reading-direction gap between a and a following
// object b.
func gapReading(a, b bounded) float64 {
	return b.bbox().Left - a.bbox().Right
}

// overlapFractionY returns the fraction of the shorter of the two boxes'
// heights covered by their vertical intersection. Used by the line-grouping
// 40% baseline-overlap rule (spec.md §4.1).
func overlapFractionY(a, b model.Rectangle) float64 {
	top := min(a.Top, b.Top)
	bottom := max(a.Bottom, b.Bottom)
	if top <= bottom {
		return 0
	}
	overlap := top - bottom
	shorter := min(a.Height(), b.Height())
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}
