/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

// LineSegment is a horizontal or vertical rule recovered from the page's
// vector-path stream, or inferred from word positions when no paths are
// available (spec.md §4.5).
type LineSegment struct {
	X1, Y1, X2, Y2 float64
}

// Horizontal reports whether the segment runs left-to-right (Y1 == Y2).
func (s LineSegment) Horizontal() bool {
	return s.Y1 == s.Y2
}

// Vertical reports whether the segment runs top-to-bottom (X1 == X2).
func (s LineSegment) Vertical() bool {
	return s.X1 == s.X2
}

// BorderType classifies how completely a TablePattern's rectangle is ruled.
type BorderType int

const (
	BorderNone BorderType = iota
	BorderPartial
	BorderFull
	BorderRectangle
	BorderTopBottomOnly
	BorderHeaderSeparator
	BorderGridLines
)

// TablePattern is geometric evidence for a table region: a bounding
// rectangle, the lines that border and subdivide it, estimated row/column
// counts, and a confidence in [0, 1] (spec.md §3, §4.5).
type TablePattern struct {
	Bounds     Rectangle
	Border     []LineSegment
	Internal   []LineSegment
	Rows       int
	Columns    int
	BorderType BorderType
	Confidence float64
}

// GraphicsInfo is the full set of geometric evidence recovered for a page:
// every rule segment, rectangle, and derived table pattern.
type GraphicsInfo struct {
	Horizontal []LineSegment
	Vertical   []LineSegment
	Rectangles []Rectangle
	Tables     []TablePattern
}
