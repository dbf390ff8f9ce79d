/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package model holds the data types the structure package operates on:
// the Word the caller's PDF parser hands in, the geometric primitives
// derived from it, and the classified DocumentElement sequence produced by
// the inference pipeline.
package model

import "math"

// Rectangle is an axis-aligned bounding box in PDF points. Left/Right are
// the x-extent, Bottom/Top the y-extent, with Top >= Bottom.
type Rectangle struct {
	Left, Right, Bottom, Top float64
}

// Height returns Top - Bottom.
func (r Rectangle) Height() float64 {
	return r.Top - r.Bottom
}

// Width returns Right - Left.
func (r Rectangle) Width() float64 {
	return r.Right - r.Left
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		Left:   math.Min(r.Left, o.Left),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
		Top:    math.Max(r.Top, o.Top),
	}
}

// Intersects reports whether r and o overlap on both axes.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.Left <= o.Right && o.Left <= r.Right &&
		r.Bottom <= o.Top && o.Bottom <= r.Top
}

// HorizontalOverlapFraction returns the fraction of the narrower of the two
// rectangles' widths that is covered by their horizontal intersection. Used
// by the horizontal-overlap guard (spec.md §4.6 pass 7, §8).
func (r Rectangle) HorizontalOverlapFraction(o Rectangle) float64 {
	left := math.Max(r.Left, o.Left)
	right := math.Min(r.Right, o.Right)
	if right <= left {
		return 0
	}
	overlap := right - left
	narrower := math.Min(r.Width(), o.Width())
	if narrower <= 0 {
		return 0
	}
	return overlap / narrower
}

// Contains reports whether o lies entirely within r.
func (r Rectangle) Contains(o Rectangle) bool {
	return r.Left <= o.Left && o.Right <= r.Right && r.Bottom <= o.Bottom && o.Top <= r.Top
}

// Word is a single positioned glyph run from the external PDF parser. The
// structure package treats Words as read-only: it never mutates one, only
// groups and references them.
type Word struct {
	Text     string
	Box      Rectangle
	FontName string
}

// Height is the word's glyph height, Box.Top - Box.Bottom.
func (w Word) Height() float64 {
	return w.Box.Height()
}

// PathOp is a vector-path drawing primitive.
type PathOp int

const (
	PathMoveTo PathOp = iota
	PathLineTo
	PathClose
)

// PathCommand is one step of a vector-path stream, the optional graphics
// evidence GraphicsProcessor consumes (spec.md §4.5, §6).
type PathCommand struct {
	Op   PathOp
	X, Y float64
}

// PageInput is the per-page input the structure package's Convert function
// consumes: a flat word stream plus optional vector-path commands.
type PageInput struct {
	Words []Word
	Paths []PathCommand
}

// ConvertResult is the structure package's sole output type (spec.md §6).
type ConvertResult struct {
	Text     string
	Warnings []string
}
