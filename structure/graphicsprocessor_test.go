/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfmd/pdfmd/model"
)

func rectPath(left, bottom, right, top float64) []model.PathCommand {
	return []model.PathCommand{
		{Op: model.PathMoveTo, X: left, Y: bottom},
		{Op: model.PathLineTo, X: right, Y: bottom},
		{Op: model.PathLineTo, X: right, Y: top},
		{Op: model.PathLineTo, X: left, Y: top},
		{Op: model.PathLineTo, X: left, Y: bottom},
		{Op: model.PathClose},
	}
}

func TestSegmentsFromPathsRecoversRectangle(t *testing.T) {
	info := segmentsFromPaths(rectPath(0, 0, 100, 50))
	assert.Len(t, info.Rectangles, 1)
	assert.Equal(t, model.Rectangle{Left: 0, Right: 100, Bottom: 0, Top: 50}, info.Rectangles[0])
	assert.NotEmpty(t, info.Horizontal)
	assert.NotEmpty(t, info.Vertical)
}

func TestSegmentsFromPathsIgnoresOpenDiagonalRun(t *testing.T) {
	paths := []model.PathCommand{
		{Op: model.PathMoveTo, X: 0, Y: 0},
		{Op: model.PathLineTo, X: 10, Y: 10},
	}
	info := segmentsFromPaths(paths)
	assert.Empty(t, info.Rectangles)
	assert.Empty(t, info.Horizontal)
	assert.Empty(t, info.Vertical)
}

func TestInferGraphicsFromWordsEmitsRowBoundsAndColumnGap(t *testing.T) {
	cfg := model.DefaultConfig()
	words := []model.Word{
		word("Name", 50, 700, 90, 712, ""),
		word("Note", 250, 700, 290, 712, ""),
	}
	info := inferGraphicsFromWords(words, cfg)
	assert.Len(t, info.Horizontal, 2)
	assert.Len(t, info.Vertical, 1)
}

func TestInferGraphicsFromWordsEmptyInput(t *testing.T) {
	info := inferGraphicsFromWords(nil, model.DefaultConfig())
	assert.Empty(t, info.Horizontal)
	assert.Empty(t, info.Vertical)
}

func TestSynthesizeTablePatternsRequiresBothAxes(t *testing.T) {
	cfg := model.DefaultConfig()
	info := model.GraphicsInfo{Horizontal: []model.LineSegment{{X1: 0, Y1: 0, X2: 100, Y2: 0}}}
	assert.Nil(t, synthesizeTablePatterns(info, cfg))
}

func TestSynthesizeTablePatternsBuildsPatternFromGrid(t *testing.T) {
	cfg := model.DefaultConfig()
	info := model.GraphicsInfo{
		Horizontal: []model.LineSegment{
			{X1: 0, Y1: 0, X2: 100, Y2: 0},
			{X1: 0, Y1: 60, X2: 100, Y2: 60},
		},
		Vertical: []model.LineSegment{
			{X1: 0, Y1: 0, X2: 0, Y2: 60},
			{X1: 100, Y1: 0, X2: 100, Y2: 60},
		},
	}
	patterns := synthesizeTablePatterns(info, cfg)
	assert.Len(t, patterns, 1)
	assert.Equal(t, 1, patterns[0].Rows)
	assert.Equal(t, 1, patterns[0].Columns)
}

func TestIsRegularSpacingUniformGaps(t *testing.T) {
	segs := []model.LineSegment{
		{X1: 0, Y1: 0}, {X1: 10, Y1: 0}, {X1: 20, Y1: 0},
	}
	assert.True(t, isRegularSpacing(segs))
}

func TestIsRegularSpacingIrregularGaps(t *testing.T) {
	segs := []model.LineSegment{
		{X1: 0, Y1: 0}, {X1: 1, Y1: 0}, {X1: 50, Y1: 0},
	}
	assert.False(t, isRegularSpacing(segs))
}

func TestClassifyBorderTypeNoBorder(t *testing.T) {
	assert.Equal(t, model.BorderNone, classifyBorderType(nil, nil, nil))
}

func TestClassifyBorderTypeGridLines(t *testing.T) {
	border := []model.LineSegment{{X1: 0, Y1: 0, X2: 10, Y2: 0}}
	internalH := []model.LineSegment{{X1: 0, Y1: 5, X2: 10, Y2: 5}}
	internalV := []model.LineSegment{{X1: 5, Y1: 0, X2: 5, Y2: 10}}
	assert.Equal(t, model.BorderGridLines, classifyBorderType(border, internalH, internalV))
}
