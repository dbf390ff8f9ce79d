/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pdfmd/pdfmd/common"
	"github.com/pdfmd/pdfmd/model"
)

// line is a set of words sharing a baseline within tolerance, the output
// unit of groupIntoLines (spec.md §4.1, glossary "Line").
type line struct {
	words []model.Word
}

func (l *line) bbox() model.Rectangle {
	if len(l.words) == 0 {
		return model.Rectangle{}
	}
	box := l.words[0].Box
	for _, w := range l.words[1:] {
		box = box.Union(w.Box)
	}
	return box
}

func (l *line) meanBottom() float64 {
	var sum float64
	for _, w := range l.words {
		sum += w.Box.Bottom
	}
	return sum / float64(len(l.words))
}

func (l *line) meanHeight() float64 {
	hs := make([]float64, len(l.words))
	for i, w := range l.words {
		hs[i] = w.Height()
	}
	return mean(hs)
}

// wordGroup is a run of words merged in-line into a single reading unit by
// mergeWordsInLine (spec.md §4.1). It carries the shared formatting of its
// member words once they have all been confirmed mergeable.
type wordGroup struct {
	words []model.Word
	fmt   model.FontFormatting
}

func (g *wordGroup) bbox() model.Rectangle {
	box := g.words[0].Box
	for _, w := range g.words[1:] {
		box = box.Union(w.Box)
	}
	return box
}

func (g *wordGroup) text() string {
	parts := make([]string, len(g.words))
	for i, w := range g.words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// groupIntoLines clusters words into lines by baseline proximity (spec.md
// §4.1). Words are expected sorted by descending Bottom, ascending Left,
// but groupIntoLines re-sorts its output regardless of input order so
// callers need not pre-sort.
func groupIntoLines(words []model.Word, yThreshold float64) []*line {
	sorted := append([]model.Word(nil), words...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Box.Bottom != sorted[j].Box.Bottom {
			return sorted[i].Box.Bottom > sorted[j].Box.Bottom
		}
		return sorted[i].Box.Left < sorted[j].Box.Left
	})

	var lines []*line
	for _, w := range sorted {
		best := -1
		bestDist := math.Inf(1)
		for i, ln := range lines {
			overlap := overlapFractionY(ln.bbox(), w.Box)
			lineHeight := ln.meanHeight()
			dyn := math.Max(yThreshold, math.Min(lineHeight, w.Height())*0.5)
			dist := math.Abs(ln.meanBottom() - w.Box.Bottom)
			if overlap > 0.4 || dist <= dyn {
				if dist < bestDist {
					best = i
					bestDist = dist
				}
			}
		}
		if best == -1 {
			lines = append(lines, &line{words: []model.Word{w}})
		} else {
			lines[best].words = append(lines[best].words, w)
		}
	}

	for _, ln := range lines {
		sort.Slice(ln.words, func(i, j int) bool { return ln.words[i].Box.Left < ln.words[j].Box.Left })
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].meanBottom() > lines[j].meanBottom() })

	common.Log.Trace("groupIntoLines: %d words -> %d lines", len(words), len(lines))
	return lines
}

var fontFamilyPrefixLen = 6

// mergeable reports whether consecutive words a (already in the group) and
// b should extend the same reading-direction run (spec.md §4.1
// mergeWordsInLine): comparable height, shared font-family prefix,
// bounded baseline drift, and a horizontal gap within half the mean word
// width.
func mergeable(a, b model.Word, gap float64) bool {
	ha, hb := a.Height(), b.Height()
	if ha <= 0 || hb <= 0 {
		return false
	}
	if math.Abs(ha-hb)/math.Max(ha, hb) > 0.05 {
		return false
	}
	maxH := math.Max(ha, hb)
	if math.Abs(a.Box.Bottom-b.Box.Bottom) > 0.15*maxH {
		return false
	}
	if !sameFontFamily(a.FontName, b.FontName) {
		return false
	}
	meanWidth := (a.Box.Width() + b.Box.Width()) / 2
	if meanWidth <= 0 {
		return gap <= 0
	}
	return gap <= 0.5*meanWidth
}

func sameFontFamily(a, b string) bool {
	pa, pb := cleanFontName(a), cleanFontName(b)
	n := fontFamilyPrefixLen
	if len(pa) < n {
		n = len(pa)
	}
	if len(pb) < n {
		n = len(pb)
	}
	if n == 0 {
		return pa == pb
	}
	return strings.EqualFold(pa[:n], pb[:n])
}

var subsetTagRe = regexp.MustCompile(`^[A-Z]{6}\+`)

// cleanFontName strips a leading PostScript subset tag (e.g. "ABCDEF+Arial"
// -> "Arial"), the precondition spec.md §3/§4.2 require before any font-name
// heuristic matching.
func cleanFontName(name string) string {
	return subsetTagRe.ReplaceAllString(name, "")
}

// mergeWordsInLine walks a line's words left-to-right, extending the
// current run while the horizontal gap and font/baseline agreement satisfy
// the mergeable test (spec.md §4.1). Conservative by design: merging across
// a column boundary corrupts every downstream table.
func mergeWordsInLine(ln *line, xThreshold float64) []*wordGroup {
	if len(ln.words) == 0 {
		return nil
	}
	var groups []*wordGroup
	cur := &wordGroup{words: []model.Word{ln.words[0]}}
	for _, w := range ln.words[1:] {
		prev := cur.words[len(cur.words)-1]
		gap := w.Box.Left - prev.Box.Right
		minHeight := math.Min(prev.Height(), w.Height())
		threshold := minHeight * 0.3
		if threshold < xThreshold {
			threshold = xThreshold
		}
		if gap < 0 || (gap <= threshold && mergeable(prev, w, gap)) {
			cur.words = append(cur.words, w)
			continue
		}
		groups = append(groups, cur)
		cur = &wordGroup{words: []model.Word{w}}
	}
	groups = append(groups, cur)
	return groups
}
