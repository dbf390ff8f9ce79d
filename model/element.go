/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

// ElementType is the closed set of classifications a line (or consolidated
// run of lines) can receive (spec.md §3).
type ElementType int

const (
	Empty ElementType = iota
	Header
	Paragraph
	ListItem
	TableRow
	CodeBlock
	QuoteBlock
	HorizontalLine
)

// String implements fmt.Stringer for debug logging.
func (t ElementType) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Header:
		return "Header"
	case Paragraph:
		return "Paragraph"
	case ListItem:
		return "ListItem"
	case TableRow:
		return "TableRow"
	case CodeBlock:
		return "CodeBlock"
	case QuoteBlock:
		return "QuoteBlock"
	case HorizontalLine:
		return "HorizontalLine"
	default:
		return "Unknown"
	}
}

// FontFormatting is the bold/italic pair derived from a word's font name.
type FontFormatting struct {
	Bold   bool
	Italic bool
}

// FontAnalysis is the per-document (per-page) font-size distribution used
// to classify lines (spec.md §3, §4.2).
type FontAnalysis struct {
	BaseFontSize          float64
	LargeFontThreshold    float64
	AllFontSizesAscending []float64
}

// DocumentElement is a classified line, or a later-consolidated run of
// lines, produced by LineAnalyzer and refined by PostProcessor (spec.md
// §3). Words is non-empty iff Type != Empty. LeftMargin is min(word.Left)
// and FontSize is mean(word.Height()); IsIndented iff LeftMargin > the
// configured indent threshold.
type DocumentElement struct {
	Type       ElementType
	Content    string
	FontSize   float64
	LeftMargin float64
	IsIndented bool
	Words      []Word

	// HeadingLevel is set when Type == Header (1-6), derived from the
	// font-size rank of the originating line (spec.md §8 invariant 2).
	HeadingLevel int

	// TablePattern, when Type == TableRow, is the graphics-derived pattern
	// whose bounds contain the element (set by PostProcessor pass 3); pass 4
	// uses its internal vertical rules to split the row into cells.
	TablePattern *TablePattern
}

// Bbox returns the union bounding box of the element's words, satisfying
// the `bounded` contract used throughout the package's geometry helpers.
func (e *DocumentElement) Bbox() Rectangle {
	if len(e.Words) == 0 {
		return Rectangle{}
	}
	box := e.Words[0].Box
	for _, w := range e.Words[1:] {
		box = box.Union(w.Box)
	}
	return box
}

// DocumentStructure is the ordered element sequence for one page plus the
// FontAnalysis used to classify it (spec.md §3).
type DocumentStructure struct {
	Elements []*DocumentElement
	Fonts    FontAnalysis
}
