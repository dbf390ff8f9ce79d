/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

// Config holds the tunable geometric and heuristic thresholds the
// inference pipeline uses. Implementations are expected to expose these as
// configuration rather than hardcoding them, but ship with the defaults
// below (spec.md §9 Design Notes, and the per-component threshold
// constants scattered through §4). Grounded on the teacher's
// extractor/text_const.go tuning-constant block, which does the same for
// its own geometry thresholds.
type Config struct {
	// IndentThreshold is the left-margin, in PDF points, above which a
	// line is considered indented (spec.md §3: IsIndented <=> LeftMargin
	// > 50).
	IndentThreshold float64

	// CodeBlockIndentThreshold is the left-margin above which a deeply
	// indented line with code-like punctuation is treated as CodeBlock
	// (spec.md §4.4 isCodeBlockLike: "> 80 pt").
	CodeBlockIndentThreshold float64

	// HeaderLeftMarginThreshold bounds the left margin for the secondary
	// header heuristic that combines a modest font-size ratio with a
	// left-aligned position (spec.md §4.6 pass 1: "ratio >= 1.2 ... combined
	// with left-margin <= 120pt").
	HeaderLeftMarginThreshold float64

	// LargeGapThreshold is the inter-word gap, in points, that signals a
	// column boundary when inferring vertical rules from word positions
	// (spec.md §4.5: "> 20 pt"). isTableRowLike and the coordinate-only
	// cluster count in PostProcessor use a fixed 20pt gap and do not read
	// this field.
	LargeGapThreshold float64

	// YLineThreshold is the base vertical tolerance used when grouping
	// words into lines (spec.md §4.1 groupIntoLines yThreshold parameter).
	YLineThreshold float64

	// XMergeThreshold is the base horizontal tolerance used when merging
	// words within a line into runs (spec.md §4.1 mergeWordsInLine
	// xThreshold parameter).
	XMergeThreshold float64

	// RowYBucketTolerance is the y-tolerance used to bucket words into
	// rows when inferring table structure from word positions alone
	// (spec.md §4.5: "5-pt tolerance").
	RowYBucketTolerance float64

	// MinTableCandidateWidth / MinTableCandidateHeight bound the candidate
	// table rectangle spanned by the page's rule segments; both extents
	// must exceed them (spec.md §4.5: "ΔX > 50 and ΔY > 20").
	MinTableCandidateWidth  float64
	MinTableCandidateHeight float64

	// TablePatternMinConfidence is the confidence floor for promoting
	// enclosed elements to TableRow absent independent coordinate-only
	// agreement (spec.md §9 Open Question 3).
	TablePatternMinConfidence float64

	// MaxTableRowElementDistance bounds how far (in points, vertically) a
	// candidate TableRow-like paragraph may sit from an existing TableRow
	// before it is disqualified from contextual reclassification (spec.md
	// §4.6 pass 1: "vertical distance < 200 pt").
	MaxTableRowElementDistance float64

	// HeaderShortLengthThreshold is the content-length ceiling under which
	// the strict font-ratio-2.0 header test applies (spec.md §4.6 pass 1).
	HeaderShortLengthThreshold int

	// HeaderMediumLengthThreshold is the content-length ceiling for the
	// looser font-ratio-1.2-plus-left-margin header test (spec.md §4.6
	// pass 1).
	HeaderMediumLengthThreshold int

	// InlineHeaderMaxLength bounds header length for absorption into a
	// following table as its first line (spec.md §4.6 pass 5: "<= 50").
	InlineHeaderMaxLength int
}

// DefaultConfig returns the threshold defaults spec.md ships with, tuned
// for A4/Letter pages at roughly 12pt base font size (spec.md §9).
func DefaultConfig() *Config {
	return &Config{
		IndentThreshold:             50,
		CodeBlockIndentThreshold:    80,
		HeaderLeftMarginThreshold:   120,
		LargeGapThreshold:           20,
		YLineThreshold:              3,
		XMergeThreshold:             2,
		RowYBucketTolerance:         5,
		MinTableCandidateWidth:      50,
		MinTableCandidateHeight:     20,
		TablePatternMinConfidence:   0.5,
		MaxTableRowElementDistance:  200,
		HeaderShortLengthThreshold:  30,
		HeaderMediumLengthThreshold: 50,
		InlineHeaderMaxLength:       50,
	}
}
