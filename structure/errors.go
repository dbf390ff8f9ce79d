/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package structure

import "golang.org/x/xerrors"

// Sentinel errors for the taxonomy in spec.md §7. None of these escape the
// package's exported API: ErrMalformedInput, ErrGraphicsUnavailable and
// ErrCatastrophicPage become warning strings on
// model.ConvertResult.Warnings; ErrPatternAmbiguous and
// ErrEncodingCorruption are only logged.
var (
	// ErrMalformedInput is raised for a Word with a NaN/negative bounding
	// box or an empty text with a non-empty box.
	ErrMalformedInput = xerrors.New("structure: malformed input word")

	// ErrGraphicsUnavailable is raised when vector-path extraction panics;
	// recovered by falling back to word-position-derived rules. A page
	// with no paths uses the same fallback without raising it.
	ErrGraphicsUnavailable = xerrors.New("structure: graphics unavailable")

	// ErrPatternAmbiguous is logged when TableProcessor's modal column
	// count is nearly tied between two candidates (modalColumnCount);
	// recovered by resolving toward the larger count, never fatal.
	ErrPatternAmbiguous = xerrors.New("structure: ambiguous classification pattern")

	// ErrEncodingCorruption is logged when control or replacement
	// characters are found embedded in text (stripControlCharacters);
	// always stripped silently, never surfaced as a ConvertResult
	// warning on its own.
	ErrEncodingCorruption = xerrors.New("structure: encoding corruption")

	// ErrCatastrophicPage marks an uncaught panic recovered at the page
	// boundary; the page contributes no output, subsequent pages still
	// run.
	ErrCatastrophicPage = xerrors.New("structure: catastrophic page failure")
)
