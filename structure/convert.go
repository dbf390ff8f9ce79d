/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package structure reconstructs a structured Markdown representation from
// a PDF rendered with no embedded logical structure: a flat sequence of
// positioned glyph runs ("words") with bounding boxes and font metadata.
// The package's only job is the document-structure inference pipeline
// (spec.md §1); it never reads PDF bytes itself.
package structure

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/pdfmd/pdfmd/common"
	"github.com/pdfmd/pdfmd/model"
)

// Convert runs the inference pipeline over pages in order and concatenates
// their Markdown output with a separating blank line (spec.md §5
// ordering guarantees, §6 output contract). A catastrophic failure on any
// one page is captured as a warning; prior pages' output is preserved.
func Convert(pages []model.PageInput, cfg *model.Config) model.ConvertResult {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	var texts []string
	var warnings []string
	for i, page := range pages {
		text, pageWarnings, err := convertPageSafely(page, cfg)
		warnings = append(warnings, pageWarnings...)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return model.ConvertResult{
		Text:     joinPages(texts),
		Warnings: warnings,
	}
}

// ConvertPages is the concurrent entry point: pages are independent and
// share no mutable state (FontAnalysis is computed per page), so they are
// processed by a small bounded worker pool instead of sequentially (spec.md
// §5: "pages are independent and may be parallelized across threads
// without shared mutable state"). ctx is consulted only between pages,
// never inside a single page's synchronous computation, matching spec.md
// §5's "no operation suspends or awaits" and "no cancellation protocol".
func ConvertPages(ctx context.Context, pages []model.PageInput, cfg *model.Config) model.ConvertResult {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	texts := make([]string, len(pages))
	warningSets := make([][]string, len(pages))

	const maxWorkers = 8
	workers := maxWorkers
	if workers > len(pages) {
		workers = len(pages)
	}
	if workers <= 0 {
		return model.ConvertResult{}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				text, pageWarnings, err := convertPageSafely(pages[i], cfg)
				if err != nil {
					pageWarnings = append(pageWarnings, fmt.Sprintf("page %d: %v", i, err))
					text = ""
				}
				texts[i] = text
				warningSets[i] = pageWarnings
			}
		}()
	}

feed:
	for i := range pages {
		if ctx.Err() != nil {
			break feed
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var nonEmpty []string
	var warnings []string
	for i := range pages {
		if texts[i] != "" {
			nonEmpty = append(nonEmpty, texts[i])
		}
		warnings = append(warnings, warningSets[i]...)
	}
	return model.ConvertResult{Text: joinPages(nonEmpty), Warnings: warnings}
}

func joinPages(texts []string) string {
	out := ""
	for i, t := range texts {
		if i > 0 {
			if len(out) > 0 && out[len(out)-1] == '\n' {
				out += "\n"
			} else {
				out += "\n\n"
			}
		}
		out += t
	}
	return out
}

// convertPageSafely wraps convertPage in a recover so a catastrophic panic
// on one page degrades to a warning rather than aborting the whole
// conversion (spec.md §7 ErrCatastrophicPage, §5 failure isolation).
func convertPageSafely(page model.PageInput, cfg *model.Config) (text string, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCatastrophicPage, r)
		}
	}()
	return convertPage(page, cfg)
}

// convertPage is the per-page pipeline: WordGrouper -> FontAnalyzer ->
// LineAnalyzer -> PostProcessor -> MarkdownGenerator -> TextPostProcessor
// (spec.md §2).
func convertPage(page model.PageInput, cfg *model.Config) (string, []string, error) {
	var warnings []string

	words, dropped := sanitizeWords(page.Words)
	warnings = append(warnings, dropped...)
	if len(words) == 0 {
		return "", warnings, nil
	}

	fonts := analyzeDistribution(words)
	lines := groupIntoLines(words, cfg.YLineThreshold)

	elements := make([]*model.DocumentElement, 0, len(lines))
	for _, ln := range lines {
		elements = append(elements, analyzeLine(ln, fonts, cfg, cfg.XMergeThreshold))
	}

	graphics, graphicsWarning := extractGraphicsSafely(page.Paths, words, cfg)
	if graphicsWarning != "" {
		warnings = append(warnings, graphicsWarning)
	}

	doc := &model.DocumentStructure{Elements: elements, Fonts: fonts}
	doc = postProcess(doc, graphics, cfg)
	text := generateMarkdown(doc.Elements)
	text = postProcessText(text)

	common.Log.Debug("convertPage: %d words, %d lines, %d elements", len(words), len(lines), len(doc.Elements))
	return text, warnings, nil
}

// sanitizeWords drops Words with a NaN/negative bounding box or empty text
// paired with a non-empty box, recording each as a warning instead of
// failing the page (spec.md §7 ErrMalformedInput).
func sanitizeWords(words []model.Word) ([]model.Word, []string) {
	var out []model.Word
	var warnings []string
	for i, w := range words {
		if malformed(w) {
			warnings = append(warnings, fmt.Sprintf("%v: word %d %q", ErrMalformedInput, i, w.Text))
			continue
		}
		out = append(out, w)
	}
	return out, warnings
}

func malformed(w model.Word) bool {
	b := w.Box
	if math.IsNaN(b.Left) || math.IsNaN(b.Right) || math.IsNaN(b.Bottom) || math.IsNaN(b.Top) {
		return true
	}
	if b.Right < b.Left || b.Top < b.Bottom {
		return true
	}
	nonEmptyBox := b.Width() > 0 || b.Height() > 0
	return w.Text == "" && nonEmptyBox
}

// extractGraphicsSafely degrades to the word-position fallback rather than
// aborting when graphics extraction panics (spec.md §5 "Table detection
// passes are additionally wrapped", §7 ErrGraphicsUnavailable).
func extractGraphicsSafely(paths []model.PathCommand, words []model.Word, cfg *model.Config) (info model.GraphicsInfo, warning string) {
	defer func() {
		if r := recover(); r != nil {
			warning = fmt.Sprintf("%v: %v", ErrGraphicsUnavailable, r)
			info = inferGraphicsFromWords(words, cfg)
			info.Tables = synthesizeTablePatterns(info, cfg)
		}
	}()
	return extractGraphics(paths, words, cfg), ""
}
