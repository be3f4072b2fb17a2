// Package evaluator assigns heuristic quality labels to generated titles.
// The labels are non-probabilistic tags derived from word counts only;
// they exist so API consumers can sort or filter results without
// understanding the model.
package evaluator

import "strings"

// Status labels describe the title itself.
const (
    StatusShort     = "short"     // fewer than 3 words
    StatusOptimal   = "optimal"   // 3 to 8 words
    StatusVerbose   = "verbose"   // more than 8 words
    StatusTruncated = "truncated" // title ends in an ellipsis-like sequence
)

// Confidence labels describe how much source material the model had.
const (
    ConfidenceLow    = "low"    // paragraph under 10 words
    ConfidenceMedium = "medium" // 10 to 49 words
    ConfidenceHigh   = "high"   // 50 words or more
)

// Evaluate returns (status, confidence) for a generated title given its
// source paragraph.  It is a pure function: no side effects, total over
// any input strings.
//
// Status follows the title word count; confidence follows the paragraph
// word count.  A title that trails off in an ellipsis overrides both:
// status becomes "truncated" and confidence is forced to "medium".  The
// override is applied last on purpose — reordering it changes the
// observable status of any ellipsis-ending title.
func Evaluate(title, paragraph string) (status, confidence string) {
    switch words := CountWords(title); {
    case words < 3:
        status = StatusShort
    case words <= 8:
        status = StatusOptimal
    default:
        status = StatusVerbose
    }

    switch words := CountWords(paragraph); {
    case words < 10:
        confidence = ConfidenceLow
    case words < 50:
        confidence = ConfidenceMedium
    default:
        confidence = ConfidenceHigh
    }

    if endsTruncated(title) {
        status = StatusTruncated
        confidence = ConfidenceMedium
    }
    return status, confidence
}

// CountWords reports the number of whitespace-separated words in s.
func CountWords(s string) int {
    return len(strings.Fields(s))
}

// CountChars reports the length of s in bytes, matching the
// character_count column the original API exposed.
func CountChars(s string) int {
    return len(s)
}

// endsTruncated reports whether the title ends in an ellipsis-like
// sequence: the single-rune ellipsis or two or more trailing dots.
func endsTruncated(title string) bool {
    return strings.HasSuffix(title, "…") || strings.HasSuffix(title, "..")
}
