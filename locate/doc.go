// Package locate resolves a target text string to candidate locations in a
// document.
//
// The [Locator] supports five match modes of decreasing strictness: exact,
// whitespace-normalized, case-insensitive, keyword-subset and numbered-item.
// Each candidate records the block (and row/column for table hits), the byte
// span of the match in the block's text, and a confidence score reflecting
// the mode that produced it.
//
// When a locally-scoped operation yields several candidates, [Locator.Disambiguate]
// scores them against the operation's description using keyword overlap with
// the surrounding blocks, preferring structurally cued and earlier positions.
package locate
