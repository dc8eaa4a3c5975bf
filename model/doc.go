// Package model provides the in-memory representation of a word-processing
// document as mutated by a patch session.
//
// A [Document] is an ordered sequence of [Block] values, where each block is
// either a [Paragraph] or a [Table]. Paragraph text lives in [Run] spans, each
// run carrying one formatting set. Tables contain rows of cells, and each cell
// owns one or more paragraphs of its own.
//
// # Ownership
//
// A Document is owned exclusively by the patch session that loaded it. It is
// mutated in place and persisted once; no component outside the session may
// retain a pointer into it, and block indices obtained before a structural
// mutation (block insertion or removal) must be re-resolved by content, never
// reused.
//
// # Text coordinates
//
// All span offsets (for example the arguments to [Paragraph.ReplaceRange]) are
// byte offsets into the paragraph's concatenated run text. Offsets produced by
// the locate package are always aligned to rune boundaries.
package model
