// Package docxstore loads and persists documents in the DOCX (Office Open
// XML) format.
//
// [Store] implements the patch engine's document store port over a zip
// container with WordprocessingML parts. Loading preserves run structure and
// formatting, resolves heading levels from paragraph styles, and normalizes
// text to NFC. Saving writes a complete minimal package: document body,
// style definitions for every style the document references, content types
// and relationships.
package docxstore
