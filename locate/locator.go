package locate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/text/cases"

	"github.com/docforge/redline/model"
)

// Locator finds candidate locations for a target text. The zero value is not
// usable; construct with NewLocator and tune the exported fields before the
// first call if needed.
type Locator struct {
	// KeywordLimit is how many significant target tokens keyword mode uses.
	KeywordLimit int

	// MinKeywordLen is the minimum rune length of a significant token.
	MinKeywordLen int

	dmp    *diffmatchpatch.DiffMatchPatch
	folder cases.Caser
}

// NewLocator creates a Locator with default settings.
func NewLocator() *Locator {
	return &Locator{
		KeywordLimit:  5,
		MinKeywordLen: 3,
		dmp:           diffmatchpatch.New(),
		folder:        cases.Fold(),
	}
}

// Locate scans the whole document for target under the given mode. For
// ModeNumberedItem the target is interpreted as a structural item number.
// Candidates are returned in document order.
func (l *Locator) Locate(doc *model.Document, target string, mode Mode) []Candidate {
	return l.LocateIn(doc, target, mode, 0, len(doc.Blocks))
}

// LocateIn is Locate restricted to the half-open block range [from, to).
func (l *Locator) LocateIn(doc *model.Document, target string, mode Mode, from, to int) []Candidate {
	if from < 0 {
		from = 0
	}
	if to > len(doc.Blocks) {
		to = len(doc.Blocks)
	}

	if mode == ModeNumberedItem {
		return l.locateNumbered(doc, target, from, to)
	}

	var out []Candidate
	for i := from; i < to; i++ {
		switch b := doc.Blocks[i].(type) {
		case *model.Paragraph:
			for _, c := range l.scanText(b.Text(), target, mode) {
				c.BlockIndex, c.Row, c.Col = i, -1, -1
				out = append(out, c)
			}
		case *model.Table:
			for r, row := range b.Rows {
				for col, cell := range row.Cells {
					for _, c := range l.scanText(cell.Text(), target, mode) {
						c.BlockIndex, c.Row, c.Col = i, r, col
						out = append(out, c)
					}
				}
			}
		}
	}
	return out
}

// scanText finds every non-overlapping match of target in text under mode.
// Returned candidates carry only span, matched text and confidence.
func (l *Locator) scanText(text, target string, mode Mode) []Candidate {
	target = strings.TrimSpace(target)
	if text == "" || target == "" {
		return nil
	}

	switch mode {
	case ModeExact:
		var out []Candidate
		from := 0
		for {
			i := strings.Index(text[from:], target)
			if i < 0 {
				return out
			}
			start := from + i
			end := start + len(target)
			out = append(out, Candidate{
				Start: start, End: end,
				Matched:    text[start:end],
				Confidence: ModeExact.Confidence(),
			})
			from = end
		}

	case ModeNormalized, ModeFold:
		fold := mode == ModeFold
		var out []Candidate
		for _, span := range matchFlexible(text, target, fold) {
			out = append(out, Candidate{
				Start: span[0], End: span[1],
				Matched:    text[span[0]:span[1]],
				Confidence: mode.Confidence(),
			})
		}
		return out

	case ModeKeywords:
		start, end, ok := l.keywordSpan(text, target)
		if !ok {
			return nil
		}
		matched := text[start:end]
		return []Candidate{{
			Start: start, End: end,
			Matched:    matched,
			Confidence: ModeKeywords.Confidence() * l.similarity(target, matched),
		}}
	}
	return nil
}

// locateNumbered resolves blocks and table rows whose leading text carries
// the structural number, probing the "N." and "N)" variants. The candidate
// span excludes the number token itself.
func (l *Locator) locateNumbered(doc *model.Document, number string, from, to int) []Candidate {
	number = strings.TrimRight(strings.TrimSpace(number), ".)")
	if number == "" {
		return nil
	}
	variants := []string{number + ".", number + ")"}

	var out []Candidate
	for i := from; i < to; i++ {
		switch b := doc.Blocks[i].(type) {
		case *model.Paragraph:
			text := b.Text()
			for _, v := range variants {
				rest, ok := afterPrefixToken(text, v)
				if !ok {
					continue
				}
				start := len(text) - len(rest)
				out = append(out, Candidate{
					BlockIndex: i, Row: -1, Col: -1,
					Start: start, End: len(text),
					Matched:    rest,
					Confidence: ModeNumberedItem.Confidence(),
				})
				break
			}
		case *model.Table:
			for r, row := range b.Rows {
				if len(row.Cells) == 0 {
					continue
				}
				first := strings.TrimSpace(row.Cells[0].Text())
				if first != number && first != variants[0] && first != variants[1] {
					continue
				}
				// The number occupies its own cell; the item content is the
				// rest of the row.
				col := 0
				if len(row.Cells) > 1 {
					col = 1
				}
				cellText := row.Cells[col].Text()
				out = append(out, Candidate{
					BlockIndex: i, Row: r, Col: col,
					Start: 0, End: len(cellText),
					Matched:    cellText,
					Confidence: ModeNumberedItem.Confidence(),
				})
			}
		}
	}
	return out
}

// afterPrefixToken reports whether text begins with prefix followed by
// whitespace or end of text, returning the remainder with leading
// whitespace trimmed.
func afterPrefixToken(text, prefix string) (string, bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest == "" {
		return "", true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(r) {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

// keywordSpan finds the smallest span of text that contains the target's
// first significant tokens in order.
func (l *Locator) keywordSpan(text, target string) (int, int, bool) {
	tokens := l.significantTokens(target)
	if len(tokens) == 0 {
		return 0, 0, false
	}
	if len(tokens) > l.KeywordLimit {
		tokens = tokens[:l.KeywordLimit]
	}

	start := -1
	pos := 0
	for _, tok := range tokens {
		i, n := foldIndex(text[pos:], tok)
		if i < 0 {
			return 0, 0, false
		}
		if start < 0 {
			start = pos + i
		}
		pos = pos + i + n
	}
	return start, pos, true
}

// significantTokens splits s on non-letter/digit runes and keeps tokens of
// at least MinKeywordLen runes that are not stopwords. Tokens are returned
// in their original form; comparisons fold case separately.
func (l *Locator) significantTokens(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) < l.MinKeywordLen {
			continue
		}
		if _, stop := stopwords[l.folder.String(f)]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// similarity returns a 0..1 score for how close two strings are, based on
// the Levenshtein distance of their diff.
func (l *Locator) similarity(a, b string) float64 {
	fa, fb := l.folder.String(a), l.folder.String(b)
	if fa == fb {
		return 1
	}
	diffs := l.dmp.DiffMain(fa, fb, false)
	lev := l.dmp.DiffLevenshtein(diffs)
	max := utf8.RuneCountInString(fa)
	if n := utf8.RuneCountInString(fb); n > max {
		max = n
	}
	if max == 0 {
		return 0
	}
	sim := 1 - float64(lev)/float64(max)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// stopwords are connective words ignored by keyword matching.
var stopwords = map[string]struct{}{
	"или": {}, "для": {}, "при": {}, "как": {}, "что": {}, "это": {},
	"его": {}, "также": {}, "был": {}, "быть": {}, "под": {}, "над": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "are": {}, "was": {}, "has": {}, "have": {},
}

// matchFlexible finds non-overlapping spans of text matching target with any
// whitespace run treated as a single separator. fold adds case-insensitive
// rune comparison.
func matchFlexible(text, target string, fold bool) [][2]int {
	var spans [][2]int
	i := 0
	for i < len(text) {
		if n := flexPrefix(text[i:], target, fold); n > 0 {
			spans = append(spans, [2]int{i, i + n})
			i += n
			continue
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return spans
}

// flexPrefix returns the byte length of a whitespace-flexible match of
// target at the start of text, or -1 when text does not begin with one.
func flexPrefix(text, target string, fold bool) int {
	ti, gi := 0, 0
	for gi < len(target) {
		gr, gw := utf8.DecodeRuneInString(target[gi:])
		if unicode.IsSpace(gr) {
			for gi < len(target) {
				r, w := utf8.DecodeRuneInString(target[gi:])
				if !unicode.IsSpace(r) {
					break
				}
				gi += w
			}
			if ti >= len(text) {
				return -1
			}
			r, _ := utf8.DecodeRuneInString(text[ti:])
			if !unicode.IsSpace(r) {
				return -1
			}
			for ti < len(text) {
				r, w := utf8.DecodeRuneInString(text[ti:])
				if !unicode.IsSpace(r) {
					break
				}
				ti += w
			}
			continue
		}
		if ti >= len(text) {
			return -1
		}
		tr, tw := utf8.DecodeRuneInString(text[ti:])
		if !runeEq(tr, gr, fold) {
			return -1
		}
		ti += tw
		gi += gw
	}
	return ti
}

func runeEq(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	if !fold {
		return false
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}

// foldIndex finds the first case-insensitive occurrence of token in text,
// returning its byte offset and matched byte length, or (-1, 0).
func foldIndex(text, token string) (int, int) {
	i := 0
	for i < len(text) {
		if n := flexPrefix(text[i:], token, true); n > 0 {
			return i, n
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return -1, 0
}
