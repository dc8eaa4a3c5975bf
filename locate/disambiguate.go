package locate

import (
	"strings"

	"github.com/docforge/redline/model"
)

// Disambiguate picks one candidate for a locally-scoped operation. Each
// candidate is scored by the overlap between the operation's description
// keywords and the text of the candidate's block plus its immediate
// neighbors, with a bonus for blocks that open a numbered item and a small
// bonus favoring earlier document positions. Ties keep the first occurrence.
//
// ok is false when there is no candidate, or when several candidates exist
// and the description carries no keywords to tell them apart.
func (l *Locator) Disambiguate(doc *model.Document, cands []Candidate, description string) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	if len(cands) == 1 {
		return cands[0], true
	}

	tokens := l.significantTokens(description)
	if len(tokens) == 0 {
		return cands[0], false
	}
	folded := make([]string, len(tokens))
	for i, t := range tokens {
		folded[i] = l.folder.String(t)
	}

	n := len(doc.Blocks)
	best := 0
	bestScore := -1.0
	for i, c := range cands {
		context := l.folder.String(contextText(doc, c.BlockIndex))

		overlap := 0
		for _, t := range folded {
			if strings.Contains(context, t) {
				overlap++
			}
		}

		score := float64(overlap) * 10
		if blockOpensItem(doc, c.BlockIndex) {
			score += 2
		}
		if n > 0 {
			score += float64(n-c.BlockIndex) / float64(n)
		}

		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return cands[best], true
}

// contextText joins the text of the block at index i with its immediate
// neighbors.
func contextText(doc *model.Document, i int) string {
	var parts []string
	for j := i - 1; j <= i+1; j++ {
		if j < 0 || j >= len(doc.Blocks) {
			continue
		}
		parts = append(parts, doc.Blocks[j].Text())
	}
	return strings.Join(parts, "\n")
}

// blockOpensItem reports whether the block's text starts with a structural
// item number token such as "5." or "12)".
func blockOpensItem(doc *model.Document, i int) bool {
	if i < 0 || i >= len(doc.Blocks) {
		return false
	}
	text := strings.TrimSpace(doc.Blocks[i].Text())
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	if !strings.HasSuffix(first, ".") && !strings.HasSuffix(first, ")") {
		return false
	}
	digits := strings.TrimRight(first, ".)")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
