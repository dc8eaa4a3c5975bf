package tables

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docforge/redline/model"
)

// keyTokenMaxRunes is the longest first token still routed to a key column
// on length alone.
const keyTokenMaxRunes = 5

// Distribute splits replacement text across table columns according to their
// roles. For a two-column key/description table the first token goes to the
// key column when it looks like a key (short or upper case) and the rest to
// the description column; otherwise the text is split at its midpoint. For
// other shapes words are split proportionally with the last column absorbing
// the remainder.
func Distribute(text string, roles []ColumnRole) map[int]string {
	text = strings.TrimSpace(text)
	if len(roles) == 0 || text == "" {
		return map[int]string{}
	}
	if len(roles) == 1 {
		return map[int]string{0: text}
	}

	words := strings.Fields(text)

	if len(roles) == 2 && roles[0] == RoleKey && roles[1] == RoleDescription {
		first := words[0]
		if utf8.RuneCountInString(first) <= keyTokenMaxRunes || isUpperToken(first) {
			return map[int]string{
				0: first,
				1: strings.Join(words[1:], " "),
			}
		}
		mid := len(words) / 2
		return map[int]string{
			0: strings.Join(words[:mid], " "),
			1: strings.Join(words[mid:], " "),
		}
	}

	// Proportional split over N columns, last column absorbs the remainder.
	cols := len(roles)
	per := len(words) / cols
	if per == 0 {
		per = 1
	}
	out := make(map[int]string, cols)
	pos := 0
	for col := 0; col < cols; col++ {
		if pos >= len(words) {
			out[col] = ""
			continue
		}
		end := pos + per
		if col == cols-1 || end > len(words) {
			end = len(words)
		}
		out[col] = strings.Join(words[pos:end], " ")
		pos = end
	}
	return out
}

// ApplyMapping writes each mapped column's text into its cell. The cell
// keeps only its first paragraph and the formatting of that paragraph's
// first run. Columns outside the row are ignored.
func ApplyMapping(row *model.Row, mapping map[int]string) {
	for col, text := range mapping {
		if col < 0 || col >= len(row.Cells) {
			continue
		}
		row.Cells[col].SetText(text)
	}
}

// isUpperToken reports whether every letter of s is upper case.
func isUpperToken(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return letters > 0
}
