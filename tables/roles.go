package tables

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ColumnRole is the inferred semantic purpose of a table column.
type ColumnRole int

const (
	RoleUnknown ColumnRole = iota
	// RoleKey holds short identifier-like tokens (abbreviations, codes).
	RoleKey
	// RoleDescription holds long multi-word text.
	RoleDescription
	// RoleNumber holds numeric values.
	RoleNumber
)

// String returns a human-readable name for the role.
func (r ColumnRole) String() string {
	switch r {
	case RoleKey:
		return "key"
	case RoleDescription:
		return "description"
	case RoleNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Header keywords mapping a column caption to a role.
var headerRoles = []struct {
	keyword string
	role    ColumnRole
}{
	{"аббревиатура", RoleKey},
	{"сокращение", RoleKey},
	{"обозначение", RoleKey},
	{"код", RoleKey},
	{"abbreviation", RoleKey},
	{"term", RoleKey},
	{"описание", RoleDescription},
	{"расшифровка", RoleDescription},
	{"наименование", RoleDescription},
	{"значение", RoleDescription},
	{"description", RoleDescription},
	{"name", RoleDescription},
	{"definition", RoleDescription},
	{"количество", RoleNumber},
	{"номер", RoleNumber},
	{"number", RoleNumber},
	{"count", RoleNumber},
	{"№", RoleNumber},
}

// RoleDetector classifies table columns. Construct with NewRoleDetector and
// adjust the exported fields before the first call if needed.
type RoleDetector struct {
	// SampleRows is how many data rows vote on a column's role.
	SampleRows int

	// KeyMaxRunes is the longest single token still considered key-like.
	KeyMaxRunes int
}

// NewRoleDetector creates a detector with default settings.
func NewRoleDetector() *RoleDetector {
	return &RoleDetector{
		SampleRows:  5,
		KeyMaxRunes: 6,
	}
}

// InferRoles classifies every column of the given rows. The first row is
// consulted for header keywords; remaining rows vote by cell shape. Columns
// that stay undecided in a two-column table default to key + description,
// matching the dominant layout of abbreviation tables.
func (d *RoleDetector) InferRoles(rows [][]string) []ColumnRole {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return nil
	}

	roles := make([]ColumnRole, width)

	dataStart := 0
	if len(rows) > 1 && d.headerRow(rows[0], roles) {
		dataStart = 1
	}

	for col := 0; col < width; col++ {
		if roles[col] != RoleUnknown {
			continue
		}
		roles[col] = d.voteColumn(rows[dataStart:], col)
	}

	// Abbreviation tables are overwhelmingly key/description pairs.
	if width == 2 {
		if roles[0] == RoleUnknown {
			roles[0] = RoleKey
		}
		if roles[1] == RoleUnknown {
			roles[1] = RoleDescription
		}
	}

	return roles
}

// headerRow assigns roles from header captions, reporting whether any
// keyword matched.
func (d *RoleDetector) headerRow(header []string, roles []ColumnRole) bool {
	matched := false
	for col, cell := range header {
		lower := strings.ToLower(cell)
		for _, h := range headerRoles {
			if strings.Contains(lower, h.keyword) {
				roles[col] = h.role
				matched = true
				break
			}
		}
	}
	return matched
}

// voteColumn classifies one column by majority over sampled cells.
func (d *RoleDetector) voteColumn(rows [][]string, col int) ColumnRole {
	votes := map[ColumnRole]int{}
	sampled := 0
	for _, row := range rows {
		if sampled >= d.SampleRows {
			break
		}
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		votes[d.classifyCell(cell)]++
		sampled++
	}

	best, bestN := RoleUnknown, 0
	for _, role := range []ColumnRole{RoleKey, RoleDescription, RoleNumber} {
		if votes[role] > bestN {
			best, bestN = role, votes[role]
		}
	}
	return best
}

// classifyCell decides the role a single cell value suggests.
func (d *RoleDetector) classifyCell(cell string) ColumnRole {
	if isNumeric(cell) {
		return RoleNumber
	}
	fields := strings.Fields(cell)
	if len(fields) == 1 {
		tok := fields[0]
		if utf8.RuneCountInString(tok) <= d.KeyMaxRunes || isMostlyUpper(tok) {
			return RoleKey
		}
	}
	if len(fields) >= 2 {
		return RoleDescription
	}
	return RoleDescription
}

// isNumeric reports whether s consists of digits and numeric punctuation.
func isNumeric(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == ',' || r == '%' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return hasDigit
}

// isMostlyUpper reports whether most letters in s are upper case.
func isMostlyUpper(s string) bool {
	upper, letters := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters > 0 && upper*2 > letters
}
