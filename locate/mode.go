package locate

// Mode selects the matching strategy used by the Locator. Modes are listed in
// the order the retry chain escalates through them.
type Mode int

const (
	// ModeExact matches the target byte-for-byte.
	ModeExact Mode = iota
	// ModeNormalized treats any whitespace run in target and text as one
	// separator.
	ModeNormalized
	// ModeFold adds Unicode case-insensitivity on top of normalized
	// whitespace.
	ModeFold
	// ModeKeywords requires only the target's first significant tokens to
	// appear, in order, within one block.
	ModeKeywords
	// ModeNumberedItem resolves the paragraph or table row whose leading
	// text carries a structural item number, then matches its remainder.
	ModeNumberedItem
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeNormalized:
		return "normalized"
	case ModeFold:
		return "fold"
	case ModeKeywords:
		return "keywords"
	case ModeNumberedItem:
		return "numbered-item"
	default:
		return "unknown"
	}
}

// Confidence returns the base confidence assigned to matches found in this
// mode. Keyword matches refine this with a textual similarity factor.
func (m Mode) Confidence() float64 {
	switch m {
	case ModeExact:
		return 1.0
	case ModeNormalized:
		return 0.9
	case ModeNumberedItem:
		return 0.85
	case ModeFold:
		return 0.8
	case ModeKeywords:
		return 0.7
	default:
		return 0
	}
}

// Candidate is one possible location for a target.
type Candidate struct {
	// BlockIndex is the position of the containing block in the document.
	BlockIndex int
	// Row and Col identify the table cell for matches inside tables, and
	// are -1 for paragraph matches.
	Row, Col int
	// Start and End delimit the matched byte span within the block's (or
	// cell's) concatenated text.
	Start, End int
	// Matched is the text the span covers.
	Matched string
	// Confidence reflects how strict the producing mode was.
	Confidence float64
}

// InTable reports whether the candidate points into a table cell.
func (c Candidate) InTable() bool { return c.Row >= 0 }
