package change

// Kind identifies the type of a change operation. The string values match
// the operation names used by instruction producers.
type Kind string

const (
	ReplaceText      Kind = "REPLACE_TEXT"
	ReplacePointText Kind = "REPLACE_POINT_TEXT"
	DeleteParagraph  Kind = "DELETE_PARAGRAPH"
	InsertParagraph  Kind = "INSERT_PARAGRAPH"
	InsertSection    Kind = "INSERT_SECTION"
	InsertTable      Kind = "INSERT_TABLE"
	AddComment       Kind = "ADD_COMMENT"
)

// Known reports whether k is a supported operation kind.
func (k Kind) Known() bool {
	switch k {
	case ReplaceText, ReplacePointText, DeleteParagraph,
		InsertParagraph, InsertSection, InsertTable, AddComment:
		return true
	}
	return false
}

// Scope says whether an operation targets every occurrence in the document
// or one contextually anchored occurrence.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeGlobal
)

// String returns a human-readable name for the scope.
func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// Operation is one validated change. Which fields are meaningful depends on
// Kind:
//
//   - ReplaceText: Target, Replacement, Scope, MatchCase.
//   - ReplacePointText: ItemNumber, Replacement.
//   - DeleteParagraph: Target (paragraph text or heading number).
//   - InsertParagraph: Anchor, Body (one entry), Style.
//   - InsertSection: Anchor, Heading, HeadingLevel, Body.
//   - InsertTable: Anchor, TableRows.
//   - AddComment: Anchor, Note.
type Operation struct {
	ID          string
	Kind        Kind
	Description string
	Scope       Scope

	Target      string
	Replacement string
	MatchCase   bool

	ItemNumber string

	Anchor       string
	Style        string
	Heading      string
	HeadingLevel int
	Body         []string
	TableRows    [][]string
	Note         string

	// Annotate controls whether the audit tracker records this operation.
	Annotate bool
}
