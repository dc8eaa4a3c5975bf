package change

// Raw mirrors the JSON shape emitted by instruction producers. Field presence
// is not guaranteed; Validate is responsible for defaults and repairs.
type Raw struct {
	ChangeID    string     `json:"change_id" yaml:"change_id"`
	Operation   string     `json:"operation" yaml:"operation"`
	Description string     `json:"description" yaml:"description"`
	Target      RawTarget  `json:"target" yaml:"target"`
	Payload     RawPayload `json:"payload" yaml:"payload"`
	Annotation  *bool      `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// RawTarget locates what the operation acts on.
type RawTarget struct {
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
	AfterText  string `json:"after_text,omitempty" yaml:"after_text,omitempty"`
	ItemNumber string `json:"item_number,omitempty" yaml:"item_number,omitempty"`
	MatchCase  *bool  `json:"match_case,omitempty" yaml:"match_case,omitempty"`
	ReplaceAll bool   `json:"replace_all,omitempty" yaml:"replace_all,omitempty"`
}

// RawPayload carries the operation's new content.
type RawPayload struct {
	NewText      string     `json:"new_text,omitempty" yaml:"new_text,omitempty"`
	Text         string     `json:"text,omitempty" yaml:"text,omitempty"`
	Style        string     `json:"style,omitempty" yaml:"style,omitempty"`
	HeadingText  string     `json:"heading_text,omitempty" yaml:"heading_text,omitempty"`
	HeadingLevel int        `json:"heading_level,omitempty" yaml:"heading_level,omitempty"`
	Paragraphs   []string   `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	Rows         [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
	CommentText  string     `json:"comment_text,omitempty" yaml:"comment_text,omitempty"`
}
