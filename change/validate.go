package change

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMalformed marks operations missing required fields the validator
	// cannot derive.
	ErrMalformed = errors.New("change: malformed operation")
	// ErrUnsupported marks operation kinds the engine does not implement.
	ErrUnsupported = errors.New("change: unsupported operation")
	// ErrStructuralConflict marks targets that collide with structural item
	// numbers in a disallowed way.
	ErrStructuralConflict = errors.New("change: target conflicts with item numbering")
)

// itemNumberRe matches bare structural numbers such as "5", "36.", "5.2"
// or "36)".
var itemNumberRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?$`)

// globalPhrases are description fragments producers use to mean "replace
// everywhere in the document".
var globalPhrases = []string{
	"по всему тексту",
	"во всем тексте",
	"во всём тексте",
	"по всему документу",
	"везде",
	"throughout",
	"everywhere",
}

// IsItemNumber reports whether s is only a structural item number, such as
// "36", "36." or "5.2".
func IsItemNumber(s string) bool {
	return itemNumberRe.MatchString(strings.TrimSpace(s))
}

// Validate turns one raw producer operation into a typed Operation. seq is
// the position of the operation in its list and seeds the default id.
func Validate(raw Raw, seq int) (Operation, error) {
	op := Operation{
		ID:          strings.TrimSpace(raw.ChangeID),
		Kind:        Kind(strings.ToUpper(strings.TrimSpace(raw.Operation))),
		Description: strings.TrimSpace(raw.Description),
		MatchCase:   true,
		Annotate:    true,
	}
	if op.ID == "" {
		op.ID = fmt.Sprintf("CHG-%03d", seq+1)
	}
	if raw.Target.MatchCase != nil {
		op.MatchCase = *raw.Target.MatchCase
	}
	if raw.Annotation != nil {
		op.Annotate = *raw.Annotation
	}

	if op.Kind == "" {
		return op, fmt.Errorf("%w: %s has no operation kind", ErrMalformed, op.ID)
	}
	if !op.Kind.Known() {
		return op, fmt.Errorf("%w: %s kind %q", ErrUnsupported, op.ID, raw.Operation)
	}

	if raw.Target.ReplaceAll || describesGlobal(op.Description) {
		op.Scope = ScopeGlobal
	}

	switch op.Kind {
	case ReplaceText:
		op.Target = raw.Target.Text
		op.Replacement = firstNonEmpty(raw.Payload.NewText, raw.Payload.Text)
		if op.Target == "" {
			return op, fmt.Errorf("%w: %s has no target text", ErrMalformed, op.ID)
		}
		if op.Replacement == "" {
			return op, fmt.Errorf("%w: %s has no replacement text", ErrMalformed, op.ID)
		}
		// A bare item number is never a legitimate text-replacement target.
		// Producers emit this when they mean "rewrite item N"; repair it.
		if IsItemNumber(op.Target) {
			op.Kind = ReplacePointText
			op.ItemNumber = strings.TrimRight(strings.TrimSpace(op.Target), ".)")
			op.Target = ""
			op.Scope = ScopeLocal
		}

	case ReplacePointText:
		op.ItemNumber = firstNonEmpty(raw.Target.ItemNumber, raw.Target.Text)
		op.ItemNumber = strings.TrimRight(strings.TrimSpace(op.ItemNumber), ".)")
		op.Replacement = firstNonEmpty(raw.Payload.NewText, raw.Payload.Text)
		if op.ItemNumber == "" {
			return op, fmt.Errorf("%w: %s has no item number", ErrMalformed, op.ID)
		}
		if op.Replacement == "" {
			return op, fmt.Errorf("%w: %s has no replacement text", ErrMalformed, op.ID)
		}
		op.Scope = ScopeLocal

	case DeleteParagraph:
		// A bare number is legitimate here: it names the item or section to
		// remove in full.
		op.Target = firstNonEmpty(raw.Target.Text, raw.Target.ItemNumber)
		if op.Target == "" {
			return op, fmt.Errorf("%w: %s has no target text", ErrMalformed, op.ID)
		}
		op.Scope = ScopeLocal

	case InsertParagraph:
		op.Anchor = raw.Target.AfterText
		op.Style = raw.Payload.Style
		text := firstNonEmpty(raw.Payload.Text, raw.Payload.NewText)
		if op.Anchor == "" {
			return op, fmt.Errorf("%w: %s has no anchor", ErrMalformed, op.ID)
		}
		if text == "" {
			return op, fmt.Errorf("%w: %s has no paragraph text", ErrMalformed, op.ID)
		}
		op.Body = []string{text}
		op.Scope = ScopeLocal

	case InsertSection:
		op.Anchor = raw.Target.AfterText
		op.Heading = firstNonEmpty(raw.Payload.HeadingText, raw.Payload.Text)
		op.HeadingLevel = raw.Payload.HeadingLevel
		op.Body = raw.Payload.Paragraphs
		if op.Anchor == "" {
			return op, fmt.Errorf("%w: %s has no anchor", ErrMalformed, op.ID)
		}
		if op.Heading == "" {
			return op, fmt.Errorf("%w: %s has no heading text", ErrMalformed, op.ID)
		}
		if op.HeadingLevel < 1 || op.HeadingLevel > 9 {
			op.HeadingLevel = 2
		}
		op.Scope = ScopeLocal

	case InsertTable:
		op.Anchor = raw.Target.AfterText
		op.TableRows = raw.Payload.Rows
		if op.Anchor == "" {
			return op, fmt.Errorf("%w: %s has no anchor", ErrMalformed, op.ID)
		}
		if len(op.TableRows) == 0 {
			return op, fmt.Errorf("%w: %s has no table rows", ErrMalformed, op.ID)
		}
		op.Scope = ScopeLocal

	case AddComment:
		op.Anchor = firstNonEmpty(raw.Target.Text, raw.Target.AfterText)
		op.Note = raw.Payload.CommentText
		if op.Anchor == "" {
			return op, fmt.Errorf("%w: %s has no anchor", ErrMalformed, op.ID)
		}
		if op.Note == "" {
			return op, fmt.Errorf("%w: %s has no comment text", ErrMalformed, op.ID)
		}
		// A comment must anchor on real text, not on an item number alone.
		if IsItemNumber(op.Anchor) {
			return op, fmt.Errorf("%w: %s anchors a comment on item number %q",
				ErrStructuralConflict, op.ID, op.Anchor)
		}
		op.Scope = ScopeLocal
	}

	return op, nil
}

// ValidateAll validates every raw operation, returning the typed operations
// that passed and one error per operation that did not. Positions are kept
// aligned: errs[i] is non-nil exactly when raws[i] failed.
func ValidateAll(raws []Raw) ([]Operation, []error) {
	ops := make([]Operation, len(raws))
	errs := make([]error, len(raws))
	for i, raw := range raws {
		ops[i], errs[i] = Validate(raw, i)
	}
	return ops, errs
}

func describesGlobal(description string) bool {
	d := strings.ToLower(description)
	for _, phrase := range globalPhrases {
		if strings.Contains(d, phrase) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
