package change

import (
	"errors"
	"testing"
)

func TestValidateReplaceText(t *testing.T) {
	raw := Raw{
		ChangeID:    "CHG-001",
		Operation:   "REPLACE_TEXT",
		Description: "Заменить название департамента",
		Target:      RawTarget{Text: "ДРМ"},
		Payload:     RawPayload{NewText: "ДКР"},
	}

	op, err := Validate(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != ReplaceText {
		t.Errorf("expected kind %s, got %s", ReplaceText, op.Kind)
	}
	if op.Target != "ДРМ" || op.Replacement != "ДКР" {
		t.Errorf("unexpected target/replacement: %q / %q", op.Target, op.Replacement)
	}
	if op.Scope != ScopeLocal {
		t.Errorf("expected local scope, got %s", op.Scope)
	}
	if !op.MatchCase {
		t.Error("expected match case to default to true")
	}
}

func TestValidateDefaultsID(t *testing.T) {
	raw := Raw{
		Operation: "REPLACE_TEXT",
		Target:    RawTarget{Text: "old"},
		Payload:   RawPayload{NewText: "new"},
	}

	op, err := Validate(raw, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.ID != "CHG-005" {
		t.Errorf("expected generated id CHG-005, got %q", op.ID)
	}
}

func TestValidateGlobalScope(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want Scope
	}{
		{
			name: "replace_all flag",
			raw: Raw{
				Operation: "REPLACE_TEXT",
				Target:    RawTarget{Text: "old", ReplaceAll: true},
				Payload:   RawPayload{NewText: "new"},
			},
			want: ScopeGlobal,
		},
		{
			name: "russian document-wide phrasing",
			raw: Raw{
				Operation:   "REPLACE_TEXT",
				Description: "Заменить ДРМ на ДКР по всему тексту",
				Target:      RawTarget{Text: "ДРМ"},
				Payload:     RawPayload{NewText: "ДКР"},
			},
			want: ScopeGlobal,
		},
		{
			name: "english document-wide phrasing",
			raw: Raw{
				Operation:   "REPLACE_TEXT",
				Description: "Rename the product throughout the document",
				Target:      RawTarget{Text: "old"},
				Payload:     RawPayload{NewText: "new"},
			},
			want: ScopeGlobal,
		},
		{
			name: "plain local edit",
			raw: Raw{
				Operation:   "REPLACE_TEXT",
				Description: "Уточнить формулировку в разделе 3",
				Target:      RawTarget{Text: "old"},
				Payload:     RawPayload{NewText: "new"},
			},
			want: ScopeLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Validate(tt.raw, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if op.Scope != tt.want {
				t.Errorf("expected scope %s, got %s", tt.want, op.Scope)
			}
		})
	}
}

func TestValidateRepairsNumericReplaceTarget(t *testing.T) {
	raw := Raw{
		Operation: "REPLACE_TEXT",
		Target:    RawTarget{Text: "36."},
		Payload:   RawPayload{NewText: "Новый текст пункта."},
	}

	op, err := Validate(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != ReplacePointText {
		t.Fatalf("expected repair to %s, got %s", ReplacePointText, op.Kind)
	}
	if op.ItemNumber != "36" {
		t.Errorf("expected item number 36, got %q", op.ItemNumber)
	}
}

func TestValidateNumericDeleteTargetAllowed(t *testing.T) {
	raw := Raw{
		Operation: "DELETE_PARAGRAPH",
		Target:    RawTarget{Text: "5."},
	}

	op, err := Validate(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Target != "5." {
		t.Errorf("expected target preserved, got %q", op.Target)
	}
}

func TestValidateCommentOnItemNumberRejected(t *testing.T) {
	raw := Raw{
		Operation: "ADD_COMMENT",
		Target:    RawTarget{Text: "12."},
		Payload:   RawPayload{CommentText: "уточнить"},
	}

	_, err := Validate(raw, 0)
	if !errors.Is(err, ErrStructuralConflict) {
		t.Errorf("expected ErrStructuralConflict, got %v", err)
	}
}

func TestValidateUnsupportedKind(t *testing.T) {
	_, err := Validate(Raw{Operation: "MERGE_CELLS"}, 0)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{"no kind", Raw{}},
		{"replace without target", Raw{Operation: "REPLACE_TEXT", Payload: RawPayload{NewText: "x"}}},
		{"replace without payload", Raw{Operation: "REPLACE_TEXT", Target: RawTarget{Text: "x"}}},
		{"insert without anchor", Raw{Operation: "INSERT_PARAGRAPH", Payload: RawPayload{Text: "x"}}},
		{"section without heading", Raw{Operation: "INSERT_SECTION", Target: RawTarget{AfterText: "x"}}},
		{"table without rows", Raw{Operation: "INSERT_TABLE", Target: RawTarget{AfterText: "x"}}},
		{"comment without text", Raw{Operation: "ADD_COMMENT", Target: RawTarget{Text: "anchor text"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw, 0)
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			if !errors.Is(err, ErrMalformed) && !errors.Is(err, ErrUnsupported) {
				t.Errorf("unexpected error class: %v", err)
			}
		})
	}
}

func TestValidateSectionDefaultsHeadingLevel(t *testing.T) {
	raw := Raw{
		Operation: "INSERT_SECTION",
		Target:    RawTarget{AfterText: "после этого абзаца"},
		Payload:   RawPayload{HeadingText: "Новый раздел", Paragraphs: []string{"тело"}},
	}

	op, err := Validate(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.HeadingLevel != 2 {
		t.Errorf("expected default heading level 2, got %d", op.HeadingLevel)
	}
}

func TestIsItemNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"36", true},
		{"36.", true},
		{"36)", true},
		{"5.2", true},
		{"5.2.1.", true},
		{"36а", false},
		{"пункт 36", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsItemNumber(tt.in); got != tt.want {
			t.Errorf("IsItemNumber(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
