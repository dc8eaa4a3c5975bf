package tables

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docforge/redline/model"
)

func TestInferRolesFromHeader(t *testing.T) {
	rows := [][]string{
		{"Аббревиатура", "Расшифровка"},
		{"ДРМ", "Департамент рыночных рисков"},
	}

	roles := NewRoleDetector().InferRoles(rows)
	want := []ColumnRole{RoleKey, RoleDescription}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("role mismatch (-want +got):\n%s", diff)
	}
}

func TestInferRolesByVote(t *testing.T) {
	rows := [][]string{
		{"ДРМ", "Департамент рыночных рисков", "12"},
		{"ДКО", "Департамент кредитных операций", "7"},
		{"УВА", "Управление внутреннего аудита", "3"},
	}

	roles := NewRoleDetector().InferRoles(rows)
	want := []ColumnRole{RoleKey, RoleDescription, RoleNumber}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("role mismatch (-want +got):\n%s", diff)
	}
}

func TestInferRolesTwoColumnDefault(t *testing.T) {
	roles := NewRoleDetector().InferRoles([][]string{{"", ""}})
	want := []ColumnRole{RoleKey, RoleDescription}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("role mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributeKeyDescription(t *testing.T) {
	roles := []ColumnRole{RoleKey, RoleDescription}

	got := Distribute("ДКР Департамент кредитных рисков", roles)
	want := map[int]string{
		0: "ДКР",
		1: "Департамент кредитных рисков",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributeMidpointWhenFirstTokenIsNotKey(t *testing.T) {
	roles := []ColumnRole{RoleKey, RoleDescription}

	got := Distribute("длинное наименование подразделения банка", roles)
	want := map[int]string{
		0: "длинное наименование",
		1: "подразделения банка",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributeProportional(t *testing.T) {
	roles := []ColumnRole{RoleDescription, RoleDescription, RoleDescription}

	got := Distribute("один два три четыре пять шесть семь", roles)
	want := map[int]string{
		0: "один два",
		1: "три четыре",
		2: "пять шесть семь",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestDistributeSingleColumn(t *testing.T) {
	got := Distribute("весь текст в одну ячейку", []ColumnRole{RoleDescription})
	if got[0] != "весь текст в одну ячейку" {
		t.Errorf("expected whole text in column 0, got %q", got[0])
	}
}

func TestApplyMapping(t *testing.T) {
	tbl := model.NewTable([][]string{
		{"ДРМ", "Департамент рыночных рисков"},
	})
	// The key cell carries formatting that must survive the rewrite.
	tbl.Cell(0, 0).Paragraphs[0].Runs[0].Format.Bold = true

	ApplyMapping(tbl.Rows[0], map[int]string{
		0: "ДКР",
		1: "Департамент кредитных рисков",
	})

	if got := tbl.Cell(0, 0).Text(); got != "ДКР" {
		t.Errorf("expected %q in column 0, got %q", "ДКР", got)
	}
	if got := tbl.Cell(0, 1).Text(); got != "Департамент кредитных рисков" {
		t.Errorf("expected new description, got %q", got)
	}
	if !tbl.Cell(0, 0).Paragraphs[0].Runs[0].Format.Bold {
		t.Error("expected first run formatting to survive")
	}
}

func TestApplyMappingIgnoresOutOfRangeColumns(t *testing.T) {
	tbl := model.NewTable([][]string{{"a"}})
	ApplyMapping(tbl.Rows[0], map[int]string{0: "b", 5: "ignored"})
	if got := tbl.Cell(0, 0).Text(); got != "b" {
		t.Errorf("expected %q, got %q", "b", got)
	}
}

func TestColumnRoleString(t *testing.T) {
	tests := []struct {
		role ColumnRole
		want string
	}{
		{RoleKey, "key"},
		{RoleDescription, "description"},
		{RoleNumber, "number"},
		{RoleUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
