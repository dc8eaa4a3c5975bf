package locate

import (
	"testing"

	"github.com/docforge/redline/model"
)

func makeDoc(paragraphs ...string) *model.Document {
	d := model.NewDocument()
	for _, p := range paragraphs {
		d.Append(model.NewParagraph(p))
	}
	return d
}

func TestLocateExact(t *testing.T) {
	doc := makeDoc(
		"текущая версия API v1.2 описана ниже",
		"другой абзац",
	)

	cands := NewLocator().Locate(doc, "версия API v1.2", ModeExact)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.BlockIndex != 0 {
		t.Errorf("expected block 0, got %d", c.BlockIndex)
	}
	if c.Matched != "версия API v1.2" {
		t.Errorf("expected match %q, got %q", "версия API v1.2", c.Matched)
	}
	if c.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", c.Confidence)
	}
	if c.InTable() {
		t.Error("paragraph match reported as table hit")
	}
}

func TestLocateExactAllOccurrences(t *testing.T) {
	doc := makeDoc("ДРМ утвердил. Затем ДРМ отклонил.", "ДРМ согласовал.")

	cands := NewLocator().Locate(doc, "ДРМ", ModeExact)
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	if cands[2].BlockIndex != 1 {
		t.Errorf("expected last candidate in block 1, got %d", cands[2].BlockIndex)
	}
}

func TestLocateNormalizedWhitespace(t *testing.T) {
	doc := makeDoc("версия  API\tv1.2 описана")

	l := NewLocator()
	if got := l.Locate(doc, "версия API v1.2", ModeExact); len(got) != 0 {
		t.Fatalf("exact mode should not match across differing whitespace, got %d", len(got))
	}

	cands := l.Locate(doc, "версия API v1.2", ModeNormalized)
	if len(cands) != 1 {
		t.Fatalf("expected 1 normalized candidate, got %d", len(cands))
	}
	if cands[0].Matched != "версия  API\tv1.2" {
		t.Errorf("expected original span preserved, got %q", cands[0].Matched)
	}
	if cands[0].Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", cands[0].Confidence)
	}
}

func TestLocateFoldCase(t *testing.T) {
	doc := makeDoc("ДЕПАРТАМЕНТ Рыночных Рисков")

	l := NewLocator()
	if got := l.Locate(doc, "департамент рыночных рисков", ModeNormalized); len(got) != 0 {
		t.Fatalf("normalized mode should be case-sensitive, got %d", len(got))
	}

	cands := l.Locate(doc, "департамент рыночных рисков", ModeFold)
	if len(cands) != 1 {
		t.Fatalf("expected 1 fold candidate, got %d", len(cands))
	}
	if cands[0].Matched != "ДЕПАРТАМЕНТ Рыночных Рисков" {
		t.Errorf("expected original casing in span, got %q", cands[0].Matched)
	}
}

func TestLocateKeywords(t *testing.T) {
	doc := makeDoc(
		"Порядок согласования изменений утверждается правлением банка ежегодно",
		"абзац без общих слов",
	)

	cands := NewLocator().Locate(doc, "порядок согласования изменений правлением", ModeKeywords)
	if len(cands) != 1 {
		t.Fatalf("expected 1 keyword candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.BlockIndex != 0 {
		t.Errorf("expected block 0, got %d", c.BlockIndex)
	}
	if c.Confidence <= 0 || c.Confidence > 0.7 {
		t.Errorf("expected keyword confidence in (0, 0.7], got %v", c.Confidence)
	}
	if c.Matched == "" {
		t.Error("expected a non-empty matched span")
	}
}

func TestLocateNumberedItemVariants(t *testing.T) {
	doc := makeDoc(
		"35. Предыдущий пункт.",
		"36) Банк уведомляет клиента в течение трех дней.",
		"37. Следующий пункт.",
	)

	cands := NewLocator().Locate(doc, "36", ModeNumberedItem)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.BlockIndex != 1 {
		t.Errorf("expected block 1, got %d", c.BlockIndex)
	}
	if c.Matched != "Банк уведомляет клиента в течение трех дней." {
		t.Errorf("expected span to exclude the item number, got %q", c.Matched)
	}
}

func TestLocateNumberedItemNoFalsePrefix(t *testing.T) {
	doc := makeDoc("360. Другой пункт совсем.")

	cands := NewLocator().Locate(doc, "36", ModeNumberedItem)
	if len(cands) != 0 {
		t.Errorf("expected no candidates for prefix collision, got %d", len(cands))
	}
}

func TestLocateInTableCells(t *testing.T) {
	doc := model.NewDocument()
	doc.Append(
		model.NewParagraph("Сокращения приведены ниже."),
		model.NewTable([][]string{
			{"ДРМ", "Департамент рыночных рисков"},
			{"ДКО", "Департамент кредитных операций"},
		}),
	)

	cands := NewLocator().Locate(doc, "ДРМ", ModeExact)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	if !c.InTable() {
		t.Fatal("expected a table hit")
	}
	if c.BlockIndex != 1 || c.Row != 0 || c.Col != 0 {
		t.Errorf("expected (1, 0, 0), got (%d, %d, %d)", c.BlockIndex, c.Row, c.Col)
	}
}

func TestLocateInRange(t *testing.T) {
	doc := makeDoc("цель", "цель", "цель")

	cands := NewLocator().LocateIn(doc, "цель", ModeExact, 1, 2)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].BlockIndex != 1 {
		t.Errorf("expected block 1, got %d", cands[0].BlockIndex)
	}
}

func TestDisambiguateByDescription(t *testing.T) {
	// Scenario: the phrase appears in three paragraphs; the description
	// shares keywords with the context of only one.
	doc := makeDoc(
		"Процентная ставка устанавливается договором.",
		"Прочие условия.",
		"Комиссия банка определяется тарифами.",
		"Процентная ставка пересматривается ежеквартально по решению правления.",
		"Иные положения.",
		"Процентная ставка фиксируется на весь срок.",
	)

	l := NewLocator()
	cands := l.Locate(doc, "Процентная ставка", ModeExact)
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}

	chosen, ok := l.Disambiguate(doc, cands, "Изменить условия по тарифам банка")
	if !ok {
		t.Fatal("expected disambiguation to pick a candidate")
	}
	if chosen.BlockIndex != 3 {
		t.Errorf("expected block 3, got %d", chosen.BlockIndex)
	}
}

func TestDisambiguateTiePrefersFirst(t *testing.T) {
	doc := makeDoc("ставка один", "ставка два")

	l := NewLocator()
	cands := l.Locate(doc, "ставка", ModeExact)
	chosen, ok := l.Disambiguate(doc, cands, "изменить величину показателя")
	if !ok {
		t.Fatal("expected a candidate despite zero keyword overlap")
	}
	if chosen.BlockIndex != 0 {
		t.Errorf("expected first occurrence on tie, got block %d", chosen.BlockIndex)
	}
}

func TestDisambiguateEmptyDescription(t *testing.T) {
	doc := makeDoc("ставка один", "ставка два")

	l := NewLocator()
	cands := l.Locate(doc, "ставка", ModeExact)
	if _, ok := l.Disambiguate(doc, cands, ""); ok {
		t.Error("expected ambiguity when nothing distinguishes the candidates")
	}
}

func TestDisambiguateStructuralCue(t *testing.T) {
	doc := makeDoc(
		"в тексте упоминается срок действия",
		"12. срок действия устанавливается договором",
	)

	l := NewLocator()
	cands := l.Locate(doc, "срок действия", ModeExact)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	// Keywords hit both contexts equally; the numbered item wins on the
	// structural bonus.
	chosen, ok := l.Disambiguate(doc, cands, "уточнить срок действия")
	if !ok {
		t.Fatal("expected a candidate")
	}
	if chosen.BlockIndex != 1 {
		t.Errorf("expected the numbered item, got block %d", chosen.BlockIndex)
	}
}

func TestFindTableRowPasses(t *testing.T) {
	doc := model.NewDocument()
	doc.Append(
		model.NewParagraph("текст до таблицы"),
		model.NewTable([][]string{
			{"Аббревиатура", "Расшифровка"},
			{"ДРМ", "Департамент рыночных рисков"},
			{"ДКО (упразднен)", "Департамент кредитных операций"},
		}),
	)

	l := NewLocator()

	hit, ok := l.FindTableRow(doc, "ДРМ")
	if !ok || hit.Row != 1 || hit.Pass != 1 {
		t.Errorf("expected exact first-column hit in row 1, got %+v ok=%v", hit, ok)
	}

	hit, ok = l.FindTableRow(doc, "ДКО")
	if !ok || hit.Row != 2 || hit.Pass != 2 {
		t.Errorf("expected word-boundary hit in row 2, got %+v ok=%v", hit, ok)
	}

	hit, ok = l.FindTableRow(doc, "кредитных операций")
	if !ok || hit.Row != 2 || hit.Col != 1 || hit.Pass != 3 {
		t.Errorf("expected substring hit in row 2 col 1, got %+v ok=%v", hit, ok)
	}

	if _, ok = l.FindTableRow(doc, "отсутствует"); ok {
		t.Error("expected no hit for absent text")
	}
}
