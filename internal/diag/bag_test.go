package diag

import (
	"testing"

	"lumen/internal/source"
)

func at(line, col uint32) source.Span {
	return source.Span{File: 1, Line: line, Col: col}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	for i := range 4 {
		ReportError(r, SemaTypeMismatch, at(uint32(i+1), 1), "boom").Emit()
	}
	if bag.Len() != 2 || bag.Dropped() != 2 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() || bag.Count(SevError) != 2 {
		t.Fatalf("error counting wrong")
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	for range 100 {
		bag.Add(Diagnostic{Severity: SevInfo})
	}
	if bag.Len() != 100 || bag.HasWarnings() {
		t.Fatalf("len=%d warnings=%v", bag.Len(), bag.HasWarnings())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(Diagnostic{Severity: SevWarning, Code: SemaShadowBinding, Primary: at(3, 1), Message: "w"})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaUnresolvedSymbol, Primary: at(1, 5), Message: "e"})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaDuplicateBinding, Primary: at(3, 1), Message: "d"})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaUnresolvedSymbol, Primary: at(1, 5), Message: "e"})

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("dedup kept %d items", bag.Len())
	}
	bag.Sort()
	got := []Code{}
	for _, d := range bag.Items() {
		got = append(got, d.Code)
	}
	want := []Code{SemaUnresolvedSymbol, SemaDuplicateBinding, SemaShadowBinding}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportWarning(BagReporter{Bag: bag}, SemaShadowBinding, at(1, 1), "shadow").
		WithNote(at(0, 0), "outer binding")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("builder emitted %d times", bag.Len())
	}
	if d := bag.Items()[0]; len(d.Notes) != 1 || d.Severity != SevWarning {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(at(1, 1), "x").Emit()
}

func TestCodeID(t *testing.T) {
	if got := SemaDuplicateBinding.ID(); got != "SEM3002" {
		t.Fatalf("ID = %q", got)
	}
	if got := InputMalformed.ID(); got != "INP2001" {
		t.Fatalf("ID = %q", got)
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Fatalf("Title fallback = %q", got)
	}
}

func TestSeverityText(t *testing.T) {
	for _, sev := range []Severity{SevInfo, SevWarning, SevError} {
		text, err := sev.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Severity
		if err := back.UnmarshalText(text); err != nil || back != sev {
			t.Fatalf("%s: got %v, %v", text, back, err)
		}
	}
	var s Severity
	if err := s.UnmarshalText([]byte("fatal")); err == nil {
		t.Fatal("expected an error for an unknown severity")
	}
}
